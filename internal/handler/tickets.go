package handler

import (
	"net/http"

	"barpos/internal/apierror"
	"barpos/internal/dto"
	"barpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TicketsHandler struct{ svc service.TicketService }

func NewTicketsHandler(svc service.TicketService) *TicketsHandler {
	return &TicketsHandler{svc: svc}
}

// ListBySale godoc
// @Summary      Tickets of a sale
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        sale_id path string true "Sale UUID"
// @Success      200 {array} dto.TicketDetailResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/tickets/sale/{sale_id} [get]
func (h *TicketsHandler) ListBySale(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("sale_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid sale_id"))
		return
	}
	resp, err := h.svc.ListBySale(c.Request.Context(), saleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list tickets"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListPendingByBarrel godoc
// @Summary      Pending tickets of a barrel
// @Description  Returns unredeemed tickets backed by a barrel — the outstanding pours it still owes.
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        barrel_id path string true "Barrel UUID"
// @Success      200 {array} dto.TicketDetailResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/tickets/barrel/{barrel_id}/pending [get]
func (h *TicketsHandler) ListPendingByBarrel(c *gin.Context) {
	barrelID, err := uuid.Parse(c.Param("barrel_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid barrel_id"))
		return
	}
	resp, err := h.svc.ListPendingByBarrel(c.Request.Context(), barrelID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list tickets"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Redeem godoc
// @Summary      Redeem a ticket
// @Description  Flips a voucher PENDING → REDEEMED by QR code. Idempotent failure: a second scan of the same code is rejected.
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RedeemTicketRequest true "QR code"
// @Success      200  {object} dto.TicketDetailResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/tickets/redeem [post]
func (h *TicketsHandler) Redeem(c *gin.Context) {
	var req dto.RedeemTicketRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Redeem(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
