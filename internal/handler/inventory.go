package handler

import (
	"net/http"

	"barpos/internal/apierror"
	"barpos/internal/dto"
	"barpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventoryHandler struct{ svc service.InventoryService }

func NewInventoryHandler(svc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// List godoc
// @Summary      List inventory
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.InventoryResponse
// @Router       /v1/inventory [get]
func (h *InventoryHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list inventory"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SetQuantity godoc
// @Summary      Set stock quantity
// @Description  Replaces the absolute stock count of a UNIT product. Fractional products are rejected — adjust their barrel instead.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        product_id path string                 true "Product UUID"
// @Param        body       body dto.SetQuantityRequest true "New quantity"
// @Success      200 {object} dto.InventoryResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/inventory/{product_id} [put]
func (h *InventoryHandler) SetQuantity(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid product_id"))
		return
	}
	var req dto.SetQuantityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SetQuantity(c.Request.Context(), productID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Alerts godoc
// @Summary      Low stock alerts
// @Description  Returns UNIT products at or below their minimum quantity.
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.StockAlertResponse
// @Router       /v1/inventory/alerts [get]
func (h *InventoryHandler) Alerts(c *gin.Context) {
	resp, err := h.svc.Alerts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list alerts"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
