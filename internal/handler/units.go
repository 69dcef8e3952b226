package handler

import (
	"net/http"

	"barpos/internal/apierror"
	"barpos/internal/dto"
	"barpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UnitsHandler struct{ svc service.UnitService }

func NewUnitsHandler(svc service.UnitService) *UnitsHandler { return &UnitsHandler{svc: svc} }

// Create godoc
// @Summary      Create measure unit
// @Tags         units
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateUnitRequest true "Unit data"
// @Success      201  {object} dto.UnitResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/units [post]
func (h *UnitsHandler) Create(c *gin.Context) {
	var req dto.CreateUnitRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List measure units
// @Tags         units
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.UnitResponse
// @Router       /v1/units [get]
func (h *UnitsHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list units"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Delete measure unit
// @Tags         units
// @Security     BearerAuth
// @Param        id path string true "Unit UUID"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Router       /v1/units/{id} [delete]
func (h *UnitsHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
