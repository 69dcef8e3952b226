package handler

import (
	"net/http"

	"barpos/internal/apierror"
	"barpos/internal/dto"
	"barpos/internal/middleware"
	"barpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BarrelsHandler struct{ svc service.BarrelService }

func NewBarrelsHandler(svc service.BarrelService) *BarrelsHandler {
	return &BarrelsHandler{svc: svc}
}

// Create godoc
// @Summary      Register a barrel
// @Description  Registers a keg at full volume in ACTIVE status and records the opening movement.
// @Tags         barrels
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateBarrelRequest true "Barrel data"
// @Success      201  {object} dto.BarrelResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/barrels [post]
func (h *BarrelsHandler) Create(c *gin.Context) {
	var req dto.CreateBarrelRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get godoc
// @Summary      Get barrel
// @Tags         barrels
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Barrel UUID"
// @Success      200 {object} dto.BarrelResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/barrels/{id} [get]
func (h *BarrelsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("barrel not found"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      List barrels
// @Tags         barrels
// @Produce      json
// @Security     BearerAuth
// @Param        all query bool false "Include CLOSED barrels"
// @Success      200 {array} dto.BarrelResponse
// @Router       /v1/barrels [get]
func (h *BarrelsHandler) List(c *gin.Context) {
	includeAll := c.Query("all") == "true"
	resp, err := h.svc.List(c.Request.Context(), includeAll)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list barrels"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateStatus godoc
// @Summary      Update barrel status
// @Description  Moves a barrel through its lifecycle. CLOSED is terminal and records the residual volume.
// @Tags         barrels
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                        true "Barrel UUID"
// @Param        body body dto.UpdateBarrelStatusRequest true "Target status"
// @Success      200  {object} dto.BarrelResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/barrels/{id}/status [patch]
func (h *BarrelsHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.UpdateBarrelStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateStatus(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AdjustVolume godoc
// @Summary      Adjust barrel volume
// @Description  Applies a manual volume correction (spillage, foam loss, recount) and records an ADJUSTMENT movement.
// @Tags         barrels
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                        true "Barrel UUID"
// @Param        body body dto.AdjustBarrelVolumeRequest true "Delta and reason"
// @Success      200  {object} dto.BarrelResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/barrels/{id}/volume [patch]
func (h *BarrelsHandler) AdjustVolume(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.AdjustBarrelVolumeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AdjustVolume(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListMovements godoc
// @Summary      Barrel movement history
// @Tags         barrels
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Barrel UUID"
// @Success      200 {array} dto.BarrelMovementResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/barrels/{id}/movements [get]
func (h *BarrelsHandler) ListMovements(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.ListMovements(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list movements"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
