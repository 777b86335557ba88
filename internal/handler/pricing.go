package handler

import (
	"errors"
	"net/http"

	"costbook/internal/apierror"
	"costbook/internal/dto"
	"costbook/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PricingHandler serves the cost envelope read view and the two write
// entry points: manual refresh and the override pair.
type PricingHandler struct {
	pricing service.PricingService
}

func NewPricingHandler(pricing service.PricingService) *PricingHandler {
	return &PricingHandler{pricing: pricing}
}

// GetPricing returns the part's cached cost envelope. A record is created
// lazily on first read; it starts empty until a recompute runs.
func (h *PricingHandler) GetPricing(c *gin.Context) {
	partID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.pricing.GetPricing(c.Request.Context(), partID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, apierror.New("part not found"))
		return
	}
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh schedules an asynchronous recompute for the part.
func (h *PricingHandler) Refresh(c *gin.Context) {
	partID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	err := h.pricing.ScheduleRecalc(c.Request.Context(), partID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, apierror.New("part not found"))
		return
	}
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"scheduled": true})
}

// SetOverride pins or clears the manual override pair.
func (h *PricingHandler) SetOverride(c *gin.Context) {
	partID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.SetOverrideRequest
	if !bindAndValidate(c, &req) {
		return
	}

	err := h.pricing.SetOverride(c.Request.Context(), partID, req.OverrideMin, req.OverrideMax)
	switch {
	case errors.Is(err, service.ErrOverrideBounds):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, apierror.New("part not found"))
	case err != nil:
		c.Error(err)
	default:
		c.JSON(http.StatusAccepted, gin.H{"scheduled": true})
	}
}
