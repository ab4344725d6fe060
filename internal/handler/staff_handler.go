package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yated-center/yated-crm-api/internal/dto"
	"github.com/yated-center/yated-crm-api/internal/service"
	appErrors "github.com/yated-center/yated-crm-api/pkg/errors"
	"github.com/yated-center/yated-crm-api/pkg/response"
)

// StaffHandler exposes the staff roster and rollover endpoints.
type StaffHandler struct {
	service *service.StaffService
}

// NewStaffHandler constructs a staff handler.
func NewStaffHandler(svc *service.StaffService) *StaffHandler {
	return &StaffHandler{service: svc}
}

// View returns the roster prepared for editing.
func (h *StaffHandler) View(c *gin.Context) {
	view, err := h.service.View(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// Save overwrites the roster with an edited copy.
func (h *StaffHandler) Save(c *gin.Context) {
	var req dto.SaveTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.service.Save(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// RolloverStatus reports whether the yearly archive is due.
func (h *StaffHandler) RolloverStatus(c *gin.Context) {
	status, err := h.service.RolloverStatus(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status)
}

// Rollover archives the roster and resets it for the new year.
func (h *StaffHandler) Rollover(c *gin.Context) {
	result, err := h.service.ExecuteRollover(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
