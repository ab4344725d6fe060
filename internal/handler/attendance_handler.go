package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yated-center/yated-crm-api/internal/dto"
	"github.com/yated-center/yated-crm-api/internal/service"
	appErrors "github.com/yated-center/yated-crm-api/pkg/errors"
	"github.com/yated-center/yated-crm-api/pkg/response"
)

// AttendanceHandler exposes the daily attendance and summary endpoints.
type AttendanceHandler struct {
	service *service.AttendanceService
}

// NewAttendanceHandler constructs an attendance handler.
func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// GenerateParticipantDaily builds an unsaved participant sheet for a date.
func (h *AttendanceHandler) GenerateParticipantDaily(c *gin.Context) {
	generateDaily(c, h.service.GenerateParticipantDaily)
}

// GenerateStaffDaily builds an unsaved staff sheet for a date.
func (h *AttendanceHandler) GenerateStaffDaily(c *gin.Context) {
	generateDaily(c, h.service.GenerateStaffDaily)
}

func generateDaily(c *gin.Context, build func(ctx context.Context, date string) (dto.DailySheet, error)) {
	var req dto.GenerateDailyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	sheet, err := build(c.Request.Context(), req.Date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sheet)
}

// SubmitParticipantDaily persists one day of participant attendance.
func (h *AttendanceHandler) SubmitParticipantDaily(c *gin.Context) {
	var req dto.SubmitDailyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.service.SubmitParticipantDaily(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SubmitStaffDaily persists one day of staff attendance.
func (h *AttendanceHandler) SubmitStaffDaily(c *gin.Context) {
	var req dto.SubmitDailyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.service.SubmitStaffDaily(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ParticipantMonthlySummary returns attended counts per participant per month.
func (h *AttendanceHandler) ParticipantMonthlySummary(c *gin.Context) {
	table, err := h.service.ParticipantMonthlySummary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, table)
}

// ParticipantYearlySummary returns the per-month matrix of one year.
func (h *AttendanceHandler) ParticipantYearlySummary(c *gin.Context) {
	year := 0
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid year"))
			return
		}
		year = parsed
	}
	table, err := h.service.ParticipantYearlySummary(c.Request.Context(), year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, table)
}

// StaffHoursSummary returns total logged hours per staff serial.
func (h *AttendanceHandler) StaffHoursSummary(c *gin.Context) {
	table, err := h.service.StaffHoursSummary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, table)
}
