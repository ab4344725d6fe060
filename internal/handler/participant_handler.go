package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yated-center/yated-crm-api/internal/dto"
	"github.com/yated-center/yated-crm-api/internal/service"
	appErrors "github.com/yated-center/yated-crm-api/pkg/errors"
	"github.com/yated-center/yated-crm-api/pkg/response"
)

// ParticipantHandler exposes the participant roster endpoints.
type ParticipantHandler struct {
	service *service.ParticipantService
}

// NewParticipantHandler constructs a participant handler.
func NewParticipantHandler(svc *service.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{service: svc}
}

// View returns the roster prepared for editing, with highlight masks.
func (h *ParticipantHandler) View(c *gin.Context) {
	view, err := h.service.View(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// Save overwrites the roster with an edited copy.
func (h *ParticipantHandler) Save(c *gin.Context) {
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
