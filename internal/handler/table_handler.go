package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yated-center/yated-crm-api/internal/dto"
	"github.com/yated-center/yated-crm-api/internal/service"
	appErrors "github.com/yated-center/yated-crm-api/pkg/errors"
	"github.com/yated-center/yated-crm-api/pkg/response"
)

// TableHandler exposes the generic any-tab editor endpoints.
type TableHandler struct {
	service *service.TableService
}

// NewTableHandler constructs a table handler.
func NewTableHandler(svc *service.TableService) *TableHandler {
	return &TableHandler{service: svc}
}

// List returns every worksheet tab.
func (h *TableHandler) List(c *gin.Context) {
	names, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, names)
}

// Get returns one tab for editing.
func (h *TableHandler) Get(c *gin.Context) {
	table, err := h.service.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, table)
}

// Save overwrites one tab with an edited copy.
func (h *TableHandler) Save(c *gin.Context) {
	var req dto.SaveTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.service.Save(c.Request.Context(), c.Param("name"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export streams one tab as CSV or PDF.
func (h *TableHandler) Export(c *gin.Context) {
	name := c.Param("name")
	format := c.DefaultQuery("format", "csv")
	payload, contentType, err := h.service.Export(c.Request.Context(), name, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.%s", name, format))
	c.Data(http.StatusOK, contentType, payload)
}
