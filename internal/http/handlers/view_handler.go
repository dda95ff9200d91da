package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homefix/marketplace-client/internal/http/response"
	"github.com/homefix/marketplace-client/internal/viewscope"
)

// ViewHandler открывает и закрывает представления. Закрытие отменяет их незавершённые переходы.
type ViewHandler struct {
	views *viewscope.Registry
}

func NewViewHandler(views *viewscope.Registry) *ViewHandler {
	return &ViewHandler{views: views}
}

// Open POST /api/views
func (h *ViewHandler) Open(c *gin.Context) {
	response.Created(c, gin.H{"view_id": h.views.Open()}, "")
}

// Close DELETE /api/views/:viewId
func (h *ViewHandler) Close(c *gin.Context) {
	if !h.views.Close(c.Param("viewId")) {
		response.Error(c, viewscope.ErrUnknownView)
		return
	}
	c.Status(http.StatusNoContent)
}
