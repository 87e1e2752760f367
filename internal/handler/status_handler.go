package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agrovision/dashboard-go/internal/service"
	"github.com/agrovision/dashboard-go/internal/view"
	"github.com/agrovision/dashboard-go/pkg/response"
)

// StatusHandler handles HTTP requests for the retrain status
type StatusHandler struct {
	service *service.StatusService
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(service *service.StatusService) *StatusHandler {
	return &StatusHandler{service: service}
}

// GetStatus returns the latest retrain status
// GET /api/v1/retrain/status?refresh=true
func (h *StatusHandler) GetStatus(c *gin.Context) {
	snap := h.service.Current()
	if refresh, _ := strconv.ParseBool(c.Query("refresh")); refresh {
		snap = h.service.Refresh(c.Request.Context())
	}

	response.Success(c, gin.H{
		"status": snap,
		"badge":  view.NewRetrainBadge(snap.RetrainStatus, snap.Loading),
	})
}

// ListHistory returns recorded status changes
// GET /api/v1/retrain/history
func (h *StatusHandler) ListHistory(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		offset = 0
	}

	history, err := h.service.History(limit, offset)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	summary, err := h.service.Summary()
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"history": history,
		"summary": summary,
		"limit":   limit,
		"offset":  offset,
	})
}
