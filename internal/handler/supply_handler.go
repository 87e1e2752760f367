package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/agrovision/dashboard-go/internal/service"
	"github.com/agrovision/dashboard-go/internal/view"
	"github.com/agrovision/dashboard-go/pkg/response"
)

// SupplyHandler handles HTTP requests for supply analytics
type SupplyHandler struct {
	service   *service.SupplyService
	dashboard *service.DashboardService
}

// NewSupplyHandler creates a new supply handler. The dashboard supplies the
// city when a request names none.
func NewSupplyHandler(service *service.SupplyService, dashboard *service.DashboardService) *SupplyHandler {
	return &SupplyHandler{service: service, dashboard: dashboard}
}

// SupplyRequest is the body of a supply query.
type SupplyRequest struct {
	City string `json:"city"`
}

// Query fetches allocations for a city
// POST /api/v1/supply
func (h *SupplyHandler) Query(c *gin.Context) {
	var req SupplyRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if req.City == "" && h.dashboard != nil {
		req.City = h.dashboard.State().City
	}

	result, err := h.service.Query(c.Request.Context(), req.City)
	if err != nil {
		c.Error(err)
		msg := service.UserMessage(err, service.MsgSupplyFailed)
		response.Fail(c, service.HTTPStatus(err), msg, gin.H{"table": view.NewSupplyTable(nil, msg)})
		return
	}

	response.Success(c, gin.H{
		"result": result,
		"table":  view.NewSupplyTable(result.Allocations, result.Message),
	})
}
