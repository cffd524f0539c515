package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gestionale/backend/internal/interfaces/http/dto"
)

// HealthPinger reports whether the backing store is reachable
type HealthPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health and system info endpoints
type HealthHandler struct {
	BaseHandler
	pinger    HealthPinger
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(pinger HealthPinger) *HealthHandler {
	return &HealthHandler{
		pinger:    pinger,
		startTime: time.Now(),
	}
}

// RegisterRoutes registers the health routes
func (h *HealthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
	rg.GET("/system/info", h.SystemInfo)
}

// HealthResponse reports service and database status
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Health reports whether the service and its database are up
func (h *HealthHandler) Health(c *gin.Context) {
	resp := HealthResponse{Status: "ok", Database: "ok"}
	if err := h.pinger.Ping(c.Request.Context()); err != nil {
		resp.Status = "degraded"
		resp.Database = "unreachable"
		c.JSON(http.StatusServiceUnavailable, dto.NewSuccessResponse(resp))
		return
	}
	h.Success(c, resp)
}

// SystemInfoResponse carries basic build and uptime information
type SystemInfoResponse struct {
	Name      string `json:"name"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// SystemInfo returns basic system information
func (h *HealthHandler) SystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      "Gestionale API",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}
