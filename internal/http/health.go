package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const service = "nur"

type HealthResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}

type HealthController struct {
	store   Pinger
	version string
}

func NewHealthController(store Pinger, version string) *HealthController {
	return &HealthController{
		store:   store,
		version: version,
	}
}

// Live reports that the process is serving requests.
func (h *HealthController) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: service,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
	})
}

// Ready additionally checks the bookmark database.
func (h *HealthController) Ready(c *gin.Context) {
	checks := make(map[string]string)
	status := "ready"

	if h.store != nil {
		if err := h.store.Ping(c.Request.Context()); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unavailable"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	statusCode := http.StatusOK
	if status != "ready" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, HealthResponse{
		Status:  status,
		Service: service,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	})
}
