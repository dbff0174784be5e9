// Package webhook implements the HTTP webhook trigger (spec §4.2 item 4):
// GET /api/v1alpha/webhook?name=...&namespace=... pushes a ResourceIndex
// onto the script-trigger queue.
package webhook

import (
	"log/slog"
	"net/http"

	"github.com/edgemesh/ruleengine/pkg/model"
	"github.com/edgemesh/ruleengine/pkg/resource"
	"github.com/gin-gonic/gin"
)

// Handler serves the webhook endpoint.
type Handler struct {
	triggers chan<- model.ScriptIndex
	log      *slog.Logger
}

// NewHandler builds a Handler bound to the script-trigger queue.
func NewHandler(triggers chan<- model.ScriptIndex, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{triggers: triggers, log: log}
}

// Register wires the route onto r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/api/v1alpha/webhook", h.trigger)
}

type webhookQuery struct {
	Name      string `form:"name" binding:"required"`
	Namespace string `form:"namespace" binding:"required"`
}

func (h *Handler) trigger(c *gin.Context) {
	var q webhookQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.String(http.StatusBadRequest, "missing name/namespace: %v", err)
		return
	}

	idx := resource.New[resource.Script](q.Namespace, q.Name)
	select {
	case h.triggers <- idx:
		c.Status(http.StatusOK)
	default:
		h.log.Error("webhook trigger: script-trigger queue full", "script", idx.String())
		c.Status(http.StatusInternalServerError)
	}
}
