package crawler

import (
	"context"
	"net/http"
	"time"

	"franchise-service/internal/common/errors"
	"franchise-service/internal/common/logger"
	"franchise-service/internal/common/metrics"
	"franchise-service/internal/common/response"

	"github.com/gin-gonic/gin"
)

// Trigger is the part of Client the manual routes need.
type Trigger interface {
	WorkflowStarter
	HealthCheck(ctx context.Context) bool
}

// ManualHandler exposes operator routes to probe the crawling service and
// start a workflow run outside the schedule.
type ManualHandler struct {
	trigger Trigger
	store   HandleStore
	logger  logger.Logger
	errs    *errors.ErrorHandler
	now     func() time.Time
}

// NewManualHandler builds the operator routes. store may be nil.
func NewManualHandler(trigger Trigger, store HandleStore, log logger.Logger) *ManualHandler {
	l := logger.ForComponent(log, "crawler-manual")
	return &ManualHandler{
		trigger: trigger,
		store:   store,
		logger:  l,
		errs:    errors.NewErrorHandler(l),
		now:     time.Now,
	}
}

func (h *ManualHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.health)                          // GET /test/crawler/health
	rg.POST("/start-full-workflow", h.startFullWorkflow) // POST /test/crawler/start-full-workflow
}

func (h *ManualHandler) health(c *gin.Context) {
	status := "healthy"
	if !h.trigger.HealthCheck(c.Request.Context()) {
		status = "unhealthy"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

func (h *ManualHandler) startFullWorkflow(c *gin.Context) {
	ctx := c.Request.Context()

	handle, err := h.trigger.StartWorkflow(ctx)
	if err != nil {
		metrics.CrawlerWorkflowTriggers.WithLabelValues(SourceManual, "failed").Inc()
		response.Error(c, h.errs, "start-full-workflow", err)
		return
	}
	metrics.CrawlerWorkflowTriggers.WithLabelValues(SourceManual, "success").Inc()

	handle.Source = SourceManual
	if h.store != nil {
		if err := h.store.SaveHandle(ctx, *handle); err != nil {
			h.logger.WithError(err).Warn("failed to store task handle", map[string]interface{}{"taskId": handle.TaskID})
		}
	}
	c.JSON(http.StatusOK, handle)
}
