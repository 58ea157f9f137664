package crawler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"franchise-service/internal/common/errors"
	"franchise-service/internal/common/logger"
	"franchise-service/internal/common/metrics"
	"franchise-service/internal/common/validation"

	"github.com/gin-gonic/gin"
)

var workflowCompleteSchema = validation.MustCompile("workflow-complete", `{
	"type": "object",
	"required": ["task_id", "workflow_status", "completed_at"],
	"properties": {
		"task_id": {"type": "string", "minLength": 1},
		"workflow_status": {"type": "string", "enum": ["completed", "failed"]},
		"completed_at": {"type": "string"},
		"analysis": {
			"type": "object",
			"properties": {
				"total_site_items": {"type": "integer", "minimum": 0},
				"total_db_items": {"type": "integer", "minimum": 0},
				"missing_count": {"type": "integer", "minimum": 0},
				"coverage_percentage": {"type": "number"}
			}
		},
		"crawling": {
			"type": "object",
			"properties": {
				"skipped": {"type": "boolean"},
				"reason": {"type": "string"},
				"success_count": {"type": "integer", "minimum": 0},
				"total_attempted": {"type": "integer", "minimum": 0},
				"success_rate": {"type": "number"}
			}
		},
		"error": {"type": "string"},
		"failed_step": {"type": "string"}
	}
}`)

var workflowFailedSchema = validation.MustCompile("workflow-failed", `{
	"type": "object",
	"required": ["task_id"],
	"properties": {
		"task_id": {"type": "string", "minLength": 1},
		"error": {"type": "string"},
		"failed_at": {"type": "string"}
	}
}`)

// WebhookHandler receives the crawling service's callbacks.
type WebhookHandler struct {
	listener CompletionListener
	logger   logger.Logger
	errs     *errors.ErrorHandler
	now      func() time.Time
}

// NewWebhookHandler builds the callback handler. listener may be nil.
func NewWebhookHandler(listener CompletionListener, log logger.Logger) *WebhookHandler {
	l := logger.ForComponent(log, "crawler-webhook")
	return &WebhookHandler{
		listener: listener,
		logger:   l,
		errs:     errors.NewErrorHandler(l),
		now:      time.Now,
	}
}

func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/workflow-complete", h.workflowComplete) // POST /webhook/crawler/workflow-complete
	rg.POST("/workflow-failed", h.workflowFailed)     // POST /webhook/crawler/workflow-failed
	rg.POST("/health", h.health)                      // POST /webhook/crawler/health
}

func (h *WebhookHandler) workflowComplete(c *gin.Context) {
	var p WorkflowComplete
	if !h.bind(c, "workflow-complete", workflowCompleteSchema, &p) {
		return
	}

	outcome := Outcome{
		Status:     p.WorkflowStatus,
		FinishedAt: p.CompletedAt,
		Analysis:   p.Analysis,
		Crawling:   p.Crawling,
		Error:      p.Error,
		FailedStep: p.FailedStep,
	}

	var message string
	if p.WorkflowStatus == StatusCompleted {
		fields := summarize(p.Analysis, p.Crawling)
		fields["taskId"] = p.TaskID
		h.logger.Info("crawl workflow completed", fields)
		message = "워크플로우 완료 처리됨"
	} else {
		h.logger.Error("crawl workflow failed", map[string]interface{}{
			"taskId":     p.TaskID,
			"error":      p.Error,
			"failedStep": p.FailedStep,
		})
		message = "워크플로우 실패 처리됨"
	}

	h.notify(c, p.TaskID, outcome)
	metrics.CrawlerWebhookEvents.WithLabelValues("workflow-complete", p.WorkflowStatus).Inc()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

func (h *WebhookHandler) workflowFailed(c *gin.Context) {
	var p WorkflowFailed
	if !h.bind(c, "workflow-failed", workflowFailedSchema, &p) {
		return
	}

	h.logger.Error("crawl workflow failure reported", map[string]interface{}{
		"taskId":   p.TaskID,
		"error":    p.Error,
		"failedAt": p.FailedAt,
	})

	h.notify(c, p.TaskID, Outcome{Status: StatusFailed, FinishedAt: p.FailedAt, Error: p.Error})
	metrics.CrawlerWebhookEvents.WithLabelValues("workflow-failed", StatusFailed).Inc()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "실패 알림 처리됨"})
}

func (h *WebhookHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": h.now().UTC().Format(time.RFC3339),
		"message":   "웹훅 서버 정상 동작",
	})
}

// bind validates the raw body against schema and decodes it into dest. On
// failure it answers 400 and returns false.
func (h *WebhookHandler) bind(c *gin.Context, event string, schema *validation.Schema, dest interface{}) bool {
	raw, err := c.GetRawData()
	if err != nil {
		h.reject(c, event, []string{err.Error()})
		return false
	}

	result := schema.ValidateBytes(raw)
	if !result.Valid {
		h.reject(c, event, result.GetErrorMessages())
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		h.reject(c, event, []string{err.Error()})
		return false
	}
	return true
}

func (h *WebhookHandler) reject(c *gin.Context, event string, violations []string) {
	status, stdErr := h.errs.Handle(event, errors.NewWebhookValidationError(violations))
	metrics.CrawlerWebhookEvents.WithLabelValues(event, "invalid").Inc()
	c.JSON(status, gin.H{"success": false, "error": stdErr.Details})
}

// notify hands the outcome to the listener. Listener failures do not change
// the callback response.
func (h *WebhookHandler) notify(c *gin.Context, taskID string, outcome Outcome) {
	if h.listener == nil {
		return
	}
	outcome.ReceivedAt = h.now().UTC()
	if err := h.listener.OnWorkflowComplete(c.Request.Context(), TaskHandle{TaskID: taskID}, outcome); err != nil {
		h.logger.WithError(err).Warn("failed to record task outcome", map[string]interface{}{"taskId": taskID})
	}
}

// summarize renders the completion summary log fields.
func summarize(a *Analysis, cr *Crawling) map[string]interface{} {
	fields := map[string]interface{}{}
	if a != nil {
		fields["analysis"] = fmt.Sprintf("%d missing of %d site items", a.MissingCount, a.TotalSiteItems)
		fields["coverage"] = fmt.Sprintf("%g%%", a.CoveragePercentage)
	}
	switch {
	case cr == nil:
	case cr.Skipped:
		fields["crawling"] = fmt.Sprintf("skipped (%s)", cr.Reason)
	default:
		fields["crawling"] = fmt.Sprintf("%d/%d succeeded", cr.SuccessCount, cr.TotalAttempted)
	}
	return fields
}
