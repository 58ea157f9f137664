// Package crawler triggers the external crawling workflow and receives its
// completion callbacks.
package crawler

import (
	"context"
	"time"
)

// Workflow statuses reported by the crawling service.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Trigger sources, used as metric labels.
const (
	SourceSchedule = "schedule"
	SourceManual   = "manual"
)

// TaskHandle is the crawling service's answer to a workflow start.
type TaskHandle struct {
	TaskID        string    `json:"task_id"`
	Message       string    `json:"message"`
	WebhookURL    string    `json:"webhook_url"`
	EstimatedTime string    `json:"estimated_time"`
	Source        string    `json:"source,omitempty"`
	StartedAt     time.Time `json:"started_at"`
}

// Analysis summarises the missing-item check of a workflow run.
type Analysis struct {
	TotalSiteItems     int     `json:"total_site_items"`
	TotalDBItems       int     `json:"total_db_items"`
	MissingCount       int     `json:"missing_count"`
	CoveragePercentage float64 `json:"coverage_percentage"`
}

// Crawling summarises the crawl phase of a workflow run.
type Crawling struct {
	Skipped        bool    `json:"skipped,omitempty"`
	Reason         string  `json:"reason,omitempty"`
	SuccessCount   int     `json:"success_count"`
	TotalAttempted int     `json:"total_attempted"`
	SuccessRate    float64 `json:"success_rate"`
}

// WorkflowComplete is the workflow-complete callback body.
type WorkflowComplete struct {
	TaskID         string    `json:"task_id"`
	WorkflowStatus string    `json:"workflow_status"`
	Analysis       *Analysis `json:"analysis,omitempty"`
	Crawling       *Crawling `json:"crawling,omitempty"`
	CompletedAt    string    `json:"completed_at"`
	Error          string    `json:"error,omitempty"`
	FailedStep     string    `json:"failed_step,omitempty"`
}

// WorkflowFailed is the workflow-failed callback body.
type WorkflowFailed struct {
	TaskID   string `json:"task_id"`
	Error    string `json:"error"`
	FailedAt string `json:"failed_at"`
}

// Outcome is what a callback reported about a task.
type Outcome struct {
	Status     string    `json:"status"`
	FinishedAt string    `json:"finished_at,omitempty"`
	Error      string    `json:"error,omitempty"`
	FailedStep string    `json:"failed_step,omitempty"`
	Analysis   *Analysis `json:"analysis,omitempty"`
	Crawling   *Crawling `json:"crawling,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

// TaskRecord is the stored state of one task.
type TaskRecord struct {
	Handle  TaskHandle `json:"handle"`
	Outcome *Outcome   `json:"outcome,omitempty"`
}

// WorkflowStarter starts a crawl workflow run.
type WorkflowStarter interface {
	StartWorkflow(ctx context.Context) (*TaskHandle, error)
}

// CompletionListener is notified when a callback reports a task's outcome.
type CompletionListener interface {
	OnWorkflowComplete(ctx context.Context, handle TaskHandle, outcome Outcome) error
}

// HandleStore remembers started tasks.
type HandleStore interface {
	SaveHandle(ctx context.Context, handle TaskHandle) error
}
