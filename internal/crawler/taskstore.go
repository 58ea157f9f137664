package crawler

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"franchise-service/internal/common/database"
	"franchise-service/internal/common/logger"
)

const taskKeyPrefix = "crawler:task:"

var (
	_ HandleStore        = (*TaskStore)(nil)
	_ CompletionListener = (*TaskStore)(nil)
)

// TaskStore keeps started task handles and their reported outcomes in Redis.
type TaskStore struct {
	redis  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
	now    func() time.Time
}

func NewTaskStore(rc *database.RedisClient, ttl time.Duration, log logger.Logger) *TaskStore {
	return &TaskStore{
		redis:  rc,
		ttl:    ttl,
		logger: logger.ForComponent(log, "crawler-task-store"),
		now:    time.Now,
	}
}

func taskKey(taskID string) string {
	return taskKeyPrefix + taskID
}

// SaveHandle records a started task.
func (s *TaskStore) SaveHandle(ctx context.Context, handle TaskHandle) error {
	if handle.TaskID == "" {
		return fmt.Errorf("save task: empty task id")
	}
	return s.redis.SetJSON(ctx, taskKey(handle.TaskID), TaskRecord{Handle: handle}, s.ttl)
}

// Get returns the stored record, or nil when the task is unknown.
func (s *TaskStore) Get(ctx context.Context, taskID string) (*TaskRecord, error) {
	var rec TaskRecord
	err := s.redis.GetJSON(ctx, taskKey(taskID), &rec)
	if stderrors.Is(err, database.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// OnWorkflowComplete attaches the outcome to the stored task. Callbacks for
// tasks this instance never started are stored as well.
func (s *TaskStore) OnWorkflowComplete(ctx context.Context, handle TaskHandle, outcome Outcome) error {
	rec, err := s.Get(ctx, handle.TaskID)
	if err != nil {
		return fmt.Errorf("load task %s: %w", handle.TaskID, err)
	}
	if rec == nil {
		s.logger.Warn("callback for unknown task", map[string]interface{}{"taskId": handle.TaskID})
		rec = &TaskRecord{Handle: handle}
	}

	if outcome.ReceivedAt.IsZero() {
		outcome.ReceivedAt = s.now().UTC()
	}
	rec.Outcome = &outcome

	if err := s.redis.SetJSON(ctx, taskKey(handle.TaskID), rec, s.ttl); err != nil {
		return fmt.Errorf("store outcome %s: %w", handle.TaskID, err)
	}
	s.logger.Debug("task outcome stored", map[string]interface{}{
		"taskId": handle.TaskID,
		"status": outcome.Status,
	})
	return nil
}
