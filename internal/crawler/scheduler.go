package crawler

import (
	"context"
	"fmt"
	"time"

	"franchise-service/internal/common/config"
	"franchise-service/internal/common/errors"
	"franchise-service/internal/common/logger"
	"franchise-service/internal/common/metrics"
	"franchise-service/internal/common/observability"

	"github.com/robfig/cron/v3"
)

// JobDailyWorkflow names the scheduled job in job metrics.
const JobDailyWorkflow = "daily_crawl_workflow"

// Scheduler runs the daily crawl trigger on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	entry    cron.EntryID
	starter  WorkflowStarter
	store    HandleStore
	obs      *observability.Observability
	logger   logger.Logger
	timeout  time.Duration
}

// NewScheduler parses the schedule and registers the daily job. store and
// obs may be nil.
func NewScheduler(
	cfg config.SchedulerConfig,
	starter WorkflowStarter,
	store HandleStore,
	obs *observability.Observability,
	log logger.Logger,
) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", cfg.TimeZone, err)
	}

	s := &Scheduler{
		schedule: cfg.Schedule,
		starter:  starter,
		store:    store,
		obs:      obs,
		logger:   logger.ForComponent(log, "crawler-scheduler"),
		timeout:  time.Minute,
	}

	cl := cronLogger{s.logger}
	s.cron = cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	s.entry, err = s.cron.AddFunc(cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.RunDailyWorkflow(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", cfg.Schedule, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", map[string]interface{}{
		"schedule": s.schedule,
		"nextRun":  s.NextRun(),
	})
}

// Stop halts the schedule and waits for a running job to finish or ctx to
// expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("scheduler stopped", nil)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

// NextRun is the next scheduled activation, zero before Start.
func (s *Scheduler) NextRun() time.Time {
	return s.cron.Entry(s.entry).Next
}

// RunDailyWorkflow starts one workflow run. Failures are logged and
// swallowed; the next attempt is the next scheduled run.
func (s *Scheduler) RunDailyWorkflow(ctx context.Context) {
	start := time.Now()
	s.logger.Info("daily crawl workflow starting", nil)

	status := "success"
	handle, err := s.starter.StartWorkflow(ctx)
	if err != nil {
		status = "failed"
		// transient failures are left to the next scheduled run
		s.logger.WithError(err).Error("daily crawl workflow failed to start", map[string]interface{}{
			"retryable": errors.Retryable(err),
		})
	} else {
		handle.Source = SourceSchedule
		s.logger.Info("daily crawl workflow started", map[string]interface{}{
			"taskId":        handle.TaskID,
			"estimatedTime": handle.EstimatedTime,
		})
		if s.store != nil {
			if err := s.store.SaveHandle(ctx, *handle); err != nil {
				s.logger.WithError(err).Warn("failed to store task handle", map[string]interface{}{"taskId": handle.TaskID})
			}
		}
	}

	metrics.CrawlerWorkflowTriggers.WithLabelValues(SourceSchedule, status).Inc()
	s.obs.RecordJobProcessed(ctx, JobDailyWorkflow, status)
	s.obs.RecordJobDuration(ctx, JobDailyWorkflow, time.Since(start), status)
}

// cronLogger routes cron's own logging into the service logger.
type cronLogger struct {
	l logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug(msg, kvFields(keysAndValues))
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.WithError(err).Error(msg, kvFields(keysAndValues))
}

func kvFields(kv []interface{}) map[string]interface{} {
	if len(kv) == 0 {
		return nil
	}
	fields := make(map[string]interface{}, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return fields
}
