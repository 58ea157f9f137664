package crawler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"franchise-service/internal/common/config"
	"franchise-service/internal/common/errors"
	commonhttp "franchise-service/internal/common/http"
	"franchise-service/internal/common/logger"
)

const (
	startPath  = "/workflow/start-auto"
	healthPath = "/health"
)

// APIError is a failed call to the crawling service. StatusCode is 0 for
// transport failures.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
	cause      *errors.StandardError
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("crawler %s %s: status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("crawler %s %s: %s", e.Method, e.URL, e.cause.Details)
}

func (e *APIError) Unwrap() error {
	return e.cause
}

func newAPIError(method, url string, status int, body string, err error) *APIError {
	if err == nil && body != "" {
		err = fmt.Errorf("%s", body)
	}
	return &APIError{
		Method:     method,
		URL:        url,
		StatusCode: status,
		Body:       body,
		cause:      errors.NewCrawlerRequestFailedError(url, status, err),
	}
}

// Client talks to the crawling service.
type Client struct {
	baseURL string
	start   *commonhttp.Client
	health  *commonhttp.Client
	logger  logger.Logger
	now     func() time.Time
}

func NewClient(cfg config.CrawlerConfig, log logger.Logger) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		start:   commonhttp.NewClient(config.GetDuration(cfg.StartTimeout), cfg.UserAgent),
		health:  commonhttp.NewClient(config.GetDuration(cfg.HealthTimeout), cfg.UserAgent),
		logger:  logger.ForComponent(log, "crawler-client"),
		now:     time.Now,
	}
	c.logger.Info("crawler client configured", map[string]interface{}{"baseURL": c.baseURL})
	return c
}

// StartWorkflow asks the crawling service to run the full missing-item
// workflow. The call returns as soon as the service has queued the task.
func (c *Client) StartWorkflow(ctx context.Context) (*TaskHandle, error) {
	url := c.baseURL + startPath
	c.logger.Info("requesting workflow start", map[string]interface{}{"url": url})

	var handle TaskHandle
	resp, err := c.start.DoJSON(ctx, http.MethodPost, url, struct{}{}, &handle)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		apiErr := newAPIError(http.MethodPost, url, status, "", err)
		c.logFailure(apiErr)
		return nil, apiErr
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(http.MethodPost, url, resp.StatusCode, resp.Body, nil)
		c.logFailure(apiErr)
		return nil, apiErr
	}

	handle.StartedAt = c.now().UTC()
	c.logger.Info("workflow started", map[string]interface{}{
		"taskId":        handle.TaskID,
		"estimatedTime": handle.EstimatedTime,
	})
	return &handle, nil
}

// Check probes the health endpoint and returns CRAWLER_UNAVAILABLE when the
// service does not answer with 2xx.
func (c *Client) Check(ctx context.Context) error {
	url := c.baseURL + healthPath

	resp, err := c.health.DoJSON(ctx, http.MethodGet, url, nil, nil)
	if err != nil {
		apiErr := newAPIError(http.MethodGet, url, 0, "", err)
		c.logFailure(apiErr)
		return errors.NewCrawlerUnavailableError(apiErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(http.MethodGet, url, resp.StatusCode, resp.Body, nil)
		c.logFailure(apiErr)
		return errors.NewCrawlerUnavailableError(apiErr)
	}
	return nil
}

// HealthCheck reports whether the crawling service is reachable.
func (c *Client) HealthCheck(ctx context.Context) bool {
	if err := c.Check(ctx); err != nil {
		c.logger.Warn("crawler health check failed", nil)
		return false
	}
	return true
}

func (c *Client) logFailure(e *APIError) {
	fields := map[string]interface{}{
		"method": e.Method,
		"url":    e.URL,
	}
	switch {
	case e.StatusCode >= 500:
		fields["status"] = e.StatusCode
		fields["body"] = e.Body
		c.logger.Error("crawler server error", fields)
	case e.StatusCode >= 400:
		fields["status"] = e.StatusCode
		fields["body"] = e.Body
		c.logger.Warn("crawler client error", fields)
	default:
		fields["error"] = e.cause.Details
		c.logger.Error("crawler network error", fields)
	}
}
