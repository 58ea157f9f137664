package franchise

import (
	"context"
	"fmt"
	"strings"
	"time"

	"franchise-service/internal/common/errors"
	"franchise-service/internal/common/logger"
	"franchise-service/internal/common/metrics"
	"franchise-service/internal/common/pagination"
)

// Service answers the franchise queries. Facts are recomputed from the
// stored documents on every call.
type Service struct {
	repo   Repository
	logger logger.Logger
	now    func() time.Time
}

type Option func(*Service)

// WithClock overrides the clock used for status derivation.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		logger: logger.ForComponent(log, "franchise-service"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListFranchises pages through all records with storage-level limit/offset.
func (s *Service) ListFranchises(ctx context.Context, q PageQuery) (pagination.Page[ListItem], error) {
	return s.listPage(ctx, "", q)
}

// SearchFranchises matches query against company and brand names. A blank
// query is the same as ListFranchises.
func (s *Service) SearchFranchises(ctx context.Context, query string, q PageQuery) (pagination.Page[ListItem], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.ListFranchises(ctx, q)
	}
	return s.listPage(ctx, query, q)
}

func (s *Service) listPage(ctx context.Context, search string, q PageQuery) (pagination.Page[ListItem], error) {
	total, err := s.repo.Count(ctx, search)
	if err != nil {
		return pagination.Page[ListItem]{}, fmt.Errorf("count franchises: %w", err)
	}

	offset, ok := pagination.Offset(q.Page, q.Size)
	if !ok {
		return pagination.Build[ListItem](nil, total, q.Page, q.Size), nil
	}

	records, err := s.repo.List(ctx, ListQuery{
		Search: search,
		Order:  q.Order(),
		Limit:  q.Size,
		Offset: offset,
	})
	if err != nil {
		return pagination.Page[ListItem]{}, fmt.Errorf("list franchises: %w", err)
	}

	now := s.now()
	items := make([]ListItem, len(records))
	for i := range records {
		items[i] = ToListItem(&records[i], now)
	}
	return pagination.Build(items, total, q.Page, q.Size), nil
}

// ListByCategory scans every record and keeps those whose extracted
// category equals or contains the requested label.
func (s *Service) ListByCategory(ctx context.Context, category string, q PageQuery) (pagination.Page[ListItem], error) {
	records, err := s.repo.All(ctx, q.Order())
	if err != nil {
		return pagination.Page[ListItem]{}, fmt.Errorf("scan franchises: %w", err)
	}

	matched := make([]view, 0, len(records))
	for i := range records {
		v := newView(&records[i])
		if matchesCategory(v.facts.Category, category) {
			matched = append(matched, v)
		}
	}

	s.logger.Debug("category scan", map[string]interface{}{
		"category": category,
		"scanned":  len(records),
		"matched":  len(matched),
	})

	now := s.now()
	page := pagination.Build(pagination.Slice(matched, q.Page, q.Size), int64(len(matched)), q.Page, q.Size)
	return pagination.Map(page, func(v view) ListItem { return v.listItem(now) }), nil
}

// FilterFranchises scans every record in the requested order, extracts its
// facts once, applies every present criterion and slices the survivors.
func (s *Service) FilterFranchises(ctx context.Context, c FilterCriteria) (pagination.Page[FilterItem], error) {
	if c.Category != nil && strings.TrimSpace(*c.Category) == "" {
		c.Category = nil
	}

	records, err := s.repo.All(ctx, c.Order())
	if err != nil {
		return pagination.Page[FilterItem]{}, fmt.Errorf("scan franchises: %w", err)
	}

	matched := make([]view, 0)
	for i := range records {
		v := newView(&records[i])
		if c.Matches(v.facts) {
			matched = append(matched, v)
		}
	}

	metrics.FilterRecordsScanned.Observe(float64(len(records)))
	metrics.FilterRecordsMatched.Observe(float64(len(matched)))
	s.logger.Debug("filter scan", map[string]interface{}{
		"scanned":   len(records),
		"matched":   len(matched),
		"page":      c.Page,
		"size":      c.Size,
		"sortOrder": string(c.Order()),
	})

	now := s.now()
	page := pagination.Build(pagination.Slice(matched, c.Page, c.Size), int64(len(matched)), c.Page, c.Size)
	return pagination.Map(page, func(v view) FilterItem { return v.filterItem(now) }), nil
}

// GetFranchiseByID returns the detail view or a FRANCHISE_NOT_FOUND error.
func (s *Service) GetFranchiseByID(ctx context.Context, id int64) (*Detail, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get franchise %d: %w", id, err)
	}
	if rec == nil {
		return nil, errors.NewFranchiseNotFoundError(id)
	}

	d := ToDetail(rec, s.now())
	return &d, nil
}

// Categories returns the browsable category labels.
func (s *Service) Categories() []string {
	out := make([]string, len(KnownCategories))
	copy(out, KnownCategories)
	return out
}
