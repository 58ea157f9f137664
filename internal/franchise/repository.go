package franchise

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"

	"franchise-service/internal/common/database"
	"franchise-service/internal/common/errors"
	"franchise-service/internal/models"
)

const selectColumns = `company_id, company_name, brand_name, basic_info, business_status,
		franchisee_costs, business_terms, legal_compliance, crawled_at, updated_at`

// ListQuery selects one page of records at the storage level.
type ListQuery struct {
	Search string // case-insensitive contains on company or brand name
	Order  models.SortOrder
	Limit  int
	Offset int
}

// Repository reads franchise records.
type Repository interface {
	Count(ctx context.Context, search string) (int64, error)
	List(ctx context.Context, q ListQuery) ([]models.FranchiseRecord, error)
	All(ctx context.Context, order models.SortOrder) ([]models.FranchiseRecord, error)
	// GetByID returns nil, nil when the record does not exist.
	GetByID(ctx context.Context, id int64) (*models.FranchiseRecord, error)
}

// PostgresRepository is the Repository over the franchises table.
type PostgresRepository struct {
	db *database.PostgresClient
}

func NewRepository(db *database.PostgresClient) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Count(ctx context.Context, search string) (int64, error) {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	where, args := searchClause(search)
	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM franchises"+where, args...).Scan(&total); err != nil {
		return 0, queryError(ctx, "count", err)
	}
	return total, nil
}

func (r *PostgresRepository) List(ctx context.Context, q ListQuery) ([]models.FranchiseRecord, error) {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	where, args := searchClause(q.Search)
	n := len(args)
	query := fmt.Sprintf("SELECT %s FROM franchises%s ORDER BY %s LIMIT $%d OFFSET $%d",
		selectColumns, where, q.Order.OrderBy(), n+1, n+2)
	args = append(args, q.Limit, q.Offset)

	return r.query(ctx, "list", query, args...)
}

func (r *PostgresRepository) All(ctx context.Context, order models.SortOrder) ([]models.FranchiseRecord, error) {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf("SELECT %s FROM franchises ORDER BY %s", selectColumns, order.OrderBy())
	return r.query(ctx, "scan", query)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.FranchiseRecord, error) {
	ctx, cancel := r.db.WithTimeout(ctx)
	defer cancel()

	row := r.db.QueryRow(ctx, "SELECT "+selectColumns+" FROM franchises WHERE company_id = $1", id)
	rec, err := scanRecord(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, queryError(ctx, "get", err)
	}
	return rec, nil
}

func (r *PostgresRepository) query(ctx context.Context, name, query string, args ...interface{}) ([]models.FranchiseRecord, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, queryError(ctx, name, err)
	}
	defer rows.Close()

	out := make([]models.FranchiseRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, queryError(ctx, name, err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(ctx, name, err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s scanner) (*models.FranchiseRecord, error) {
	var (
		rec       models.FranchiseRecord
		company   sql.NullString
		brand     sql.NullString
		crawledAt sql.NullTime
		updatedAt sql.NullTime
	)
	if err := s.Scan(
		&rec.CompanyID, &company, &brand,
		&rec.BasicInfo, &rec.BusinessStatus, &rec.FranchiseeCosts, &rec.BusinessTerms, &rec.LegalCompliance,
		&crawledAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	if company.Valid {
		rec.CompanyName = &company.String
	}
	if brand.Valid {
		rec.BrandName = &brand.String
	}
	rec.CrawledAt = crawledAt.Time
	rec.UpdatedAt = updatedAt.Time
	return &rec, nil
}

func searchClause(search string) (string, []interface{}) {
	search = strings.TrimSpace(search)
	if search == "" {
		return "", nil
	}
	return " WHERE (company_name ILIKE $1 OR brand_name ILIKE $1)", []interface{}{"%" + escapeLike(search) + "%"}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func queryError(ctx context.Context, query string, err error) error {
	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.NewQueryTimeoutError(query, err)
	}
	return errors.NewQueryExecutionFailedError(query, err)
}
