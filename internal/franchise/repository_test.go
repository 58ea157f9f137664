package franchise

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"franchise-service/internal/common/database"
	"franchise-service/internal/common/errors"
	"franchise-service/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var recordColumns = []string{
	"company_id", "company_name", "brand_name", "basic_info", "business_status",
	"franchisee_costs", "business_terms", "legal_compliance", "crawled_at", "updated_at",
}

func newMockRepo(t *testing.T, timeout time.Duration) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(database.NewPostgresFromDB(db, timeout)), mock
}

func TestRepository_Count(t *testing.T) {
	tests := []struct {
		name    string
		search  string
		pattern string
		args    []driver.Value
	}{
		{"all", "", `^SELECT COUNT\(\*\) FROM franchises$`, nil},
		{"search", " 치킨 ", `SELECT COUNT\(\*\) FROM franchises WHERE \(company_name ILIKE \$1 OR brand_name ILIKE \$1\)`, []driver.Value{"%치킨%"}},
		{"wildcards escaped", "50%_off", `ILIKE \$1`, []driver.Value{`%50\%\_off%`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t, time.Second)

			exp := mock.ExpectQuery(tt.pattern)
			if len(tt.args) > 0 {
				exp = exp.WithArgs(tt.args...)
			}
			exp.WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

			total, err := repo.Count(context.Background(), tt.search)
			require.NoError(t, err)
			assert.Equal(t, int64(42), total)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_List(t *testing.T) {
	repo, mock := newMockRepo(t, time.Second)
	crawled := time.Date(2025, 5, 1, 2, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(recordColumns).
		AddRow(7, "(주)맛있는치킨", nil, `{"sections":[]}`, nil, nil, nil, nil, crawled, crawled).
		AddRow(6, nil, "커피브랜드", nil, nil, nil, nil, nil, nil, nil)

	mock.ExpectQuery(`SELECT company_id, .* FROM franchises WHERE \(company_name ILIKE \$1 OR brand_name ILIKE \$1\) ORDER BY crawled_at DESC, company_id DESC LIMIT \$2 OFFSET \$3`).
		WithArgs("%맛%", 20, 40).
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), ListQuery{Search: "맛", Order: models.SortDesc, Limit: 20, Offset: 40})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, int64(7), got[0].CompanyID)
	require.NotNil(t, got[0].CompanyName)
	assert.Equal(t, "(주)맛있는치킨", *got[0].CompanyName)
	assert.Nil(t, got[0].BrandName)
	assert.JSONEq(t, `{"sections":[]}`, string(got[0].BasicInfo))
	assert.Nil(t, got[0].BusinessStatus)
	assert.Equal(t, crawled, got[0].CrawledAt)

	assert.Equal(t, "커피브랜드", got[1].DisplayName())
	assert.True(t, got[1].CrawledAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_AllAscending(t *testing.T) {
	repo, mock := newMockRepo(t, time.Second)

	mock.ExpectQuery(`SELECT company_id, .* FROM franchises ORDER BY company_id ASC$`).
		WillReturnRows(sqlmock.NewRows(recordColumns))

	got, err := repo.All(context.Background(), models.SortAsc)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepo(t, time.Second)
		mock.ExpectQuery(`FROM franchises WHERE company_id = \$1`).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows(recordColumns).AddRow(5, "회사", "브랜드", nil, nil, nil, nil, nil, nil, nil))

		rec, err := repo.GetByID(context.Background(), 5)
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, "브랜드", rec.DisplayBrand())
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newMockRepo(t, time.Second)
		mock.ExpectQuery(`FROM franchises WHERE company_id = \$1`).
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows(recordColumns))

		rec, err := repo.GetByID(context.Background(), 404)
		require.NoError(t, err)
		assert.Nil(t, rec)
	})
}

func TestRepository_Errors(t *testing.T) {
	t.Run("query failure", func(t *testing.T) {
		repo, mock := newMockRepo(t, time.Second)
		mock.ExpectQuery(`FROM franchises`).WillReturnError(sql.ErrConnDone)

		_, err := repo.All(context.Background(), models.SortDesc)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrDatabase)
		assert.ErrorIs(t, err, sql.ErrConnDone)
	})

	t.Run("scan failure", func(t *testing.T) {
		repo, mock := newMockRepo(t, time.Second)
		mock.ExpectQuery(`FROM franchises`).
			WillReturnRows(sqlmock.NewRows(recordColumns).AddRow("not-a-number", nil, nil, nil, nil, nil, nil, nil, nil, nil))

		_, err := repo.All(context.Background(), models.SortDesc)
		assert.ErrorIs(t, err, errors.ErrDatabase)
	})

	t.Run("timeout", func(t *testing.T) {
		repo, mock := newMockRepo(t, 10*time.Millisecond)
		mock.ExpectQuery(`SELECT COUNT`).
			WillDelayFor(200 * time.Millisecond).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		_, err := repo.Count(context.Background(), "")
		require.Error(t, err)

		var stdErr *errors.StandardError
		require.ErrorAs(t, err, &stdErr)
		assert.Equal(t, errors.ErrCodeQueryTimeout, stdErr.Code)
	})
}
