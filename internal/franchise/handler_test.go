package franchise

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"franchise-service/internal/common/errors"
	"franchise-service/internal/common/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Details string `json:"details"`
	} `json:"error"`
}

type pageBody struct {
	Content       []map[string]any `json:"content"`
	TotalElements int64            `json:"totalElements"`
	TotalPages    int              `json:"totalPages"`
	CurrentPage   int              `json:"currentPage"`
	HasNext       bool             `json:"hasNext"`
	HasPrevious   bool             `json:"hasPrevious"`
}

func setupRouter(t *testing.T, repo Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(newTestService(t, repo), logger.NewTestLogger(t))
	h.RegisterRoutes(r.Group("/franchise"))
	return r
}

func perform(t *testing.T, r http.Handler, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func decodePage(t *testing.T, env envelope) pageBody {
	t.Helper()
	var p pageBody
	require.NoError(t, json.Unmarshal(env.Data, &p))
	return p
}

func contentIDs(p pageBody) []int64 {
	out := make([]int64, len(p.Content))
	for i, item := range p.Content {
		out[i] = int64(item["id"].(float64))
	}
	return out
}

func TestHandler_List(t *testing.T) {
	r := setupRouter(t, &memoryRepo{records: catalogue()})

	w, env := perform(t, r, "/franchise?page=2&size=2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "프랜차이즈 목록 조회 성공", env.Message)
	assert.Nil(t, env.Error)

	p := decodePage(t, env)
	assert.Equal(t, []int64{3, 2}, contentIDs(p))
	assert.Equal(t, int64(5), p.TotalElements)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 2, p.CurrentPage)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrevious)
}

func TestHandler_ListDefaults(t *testing.T) {
	r := setupRouter(t, &memoryRepo{records: catalogue()})

	_, env := perform(t, r, "/franchise")
	p := decodePage(t, env)
	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, []int64{5, 4, 3, 2, 1}, contentIDs(p))

	first := p.Content[0]
	for _, key := range []string{"id", "name", "brandName", "category", "status", "imageUrl", "totalStores", "createdAt"} {
		assert.Contains(t, first, key)
	}
	assert.Nil(t, first["imageUrl"])
}

func TestHandler_InvalidPaging(t *testing.T) {
	r := setupRouter(t, &memoryRepo{records: catalogue()})

	for _, target := range []string{
		"/franchise?page=0",
		"/franchise?page=abc",
		"/franchise?size=0",
		"/franchise?size=101",
		"/franchise?sortOrder=sideways",
		"/franchise/search?query=x&size=-1",
		"/franchise/category/ALL?page=-3",
	} {
		t.Run(target, func(t *testing.T) {
			w, env := perform(t, r, target)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, string(errors.ErrCodeInvalidFilter), env.Error.Code)
			assert.NotEmpty(t, env.Error.Details)
		})
	}
}

func TestHandler_Search(t *testing.T) {
	r := setupRouter(t, &memoryRepo{records: catalogue()})

	w, env := perform(t, r, "/franchise/search?query="+url.QueryEscape("가나치킨"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "프랜차이즈 검색 성공", env.Message)
	assert.Equal(t, []int64{1}, contentIDs(decodePage(t, env)))

	_, env = perform(t, r, "/franchise/search")
	assert.Equal(t, int64(5), decodePage(t, env).TotalElements)
}

func TestHandler_ByCategory(t *testing.T) {
	r := setupRouter(t, &memoryRepo{records: catalogue()})

	w, env := perform(t, r, "/franchise/category/"+url.PathEscape("치킨")+"?sortOrder=asc")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "치킨 카테고리 프랜차이즈 조회 성공", env.Message)

	p := decodePage(t, env)
	assert.Equal(t, []int64{1, 3, 5}, contentIDs(p))
	assert.Equal(t, int64(3), p.TotalElements)

	_, env = perform(t, r, "/franchise/category/ALL?size=1")
	assert.Equal(t, int64(5), decodePage(t, env).TotalElements)
}

func TestHandler_Filter(t *testing.T) {
	r := setupRouter(t, &memoryRepo{records: catalogue()})

	t.Run("criteria", func(t *testing.T) {
		q := url.Values{}
		q.Set("hasRoyalty", "true")
		q.Set("minStores", "50")
		q.Set("sortOrder", "asc")

		w, env := perform(t, r, "/franchise/filter?"+q.Encode())
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "프랜차이즈 필터 조회 성공", env.Message)

		p := decodePage(t, env)
		assert.Equal(t, []int64{1, 3}, contentIDs(p))
		for _, key := range []string{"terminationRate", "averageSales", "franchiseFee", "totalInvestment", "royaltyRate", "hasRoyalty"} {
			assert.Contains(t, p.Content[0], key)
		}
	})

	t.Run("category", func(t *testing.T) {
		_, env := perform(t, r, "/franchise/filter?category="+url.QueryEscape("분식"))
		assert.Equal(t, []int64{4}, contentIDs(decodePage(t, env)))
	})

	for _, target := range []string{
		"/franchise/filter?minStores=-1",
		"/franchise/filter?maxTerminationRate=150",
		"/franchise/filter?minInvestment=lots",
		"/franchise/filter?hasRoyalty=maybe",
	} {
		t.Run(target, func(t *testing.T) {
			w, env := perform(t, r, target)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, string(errors.ErrCodeInvalidFilter), env.Error.Code)
		})
	}
}

func TestHandler_PageBeyondAddressableRange(t *testing.T) {
	repo := &memoryRepo{records: catalogue()}
	r := setupRouter(t, repo)

	// (page-1)*size does not fit in an int
	const page = "4611686018427387905"

	for _, target := range []string{
		"/franchise?page=" + page + "&size=2",
		"/franchise/search?query=" + url.QueryEscape("가나치킨") + "&page=" + page + "&size=2",
		"/franchise/filter?page=" + page + "&size=2",
		"/franchise/category/ALL?page=" + page + "&size=2",
	} {
		t.Run(target, func(t *testing.T) {
			var (
				w   *httptest.ResponseRecorder
				env envelope
			)
			require.NotPanics(t, func() { w, env = perform(t, r, target) })
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.True(t, env.Success)

			p := decodePage(t, env)
			assert.NotNil(t, p.Content)
			assert.Empty(t, p.Content)
			assert.False(t, p.HasNext)
			assert.True(t, p.HasPrevious)
			assert.Positive(t, p.TotalElements)
		})
	}

	assert.Zero(t, repo.listCalls, "no storage query for an unreachable offset")
}

func TestHandler_Categories(t *testing.T) {
	r := setupRouter(t, &memoryRepo{})

	w, env := perform(t, r, "/franchise/categories")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "카테고리 목록 조회 성공", env.Message)

	var body struct {
		Categories []string `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, KnownCategories, body.Categories)
}

func TestHandler_GetByID(t *testing.T) {
	r := setupRouter(t, &memoryRepo{records: catalogue()})

	t.Run("found", func(t *testing.T) {
		w, env := perform(t, r, "/franchise/3")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "프랜차이즈 상세 조회 성공", env.Message)

		var body struct {
			Franchise map[string]any `json:"franchise"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &body))
		assert.EqualValues(t, 3, body.Franchise["id"])
		assert.Equal(t, "마바피자", body.Franchise["name"])
		for _, key := range []string{"basicInfo", "financialInfo", "storeInfo", "costInfo", "contractInfo", "legalInfo"} {
			assert.Contains(t, body.Franchise, key)
		}
	})

	t.Run("missing", func(t *testing.T) {
		w, env := perform(t, r, "/franchise/404")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.False(t, env.Success)
		assert.Equal(t, "프랜차이즈를 찾을 수 없습니다", env.Message)
		require.NotNil(t, env.Error)
		assert.Equal(t, string(errors.ErrCodeFranchiseNotFound), env.Error.Code)
	})

	t.Run("not numeric", func(t *testing.T) {
		w, env := perform(t, r, "/franchise/abc")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, string(errors.ErrCodeInvalidFranchiseID), env.Error.Code)
	})
}

func TestHandler_RepositoryFailure(t *testing.T) {
	repo := &memoryRepo{err: errors.NewQueryExecutionFailedError("select", sql.ErrConnDone)}
	r := setupRouter(t, repo)

	for _, target := range []string{"/franchise", "/franchise/filter", "/franchise/1", "/franchise/category/ALL"} {
		t.Run(target, func(t *testing.T) {
			w, env := perform(t, r, target)
			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.False(t, env.Success)
			assert.Equal(t, "서버 오류가 발생했습니다", env.Message)
			require.NotNil(t, env.Error)
			assert.Equal(t, string(errors.ErrCodeQueryExecutionFailed), env.Error.Code)
			assert.Empty(t, env.Error.Details)
		})
	}
}
