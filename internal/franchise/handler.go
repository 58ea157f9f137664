package franchise

import (
	"fmt"
	"strconv"
	"strings"

	"franchise-service/internal/common/errors"
	"franchise-service/internal/common/logger"
	"franchise-service/internal/common/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Service *Service
	errs    *errors.ErrorHandler
}

func NewHandler(svc *Service, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		errs:    errors.NewErrorHandler(logger.ForComponent(log, "franchise-handler")),
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)                          // GET /franchise
	rg.GET("/search", h.search)                 // GET /franchise/search?query=
	rg.GET("/filter", h.filter)                 // GET /franchise/filter
	rg.GET("/categories", h.categories)         // GET /franchise/categories
	rg.GET("/category/:category", h.byCategory) // GET /franchise/category/치킨
	rg.GET("/:id", h.getByID)                   // GET /franchise/42
}

func (h *Handler) list(c *gin.Context) {
	q, ok := h.bindPage(c, "list")
	if !ok {
		return
	}

	page, err := h.Service.ListFranchises(c.Request.Context(), q)
	if err != nil {
		response.Error(c, h.errs, "list", err)
		return
	}
	response.OK(c, "프랜차이즈 목록 조회 성공", page)
}

func (h *Handler) search(c *gin.Context) {
	q, ok := h.bindPage(c, "search")
	if !ok {
		return
	}

	page, err := h.Service.SearchFranchises(c.Request.Context(), c.Query("query"), q)
	if err != nil {
		response.Error(c, h.errs, "search", err)
		return
	}
	response.OK(c, "프랜차이즈 검색 성공", page)
}

func (h *Handler) filter(c *gin.Context) {
	var criteria FilterCriteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		response.Error(c, h.errs, "filter", errors.NewInvalidFilterFormatError(err.Error()))
		return
	}

	page, err := h.Service.FilterFranchises(c.Request.Context(), criteria)
	if err != nil {
		response.Error(c, h.errs, "filter", err)
		return
	}
	response.OK(c, "프랜차이즈 필터 조회 성공", page)
}

func (h *Handler) categories(c *gin.Context) {
	response.OK(c, "카테고리 목록 조회 성공", gin.H{"categories": h.Service.Categories()})
}

func (h *Handler) byCategory(c *gin.Context) {
	q, ok := h.bindPage(c, "category")
	if !ok {
		return
	}

	category := strings.TrimSpace(c.Param("category"))
	page, err := h.Service.ListByCategory(c.Request.Context(), category, q)
	if err != nil {
		response.Error(c, h.errs, "category", err)
		return
	}
	response.OK(c, fmt.Sprintf("%s 카테고리 프랜차이즈 조회 성공", category), page)
}

func (h *Handler) getByID(c *gin.Context) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		response.Error(c, h.errs, "get", errors.NewInvalidFranchiseIDError(raw))
		return
	}

	detail, err := h.Service.GetFranchiseByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, h.errs, "get", err)
		return
	}
	response.OK(c, "프랜차이즈 상세 조회 성공", gin.H{"franchise": detail})
}

func (h *Handler) bindPage(c *gin.Context, operation string) (PageQuery, bool) {
	var q PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, h.errs, operation, errors.NewInvalidFilterFormatError(err.Error()))
		return q, false
	}
	return q, true
}
