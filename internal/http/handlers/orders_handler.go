// Orders HTTP handler.
//
//   - GET /orders?page=&page_size=&reconcile=
//
// Operator-facing view over the order ledger. The reconcile filter narrows
// to orders where money was captured but the product was not delivered.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nameforge/go-domains-backend/internal/domain"
	"github.com/nameforge/go-domains-backend/internal/repo"
)

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListOrdersResponse wraps a page of ledger rows and pagination information.
type ListOrdersResponse struct {
	Orders     []domain.Order `json:"orders"`
	Pagination Pagination     `json:"pagination"`
}

// clampPagination parses and bounds page and page_size query params.
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = atoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = atoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// ListOrders godoc
// @ID          listOrders
// @Summary     List orders (paginated)
// @Description Returns a page of the order ledger, newest first. With reconcile=true only orders flagged for manual reconciliation are returned.
// @Tags        Orders
// @Produce     json
//
// @Param       page       query  int   false "Page number"     minimum(1) default(1)
// @Param       page_size  query  int   false "Items per page"  minimum(1) maximum(100) default(20)
// @Param       reconcile  query  bool  false "Only orders needing manual reconciliation"
//
// @Success     200  {object}  handlers.SuccessResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /orders [get]
func (h *Handlers) ListOrders(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)
	reconcileOnly, _ := strconv.ParseBool(c.Query("reconcile"))

	total, err := repo.CountOrders(ctx, h.db, reconcileOnly)
	if err != nil {
		failSimple(c, http.StatusInternalServerError, ErrCodeInternal, "order listing failed")
		return
	}
	items, err := repo.ListOrdersPage(ctx, h.db, reconcileOnly, (page-1)*pageSize, pageSize)
	if err != nil {
		failSimple(c, http.StatusInternalServerError, ErrCodeInternal, "order listing failed")
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListOrdersResponse{
		Orders: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}
