package utils

import (
	"errors"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-assignment-api/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page     int
	PageSize int
	Offset   int
}

// NewPaginationParams normalizes a requested page window. Pages are
// 1-indexed; a missing or invalid page means the first page, a missing or
// invalid page size means the default, and oversized pages are clamped.
func NewPaginationParams(page, pageSize int) PaginationParams {
	if page < constants.FirstPage {
		page = constants.FirstPage
	}
	if pageSize < constants.MinPageSize {
		pageSize = constants.DefaultPageSize
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}
	// Keep the offset and the following page number within int
	if maxPage := math.MaxInt/pageSize - 1; page > maxPage {
		page = maxPage
	}

	return PaginationParams{
		Page:     page,
		PageSize: pageSize,
		Offset:   (page - 1) * pageSize,
	}
}

// GetPaginationParams extracts and validates pagination parameters from the request
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		page = constants.FirstPage
	}
	pageSize, err := strconv.Atoi(c.Query("page_size"))
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		pageSize = constants.DefaultPageSize
	}

	return NewPaginationParams(page, pageSize)
}
