package pagination

import (
	"net/http"
	"strconv"
)

// MaxPageSize is the hard ceiling on page size regardless of configuration.
const MaxPageSize = 50

// Params holds the pagination window for a list query. The page size is fixed
// by service configuration, not by the caller; only the page number comes from
// the request.
type Params struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Offset   int `json:"-"`
}

// FromRequest extracts the page number from the request query and combines it
// with the configured page size. Missing or malformed page values fall back to
// page 1; page sizes are clamped to [1, MaxPageSize].
func FromRequest(r *http.Request, pageSize int) Params {
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page = v
		}
	}

	return Params{
		Page:     page,
		PageSize: pageSize,
		Offset:   (page - 1) * pageSize,
	}
}

// TotalPages returns ceil(totalCount / pageSize).
func TotalPages(totalCount, pageSize int) int {
	if pageSize <= 0 || totalCount <= 0 {
		return 0
	}
	pages := totalCount / pageSize
	if totalCount%pageSize > 0 {
		pages++
	}
	return pages
}

// Result wraps one page of a list response.
type Result[T any] struct {
	Data       []T `json:"data"`
	TotalCount int `json:"total_count"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewResult assembles a paginated result from one page of data and the total
// row count.
func NewResult[T any](data []T, totalCount int, params Params) Result[T] {
	return Result[T]{
		Data:       data,
		TotalCount: totalCount,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: TotalPages(totalCount, params.PageSize),
	}
}
