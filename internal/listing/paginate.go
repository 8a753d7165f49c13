package listing

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// DefaultPageSize applies when no positive page size is configured.
const DefaultPageSize = 30

// Pagination is a bounded window over the listing. Limit and Offset are
// never negative.
type Pagination struct {
	Limit  int
	Offset int
}

// Paginate computes the window for a raw page parameter. Missing,
// non-numeric and non-positive pages are treated as page 1. There is no
// upper bound on the page number: a page whose offset does not fit in an
// int saturates at math.MaxInt and so reads past the end.
func Paginate(page string, size int) Pagination {
	if size <= 0 {
		size = DefaultPageSize
	}
	n, err := strconv.Atoi(page)
	switch {
	case errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(page, "-"):
		return Pagination{Limit: size, Offset: math.MaxInt}
	case err != nil || n < 1:
		n = 1
	}
	if n-1 > math.MaxInt/size {
		return Pagination{Limit: size, Offset: math.MaxInt}
	}
	return Pagination{Limit: size, Offset: size * (n - 1)}
}
