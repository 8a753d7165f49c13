package listing

// Sort is one of the fixed listing orders.
type Sort string

const (
	SortEarliest     Sort = "earliest"
	SortLatest       Sort = "latest"
	SortMostComments Sort = "most_comments"
)

// SelectSort maps a client sort key to a Sort. Unknown or empty keys
// fall back to SortLatest.
func SelectSort(key string) Sort {
	switch Sort(key) {
	case SortEarliest, SortMostComments:
		return Sort(key)
	default:
		return SortLatest
	}
}

// Clause returns the ORDER BY expression. Every order ends on post.id so
// pages are deterministic.
func (s Sort) Clause() string {
	switch s {
	case SortEarliest:
		return "post.id ASC"
	case SortMostComments:
		return "total_comments DESC, post.id DESC"
	default:
		return "post.id DESC"
	}
}
