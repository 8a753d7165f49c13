package listing

import (
	"context"
	"errors"
	"net/url"

	"shutterpress/internal/models"
)

var (
	// ErrInvalidStatus is returned for an unknown "status" value.
	ErrInvalidStatus = errors.New("invalid post status")

	// ErrInvalidAuditStatus is returned for an unknown "auditStatus" value.
	ErrInvalidAuditStatus = errors.New("invalid audit status")
)

// Options is everything a listing query needs, derived once per request.
// It is a plain value; pass it along rather than mutating it.
type Options struct {
	Filter      Filter
	Sort        Sort
	Pagination  Pagination
	Status      models.PostStatus  // empty means any state
	AuditStatus models.AuditStatus // empty means any verdict
	Viewer      models.Principal
}

// Parse derives listing options from a query string for the given
// principal. pageSize is the configured number of posts per page.
func Parse(q url.Values, viewer models.Principal, pageSize int) (Options, error) {
	status := models.PostStatus(q.Get("status"))
	if status != "" && !status.Valid() {
		return Options{}, ErrInvalidStatus
	}
	auditStatus := models.AuditStatus(q.Get("auditStatus"))
	if auditStatus != "" && !auditStatus.Valid() {
		return Options{}, ErrInvalidAuditStatus
	}

	filter, status := ModeFromQuery(q).Apply(SelectFilter(q), status, viewer)

	return Options{
		Filter:      filter,
		Sort:        SelectSort(q.Get("sort")),
		Pagination:  Paginate(q.Get("page"), pageSize),
		Status:      status,
		AuditStatus: auditStatus,
		Viewer:      viewer,
	}, nil
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying opts.
func NewContext(ctx context.Context, opts Options) context.Context {
	return context.WithValue(ctx, ctxKey{}, opts)
}

// FromContext returns the options stored by NewContext.
func FromContext(ctx context.Context) (Options, bool) {
	opts, ok := ctx.Value(ctxKey{}).(Options)
	return opts, ok
}
