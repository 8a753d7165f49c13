package listing

import (
	"fmt"
	"strconv"
	"strings"

	"shutterpress/internal/models"
)

// Statement is SQL text plus its positional arguments.
type Statement struct {
	SQL  string
	Args []any
}

// Columns selected for a post, in scan order. Shared with single-post
// reads so both decode rows the same way.
const PostColumns = `
		post.id, post.title, post.content, post.status, post.user_id,
		post.created_at, post.updated_at,
		COALESCE(owner.name, '') AS owner_name,
		(SELECT COUNT(comment.id) FROM comments comment WHERE comment.post_id = post.id) AS total_comments,
		(SELECT COUNT(*) FROM user_like_posts likes WHERE likes.post_id = post.id) AS total_likes,
		file.id, file.width, file.height,
		COALESCE(
			JSONB_AGG(DISTINCT JSONB_BUILD_OBJECT('id', tag.id, 'name', tag.name))
				FILTER (WHERE tag.id IS NOT NULL),
			'[]'::jsonb
		) AS tags,
		audit.id, audit.status`

// LatestFileJoin attaches the newest file of each post as "file".
const LatestFileJoin = `JOIN LATERAL (
			SELECT f.id, f.width, f.height, f.metadata
			FROM files f
			WHERE f.post_id = post.id
			ORDER BY f.id DESC
			LIMIT 1
		) file ON TRUE`

// LatestAuditJoin attaches the most recent audit record of each post as
// "audit".
const LatestAuditJoin = `LEFT JOIN LATERAL (
			SELECT a.id, a.status
			FROM audit_logs a
			WHERE a.resource_type = 'post' AND a.resource_id = post.id
			ORDER BY a.created_at DESC, a.id DESC
			LIMIT 1
		) audit ON TRUE`

// PostGroupBy collapses tag fan-out back to one row per post.
const PostGroupBy = `GROUP BY post.id, owner.name, file.id, file.width, file.height, audit.id, audit.status`

// Build composes the page query and the total count query for opts. Both
// share one FROM and WHERE so the count always matches the rows the page
// query would return without LIMIT and OFFSET.
func Build(opts Options) (page Statement, count Statement) {
	var pb binder
	liked := pb.bind(opts.Viewer.ID)
	from, where := composeFrom(opts, &pb)
	limit := pb.bind(opts.Pagination.Limit)
	offset := pb.bind(opts.Pagination.Offset)

	page = Statement{
		SQL: `
	SELECT` + PostColumns + `,
		` + likedColumn(liked) + `
	` + from + `
	WHERE ` + where + `
	` + PostGroupBy + `
	ORDER BY ` + opts.Sort.Clause() + `
	LIMIT ` + limit + `
	OFFSET ` + offset,
		Args: pb.args,
	}

	var cb binder
	from, where = composeFrom(opts, &cb)
	count = Statement{
		SQL: `
	SELECT COUNT(DISTINCT post.id)
	` + from + `
	WHERE ` + where,
		Args: cb.args,
	}

	return page, count
}

// SinglePost composes the read of one post by id for viewer. Unlike the
// listing, a post without any file is still returned.
func SinglePost(id int64, viewer models.Principal) Statement {
	var b binder
	liked := b.bind(viewer.ID)
	return Statement{
		SQL: `
	SELECT` + PostColumns + `,
		` + likedColumn(liked) + `
	FROM posts post
	LEFT JOIN users owner ON owner.id = post.user_id
	LEFT ` + LatestFileJoin + `
	LEFT JOIN post_tags ON post_tags.post_id = post.id
	LEFT JOIN tags tag ON tag.id = post_tags.tag_id
	` + LatestAuditJoin + `
	WHERE post.id = ` + b.bind(id) + `
	` + PostGroupBy,
		Args: b.args,
	}
}

func likedColumn(viewer string) string {
	return `EXISTS (
			SELECT 1 FROM user_like_posts viewer_like
			WHERE viewer_like.post_id = post.id AND viewer_like.user_id = ` + viewer + `
		) AS liked`
}

// composeFrom returns the FROM clause (with joins) and the WHERE
// condition for opts, binding every value through b.
func composeFrom(opts Options, b *binder) (from, where string) {
	joins := []string{
		"FROM posts post",
		"LEFT JOIN users owner ON owner.id = post.user_id",
		"INNER " + LatestFileJoin,
		"LEFT JOIN post_tags ON post_tags.post_id = post.id",
		"LEFT JOIN tags tag ON tag.id = post_tags.tag_id",
		LatestAuditJoin,
	}

	var filter string
	switch f := opts.Filter.(type) {
	case nil, NoFilter, AllPostsFilter:
		filter = "TRUE"
	case TagFilter:
		// A separate alias keeps the tags aggregate complete.
		filter = `EXISTS (
			SELECT 1 FROM post_tags tagged
			JOIN tags wanted ON wanted.id = tagged.tag_id
			WHERE tagged.post_id = post.id AND wanted.name = ` + b.bind(f.Tag) + `
		)`
	case UserPublishedFilter:
		filter = "post.user_id = " + b.bind(f.UserID)
	case UserLikedFilter:
		joins = append(joins, "INNER JOIN user_like_posts user_like_post ON user_like_post.post_id = post.id")
		filter = "user_like_post.user_id = " + b.bind(f.UserID)
	case CameraFilter:
		filter = "file.metadata->>'Make' = " + b.bind(f.Make) +
			" AND file.metadata->>'Model' = " + b.bind(f.Model)
	case LensFilter:
		filter = "file.metadata->>'Make' = " + b.bind(f.Make) +
			" AND file.metadata->>'Model' = " + b.bind(f.Model)
	case OwnerFilter:
		filter = "post.user_id = " + b.bind(f.UserID)
	default:
		panic(fmt.Sprintf("listing: unhandled filter %T", f))
	}

	conds := []string{"(" + filter + ")"}
	if opts.Status != "" {
		conds = append(conds, "post.status = "+b.bind(string(opts.Status)))
	}
	if opts.AuditStatus != "" {
		conds = append(conds, "audit.status = "+b.bind(string(opts.AuditStatus)))
	}

	return strings.Join(joins, "\n\t"), strings.Join(conds, " AND ")
}

// binder collects positional arguments and hands out their placeholders.
type binder struct {
	args []any
}

func (b *binder) bind(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}
