package sqlxstore

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/trezcool/masomo/core"
)

type predicate struct {
	pred interface{}
	args []interface{}
}

// Query is an immutable, lazily evaluated query over all the rows of T.
type Query[T any, PT core.EntityPtr[T]] struct {
	c        *Context
	meta     *entityMeta
	preds    []predicate
	ordering []string
	limit    uint64
}

var _ core.Query[noEntity] = (*Query[noEntity, *noEntity])(nil) // interface compliance check

// Set starts a query over every row of T.
func Set[T any, PT core.EntityPtr[T]](c *Context) *Query[T, PT] {
	return &Query[T, PT]{c: c, meta: c.db.metaOf(PT(new(T)))}
}

// Find looks an entity up by its primary key. It returns core.ErrNotFound when it does not exist.
func Find[T any, PT core.EntityPtr[T]](ctx context.Context, c *Context, id int64) (*T, error) {
	return Set[T, PT](c).Filter(pkColumn, id).First(ctx)
}

func (q *Query[T, PT]) clone() *Query[T, PT] {
	q2 := *q
	q2.preds = append([]predicate(nil), q.preds...)
	q2.ordering = append([]string(nil), q.ordering...)
	return &q2
}

// Where adds a squirrel predicate, eg. Where("name LIKE ?", "A%") or Where(sq.Gt{"id": 3}).
func (q *Query[T, PT]) Where(pred interface{}, args ...interface{}) core.Query[T] {
	q2 := q.clone()
	q2.preds = append(q2.preds, predicate{pred, args})
	return q2
}

// Filter adds an equality predicate on column.
func (q *Query[T, PT]) Filter(column string, value interface{}) core.Query[T] {
	return q.Where(sq.Eq{column: value})
}

func (q *Query[T, PT]) OrderBy(orderings ...core.DBOrdering) core.Query[T] {
	q2 := q.clone()
	for _, ord := range orderings {
		q2.ordering = append(q2.ordering, ord.String())
	}
	return q2
}

func (q *Query[T, PT]) Limit(n uint64) core.Query[T] {
	q2 := q.clone()
	q2.limit = n
	return q2
}

func (q *Query[T, PT]) where(sb sq.SelectBuilder) sq.SelectBuilder {
	for _, p := range q.preds {
		sb = sb.Where(p.pred, p.args...)
	}
	return sb
}

func (q *Query[T, PT]) toSQL() (string, []interface{}, error) {
	sb := q.where(q.c.db.builder.Select(q.meta.selectColumns()...).From(q.meta.table))
	if len(q.ordering) > 0 {
		sb = sb.OrderBy(q.ordering...)
	}
	if q.limit > 0 {
		sb = sb.Limit(q.limit)
	}
	return sb.ToSql()
}

// All runs the query. It never returns a nil slice without an error.
func (q *Query[T, PT]) All(ctx context.Context) ([]T, error) {
	query, args, err := q.toSQL()
	if err != nil {
		return nil, persistenceError("query "+q.meta.table, err)
	}
	res := make([]T, 0)
	if err = q.c.db.SelectContext(ctx, &res, query, args...); err != nil {
		return nil, persistenceError("query "+q.meta.table, err)
	}
	return res, nil
}

// First returns the first matching row or core.ErrNotFound.
func (q *Query[T, PT]) First(ctx context.Context) (*T, error) {
	query, args, err := q.Limit(1).(*Query[T, PT]).toSQL()
	if err != nil {
		return nil, persistenceError("query "+q.meta.table, err)
	}
	res := new(T)
	if err = q.c.db.GetContext(ctx, res, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, core.ErrNotFound
		}
		return nil, persistenceError("query "+q.meta.table, err)
	}
	return res, nil
}

// Count returns the number of matching rows. Ordering and limit are ignored.
func (q *Query[T, PT]) Count(ctx context.Context) (int64, error) {
	query, args, err := q.where(q.c.db.builder.Select("COUNT(*)").From(q.meta.table)).ToSql()
	if err != nil {
		return 0, persistenceError("count "+q.meta.table, err)
	}
	var n int64
	if err = q.c.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, persistenceError("count "+q.meta.table, err)
	}
	return n, nil
}
