package sqlxstore

import (
	"context"

	"github.com/trezcool/masomo/core"
)

// Repository implements core.Repository[T] over a Context.
// Repositories built on the same Context share its staged changes.
type Repository[T any, PT core.EntityPtr[T]] struct {
	c *Context
}

var _ core.Repository[noEntity] = (*Repository[noEntity, *noEntity])(nil) // interface compliance check

func NewRepository[T any, PT core.EntityPtr[T]](c *Context) *Repository[T, PT] {
	return &Repository[T, PT]{c: c}
}

func (r *Repository[T, PT]) Query() core.Query[T] { return Set[T, PT](r.c) }

func (r *Repository[T, PT]) Get(ctx context.Context, id int64) (*T, error) {
	return Find[T, PT](ctx, r.c, id)
}

func (r *Repository[T, PT]) Add(e *T) { r.c.Add(PT(e)) }
func (r *Repository[T, PT]) Update(e *T) { r.c.Update(PT(e)) }
func (r *Repository[T, PT]) Remove(e *T) { r.c.Remove(PT(e)) }

func (r *Repository[T, PT]) SaveChanges(ctx context.Context) error {
	return r.c.Save(ctx)
}

type noEntity struct{}

func (*noEntity) TableName() string { return "" }
func (*noEntity) PrimaryKey() int64 { return 0 }
func (*noEntity) SetPrimaryKey(_ int64) {}
