package sqlxstore

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/masomo/core"
)

type changeKind int

const (
	added changeKind = iota
	updated
	removed
)

func (k changeKind) String() string {
	return [...]string{"insert", "update", "delete"}[k]
}

type change struct {
	kind   changeKind
	entity core.Entity
}

// Context stages entity changes and applies them in order, in a single transaction, on Save.
type Context struct {
	db      *DB
	changes []change
}

func (c *Context) Add(e core.Entity) { c.changes = append(c.changes, change{added, e}) }
func (c *Context) Update(e core.Entity) { c.changes = append(c.changes, change{updated, e}) }
func (c *Context) Remove(e core.Entity) { c.changes = append(c.changes, change{removed, e}) }

// Pending returns the number of staged changes.
func (c *Context) Pending() int { return len(c.changes) }

// Save applies every staged change. On failure the transaction is rolled back, a
// *core.PersistenceError is returned and the staged changes are kept.
// Generated ids are written back to added entities as soon as they are inserted,
// so later changes to the same entity in the batch target the new row.
func (c *Context) Save(ctx context.Context) error {
	if len(c.changes) == 0 {
		return nil
	}

	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return persistenceError("begin", err)
	}

	var inserted []core.Entity
	rollback := func() {
		_ = tx.Rollback()
		for _, e := range inserted {
			e.SetPrimaryKey(0)
		}
	}

	for _, ch := range c.changes {
		switch ch.kind {
		case added:
			var id int64
			if id, err = c.insert(ctx, tx, ch.entity); err == nil {
				ch.entity.SetPrimaryKey(id)
				inserted = append(inserted, ch.entity)
			}
		case updated:
			err = c.upsert(ctx, tx, ch.entity)
		case removed:
			err = c.delete(ctx, tx, ch.entity)
		}
		if err != nil {
			rollback()
			return persistenceError(ch.kind.String()+" "+ch.entity.TableName(), err)
		}
	}

	if err = tx.Commit(); err != nil {
		rollback()
		return persistenceError("commit", err)
	}
	c.changes = nil
	return nil
}

func (c *Context) insert(ctx context.Context, tx *sqlx.Tx, e core.Entity) (int64, error) {
	m := c.db.metaOf(e)
	query, args, err := c.db.builder.
		Insert(m.table).
		Columns(m.columns...).
		Values(m.values(e)...).
		Suffix("RETURNING " + pkColumn).
		ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	if err = tx.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// upsert replaces the row with the entity's key, inserting it when missing.
func (c *Context) upsert(ctx context.Context, tx *sqlx.Tx, e core.Entity) error {
	m := c.db.metaOf(e)
	sets := make([]string, 0, len(m.columns))
	for _, col := range m.columns {
		sets = append(sets, col+" = excluded."+col)
	}
	query, args, err := c.db.builder.
		Insert(m.table).
		Columns(append([]string{pkColumn}, m.columns...)...).
		Values(append([]interface{}{e.PrimaryKey()}, m.values(e)...)...).
		Suffix("ON CONFLICT (" + pkColumn + ") DO UPDATE SET " + strings.Join(sets, ", ")).
		ToSql()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

func (c *Context) delete(ctx context.Context, tx *sqlx.Tx, e core.Entity) error {
	query, args, err := c.db.builder.
		Delete(e.TableName()).
		Where(sq.Eq{pkColumn: e.PrimaryKey()}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}
