// Package sqlxstore is the relational persistence context shared by every entity repository.
package sqlxstore

import (
	"reflect"
	"strings"
	"sync"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"

	"github.com/trezcool/masomo/core"
)

const pkColumn = "id"

// DB is the process wide connection pool. It is safe for concurrent use.
type DB struct {
	*sqlx.DB
	builder sq.StatementBuilderType
	meta    sync.Map // reflect.Type -> *entityMeta
}

func New(db *sqlx.DB) *DB {
	format := sq.PlaceholderFormat(sq.Question)
	if sqlx.BindType(db.DriverName()) == sqlx.DOLLAR {
		format = sq.Dollar
	}
	return &DB{
		DB:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(format),
	}
}

// NewContext returns a fresh unit of work. A Context must not be shared between requests.
func (db *DB) NewContext() *Context {
	return &Context{db: db}
}

type entityMeta struct {
	table   string
	columns []string              // without the primary key
	fields  []*reflectx.FieldInfo // same order as columns
}

func (m *entityMeta) selectColumns() []string {
	return append([]string{pkColumn}, m.columns...)
}

func (m *entityMeta) values(e core.Entity) []interface{} {
	v := reflect.Indirect(reflect.ValueOf(e))
	vals := make([]interface{}, 0, len(m.fields))
	for _, fi := range m.fields {
		vals = append(vals, reflectx.FieldByIndexesReadOnly(v, fi.Index).Interface())
	}
	return vals
}

// metaOf maps the top level `db` tagged fields of an entity to its columns.
func (db *DB) metaOf(e core.Entity) *entityMeta {
	t := reflect.Indirect(reflect.ValueOf(e)).Type()
	if m, ok := db.meta.Load(t); ok {
		return m.(*entityMeta)
	}

	m := &entityMeta{table: e.TableName()}
	for _, fi := range db.Mapper.TypeMap(t).Index {
		if fi.Name == pkColumn || strings.Contains(fi.Path, ".") {
			continue
		}
		m.columns = append(m.columns, fi.Name)
		m.fields = append(m.fields, fi)
	}
	db.meta.Store(t, m)
	return m
}
