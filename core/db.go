package core

import "context"

type (
	// Entity is a persisted record with a store-assigned integer identity.
	Entity interface {
		TableName() string
		PrimaryKey() int64
		SetPrimaryKey(id int64)
	}

	// EntityPtr constrains a type parameter to a pointer to T that is an Entity.
	EntityPtr[T any] interface {
		*T
		Entity
	}

	// Query is a lazily evaluated, composable query over all rows of type T.
	// Nothing hits the store until All, First or Count is called.
	Query[T any] interface {
		Where(pred interface{}, args ...interface{}) Query[T]
		Filter(column string, value interface{}) Query[T]
		OrderBy(orderings ...DBOrdering) Query[T]
		Limit(n uint64) Query[T]
		All(ctx context.Context) ([]T, error)
		// First returns ErrNotFound when the query matches no rows.
		First(ctx context.Context) (*T, error)
		Count(ctx context.Context) (int64, error)
	}

	// Repository is the CRUD façade shared by every entity type.
	// Add, Update and Remove only stage changes: nothing is persisted until SaveChanges.
	Repository[T any] interface {
		Query() Query[T]
		Get(ctx context.Context, id int64) (*T, error)
		Add(entity *T)
		// Update stages a full replacement of the row with entity's id.
		// It does not check that the row exists: the store upserts by key.
		Update(entity *T)
		Remove(entity *T)
		SaveChanges(ctx context.Context) error
	}
)

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// OrderByID is the default ordering of the school structure views.
var OrderByID = DBOrdering{Field: "id", Ascending: true}
