package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/storage/database/sqlxstore"
)

// resourceAPI serves the CRUD endpoints of an entity T exposed as D.
type resourceAPI[T any, PT core.EntityPtr[T], D any] struct {
	name      string // for error messages
	location  string // path prefix of the Location header
	ordering  []core.DBOrdering
	validate  *validator.Validate
	toDTO     func(*T) D
	newEntity func(dto D, now time.Time) *T
	apply     func(*T, D)
	dtoID     func(D) int64
}

// register mounts the endpoints on g. write guards the endpoints that change data.
func (api *resourceAPI[T, PT, D]) register(g *echo.Group, write ...echo.MiddlewareFunc) {
	g.GET("", api.list)
	g.GET("/:id", api.retrieve)
	g.POST("", api.create, write...)
	g.PUT("/:id", api.update, write...)
	g.DELETE("/:id", api.destroy, write...)
}

func (api *resourceAPI[T, PT, D]) repo(ctx echo.Context) core.Repository[T] {
	return sqlxstore.NewRepository[T, PT](session(ctx))
}

// get fetches the entity of the `:id` path parameter.
func (api *resourceAPI[T, PT, D]) get(ctx echo.Context) (*T, error) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return nil, errHttpNotFound
	}
	obj, err := api.repo(ctx).Get(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == core.ErrNotFound {
			return nil, errHttpNotFound
		}
		return nil, errors.Wrapf(err, "finding %s by ID", api.name)
	}
	return obj, nil
}

func (api *resourceAPI[T, PT, D]) list(ctx echo.Context) error {
	objs, err := api.repo(ctx).Query().OrderBy(api.ordering...).All(ctx.Request().Context())
	if err != nil {
		return errors.Wrapf(err, "querying %s", api.name)
	}
	dtos := make([]D, 0, len(objs))
	for i := range objs {
		dtos = append(dtos, api.toDTO(&objs[i]))
	}
	return ctx.JSON(http.StatusOK, dtos)
}

func (api *resourceAPI[T, PT, D]) retrieve(ctx echo.Context) error {
	obj, err := api.get(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.toDTO(obj))
}

func (api *resourceAPI[T, PT, D]) create(ctx echo.Context) error {
	var data D
	if err := bindJSON(ctx, &data); err != nil {
		return err
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	obj := api.newEntity(data, nowFunc())
	repo := api.repo(ctx)
	repo.Add(obj)
	if err := repo.SaveChanges(ctx.Request().Context()); err != nil {
		return errors.Wrapf(err, "creating %s", api.name)
	}

	id := PT(obj).PrimaryKey()
	ctx.Response().Header().Set(echo.HeaderLocation, api.location+"/"+strconv.FormatInt(id, 10))
	return ctx.JSON(http.StatusCreated, api.toDTO(obj))
}

func (api *resourceAPI[T, PT, D]) update(ctx echo.Context) error {
	id, ok := paramID(ctx, "id")
	if !ok {
		return errHttpNotFound
	}

	var data D
	if err := bindJSON(ctx, &data); err != nil {
		return err
	}
	if api.dtoID(data) != id {
		return errIDMismatch
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	obj, err := api.get(ctx)
	if err != nil {
		return err
	}
	api.apply(obj, data)

	repo := api.repo(ctx)
	repo.Update(obj)
	if err = repo.SaveChanges(ctx.Request().Context()); err != nil {
		return errors.Wrapf(err, "updating %s", api.name)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *resourceAPI[T, PT, D]) destroy(ctx echo.Context) error {
	obj, err := api.get(ctx)
	if err != nil {
		return err
	}

	repo := api.repo(ctx)
	repo.Remove(obj)
	if err = repo.SaveChanges(ctx.Request().Context()); err != nil {
		return errors.Wrapf(err, "deleting %s", api.name)
	}
	return ctx.NoContent(http.StatusNoContent)
}
