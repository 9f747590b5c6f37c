package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/school"
	"github.com/trezcool/masomo/storage/database/sqlxstore"
)

func registerStructureAPI(g *echo.Group) {
	sg := g.Group("/school-structure")
	sg.GET("/levels", structureLevels)
	sg.GET("/grades/:levelId", structureGrades)
	sg.GET("/all", completeStructure)
}

// structureError turns store failures into bad requests carrying msg.
func structureError(err error, msg string) error {
	if core.IsPersistenceError(err) {
		return core.NewValidationError(errors.New(msg))
	}
	return errors.Wrap(err, msg)
}

func structureLevels(ctx echo.Context) error {
	c := session(ctx)
	levels, err := school.Levels(ctx.Request().Context(), sqlxstore.NewRepository[school.Level](c))
	if err != nil {
		return structureError(err, "an error occurred while fetching school levels")
	}
	return ctx.JSON(http.StatusOK, levels)
}

func structureGrades(ctx echo.Context) error {
	levelID, ok := paramID(ctx, "levelId")
	if !ok {
		return errHttpNotFound
	}

	c := session(ctx)
	grades, err := school.GradesByLevel(ctx.Request().Context(), sqlxstore.NewRepository[school.Grade](c), levelID)
	if err != nil {
		if errors.Cause(err) == school.ErrNoGrades {
			return echo.NewHTTPError(http.StatusNotFound, school.ErrNoGrades.Error())
		}
		return structureError(err, "an error occurred while fetching grades")
	}
	return ctx.JSON(http.StatusOK, grades)
}

func completeStructure(ctx echo.Context) error {
	c := session(ctx)
	structure, err := school.CompleteStructure(
		ctx.Request().Context(),
		sqlxstore.NewRepository[school.Level](c),
		sqlxstore.NewRepository[school.Grade](c),
	)
	if err != nil {
		return structureError(err, "an error occurred while fetching the school structure")
	}
	return ctx.JSON(http.StatusOK, structure)
}
