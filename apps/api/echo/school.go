package echoapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/school"
	"github.com/trezcool/masomo/core/user"
)

func registerSchoolAPI(g *echo.Group, validate *validator.Validate) {
	superAdmin := roleMiddleware(user.RoleSuperAdmin)

	levels := &resourceAPI[school.Level, *school.Level, school.LevelDTO]{
		name:      "school level",
		location:  "/api/school-levels",
		ordering:  []core.DBOrdering{core.OrderByID},
		validate:  validate,
		toDTO:     school.LevelToDTO,
		newEntity: school.NewLevel,
		apply:     school.ApplyLevel,
		dtoID:     func(dto school.LevelDTO) int64 { return dto.ID },
	}
	levels.register(g.Group("/school-levels"), superAdmin)

	grades := &resourceAPI[school.Grade, *school.Grade, school.GradeDTO]{
		name:      "grade",
		location:  "/api/grades",
		ordering:  []core.DBOrdering{core.OrderByID},
		validate:  validate,
		toDTO:     school.GradeToDTO,
		newEntity: school.NewGrade,
		apply:     school.ApplyGrade,
		dtoID:     func(dto school.GradeDTO) int64 { return dto.ID },
	}
	grades.register(g.Group("/grades"), superAdmin)
}
