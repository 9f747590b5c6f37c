package echoapi

import (
	"bytes"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo/core/billing"
	"github.com/trezcool/masomo/core/user"
	"github.com/trezcool/masomo/storage/database/sqlxstore"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func registerBillingAPI(g *echo.Group, validate *validator.Validate) {
	api := &resourceAPI[billing.Statement, *billing.Statement, billing.DTO]{
		name:      "billing statement",
		location:  "/api/billing",
		ordering:  billing.Ordering,
		validate:  validate,
		toDTO:     billing.ToDTO,
		newEntity: billing.New,
		apply:     billing.Apply,
		dtoID:     func(dto billing.DTO) int64 { return dto.ID },
	}
	managers := roleMiddleware(user.RoleSuperAdmin, user.RoleAdmin)

	bg := g.Group("/billing")
	bg.GET("/export", exportStatements, managers)
	api.register(bg, managers)
}

// exportStatements downloads every statement, in due date order, as an xlsx workbook.
func exportStatements(ctx echo.Context) error {
	stmts, err := sqlxstore.Set[billing.Statement](session(ctx)).
		OrderBy(billing.Ordering...).
		All(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying billing statements")
	}

	var buf bytes.Buffer
	if err = billing.WriteWorkbook(&buf, stmts); err != nil {
		return errors.Wrap(err, "exporting billing statements")
	}
	requestLogger(ctx).Info().Int("statements", len(stmts)).Msg("billing statements exported")

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="billing-statements.xlsx"`)
	return ctx.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}
