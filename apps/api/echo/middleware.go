package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/user"
	"github.com/trezcool/masomo/storage/database/sqlxstore"
)

const (
	contextSessionKey = "session"
	contextLoggerKey  = "logger"
)

// sessionMiddleware gives every request its own persistence Context.
// Changes staged but not saved by a handler are dropped with the request.
func sessionMiddleware(db *sqlxstore.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ctx.Set(contextSessionKey, db.NewContext())
			return next(ctx)
		}
	}
}

func session(ctx echo.Context) *sqlxstore.Context {
	return ctx.Get(contextSessionKey).(*sqlxstore.Context)
}

func userRepo(ctx echo.Context) core.Repository[user.User] {
	return sqlxstore.NewRepository[user.User](session(ctx))
}

// requestLoggerMiddleware stores a zerolog logger tagged with the request id on the context.
func requestLoggerMiddleware(logger core.Logger) echo.MiddlewareFunc {
	base := zerolog.Nop()
	if zl, ok := logger.(interface{ Zerolog() zerolog.Logger }); ok {
		base = zl.Zerolog()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			reqLogger := base.With().
				Str("request_id", ctx.Response().Header().Get(echo.HeaderXRequestID)).
				Str("method", ctx.Request().Method).
				Str("path", ctx.Request().URL.Path).
				Logger()
			ctx.Set(contextLoggerKey, &reqLogger)
			return next(ctx)
		}
	}
}

func requestLogger(ctx echo.Context) *zerolog.Logger {
	if l, ok := ctx.Get(contextLoggerKey).(*zerolog.Logger); ok {
		return l
	}
	nop := zerolog.Nop()
	return &nop
}
