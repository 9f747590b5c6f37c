package echoapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// bindJSON decodes the request body into dest. Unlike echo's default binder,
// path and query parameters are never bound, so a DTO id can only come from the body.
// An empty body leaves dest untouched.
func bindJSON(ctx echo.Context, dest interface{}) error {
	err := json.NewDecoder(ctx.Request().Body).Decode(dest)
	if err != nil && err != io.EOF {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
	}
	return nil
}

// paramID parses a numeric path parameter.
func paramID(ctx echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	return id, err == nil
}
