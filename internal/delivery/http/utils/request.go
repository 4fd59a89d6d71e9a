package utils

import (
	"encoding/json"

	"github.com/labstack/echo/v4"
)

// ReadJSON декодирует тело запроса в v
func ReadJSON(c echo.Context, v any) error {
	return json.NewDecoder(c.Request().Body).Decode(v)
}

// ReadQuery привязывает query-параметры запроса к v
func ReadQuery(c echo.Context, v any) error {
	return c.Bind(v)
}
