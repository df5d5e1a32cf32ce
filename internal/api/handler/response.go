package handler

import (
	"github.com/labstack/echo/v4"
)

// Envelope wraps every response body, success or error. Data is never null.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func respond(c echo.Context, status int, message string, data any) error {
	if data == nil {
		data = struct{}{}
	}
	return c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Fail renders an error envelope. The central error handler is the only
// caller outside this package.
func Fail(c echo.Context, status int, message string) error {
	return c.JSON(status, Envelope{Success: false, Message: message, Data: struct{}{}})
}
