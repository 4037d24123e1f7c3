// Package response writes the JSON envelope shared by every endpoint:
//
//	{"status":"success","message":"...","data":{...}}
//	{"status":"fail","message":"..."}   client errors
//	{"status":"error","message":"..."}  server errors
package response

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/chatapp-auth/internal/service"
)

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Success writes a success envelope with optional message and data.
func Success(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, Envelope{Status: StatusSuccess, Message: message, Data: data})
}

// Failure writes a fail or error envelope depending on code.
func Failure(c echo.Context, code int, message string) error {
	status := StatusFail
	if code >= http.StatusInternalServerError {
		status = StatusError
	}
	return c.JSON(code, Envelope{Status: status, Message: message})
}

// StatusCode maps a flow failure kind to an HTTP status.
func StatusCode(k service.Kind) int {
	switch k {
	case service.KindAuthentication:
		return http.StatusUnauthorized
	case service.KindAuthorization:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// FromError writes the envelope for err.  Errors that are not
// *service.Error never leak their text to the client.
func FromError(c echo.Context, err error, fallback string) error {
	code := StatusCode(service.KindOf(err))
	var se *service.Error
	if errors.As(err, &se) {
		return Failure(c, code, se.Message)
	}
	return Failure(c, code, fallback)
}
