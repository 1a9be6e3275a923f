package web

// errors.go is the error stage for every handler.
//
// Handlers return errors instead of writing them. handle() passes a non-nil
// error to respondError, which:
//  1. maps it via core.MapError to a user message and support code
//  2. picks the HTTP status from the code
//  3. logs the technical error with the request id
//  4. writes an ErrorResponse JSON body

import (
	"errors"
	"net/http"

	"github.com/JonMunkholm/csvfetch/internal/core"
	"github.com/JonMunkholm/csvfetch/internal/logging"
)

var (
	errRouteNotFound    = errors.New("route not found")
	errMethodNotAllowed = errors.New("method not allowed")
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// appHandler is a handler whose failures go to the error stage.
type appHandler func(w http.ResponseWriter, r *http.Request) error

// handle adapts an appHandler to http.HandlerFunc.
func (s *Server) handle(fn appHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			s.respondError(w, r, err)
		}
	}
}

// statusByCode maps support codes to HTTP status. Codes not listed are 500.
var statusByCode = map[string]int{
	"CFG001":  http.StatusInternalServerError,
	"FILE002": http.StatusUnprocessableEntity,
	"FILE006": http.StatusNotFound,
	"FILE007": http.StatusForbidden,
	"FILE008": http.StatusInternalServerError,
	"FILE009": http.StatusInternalServerError,
	"FET001":  http.StatusServiceUnavailable,
	"REQ001":  http.StatusServiceUnavailable,
	"REQ002":  http.StatusGatewayTimeout,
	"RATE001": http.StatusTooManyRequests,
	"HTTP404": http.StatusNotFound,
	"HTTP405": http.StatusMethodNotAllowed,
}

// userMessage extends core.MapError with routing errors owned by this package.
func userMessage(err error) core.UserMessage {
	switch {
	case errors.Is(err, errRouteNotFound):
		return core.UserMessage{Message: "Not found", Action: "The only data route is GET /fetch", Code: "HTTP404"}
	case errors.Is(err, errMethodNotAllowed):
		return core.UserMessage{Message: "Method not allowed", Action: "Use GET", Code: "HTTP405"}
	}
	return core.MapError(err)
}

// statusFor returns the HTTP status for a support code.
func statusFor(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// respondError logs err and writes the mapped JSON error reply.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	msg := userMessage(err)
	status := statusFor(msg.Code)

	logger := logging.FromContext(r.Context())
	args := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", args...)
	} else {
		logger.Warn("request error", args...)
	}

	writeJSONStatus(w, status, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}
