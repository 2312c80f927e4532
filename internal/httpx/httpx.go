// Package httpx adapts handlers that return errors to httprouter.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/julienschmidt/httprouter"
)

// Error is a convenience function for returning an error with an associated HTTP status code.
func Error(code int, err error) error {
	return &StatusError{code, err}
}

// StatusError represents an error with an associated HTTP status code.
type StatusError struct {
	Code int
	Err  error
}

func (se *StatusError) Error() string {
	return se.Err.Error()
}

func (se *StatusError) Unwrap() error {
	return se.Err
}

func (se *StatusError) Status() int {
	return se.Code
}

type HandlerFunc func(rw http.ResponseWriter, req *http.Request, params httprouter.Params) error

// Handle turns fn into an httprouter.Handle. Errors are written as a JSON
// body; a StatusError keeps its code and message, anything else becomes an
// opaque 500.
func Handle(logger *log.Logger, fn HandlerFunc) httprouter.Handle {
	return func(rw http.ResponseWriter, req *http.Request, params httprouter.Params) {
		err := fn(rw, req, params)
		if err == nil {
			return
		}
		rw.Header().Set("Content-Type", "application/json; charset=utf-8")
		if se := new(StatusError); errors.As(err, &se) {
			logger.Warn("HTTP", "method", req.Method, "path", req.URL.Path, "status", se.Status(), "err", err)
			rw.WriteHeader(se.Status())
			_ = json.NewEncoder(rw).Encode(map[string]any{
				"error": se.Error(),
			})
			return
		}
		logger.Error("HTTP", "method", req.Method, "path", req.URL.Path, "status", http.StatusInternalServerError, "err", err)
		rw.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(rw).Encode(map[string]any{
			"error": http.StatusText(http.StatusInternalServerError),
		})
	}
}

// JSON writes v as the response body.
func JSON(rw http.ResponseWriter, v any) error {
	rw.Header().Set("Content-Type", "application/json; charset=utf-8")
	return json.NewEncoder(rw).Encode(v)
}
