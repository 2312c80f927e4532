package httpx

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"
)

func serve(fn HandlerFunc) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	Handle(log.New(io.Discard), fn)(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	return rec
}

func TestHandle(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		rec := serve(func(rw http.ResponseWriter, req *http.Request, _ httprouter.Params) error {
			return JSON(rw, []string{"a"})
		})
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `["a"]`, rec.Body.String())
	})

	t.Run("status error", func(t *testing.T) {
		rec := serve(func(rw http.ResponseWriter, req *http.Request, _ httprouter.Params) error {
			return Error(http.StatusForbidden, errors.New("admins only"))
		})
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.JSONEq(t, `{"error":"admins only"}`, rec.Body.String())
	})

	t.Run("internal error", func(t *testing.T) {
		rec := serve(func(rw http.ResponseWriter, req *http.Request, _ httprouter.Params) error {
			return errors.New("database is locked")
		})
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())
	})
}

func TestStatusErrorUnwrap(t *testing.T) {
	base := errors.New("base")
	err := Error(http.StatusBadRequest, base)
	require.ErrorIs(t, err, base)
	require.Equal(t, "base", err.Error())
}
