package archive

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClient(t *testing.T) {
	require := require.New(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != archivePath {
			http.NotFound(w, r)
			return
		}
		c, err := r.Cookie("session-id")
		if err != nil || c.Value != "secret" {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(mockArchive())
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL, Session: "secret"}
	apps, err := c.FetchArchive(context.Background())
	require.NoError(err)
	require.Equal([]string{"1", "2", "3"}, ids(apps))
	require.Equal("incomplete backstory", apps[1].StatusReason)

	c = &Client{BaseURL: srv.URL, HTTPClient: srv.Client()}
	_, err = c.FetchArchive(context.Background())
	require.Error(err)
}

func TestClientBasePath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/whitelist"+archivePath {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(mockArchive())
	}))
	defer srv.Close()

	for _, base := range []string{srv.URL + "/whitelist", srv.URL + "/whitelist/"} {
		t.Run(base, func(t *testing.T) {
			apps, err := (&Client{BaseURL: base}).FetchArchive(context.Background())
			require.NoError(t, err)
			require.Len(t, apps, 3)
		})
	}
}

func TestClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := &countingFetcher{}
	p := newTestPage(f)
	p.Sync(context.Background(), adminSession)

	p.SetFetcher(&Client{BaseURL: srv.URL})
	p.Sync(context.Background(), adminSession)
	require.Len(t, p.Toasts(), 1)
	require.Empty(t, p.Applications())
}
