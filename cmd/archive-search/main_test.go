package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ProsperityMC/whitelist-form/internal/application"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

func TestSearchCmd(t *testing.T) {
	require := require.New(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]application.Application{
			{ID: "1", Username: "bob", Status: application.StatusApproved},
			{ID: "2", Username: "alice", Status: application.StatusDenied, StatusReason: "incomplete backstory"},
		})
	}))
	defer srv.Close()

	var out bytes.Buffer
	cmd := &SearchCmd{URL: srv.URL, Session: "s", Timeout: time.Second, Query: []string{"incomplete", "backstory"}}
	require.NoError(cmd.Run(&Context{Logger: log.New(io.Discard), Out: &out}))

	require.Contains(out.String(), "alice")
	require.NotContains(out.String(), "bob")
	require.Contains(out.String(), "1 resultado encontrado")
}
