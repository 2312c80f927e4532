package archive

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/ProsperityMC/whitelist-form/internal/application"
	"github.com/carlmjohnson/requests"
)

const archivePath = "/api/applications/archive"

// Client fetches the archive from a running server over HTTP. BaseURL may
// carry a path prefix when the server is mounted below the origin. Any non
// 2xx response is an error.
type Client struct {
	BaseURL string
	// Session is the value of an admin's session-id cookie.
	Session    string
	HTTPClient *http.Client
}

func (c *Client) FetchArchive(ctx context.Context) ([]application.Application, error) {
	var apps []application.Application
	// Path resolves against the base, so keep its last segment as a directory.
	base := strings.TrimSuffix(c.BaseURL, "/") + "/"
	rb := requests.URL(base).
		Path(strings.TrimPrefix(archivePath, "/")).
		Accept("application/json").
		ToJSON(&apps)
	if c.HTTPClient != nil {
		rb.Client(c.HTTPClient)
	}
	if c.Session != "" {
		rb.Header("Cookie", "session-id="+c.Session)
	}
	if err := rb.Fetch(ctx); err != nil {
		return nil, fmt.Errorf("fetch archived applications: %w", err)
	}
	return apps, nil
}
