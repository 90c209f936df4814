package testutil

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/skosovsky/toolview/toolserver"
)

// NewTestRegistry returns a Registry with long timeout and panic recovery enabled,
// suitable for tests.
func NewTestRegistry(tools ...toolserver.Tool) *toolserver.Registry {
	reg := toolserver.NewRegistry(
		toolserver.WithDefaultTimeout(30*time.Second),
		toolserver.WithRecoverPanics(true),
		toolserver.WithLogger(DiscardLogger()),
	)
	for _, t := range tools {
		reg.Register(t)
	}
	return reg
}

// NewSchemaServer serves reg over HTTP (GET /tools-schema, POST /tools/{name}) until
// the test ends. Its URL is a valid schema source base URL.
func NewSchemaServer(t testing.TB, reg *toolserver.Registry) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(toolserver.Handler(reg, DiscardLogger()))
	t.Cleanup(srv.Close)
	return srv
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
