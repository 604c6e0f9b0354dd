// Package testserver runs the complete HTTP surface over an in-memory
// database with API key auth.
package testserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JRocha1994/archi-track/internal/app"
	"github.com/JRocha1994/archi-track/internal/auth"
	"github.com/JRocha1994/archi-track/internal/config"
	"github.com/JRocha1994/archi-track/internal/sqlstore"
)

type TestServer struct {
	Server  *httptest.Server
	App     *app.App
	DB      *sqlstore.DB
	Token   string
	OwnerID string
}

func New(t *testing.T, token, ownerID string) *TestServer {
	t.Helper()

	db, err := sqlstore.New(sqlstore.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background()))

	cfg := config.Default()
	cfg.DB.DSN = ":memory:"
	cfg.Auth.Enabled = true
	cfg.Auth.Mode = "apikey"

	a := app.New(cfg, db, nil, "test")
	server := httptest.NewServer(a.Handler())

	ts := &TestServer{
		Server:  server,
		App:     a,
		DB:      db,
		Token:   token,
		OwnerID: ownerID,
	}

	require.NoError(t, ts.AddAPIKey(token, ownerID))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

func (ts *TestServer) AddAPIKey(token, ownerID string) error {
	return ts.App.APIKeys.Create(context.Background(), ownerID, auth.HashKey(token), "test")
}

// Client returns an HTTP client that sends the server's bearer token.
func (ts *TestServer) Client() *http.Client {
	return &http.Client{Transport: bearerTransport{token: ts.Token, base: http.DefaultTransport}}
}

type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (b bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+b.token)
	return b.base.RoundTrip(req)
}
