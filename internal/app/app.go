// Package app wires the stores, domain services and surfaces of the server.
package app

import (
	"log/slog"
	"net/http"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/JRocha1994/archi-track/internal/auth"
	"github.com/JRocha1994/archi-track/internal/config"
	"github.com/JRocha1994/archi-track/internal/domain/activity"
	"github.com/JRocha1994/archi-track/internal/domain/catalog"
	"github.com/JRocha1994/archi-track/internal/domain/query"
	"github.com/JRocha1994/archi-track/internal/domain/revision"
	"github.com/JRocha1994/archi-track/internal/ingest"
	"github.com/JRocha1994/archi-track/internal/mcp"
	"github.com/JRocha1994/archi-track/internal/metrics"
	"github.com/JRocha1994/archi-track/internal/sqlstore"
	"github.com/JRocha1994/archi-track/internal/transport"
)

// MCPSessionTimeout closes idle streamable HTTP sessions.
const MCPSessionTimeout = 30 * time.Minute

// App holds the wired services of one server instance.
type App struct {
	Catalog   *catalog.Service
	Revisions *revision.Service
	Query     *query.Service
	Importer  *ingest.Importer
	Activity  *activity.Service
	APIKeys   *sqlstore.APIKeyRepository
	MCP       *sdkmcp.Server
	Registry  *prometheus.Registry
	Resolver  transport.OwnerResolver

	cfg    config.Config
	logger *slog.Logger
}

// New builds every service over db. logger may be nil.
func New(cfg config.Config, db *sqlstore.DB, logger *slog.Logger, version string) *App {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.New(registry)

	revisionRepo := sqlstore.NewRevisionRepository(db)
	activityRepo := sqlstore.NewActivityRepository(db)

	a := &App{
		APIKeys:  sqlstore.NewAPIKeyRepository(db),
		Registry: registry,
		cfg:      cfg,
		logger:   logger,
	}
	a.Catalog = catalog.NewService(sqlstore.NewCatalogRepository(db), logger)
	a.Activity = activity.NewService(activityRepo, logger)
	a.Revisions = revision.NewService(revisionRepo, a.Catalog, activityRepo, recorder, logger)
	a.Query = query.NewService(revisionRepo, a.Catalog, logger)
	a.Importer = ingest.NewImporter(a.Catalog, a.Revisions, recorder, logger)
	a.Resolver = ownerResolver(cfg, a.APIKeys)

	a.MCP = mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Catalog:   a.Catalog,
			Revisions: a.Revisions,
			Query:     a.Query,
		},
		Resolver:        a.Resolver,
		AuthEnabled:     cfg.Auth.Enabled,
		DefaultOwner:    cfg.Auth.DefaultOwner,
		TransportMode:   cfg.Transport.Mode,
		DefaultPageSize: cfg.Query.DefaultPageSize,
		Version:         version,
		Logger:          logger,
	})
	return a
}

// Handler serves the REST API with /mcp, /metrics and /health.
func (a *App) Handler() http.Handler {
	authMiddleware := transport.FixedOwnerMiddleware(a.cfg.Auth.DefaultOwner)
	if a.cfg.Auth.Enabled {
		authMiddleware = transport.AuthMiddleware(a.Resolver)
	}
	return transport.NewServer(transport.Config{
		Services: transport.Services{
			Catalog:   a.Catalog,
			Revisions: a.Revisions,
			Query:     a.Query,
			Importer:  a.Importer,
			Activity:  a.Activity,
		},
		Auth:            authMiddleware,
		MCP:             mcp.NewHTTPHandler(a.MCP, MCPSessionTimeout),
		Metrics:         metrics.Handler(a.Registry),
		Logger:          a.logger,
		DefaultPageSize: a.cfg.Query.DefaultPageSize,
	})
}

// ownerResolver picks the credential check for the configured auth mode.
func ownerResolver(cfg config.Config, keys auth.KeyStore) transport.OwnerResolver {
	if !cfg.Auth.Enabled {
		return auth.StaticResolver{OwnerID: cfg.Auth.DefaultOwner}
	}
	if cfg.Auth.Mode == "jwt" {
		return auth.NewJWTResolver(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	}
	return auth.NewAPIKeyResolver(keys)
}
