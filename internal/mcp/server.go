package mcp

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/JRocha1994/archi-track/internal/domain/catalog"
	"github.com/JRocha1994/archi-track/internal/domain/query"
	"github.com/JRocha1994/archi-track/internal/domain/revision"
)

// CatalogReader loads the owner's catalog.
type CatalogReader interface {
	Snapshot(ctx context.Context, ownerID string) (*catalog.Snapshot, error)
}

// RevisionService defines revision operations needed by MCP.
type RevisionService interface {
	Create(ctx context.Context, ownerID string, req revision.CreateRequest) (*revision.Revision, error)
	Update(ctx context.Context, ownerID, id string, req revision.UpdateRequest) (*revision.Revision, error)
	ValidateBatch(ctx context.Context, ownerID string, reqs []revision.CreateRequest) ([]revision.Revision, error)
	CreateBatch(ctx context.Context, ownerID string, reqs []revision.CreateRequest) ([]revision.Revision, error)
	NextNumber(ctx context.Context, ownerID string, group revision.GroupKey) (int, error)
}

// QueryService runs views over an owner's revisions.
type QueryService interface {
	Run(ctx context.Context, ownerID string, v query.View) (query.Result, *catalog.Snapshot, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Catalog   CatalogReader
	Revisions RevisionService
	Query     QueryService
}

// Config contains server configuration.
type Config struct {
	Services    Services
	Resolver    OwnerResolver
	AuthEnabled bool
	// DefaultOwner acts for every call in stdio mode and while auth is disabled.
	DefaultOwner    string
	TransportMode   string // "stdio" or "http"
	DefaultPageSize int
	Version         string
	Logger          *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "archi-track",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio is local use only and never authenticates.
	if cfg.TransportMode == "stdio" || !cfg.AuthEnabled {
		server.AddReceivingMiddleware(ownerMiddleware(fixedOwner(cfg.DefaultOwner)))
	} else {
		server.AddReceivingMiddleware(ownerMiddleware(bearerOwner(cfg.Resolver)))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services, query.NormalizePageSize(cfg.DefaultPageSize))

	return server
}

// NewHTTPHandler serves server over the streamable HTTP transport.
func NewHTTPHandler(server *sdkmcp.Server, sessionTimeout time.Duration) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: sessionTimeout},
	)
}
