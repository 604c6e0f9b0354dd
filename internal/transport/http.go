package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/JRocha1994/archi-track/internal/domain/activity"
	"github.com/JRocha1994/archi-track/internal/domain/catalog"
	"github.com/JRocha1994/archi-track/internal/domain/query"
	"github.com/JRocha1994/archi-track/internal/domain/revision"
	"github.com/JRocha1994/archi-track/internal/ingest"
)

// CatalogService defines catalog operations needed by the API.
type CatalogService interface {
	CreateVenture(ctx context.Context, ownerID string, req catalog.CreateVentureRequest) (*catalog.Venture, error)
	CreateWork(ctx context.Context, ownerID string, req catalog.CreateWorkRequest) (*catalog.Work, error)
	CreateDiscipline(ctx context.Context, ownerID string, req catalog.CreateDisciplineRequest) (*catalog.Discipline, error)
	CreateDesigner(ctx context.Context, ownerID string, req catalog.CreateDesignerRequest) (*catalog.Designer, error)
	SetDisciplineLeadDays(ctx context.Context, ownerID, id string, days int) (*catalog.Discipline, error)
	Rename(ctx context.Context, ownerID string, kind catalog.Kind, id, name string) error
	Delete(ctx context.Context, ownerID string, kind catalog.Kind, id string) error
	Snapshot(ctx context.Context, ownerID string) (*catalog.Snapshot, error)
}

// RevisionService defines revision operations needed by the API.
type RevisionService interface {
	Create(ctx context.Context, ownerID string, req revision.CreateRequest) (*revision.Revision, error)
	Update(ctx context.Context, ownerID, id string, req revision.UpdateRequest) (*revision.Revision, error)
	BulkUpdate(ctx context.Context, ownerID string, ids []string, req revision.UpdateRequest) ([]revision.Revision, error)
	Duplicate(ctx context.Context, ownerID string, ids []string) ([]revision.Revision, error)
	Delete(ctx context.Context, ownerID, id string) error
	Get(ctx context.Context, ownerID, id string) (*revision.Revision, error)
	NextNumber(ctx context.Context, ownerID string, group revision.GroupKey) (int, error)
}

// QueryService runs views over an owner's revisions.
type QueryService interface {
	Run(ctx context.Context, ownerID string, v query.View) (query.Result, *catalog.Snapshot, error)
}

// Importer imports CSV files.
type Importer interface {
	Import(ctx context.Context, ownerID string, r io.Reader, dryRun bool) (*ingest.Result, error)
}

// ActivityService lists the audit log.
type ActivityService interface {
	Recent(ctx context.Context, ownerID string, opts activity.ListOptions) ([]activity.Entry, error)
}

// Services contains the domain services behind the API.
type Services struct {
	Catalog   CatalogService
	Revisions RevisionService
	Query     QueryService
	Importer  Importer
	Activity  ActivityService
}

// Config wires the HTTP surface.
type Config struct {
	Services Services
	// Auth attributes requests to an owner; AuthMiddleware or FixedOwnerMiddleware.
	Auth func(http.Handler) http.Handler
	// MCP and Metrics are mounted at /mcp and /metrics when set.
	MCP             http.Handler
	Metrics         http.Handler
	Logger          *slog.Logger
	DefaultPageSize int
}

// Server holds the API handlers.
type Server struct {
	services        Services
	validate        *validator.Validate
	logger          *slog.Logger
	defaultPageSize int
}

const maxImportBytes = 10 << 20

// NewServer creates an HTTP router with middleware.
func NewServer(cfg Config) *chi.Mux {
	srv := &Server{
		services:        cfg.Services,
		validate:        newValidator(),
		logger:          cfg.Logger,
		defaultPageSize: query.NormalizePageSize(cfg.DefaultPageSize),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(cfg.Logger))

	r.Get("/health", srv.handleHealth)
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics)
	}
	if cfg.MCP != nil {
		r.Handle("/mcp", cfg.MCP)
		r.Handle("/mcp/*", cfg.MCP)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Auth != nil {
			r.Use(cfg.Auth)
		}

		r.Get("/catalog", withOwner(srv.listCatalog))
		r.Post("/ventures", withOwner(srv.createVenture))
		r.Post("/works", withOwner(srv.createWork))
		r.Post("/disciplines", withOwner(srv.createDiscipline))
		r.Post("/designers", withOwner(srv.createDesigner))
		for path, kind := range catalogPaths {
			r.Patch("/"+path+"/{id}", withOwner(srv.updateCatalogEntity(kind)))
			r.Delete("/"+path+"/{id}", withOwner(srv.deleteCatalogEntity(kind)))
		}

		r.Get("/revisions", withOwner(srv.queryRevisions))
		r.Post("/revisions", withOwner(srv.createRevision))
		r.Get("/revisions/next-number", withOwner(srv.nextNumber))
		r.Post("/revisions/bulk-update", withOwner(srv.bulkUpdate))
		r.Post("/revisions/duplicate", withOwner(srv.duplicate))
		r.Post("/revisions/import", withOwner(srv.importCSV))
		r.Get("/revisions/{id}", withOwner(srv.getRevision))
		r.Patch("/revisions/{id}", withOwner(srv.updateRevision))
		r.Delete("/revisions/{id}", withOwner(srv.deleteRevision))

		r.Get("/activity", withOwner(srv.listActivity))
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// withOwner passes the request's owner to fn and rejects requests without one.
func withOwner(fn func(w http.ResponseWriter, r *http.Request, ownerID string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := OwnerFromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, &APIError{Code: "UNAUTHORIZED", Message: "missing owner"})
			return
		}
		fn(w, r, ownerID)
	}
}

// decode reads a JSON body into out and validates its tags.
func (s *Server) decode(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest("request body is empty")
		}
		return badRequest("invalid JSON body: %v", err)
	}
	if err := s.validate.Struct(out); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return nil
		}
		return err
	}
	return nil
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := MapError(err)
	if apiErr.Status >= http.StatusInternalServerError && s.logger != nil {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, apiErr.Status, apiErr)
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if logger == nil {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
