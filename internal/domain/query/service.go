package query

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JRocha1994/archi-track/internal/domain/catalog"
	"github.com/JRocha1994/archi-track/internal/domain/revision"
)

// RevisionLister lists an owner's revisions in insertion order.
type RevisionLister interface {
	List(ctx context.Context, ownerID string) ([]revision.Revision, error)
}

// CatalogReader loads the owner's catalog used to resolve names.
type CatalogReader interface {
	Snapshot(ctx context.Context, ownerID string) (*catalog.Snapshot, error)
}

// Service runs views against stored revisions.
type Service struct {
	revisions RevisionLister
	catalog   CatalogReader
	logger    *slog.Logger
}

// NewService creates a new query service.
func NewService(revisions RevisionLister, catalog CatalogReader, logger *slog.Logger) *Service {
	return &Service{revisions: revisions, catalog: catalog, logger: logger}
}

// Run loads the owner's revisions and catalog and runs v over them. The
// catalog is returned so callers can resolve names of the page rows.
func (s *Service) Run(ctx context.Context, ownerID string, v View) (Result, *catalog.Snapshot, error) {
	snap, err := s.catalog.Snapshot(ctx, ownerID)
	if err != nil {
		return Result{}, nil, fmt.Errorf("loading catalog: %w", err)
	}
	revs, err := s.revisions.List(ctx, ownerID)
	if err != nil {
		return Result{}, nil, fmt.Errorf("listing revisions: %w", err)
	}
	res := Run(revs, snap, v)
	if s.logger != nil {
		s.logger.Debug("query run", "owner_id", ownerID, "matched", res.Total, "page", res.Page.Page)
	}
	return res, snap, nil
}
