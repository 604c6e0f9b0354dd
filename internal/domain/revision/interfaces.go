package revision

import (
	"context"

	"github.com/JRocha1994/archi-track/internal/domain/activity"
	"github.com/JRocha1994/archi-track/internal/domain/catalog"
)

// Repository provides persistence for revisions. CreateMany and UpdateMany
// are atomic: either every record is written or none is.
type Repository interface {
	Create(ctx context.Context, ownerID string, rev *Revision) error
	CreateMany(ctx context.Context, ownerID string, revs []Revision) error
	Get(ctx context.Context, ownerID, id string) (*Revision, error)
	Update(ctx context.Context, ownerID string, rev *Revision) error
	UpdateMany(ctx context.Context, ownerID string, revs []Revision) error
	Delete(ctx context.Context, ownerID, id string) error
	List(ctx context.Context, ownerID string) ([]Revision, error)
}

// CatalogReader loads the owner's catalog for reference checks and lead times.
type CatalogReader interface {
	Snapshot(ctx context.Context, ownerID string) (*catalog.Snapshot, error)
}

// ActivityRepository logs revision activities.
type ActivityRepository interface {
	Log(ctx context.Context, ownerID string, entry *activity.Entry) error
}

// Recorder receives mutation and rejection counts.
type Recorder interface {
	Mutated(op string, n int)
	Rejected(op, reason string)
}
