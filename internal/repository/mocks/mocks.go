package mocks

import (
	"context"

	"github.com/JRocha1994/archi-track/internal/domain/activity"
	"github.com/JRocha1994/archi-track/internal/domain/catalog"
	"github.com/JRocha1994/archi-track/internal/domain/revision"
	"github.com/stretchr/testify/mock"
)

// CatalogRepository is a mock for catalog.Repository.
type CatalogRepository struct {
	mock.Mock
}

func (m *CatalogRepository) CreateVenture(ctx context.Context, ownerID string, v *catalog.Venture) error {
	args := m.Called(ctx, ownerID, v)
	return args.Error(0)
}

func (m *CatalogRepository) GetVenture(ctx context.Context, ownerID, id string) (*catalog.Venture, error) {
	args := m.Called(ctx, ownerID, id)
	if v, ok := args.Get(0).(*catalog.Venture); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CatalogRepository) ListVentures(ctx context.Context, ownerID string) ([]catalog.Venture, error) {
	args := m.Called(ctx, ownerID)
	if list, ok := args.Get(0).([]catalog.Venture); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CatalogRepository) CreateWork(ctx context.Context, ownerID string, w *catalog.Work) error {
	args := m.Called(ctx, ownerID, w)
	return args.Error(0)
}

func (m *CatalogRepository) GetWork(ctx context.Context, ownerID, id string) (*catalog.Work, error) {
	args := m.Called(ctx, ownerID, id)
	if w, ok := args.Get(0).(*catalog.Work); ok {
		return w, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CatalogRepository) ListWorks(ctx context.Context, ownerID string) ([]catalog.Work, error) {
	args := m.Called(ctx, ownerID)
	if list, ok := args.Get(0).([]catalog.Work); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CatalogRepository) CreateDiscipline(ctx context.Context, ownerID string, d *catalog.Discipline) error {
	args := m.Called(ctx, ownerID, d)
	return args.Error(0)
}

func (m *CatalogRepository) GetDiscipline(ctx context.Context, ownerID, id string) (*catalog.Discipline, error) {
	args := m.Called(ctx, ownerID, id)
	if d, ok := args.Get(0).(*catalog.Discipline); ok {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CatalogRepository) ListDisciplines(ctx context.Context, ownerID string) ([]catalog.Discipline, error) {
	args := m.Called(ctx, ownerID)
	if list, ok := args.Get(0).([]catalog.Discipline); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CatalogRepository) UpdateDisciplineLeadDays(ctx context.Context, ownerID, id string, days int) error {
	args := m.Called(ctx, ownerID, id, days)
	return args.Error(0)
}

func (m *CatalogRepository) CreateDesigner(ctx context.Context, ownerID string, d *catalog.Designer) error {
	args := m.Called(ctx, ownerID, d)
	return args.Error(0)
}

func (m *CatalogRepository) GetDesigner(ctx context.Context, ownerID, id string) (*catalog.Designer, error) {
	args := m.Called(ctx, ownerID, id)
	if d, ok := args.Get(0).(*catalog.Designer); ok {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CatalogRepository) ListDesigners(ctx context.Context, ownerID string) ([]catalog.Designer, error) {
	args := m.Called(ctx, ownerID)
	if list, ok := args.Get(0).([]catalog.Designer); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CatalogRepository) Rename(ctx context.Context, ownerID string, kind catalog.Kind, id, name string) error {
	args := m.Called(ctx, ownerID, kind, id, name)
	return args.Error(0)
}

func (m *CatalogRepository) Delete(ctx context.Context, ownerID string, kind catalog.Kind, id string) error {
	args := m.Called(ctx, ownerID, kind, id)
	return args.Error(0)
}

// CatalogReader is a mock for revision.CatalogReader.
type CatalogReader struct {
	mock.Mock
}

func (m *CatalogReader) Snapshot(ctx context.Context, ownerID string) (*catalog.Snapshot, error) {
	args := m.Called(ctx, ownerID)
	if snap, ok := args.Get(0).(*catalog.Snapshot); ok {
		return snap, args.Error(1)
	}
	return nil, args.Error(1)
}

// RevisionRepository is a mock for revision.Repository.
type RevisionRepository struct {
	mock.Mock
}

func (m *RevisionRepository) Create(ctx context.Context, ownerID string, rev *revision.Revision) error {
	args := m.Called(ctx, ownerID, rev)
	return args.Error(0)
}

func (m *RevisionRepository) CreateMany(ctx context.Context, ownerID string, revs []revision.Revision) error {
	args := m.Called(ctx, ownerID, revs)
	return args.Error(0)
}

func (m *RevisionRepository) Get(ctx context.Context, ownerID, id string) (*revision.Revision, error) {
	args := m.Called(ctx, ownerID, id)
	if rev, ok := args.Get(0).(*revision.Revision); ok {
		return rev, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RevisionRepository) Update(ctx context.Context, ownerID string, rev *revision.Revision) error {
	args := m.Called(ctx, ownerID, rev)
	return args.Error(0)
}

func (m *RevisionRepository) UpdateMany(ctx context.Context, ownerID string, revs []revision.Revision) error {
	args := m.Called(ctx, ownerID, revs)
	return args.Error(0)
}

func (m *RevisionRepository) Delete(ctx context.Context, ownerID, id string) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *RevisionRepository) List(ctx context.Context, ownerID string) ([]revision.Revision, error) {
	args := m.Called(ctx, ownerID)
	if list, ok := args.Get(0).([]revision.Revision); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, ownerID string, entry *activity.Entry) error {
	args := m.Called(ctx, ownerID, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, ownerID string, opts activity.ListOptions) ([]activity.Entry, error) {
	args := m.Called(ctx, ownerID, opts)
	if list, ok := args.Get(0).([]activity.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// Recorder is a mock for revision.Recorder.
type Recorder struct {
	mock.Mock
}

func (m *Recorder) Mutated(op string, n int) {
	m.Called(op, n)
}

func (m *Recorder) Rejected(op, reason string) {
	m.Called(op, reason)
}
