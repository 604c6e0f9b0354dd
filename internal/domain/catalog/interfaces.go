package catalog

import "context"

// Repository provides persistence for catalog entities.
type Repository interface {
	CreateVenture(ctx context.Context, ownerID string, v *Venture) error
	GetVenture(ctx context.Context, ownerID, id string) (*Venture, error)
	ListVentures(ctx context.Context, ownerID string) ([]Venture, error)

	CreateWork(ctx context.Context, ownerID string, w *Work) error
	GetWork(ctx context.Context, ownerID, id string) (*Work, error)
	ListWorks(ctx context.Context, ownerID string) ([]Work, error)

	CreateDiscipline(ctx context.Context, ownerID string, d *Discipline) error
	GetDiscipline(ctx context.Context, ownerID, id string) (*Discipline, error)
	ListDisciplines(ctx context.Context, ownerID string) ([]Discipline, error)
	UpdateDisciplineLeadDays(ctx context.Context, ownerID, id string, days int) error

	CreateDesigner(ctx context.Context, ownerID string, d *Designer) error
	GetDesigner(ctx context.Context, ownerID, id string) (*Designer, error)
	ListDesigners(ctx context.Context, ownerID string) ([]Designer, error)

	Rename(ctx context.Context, ownerID string, kind Kind, id, name string) error
	Delete(ctx context.Context, ownerID string, kind Kind, id string) error
}
