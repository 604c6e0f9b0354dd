package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JRocha1994/archi-track/internal/repository"
	"github.com/google/uuid"
)

// Service handles catalog operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new catalog service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// CreateVentureRequest defines venture creation inputs.
type CreateVentureRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// CreateWorkRequest defines work creation inputs.
type CreateWorkRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	VentureID string `json:"venture_id" validate:"required"`
}

// CreateDisciplineRequest defines discipline creation inputs. A nil lead time
// falls back to DefaultLeadDays.
type CreateDisciplineRequest struct {
	Name                    string `json:"name" validate:"required,max=200"`
	AverageAnalysisLeadDays *int   `json:"average_analysis_lead_days,omitempty" validate:"omitempty,min=0"`
}

// CreateDesignerRequest defines designer creation inputs.
type CreateDesignerRequest struct {
	Name  string  `json:"name" validate:"required,max=200"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=40"`
}

// CreateVenture creates a new venture.
func (s *Service) CreateVenture(ctx context.Context, ownerID string, req CreateVentureRequest) (*Venture, error) {
	name, err := cleanName(req.Name)
	if err != nil {
		return nil, err
	}
	v := &Venture{ID: uuid.NewString(), OwnerID: ownerID, Name: name, CreatedAt: s.now()}
	if err := s.repo.CreateVenture(ctx, ownerID, v); err != nil {
		return nil, fmt.Errorf("creating venture: %w", err)
	}
	return v, nil
}

// CreateWork creates a work under an existing venture.
func (s *Service) CreateWork(ctx context.Context, ownerID string, req CreateWorkRequest) (*Work, error) {
	name, err := cleanName(req.Name)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.VentureID) == "" {
		return nil, ErrInvalidInput
	}
	if _, err := s.GetVenture(ctx, ownerID, req.VentureID); err != nil {
		return nil, err
	}
	w := &Work{ID: uuid.NewString(), OwnerID: ownerID, Name: name, VentureID: req.VentureID, CreatedAt: s.now()}
	if err := s.repo.CreateWork(ctx, ownerID, w); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, ErrVentureNotFound
		}
		return nil, fmt.Errorf("creating work: %w", err)
	}
	return w, nil
}

// CreateDiscipline creates a discipline.
func (s *Service) CreateDiscipline(ctx context.Context, ownerID string, req CreateDisciplineRequest) (*Discipline, error) {
	name, err := cleanName(req.Name)
	if err != nil {
		return nil, err
	}
	lead := DefaultLeadDays
	if req.AverageAnalysisLeadDays != nil {
		lead = *req.AverageAnalysisLeadDays
	}
	if lead < 0 {
		return nil, ErrInvalidInput
	}
	d := &Discipline{ID: uuid.NewString(), OwnerID: ownerID, Name: name, AverageAnalysisLeadDays: lead, CreatedAt: s.now()}
	if err := s.repo.CreateDiscipline(ctx, ownerID, d); err != nil {
		return nil, fmt.Errorf("creating discipline: %w", err)
	}
	return d, nil
}

// CreateDesigner creates a designer.
func (s *Service) CreateDesigner(ctx context.Context, ownerID string, req CreateDesignerRequest) (*Designer, error) {
	name, err := cleanName(req.Name)
	if err != nil {
		return nil, err
	}
	d := &Designer{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      name,
		Email:     trimmedOrNil(req.Email),
		Phone:     trimmedOrNil(req.Phone),
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateDesigner(ctx, ownerID, d); err != nil {
		return nil, fmt.Errorf("creating designer: %w", err)
	}
	return d, nil
}

// SetDisciplineLeadDays changes a discipline's lead time. Revisions keep the
// lead time they snapshotted.
func (s *Service) SetDisciplineLeadDays(ctx context.Context, ownerID, id string, days int) (*Discipline, error) {
	if days < 0 {
		return nil, ErrInvalidInput
	}
	if err := s.repo.UpdateDisciplineLeadDays(ctx, ownerID, id, days); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDisciplineNotFound
		}
		return nil, fmt.Errorf("updating discipline: %w", err)
	}
	return s.GetDiscipline(ctx, ownerID, id)
}

// Rename changes the display name of any catalog entity.
func (s *Service) Rename(ctx context.Context, ownerID string, kind Kind, id, name string) error {
	clean, err := cleanName(name)
	if err != nil {
		return err
	}
	if err := s.repo.Rename(ctx, ownerID, kind, id, clean); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(kind)
		}
		return fmt.Errorf("renaming %s: %w", kind, err)
	}
	return nil
}

// Delete removes a catalog entity that nothing references any more.
func (s *Service) Delete(ctx context.Context, ownerID string, kind Kind, id string) error {
	if err := s.repo.Delete(ctx, ownerID, kind, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return notFound(kind)
		case errors.Is(err, repository.ErrForeignKeyViolation):
			return ErrInUse
		}
		return fmt.Errorf("deleting %s: %w", kind, err)
	}
	if s.logger != nil {
		s.logger.Info("catalog entity deleted", "kind", kind, "id", id, "owner_id", ownerID)
	}
	return nil
}

// GetVenture fetches a venture by ID.
func (s *Service) GetVenture(ctx context.Context, ownerID, id string) (*Venture, error) {
	v, err := s.repo.GetVenture(ctx, ownerID, id)
	if err != nil {
		return nil, translate(err, KindVenture)
	}
	return v, nil
}

// GetWork fetches a work by ID.
func (s *Service) GetWork(ctx context.Context, ownerID, id string) (*Work, error) {
	w, err := s.repo.GetWork(ctx, ownerID, id)
	if err != nil {
		return nil, translate(err, KindWork)
	}
	return w, nil
}

// GetDiscipline fetches a discipline by ID.
func (s *Service) GetDiscipline(ctx context.Context, ownerID, id string) (*Discipline, error) {
	d, err := s.repo.GetDiscipline(ctx, ownerID, id)
	if err != nil {
		return nil, translate(err, KindDiscipline)
	}
	return d, nil
}

// GetDesigner fetches a designer by ID.
func (s *Service) GetDesigner(ctx context.Context, ownerID, id string) (*Designer, error) {
	d, err := s.repo.GetDesigner(ctx, ownerID, id)
	if err != nil {
		return nil, translate(err, KindDesigner)
	}
	return d, nil
}

// Snapshot loads the owner's full catalog.
func (s *Service) Snapshot(ctx context.Context, ownerID string) (*Snapshot, error) {
	ventures, err := s.repo.ListVentures(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing ventures: %w", err)
	}
	works, err := s.repo.ListWorks(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing works: %w", err)
	}
	disciplines, err := s.repo.ListDisciplines(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing disciplines: %w", err)
	}
	designers, err := s.repo.ListDesigners(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing designers: %w", err)
	}
	return NewSnapshot(ventures, works, disciplines, designers), nil
}

func translate(err error, kind Kind) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(kind)
	}
	return fmt.Errorf("getting %s: %w", kind, err)
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidInput
	}
	return name, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
