package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/JRocha1994/archi-track/internal/domain/catalog"
	"github.com/JRocha1994/archi-track/internal/repository"
)

// CatalogRepository implements catalog.Repository.
type CatalogRepository struct {
	db *DB
}

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(db *DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

var catalogTables = map[catalog.Kind]string{
	catalog.KindVenture:    "ventures",
	catalog.KindWork:       "works",
	catalog.KindDiscipline: "disciplines",
	catalog.KindDesigner:   "designers",
}

// CreateVenture inserts a venture.
func (r *CatalogRepository) CreateVenture(ctx context.Context, ownerID string, v *catalog.Venture) error {
	_, err := r.db.exec(ctx, r.db,
		`INSERT INTO ventures (id, owner_id, name, created_at) VALUES (?, ?, ?, ?)`,
		v.ID, ownerID, v.Name, v.CreatedAt)
	if err := insertError(err); err != nil {
		return fmt.Errorf("failed to create venture: %w", err)
	}
	v.OwnerID = ownerID
	return nil
}

// GetVenture retrieves a venture by ID.
func (r *CatalogRepository) GetVenture(ctx context.Context, ownerID, id string) (*catalog.Venture, error) {
	var v catalog.Venture
	err := r.db.queryRow(ctx,
		`SELECT id, owner_id, name, created_at FROM ventures WHERE id = ? AND owner_id = ?`,
		id, ownerID).Scan(&v.ID, &v.OwnerID, &v.Name, &v.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get venture: %w", err)
	}
	return &v, nil
}

// ListVentures returns the owner's ventures ordered by name.
func (r *CatalogRepository) ListVentures(ctx context.Context, ownerID string) ([]catalog.Venture, error) {
	rows, err := r.db.query(ctx,
		`SELECT id, owner_id, name, created_at FROM ventures WHERE owner_id = ? ORDER BY name, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ventures: %w", err)
	}
	defer rows.Close()

	var out []catalog.Venture
	for rows.Next() {
		var v catalog.Venture
		if err := rows.Scan(&v.ID, &v.OwnerID, &v.Name, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan venture: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ventures: %w", err)
	}
	return out, nil
}

// CreateWork inserts a work.
func (r *CatalogRepository) CreateWork(ctx context.Context, ownerID string, w *catalog.Work) error {
	_, err := r.db.exec(ctx, r.db,
		`INSERT INTO works (id, owner_id, venture_id, name, created_at) VALUES (?, ?, ?, ?, ?)`,
		w.ID, ownerID, w.VentureID, w.Name, w.CreatedAt)
	if err := insertError(err); err != nil {
		return fmt.Errorf("failed to create work: %w", err)
	}
	w.OwnerID = ownerID
	return nil
}

// GetWork retrieves a work by ID.
func (r *CatalogRepository) GetWork(ctx context.Context, ownerID, id string) (*catalog.Work, error) {
	var w catalog.Work
	err := r.db.queryRow(ctx,
		`SELECT id, owner_id, venture_id, name, created_at FROM works WHERE id = ? AND owner_id = ?`,
		id, ownerID).Scan(&w.ID, &w.OwnerID, &w.VentureID, &w.Name, &w.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get work: %w", err)
	}
	return &w, nil
}

// ListWorks returns the owner's works ordered by name.
func (r *CatalogRepository) ListWorks(ctx context.Context, ownerID string) ([]catalog.Work, error) {
	rows, err := r.db.query(ctx,
		`SELECT id, owner_id, venture_id, name, created_at FROM works WHERE owner_id = ? ORDER BY name, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list works: %w", err)
	}
	defer rows.Close()

	var out []catalog.Work
	for rows.Next() {
		var w catalog.Work
		if err := rows.Scan(&w.ID, &w.OwnerID, &w.VentureID, &w.Name, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan work: %w", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating works: %w", err)
	}
	return out, nil
}

// CreateDiscipline inserts a discipline.
func (r *CatalogRepository) CreateDiscipline(ctx context.Context, ownerID string, d *catalog.Discipline) error {
	_, err := r.db.exec(ctx, r.db,
		`INSERT INTO disciplines (id, owner_id, name, average_analysis_lead_days, created_at) VALUES (?, ?, ?, ?, ?)`,
		d.ID, ownerID, d.Name, d.AverageAnalysisLeadDays, d.CreatedAt)
	if err := insertError(err); err != nil {
		return fmt.Errorf("failed to create discipline: %w", err)
	}
	d.OwnerID = ownerID
	return nil
}

// GetDiscipline retrieves a discipline by ID.
func (r *CatalogRepository) GetDiscipline(ctx context.Context, ownerID, id string) (*catalog.Discipline, error) {
	var d catalog.Discipline
	err := r.db.queryRow(ctx,
		`SELECT id, owner_id, name, average_analysis_lead_days, created_at FROM disciplines WHERE id = ? AND owner_id = ?`,
		id, ownerID).Scan(&d.ID, &d.OwnerID, &d.Name, &d.AverageAnalysisLeadDays, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get discipline: %w", err)
	}
	return &d, nil
}

// ListDisciplines returns the owner's disciplines ordered by name.
func (r *CatalogRepository) ListDisciplines(ctx context.Context, ownerID string) ([]catalog.Discipline, error) {
	rows, err := r.db.query(ctx,
		`SELECT id, owner_id, name, average_analysis_lead_days, created_at FROM disciplines WHERE owner_id = ? ORDER BY name, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list disciplines: %w", err)
	}
	defer rows.Close()

	var out []catalog.Discipline
	for rows.Next() {
		var d catalog.Discipline
		if err := rows.Scan(&d.ID, &d.OwnerID, &d.Name, &d.AverageAnalysisLeadDays, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan discipline: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating disciplines: %w", err)
	}
	return out, nil
}

// UpdateDisciplineLeadDays changes a discipline's average analysis lead time.
func (r *CatalogRepository) UpdateDisciplineLeadDays(ctx context.Context, ownerID, id string, days int) error {
	result, err := r.db.exec(ctx, r.db,
		`UPDATE disciplines SET average_analysis_lead_days = ? WHERE id = ? AND owner_id = ?`,
		days, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to update discipline: %w", err)
	}
	return requireAffected(result)
}

// CreateDesigner inserts a designer.
func (r *CatalogRepository) CreateDesigner(ctx context.Context, ownerID string, d *catalog.Designer) error {
	_, err := r.db.exec(ctx, r.db,
		`INSERT INTO designers (id, owner_id, name, email, phone, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		d.ID, ownerID, d.Name, d.Email, d.Phone, d.CreatedAt)
	if err := insertError(err); err != nil {
		return fmt.Errorf("failed to create designer: %w", err)
	}
	d.OwnerID = ownerID
	return nil
}

// GetDesigner retrieves a designer by ID.
func (r *CatalogRepository) GetDesigner(ctx context.Context, ownerID, id string) (*catalog.Designer, error) {
	var d catalog.Designer
	err := r.db.queryRow(ctx,
		`SELECT id, owner_id, name, email, phone, created_at FROM designers WHERE id = ? AND owner_id = ?`,
		id, ownerID).Scan(&d.ID, &d.OwnerID, &d.Name, &d.Email, &d.Phone, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get designer: %w", err)
	}
	return &d, nil
}

// ListDesigners returns the owner's designers ordered by name.
func (r *CatalogRepository) ListDesigners(ctx context.Context, ownerID string) ([]catalog.Designer, error) {
	rows, err := r.db.query(ctx,
		`SELECT id, owner_id, name, email, phone, created_at FROM designers WHERE owner_id = ? ORDER BY name, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list designers: %w", err)
	}
	defer rows.Close()

	var out []catalog.Designer
	for rows.Next() {
		var d catalog.Designer
		if err := rows.Scan(&d.ID, &d.OwnerID, &d.Name, &d.Email, &d.Phone, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan designer: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating designers: %w", err)
	}
	return out, nil
}

// Rename changes the name of any catalog entity.
func (r *CatalogRepository) Rename(ctx context.Context, ownerID string, kind catalog.Kind, id, name string) error {
	table, ok := catalogTables[kind]
	if !ok {
		return fmt.Errorf("unknown catalog kind %q", kind)
	}
	result, err := r.db.exec(ctx, r.db,
		`UPDATE `+table+` SET name = ? WHERE id = ? AND owner_id = ?`, name, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to rename %s: %w", kind, err)
	}
	return requireAffected(result)
}

// Delete removes a catalog entity. Referenced entities fail with
// repository.ErrForeignKeyViolation.
func (r *CatalogRepository) Delete(ctx context.Context, ownerID string, kind catalog.Kind, id string) error {
	table, ok := catalogTables[kind]
	if !ok {
		return fmt.Errorf("unknown catalog kind %q", kind)
	}
	result, err := r.db.exec(ctx, r.db,
		`DELETE FROM `+table+` WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}
	return requireAffected(result)
}

// insertError maps constraint failures to repository sentinels.
func insertError(err error) error {
	switch {
	case err == nil:
		return nil
	case isForeignKeyViolation(err):
		return repository.ErrForeignKeyViolation
	case isUniqueViolation(err):
		return repository.ErrConflict
	}
	return err
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
