package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/JRocha1994/archi-track/internal/domain/revision"
	"github.com/JRocha1994/archi-track/internal/repository"
)

// RevisionRepository implements revision.Repository.
type RevisionRepository struct {
	db *DB
}

// NewRevisionRepository creates a new RevisionRepository.
func NewRevisionRepository(db *DB) *RevisionRepository {
	return &RevisionRepository{db: db}
}

const revisionColumns = `
	id, owner_id, venture_id, work_id, discipline_id, designer_id,
	revision_number, expected_delivery_date, actual_delivery_date,
	expected_analysis_date, actual_analysis_date, justification,
	revision_justification, delivery_status, analysis_status,
	lead_days_snapshot, created_at`

// insertRevision takes the insertion sequence expression as its one verb.
const insertRevision = `INSERT INTO revisions (` + revisionColumns + `, seq)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, %s)`

const updateRevision = `
	UPDATE revisions
	SET venture_id = ?, work_id = ?, discipline_id = ?, designer_id = ?,
	    revision_number = ?, expected_delivery_date = ?, actual_delivery_date = ?,
	    expected_analysis_date = ?, actual_analysis_date = ?, justification = ?,
	    revision_justification = ?, delivery_status = ?, analysis_status = ?,
	    lead_days_snapshot = ?
	WHERE id = ? AND owner_id = ?`

// Create inserts a revision.
func (r *RevisionRepository) Create(ctx context.Context, ownerID string, rev *revision.Revision) error {
	if err := r.insert(ctx, r.db, ownerID, rev); err != nil {
		return err
	}
	rev.OwnerID = ownerID
	return nil
}

// CreateMany inserts all revisions in one transaction.
func (r *RevisionRepository) CreateMany(ctx context.Context, ownerID string, revs []revision.Revision) error {
	return r.db.inTx(ctx, func(tx *sql.Tx) error {
		for i := range revs {
			if err := r.insert(ctx, tx, ownerID, &revs[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *RevisionRepository) insert(ctx context.Context, e execer, ownerID string, rev *revision.Revision) error {
	_, err := r.db.exec(ctx, e, fmt.Sprintf(insertRevision, r.db.nextSeq("revisions")),
		rev.ID,
		ownerID,
		rev.VentureID,
		rev.WorkID,
		rev.DisciplineID,
		rev.DesignerID,
		rev.Number,
		rev.ExpectedDeliveryDate,
		rev.ActualDeliveryDate,
		rev.ExpectedAnalysisDate,
		rev.ActualAnalysisDate,
		rev.Justification,
		rev.RevisionJustification,
		rev.DeliveryStatus,
		rev.AnalysisStatus,
		rev.LeadDaysSnapshot,
		rev.CreatedAt,
	)
	if err := insertError(err); err != nil {
		return fmt.Errorf("failed to create revision: %w", err)
	}
	return nil
}

// Get retrieves a revision by ID.
func (r *RevisionRepository) Get(ctx context.Context, ownerID, id string) (*revision.Revision, error) {
	row := r.db.queryRow(ctx,
		`SELECT `+revisionColumns+` FROM revisions WHERE id = ? AND owner_id = ?`, id, ownerID)
	rev, err := scanRevision(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get revision: %w", err)
	}
	return &rev, nil
}

// Update replaces the stored fields of a revision.
func (r *RevisionRepository) Update(ctx context.Context, ownerID string, rev *revision.Revision) error {
	return r.update(ctx, r.db, ownerID, rev)
}

// UpdateMany updates all revisions in one transaction.
func (r *RevisionRepository) UpdateMany(ctx context.Context, ownerID string, revs []revision.Revision) error {
	return r.db.inTx(ctx, func(tx *sql.Tx) error {
		for i := range revs {
			if err := r.update(ctx, tx, ownerID, &revs[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *RevisionRepository) update(ctx context.Context, e execer, ownerID string, rev *revision.Revision) error {
	result, err := r.db.exec(ctx, e, updateRevision,
		rev.VentureID,
		rev.WorkID,
		rev.DisciplineID,
		rev.DesignerID,
		rev.Number,
		rev.ExpectedDeliveryDate,
		rev.ActualDeliveryDate,
		rev.ExpectedAnalysisDate,
		rev.ActualAnalysisDate,
		rev.Justification,
		rev.RevisionJustification,
		rev.DeliveryStatus,
		rev.AnalysisStatus,
		rev.LeadDaysSnapshot,
		rev.ID,
		ownerID,
	)
	if err := insertError(err); err != nil {
		return fmt.Errorf("failed to update revision: %w", err)
	}
	return requireAffected(result)
}

// Delete removes a revision.
func (r *RevisionRepository) Delete(ctx context.Context, ownerID, id string) error {
	result, err := r.db.exec(ctx, r.db,
		`DELETE FROM revisions WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete revision: %w", err)
	}
	return requireAffected(result)
}

// List returns all of the owner's revisions in insertion order. Revisions of
// one batch share created_at, so the order comes from seq.
func (r *RevisionRepository) List(ctx context.Context, ownerID string) ([]revision.Revision, error) {
	rows, err := r.db.query(ctx,
		`SELECT `+revisionColumns+` FROM revisions WHERE owner_id = ? ORDER BY seq`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list revisions: %w", err)
	}
	defer rows.Close()

	var out []revision.Revision
	for rows.Next() {
		rev, err := scanRevision(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan revision: %w", err)
		}
		out = append(out, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating revisions: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRevision(s scanner) (revision.Revision, error) {
	var rev revision.Revision
	var leadDays sql.NullInt64
	err := s.Scan(
		&rev.ID,
		&rev.OwnerID,
		&rev.VentureID,
		&rev.WorkID,
		&rev.DisciplineID,
		&rev.DesignerID,
		&rev.Number,
		&rev.ExpectedDeliveryDate,
		&rev.ActualDeliveryDate,
		&rev.ExpectedAnalysisDate,
		&rev.ActualAnalysisDate,
		&rev.Justification,
		&rev.RevisionJustification,
		&rev.DeliveryStatus,
		&rev.AnalysisStatus,
		&leadDays,
		&rev.CreatedAt,
	)
	if err != nil {
		return revision.Revision{}, err
	}
	if leadDays.Valid {
		days := int(leadDays.Int64)
		rev.LeadDaysSnapshot = &days
	}
	return rev, nil
}
