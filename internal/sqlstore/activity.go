package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/JRocha1994/archi-track/internal/domain/activity"
)

// ActivityRepository implements activity.Repository.
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Log inserts a new activity entry
func (r *ActivityRepository) Log(ctx context.Context, ownerID string, entry *activity.Entry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO activity_log (
			owner_id, revision_id, activity_type, summary, details, created_at
		) VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`

	var id int64
	err := r.db.queryRow(ctx, query,
		ownerID,
		entry.RevisionID,
		entry.Type,
		entry.Summary,
		entry.Details,
		createdAt,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}

	entry.ID = id
	entry.OwnerID = ownerID
	entry.CreatedAt = createdAt
	return nil
}

// List returns activity entries matching the given filters, newest first.
func (r *ActivityRepository) List(ctx context.Context, ownerID string, opts activity.ListOptions) ([]activity.Entry, error) {
	query := `
		SELECT id, owner_id, revision_id, activity_type, summary, details, created_at
		FROM activity_log
		WHERE owner_id = ?
	`

	args := []any{ownerID}
	var conditions []string

	if opts.RevisionID != nil {
		conditions = append(conditions, "revision_id = ?")
		args = append(args, *opts.RevisionID)
	}
	if opts.Type != nil {
		conditions = append(conditions, "activity_type = ?")
		args = append(args, *opts.Type)
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC, id DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}
	if opts.Offset > 0 {
		// sqlite accepts OFFSET only after a LIMIT.
		if opts.Limit <= 0 && r.db.Driver() == DriverSQLite {
			query += " LIMIT -1"
		}
		query += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := r.db.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var entries []activity.Entry
	for rows.Next() {
		var entry activity.Entry
		var revisionID sql.NullString
		var details sql.NullString
		if err := rows.Scan(
			&entry.ID,
			&entry.OwnerID,
			&revisionID,
			&entry.Type,
			&entry.Summary,
			&details,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		if revisionID.Valid {
			entry.RevisionID = &revisionID.String
		}
		entry.Details = details.String
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return entries, nil
}
