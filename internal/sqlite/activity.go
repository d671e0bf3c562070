package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/hygrotrack/internal/domain/activity"
)

// ActivityRepository implements activity.Repository for SQLite
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Log appends entry and fills in its ID and tenant.
func (r *ActivityRepository) Log(ctx context.Context, tenantID string, entry *activity.ActivityEntry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	createdAt = createdAt.UTC()

	details := "{}"
	if len(entry.Details) > 0 {
		data, err := json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("failed to encode activity details: %w", err)
		}
		details = string(data)
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO activity_log (
			tenant_id, record_id, activity_type, status, summary, details, created_at, revision
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tenantID,
		entry.RecordID,
		entry.ActivityType,
		entry.Status,
		entry.Summary,
		details,
		createdAt,
		entry.Revision,
	)
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		entry.ID = id
	}
	entry.TenantID = tenantID
	entry.CreatedAt = createdAt
	return nil
}

// List returns the tenant's entries matching opts, newest first.
func (r *ActivityRepository) List(ctx context.Context, tenantID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	var where strings.Builder
	where.WriteString("tenant_id = ?")
	args := []any{tenantID}

	if opts.RecordID != "" {
		where.WriteString(" AND record_id = ?")
		args = append(args, opts.RecordID)
	}
	if len(opts.Types) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(opts.Types)), ", ")
		fmt.Fprintf(&where, " AND activity_type IN (%s)", placeholders)
		for _, t := range opts.Types {
			args = append(args, t)
		}
	}
	if !opts.Since.IsZero() {
		where.WriteString(" AND created_at >= ?")
		args = append(args, opts.Since.UTC())
	}

	query := `
		SELECT id, tenant_id, record_id, activity_type, status, summary, details, created_at, revision
		FROM activity_log
		WHERE ` + where.String() + `
		ORDER BY created_at DESC, id DESC`

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}
	if opts.Offset > 0 {
		if opts.Limit <= 0 {
			query += " LIMIT -1"
		}
		query += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	entries := []activity.ActivityEntry{}
	for rows.Next() {
		var (
			entry   activity.ActivityEntry
			details string
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.TenantID,
			&entry.RecordID,
			&entry.ActivityType,
			&entry.Status,
			&entry.Summary,
			&details,
			&entry.CreatedAt,
			&entry.Revision,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		if details != "" && details != "{}" {
			if err := json.Unmarshal([]byte(details), &entry.Details); err != nil {
				return nil, fmt.Errorf("failed to decode details of activity %d: %w", entry.ID, err)
			}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}
	return entries, nil
}
