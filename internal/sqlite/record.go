package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rpggio/hygrotrack/internal/domain/record"
	"github.com/rpggio/hygrotrack/internal/repository"
)

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// RecordRepository implements record.RecordRepository for SQLite
type RecordRepository struct {
	db *DB
}

// NewRecordRepository creates a new RecordRepository
func NewRecordRepository(db *DB) *RecordRepository {
	return &RecordRepository{db: db}
}

const recordColumns = `
	id, tenant_id, factory, department, type, time_slot, operator, guidance,
	temperature, humidity, room, line, semi_sets, product_sets,
	explicit_status, created_at, revision`

// Create inserts a new record together with any rounds or history it carries.
func (r *RecordRepository) Create(ctx context.Context, tenantID string, rec *record.Record) error {
	semi, product, err := encodeSections(rec.SemiSets, rec.ProductSets)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		tenantID,
		rec.Factory,
		rec.Department,
		rec.Type,
		rec.TimeSlot,
		rec.Operator,
		rec.Guidance,
		rec.Temperature,
		rec.Humidity,
		rec.Room,
		rec.Line,
		semi,
		product,
		rec.ExplicitStatus,
		rec.CreatedAt.UTC(),
		rec.Revision,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create record: %w", err)
	}

	if err := insertRounds(ctx, tx, rec.ID, 0, rec.Checks4Pts); err != nil {
		return err
	}
	if err := insertHistory(ctx, tx, rec.ID, 0, rec.ProductHistory); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit record: %w", err)
	}
	rec.TenantID = tenantID
	return nil
}

// Get retrieves a record by ID with its spot checks and product history.
func (r *RecordRepository) Get(ctx context.Context, tenantID, id string) (*record.Record, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+recordColumns+`
		FROM records
		WHERE id = ? AND tenant_id = ?`, id, tenantID)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	if err := r.loadChildren(ctx, r.db, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns records matching the given options, newest first. Status is a
// derived value and is not filtered here.
func (r *RecordRepository) List(ctx context.Context, tenantID string, opts record.ListOptions) ([]record.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE tenant_id = ?`

	args := []any{tenantID}
	conditions := []string{}

	if opts.Factory != "" {
		conditions = append(conditions, "factory = ?")
		args = append(args, opts.Factory)
	}
	if opts.Department != "" {
		conditions = append(conditions, "department = ?")
		args = append(args, opts.Department)
	}
	if opts.Type != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, opts.Type)
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC, id"

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
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	recs := []record.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		recs = append(recs, *rec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating record rows: %w", err)
	}
	rows.Close()

	// Children are loaded after the cursor is closed; the pool holds a
	// single connection.
	for i := range recs {
		if err := r.loadChildren(ctx, r.db, &recs[i]); err != nil {
			return nil, err
		}
	}
	return recs, nil
}

// ApplyFollowUp persists a remediation transition. The revision guard, the
// replaced sections, the new status and any appended rounds or history
// entries are written in one transaction.
func (r *RecordRepository) ApplyFollowUp(ctx context.Context, tenantID string, rec *record.Record, expectedRevision int64) error {
	semi, product, err := encodeSections(rec.SemiSets, rec.ProductSets)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE records
		SET semi_sets = ?, product_sets = ?, explicit_status = ?, revision = ?
		WHERE id = ? AND tenant_id = ? AND revision = ?`,
		semi,
		product,
		rec.ExplicitStatus,
		rec.Revision,
		rec.ID,
		tenantID,
		expectedRevision,
	)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		var exists bool
		err = tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM records WHERE id = ? AND tenant_id = ?)`,
			rec.ID, tenantID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check record existence: %w", err)
		}
		if !exists {
			return repository.ErrNotFound
		}
		return repository.ErrConflict
	}

	storedRounds, err := countRows(ctx, tx, "check_rounds", rec.ID)
	if err != nil {
		return err
	}
	if storedRounds < len(rec.Checks4Pts) {
		if err := insertRounds(ctx, tx, rec.ID, storedRounds, rec.Checks4Pts[storedRounds:]); err != nil {
			return err
		}
	}

	storedHistory, err := countRows(ctx, tx, "product_history", rec.ID)
	if err != nil {
		return err
	}
	if storedHistory < len(rec.ProductHistory) {
		if err := insertHistory(ctx, tx, rec.ID, storedHistory, rec.ProductHistory[storedHistory:]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit follow-up: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*record.Record, error) {
	var rec record.Record
	var semi, product string
	if err := row.Scan(
		&rec.ID,
		&rec.TenantID,
		&rec.Factory,
		&rec.Department,
		&rec.Type,
		&rec.TimeSlot,
		&rec.Operator,
		&rec.Guidance,
		&rec.Temperature,
		&rec.Humidity,
		&rec.Room,
		&rec.Line,
		&semi,
		&product,
		&rec.ExplicitStatus,
		&rec.CreatedAt,
		&rec.Revision,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(semi), &rec.SemiSets); err != nil {
		return nil, fmt.Errorf("failed to decode semi sets: %w", err)
	}
	if err := json.Unmarshal([]byte(product), &rec.ProductSets); err != nil {
		return nil, fmt.Errorf("failed to decode product sets: %w", err)
	}
	return &rec, nil
}

func (r *RecordRepository) loadChildren(ctx context.Context, q queryer, rec *record.Record) error {
	rounds, err := q.QueryContext(ctx, `
		SELECT positions, result, checked_at
		FROM check_rounds
		WHERE record_id = ?
		ORDER BY seq ASC`, rec.ID)
	if err != nil {
		return fmt.Errorf("failed to load check rounds: %w", err)
	}
	for rounds.Next() {
		var round record.CheckRound
		var positions string
		if err := rounds.Scan(&positions, &round.Result, &round.CheckedAt); err != nil {
			rounds.Close()
			return fmt.Errorf("failed to scan check round: %w", err)
		}
		if err := json.Unmarshal([]byte(positions), &round.Positions); err != nil {
			rounds.Close()
			return fmt.Errorf("failed to decode check positions: %w", err)
		}
		rec.Checks4Pts = append(rec.Checks4Pts, round)
	}
	if err := rounds.Err(); err != nil {
		rounds.Close()
		return fmt.Errorf("error iterating check rounds: %w", err)
	}
	rounds.Close()

	history, err := q.QueryContext(ctx, `
		SELECT semi_sets, product_sets, captured_at
		FROM product_history
		WHERE record_id = ?
		ORDER BY seq ASC`, rec.ID)
	if err != nil {
		return fmt.Errorf("failed to load product history: %w", err)
	}
	defer history.Close()
	for history.Next() {
		var entry record.ProductHistoryEntry
		var semi, product string
		if err := history.Scan(&semi, &product, &entry.CapturedAt); err != nil {
			return fmt.Errorf("failed to scan product history: %w", err)
		}
		if err := json.Unmarshal([]byte(semi), &entry.SemiSets); err != nil {
			return fmt.Errorf("failed to decode history semi sets: %w", err)
		}
		if err := json.Unmarshal([]byte(product), &entry.ProductSets); err != nil {
			return fmt.Errorf("failed to decode history product sets: %w", err)
		}
		rec.ProductHistory = append(rec.ProductHistory, entry)
	}
	if err := history.Err(); err != nil {
		return fmt.Errorf("error iterating product history: %w", err)
	}
	return nil
}

func insertRounds(ctx context.Context, q queryer, recordID string, firstSeq int, rounds []record.CheckRound) error {
	for i, round := range rounds {
		positions, err := json.Marshal(round.Positions)
		if err != nil {
			return fmt.Errorf("failed to encode check positions: %w", err)
		}
		_, err = q.ExecContext(ctx, `
			INSERT INTO check_rounds (record_id, seq, positions, result, checked_at)
			VALUES (?, ?, ?, ?, ?)`,
			recordID, firstSeq+i, string(positions), round.Result, round.CheckedAt.UTC())
		if err != nil {
			if isForeignKeyViolation(err) {
				return repository.ErrForeignKeyViolation
			}
			return fmt.Errorf("failed to insert check round: %w", err)
		}
	}
	return nil
}

func insertHistory(ctx context.Context, q queryer, recordID string, firstSeq int, entries []record.ProductHistoryEntry) error {
	for i, entry := range entries {
		semi, product, err := encodeSections(entry.SemiSets, entry.ProductSets)
		if err != nil {
			return err
		}
		_, err = q.ExecContext(ctx, `
			INSERT INTO product_history (record_id, seq, semi_sets, product_sets, captured_at)
			VALUES (?, ?, ?, ?, ?)`,
			recordID, firstSeq+i, semi, product, entry.CapturedAt.UTC())
		if err != nil {
			if isForeignKeyViolation(err) {
				return repository.ErrForeignKeyViolation
			}
			return fmt.Errorf("failed to insert product history: %w", err)
		}
	}
	return nil
}

func countRows(ctx context.Context, q queryer, table, recordID string) (int, error) {
	var n int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table+` WHERE record_id = ?`, recordID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

func encodeSections(semi, product []record.MeasurementSet) (string, string, error) {
	semiJSON, err := encodeSets(semi)
	if err != nil {
		return "", "", err
	}
	productJSON, err := encodeSets(product)
	if err != nil {
		return "", "", err
	}
	return semiJSON, productJSON, nil
}

func encodeSets(sets []record.MeasurementSet) (string, error) {
	if sets == nil {
		sets = []record.MeasurementSet{}
	}
	data, err := json.Marshal(sets)
	if err != nil {
		return "", fmt.Errorf("failed to encode measurement sets: %w", err)
	}
	return string(data), nil
}
