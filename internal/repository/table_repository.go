package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/danyluis/restaurant-seating/internal/model"
)

// TableRepo provides access to the persisted floor layout.  The layout
// is inventory, not live state: the engine reads it once at startup and
// later edits only apply after a restart.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo constructs a TableRepo with the given DB handle.
func NewTableRepo(db *sql.DB) *TableRepo {
	return &TableRepo{db: db}
}

// Create inserts a dining table record.  On success the table's ID is
// populated.
func (r *TableRepo) Create(ctx context.Context, t *model.DiningTable) error {
	const q = `INSERT INTO dining_tables (label, seats, is_active) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.Label, t.Seats, t.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// ListActive retrieves the active floor plan ordered by id.
func (r *TableRepo) ListActive(ctx context.Context) ([]model.DiningTable, error) {
	const q = `SELECT id, label, seats, is_active, created_at
	           FROM dining_tables
	           WHERE is_active = 1
	           ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.DiningTable
	for rows.Next() {
		var t model.DiningTable
		if err := rows.Scan(&t.ID, &t.Label, &t.Seats, &t.IsActive, &t.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves one dining table by id.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (*model.DiningTable, error) {
	const q = `SELECT id, label, seats, is_active, created_at FROM dining_tables WHERE id = ?`
	var t model.DiningTable
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&t.ID, &t.Label, &t.Seats, &t.IsActive, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	return &t, nil
}

// SetActive flips a table's is_active flag.  Returns ErrTableNotFound
// when no row matches.
func (r *TableRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	const q = `UPDATE dining_tables SET is_active = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, active, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTableNotFound
	}
	return nil
}
