package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/womencount/womencount/internal/model"
)

// ErrWomanNotFound is returned when no record matches the given id.
var ErrWomanNotFound = errors.New("woman record not found")

// WomanFilter defines optional filters for listing records.
// Nil fields impose no constraint. MinAge and MaxAge are inclusive.
type WomanFilter struct {
	Region     *string
	Department *string
	Commune    *string
	Activity   *string
	MinAge     *int
	MaxAge     *int
}

const womanColumns = `id, first_name, last_name, age, region, department, commune, activity, phone_number, created_at, updated_at`

// CreateWoman inserts a new record.
func (r *Repository) CreateWoman(ctx context.Context, w *model.Woman) error {
	query := `
		INSERT INTO women (id, first_name, last_name, age, region, department, commune, activity, phone_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		w.ID,
		w.FirstName,
		w.LastName,
		w.Age,
		w.Region,
		w.Department,
		w.Commune,
		w.Activity,
		nullableString(w.PhoneNumber),
		w.CreatedAt,
		w.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create woman record: %w", err)
	}

	return nil
}

// ListWomen retrieves all records matching the filter.
// No pagination: callers bear the unbounded result size.
func (r *Repository) ListWomen(ctx context.Context, filter WomanFilter) ([]*model.Woman, error) {
	query := `SELECT ` + womanColumns + ` FROM women WHERE 1=1`
	args := []any{}
	argIndex := 1

	if filter.Region != nil {
		query += fmt.Sprintf(" AND region = $%d", argIndex)
		args = append(args, *filter.Region)
		argIndex++
	}

	if filter.Department != nil {
		query += fmt.Sprintf(" AND department = $%d", argIndex)
		args = append(args, *filter.Department)
		argIndex++
	}

	if filter.Commune != nil {
		query += fmt.Sprintf(" AND commune = $%d", argIndex)
		args = append(args, *filter.Commune)
		argIndex++
	}

	if filter.Activity != nil {
		query += fmt.Sprintf(" AND activity = $%d", argIndex)
		args = append(args, *filter.Activity)
		argIndex++
	}

	if filter.MinAge != nil {
		query += fmt.Sprintf(" AND age >= $%d", argIndex)
		args = append(args, *filter.MinAge)
		argIndex++
	}

	if filter.MaxAge != nil {
		query += fmt.Sprintf(" AND age <= $%d", argIndex)
		args = append(args, *filter.MaxAge)
		argIndex++
	}

	query += " ORDER BY created_at ASC, id ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list women records: %w", err)
	}
	defer rows.Close()

	var women []*model.Woman
	for rows.Next() {
		w, err := scanWoman(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan woman record: %w", err)
		}
		women = append(women, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating women records: %w", err)
	}

	return women, nil
}

// GetWomanByID retrieves a record by its id.
func (r *Repository) GetWomanByID(ctx context.Context, id string) (*model.Woman, error) {
	query := `SELECT ` + womanColumns + ` FROM women WHERE id = $1`

	w, err := scanWoman(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWomanNotFound
		}
		return nil, fmt.Errorf("failed to get woman record: %w", err)
	}

	return w, nil
}

// UpdateWoman writes the mutable fields of an already-merged record.
// The service merges partial updates onto the stored record before
// calling this.
func (r *Repository) UpdateWoman(ctx context.Context, w *model.Woman) error {
	query := `
		UPDATE women
		SET first_name = $2, last_name = $3, age = $4, region = $5, department = $6,
		    commune = $7, activity = $8, phone_number = $9, updated_at = $10
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		w.ID,
		w.FirstName,
		w.LastName,
		w.Age,
		w.Region,
		w.Department,
		w.Commune,
		w.Activity,
		nullableString(w.PhoneNumber),
		w.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update woman record: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrWomanNotFound
	}

	return nil
}

// DeleteWoman removes a record and returns it.
func (r *Repository) DeleteWoman(ctx context.Context, id string) (*model.Woman, error) {
	query := `DELETE FROM women WHERE id = $1 RETURNING ` + womanColumns

	w, err := scanWoman(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWomanNotFound
		}
		return nil, fmt.Errorf("failed to delete woman record: %w", err)
	}

	return w, nil
}

// scanWoman scans a row into a Woman model.
func scanWoman(row pgx.Row) (*model.Woman, error) {
	var w model.Woman
	var phone *string

	err := row.Scan(
		&w.ID,
		&w.FirstName,
		&w.LastName,
		&w.Age,
		&w.Region,
		&w.Department,
		&w.Commune,
		&w.Activity,
		&phone,
		&w.CreatedAt,
		&w.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	if phone != nil {
		w.PhoneNumber = *phone
	}
	return &w, nil
}

// nullableString converts an empty string to a NULL parameter.
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
