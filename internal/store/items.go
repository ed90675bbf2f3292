package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/erazemk/oprema/internal/model"
)

const itemColumns = `id, name, category, model, size, status, quantity, batch_id, number,
	distributions, assigned_type, assigned_to, created_at, updated_at`

// GetItem returns an item by ID.
func GetItem(ctx context.Context, db *sql.DB, id string) (*model.Item, error) {
	row := db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns items matching the filter, batch members ordered by number.
func ListItems(ctx context.Context, db *sql.DB, filter model.ItemFilter) ([]model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE 1=1`
	var args []any

	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	if filter.BatchID != "" {
		query += ` AND batch_id = ?`
		args = append(args, filter.BatchID)
	}

	query += ` ORDER BY category, batch_id, number, name`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// PutItem inserts or replaces an item.
func PutItem(ctx context.Context, db *sql.DB, item *model.Item) error {
	dists := item.Distributions
	if dists == nil {
		dists = []model.Distribution{}
	}
	encoded, err := json.Marshal(dists)
	if err != nil {
		return fmt.Errorf("encoding distributions: %w", err)
	}

	var number sql.NullInt64
	if item.Number != nil {
		number = sql.NullInt64{Int64: int64(*item.Number), Valid: true}
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO items (`+itemColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		     name = excluded.name, category = excluded.category, model = excluded.model,
		     size = excluded.size, status = excluded.status, quantity = excluded.quantity,
		     batch_id = excluded.batch_id, number = excluded.number,
		     distributions = excluded.distributions,
		     assigned_type = excluded.assigned_type, assigned_to = excluded.assigned_to,
		     updated_at = excluded.updated_at`,
		item.ID, item.Name, item.Category, item.Model, item.Size, item.Status, item.Quantity,
		item.BatchID, number, string(encoded), item.AssignedType, item.AssignedTo,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving item: %w", err)
	}
	return nil
}

// DeleteItem removes an item.
func DeleteItem(ctx context.Context, db *sql.DB, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return requireAffected(result, "item")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*model.Item, error) {
	var item model.Item
	var number sql.NullInt64
	var dists string
	err := s.Scan(&item.ID, &item.Name, &item.Category, &item.Model, &item.Size, &item.Status,
		&item.Quantity, &item.BatchID, &number, &dists, &item.AssignedType, &item.AssignedTo,
		&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if number.Valid {
		n := int(number.Int64)
		item.Number = &n
	}
	if err := json.Unmarshal([]byte(dists), &item.Distributions); err != nil {
		return nil, fmt.Errorf("decoding distributions of item %s: %w", item.ID, err)
	}
	if item.Distributions == nil {
		item.Distributions = []model.Distribution{}
	}
	return &item, nil
}

func requireAffected(result sql.Result, what string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking %s rows: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, model.ErrNotFound)
	}
	return nil
}
