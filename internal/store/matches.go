package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/erazemk/oprema/internal/model"
)

const matchColumns = `id, date, time, category, opponent, field_ids,
	ref_center, ref_asst1, ref_asst2, created_at, updated_at`

// GetMatch returns a match by ID.
func GetMatch(ctx context.Context, db *sql.DB, id string) (*model.Match, error) {
	row := db.QueryRowContext(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = ?`, id)
	m, err := scanMatch(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting match: %w", err)
	}
	return m, nil
}

// ListMatches returns matches ordered by date and time, optionally for one date.
func ListMatches(ctx context.Context, db *sql.DB, filter model.MatchFilter) ([]model.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches`
	var args []any
	if filter.Date != "" {
		query += ` WHERE date = ?`
		args = append(args, filter.Date)
	}
	query += ` ORDER BY date, time, id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing matches: %w", err)
	}
	defer rows.Close()

	var matches []model.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		matches = append(matches, *m)
	}
	return matches, rows.Err()
}

// PutMatch inserts or replaces a match.
func PutMatch(ctx context.Context, db *sql.DB, m *model.Match) error {
	fields := m.FieldIDs
	if fields == nil {
		fields = []string{}
	}
	encoded, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encoding field ids: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO matches (`+matchColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		     date = excluded.date, time = excluded.time, category = excluded.category,
		     opponent = excluded.opponent, field_ids = excluded.field_ids,
		     ref_center = excluded.ref_center, ref_asst1 = excluded.ref_asst1,
		     ref_asst2 = excluded.ref_asst2, updated_at = excluded.updated_at`,
		m.ID, m.Date, m.Time, m.Category, m.Opponent, string(encoded),
		m.RefCenter, m.RefAsst1, m.RefAsst2, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving match: %w", err)
	}
	return nil
}

// DeleteMatch removes a match.
func DeleteMatch(ctx context.Context, db *sql.DB, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM matches WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting match: %w", err)
	}
	return requireAffected(result, "match")
}

func scanMatch(s scanner) (*model.Match, error) {
	var m model.Match
	var fields string
	err := s.Scan(&m.ID, &m.Date, &m.Time, &m.Category, &m.Opponent, &fields,
		&m.RefCenter, &m.RefAsst1, &m.RefAsst2, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(fields), &m.FieldIDs); err != nil {
		return nil, fmt.Errorf("decoding field ids of match %s: %w", m.ID, err)
	}
	if m.FieldIDs == nil {
		m.FieldIDs = []string{}
	}
	return &m, nil
}
