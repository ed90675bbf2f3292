package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/oprema/internal/model"
)

// GetMember returns a player or coach by ID.
func GetMember(ctx context.Context, db *sql.DB, memberType, id string) (*model.Member, error) {
	m := &model.Member{}
	err := db.QueryRowContext(ctx,
		`SELECT id, type, name, category, created_at
		 FROM members WHERE type = ? AND id = ?`, memberType, id,
	).Scan(&m.ID, &m.Type, &m.Name, &m.Category, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting member: %w", err)
	}
	return m, nil
}

// ListMembers returns members ordered by name, optionally of one type.
func ListMembers(ctx context.Context, db *sql.DB, memberType string) ([]model.Member, error) {
	var rows *sql.Rows
	var err error

	if memberType != "" {
		rows, err = db.QueryContext(ctx,
			`SELECT id, type, name, category, created_at
			 FROM members WHERE type = ? ORDER BY name`, memberType,
		)
	} else {
		rows, err = db.QueryContext(ctx,
			`SELECT id, type, name, category, created_at
			 FROM members ORDER BY type, name`,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		var m model.Member
		if err := rows.Scan(&m.ID, &m.Type, &m.Name, &m.Category, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// PutMember inserts or replaces a member.
func PutMember(ctx context.Context, db *sql.DB, m *model.Member) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO members (id, type, name, category, created_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		     type = excluded.type, name = excluded.name, category = excluded.category`,
		m.ID, m.Type, m.Name, m.Category, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving member: %w", err)
	}
	return nil
}

// DeleteMember removes a member. Distributions keep the name captured when
// they were made.
func DeleteMember(ctx context.Context, db *sql.DB, memberType, id string) error {
	result, err := db.ExecContext(ctx,
		`DELETE FROM members WHERE type = ? AND id = ?`, memberType, id,
	)
	if err != nil {
		return fmt.Errorf("deleting member: %w", err)
	}
	return requireAffected(result, "member")
}
