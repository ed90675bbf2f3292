package store

import (
	"context"
	"database/sql"

	"github.com/erazemk/oprema/internal/club"
	"github.com/erazemk/oprema/internal/model"
)

// SQLStore adapts the package functions to club.Repository.
type SQLStore struct {
	DB *sql.DB
}

var _ club.Repository = (*SQLStore)(nil)

// NewSQLStore wraps db.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{DB: db}
}

func (s *SQLStore) GetItem(ctx context.Context, id string) (*model.Item, error) {
	return GetItem(ctx, s.DB, id)
}

func (s *SQLStore) ListItems(ctx context.Context, filter model.ItemFilter) ([]model.Item, error) {
	return ListItems(ctx, s.DB, filter)
}

func (s *SQLStore) PutItem(ctx context.Context, item *model.Item) error {
	return PutItem(ctx, s.DB, item)
}

func (s *SQLStore) DeleteItem(ctx context.Context, id string) error {
	return DeleteItem(ctx, s.DB, id)
}

func (s *SQLStore) GetMatch(ctx context.Context, id string) (*model.Match, error) {
	return GetMatch(ctx, s.DB, id)
}

func (s *SQLStore) ListMatches(ctx context.Context, filter model.MatchFilter) ([]model.Match, error) {
	return ListMatches(ctx, s.DB, filter)
}

func (s *SQLStore) PutMatch(ctx context.Context, m *model.Match) error {
	return PutMatch(ctx, s.DB, m)
}

func (s *SQLStore) DeleteMatch(ctx context.Context, id string) error {
	return DeleteMatch(ctx, s.DB, id)
}

func (s *SQLStore) GetMember(ctx context.Context, memberType, id string) (*model.Member, error) {
	return GetMember(ctx, s.DB, memberType, id)
}

func (s *SQLStore) ListMembers(ctx context.Context, memberType string) ([]model.Member, error) {
	return ListMembers(ctx, s.DB, memberType)
}

func (s *SQLStore) PutMember(ctx context.Context, m *model.Member) error {
	return PutMember(ctx, s.DB, m)
}

func (s *SQLStore) DeleteMember(ctx context.Context, memberType, id string) error {
	return DeleteMember(ctx, s.DB, memberType, id)
}
