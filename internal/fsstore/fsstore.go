// Package fsstore persists club records in Cloud Firestore. Documents use the
// camelCase field names of the club's existing collections.
package fsstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/erazemk/oprema/internal/club"
	"github.com/erazemk/oprema/internal/model"
)

// Store implements club.Repository on Firestore.
type Store struct {
	Client *firestore.Client
}

var _ club.Repository = (*Store)(nil)

// NewClient connects to Firestore. An empty credentialsFile uses application
// default credentials; FIRESTORE_EMULATOR_HOST is honoured by the client.
func NewClient(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	slog.Info("firestore connected", "project", projectID)
	return client, nil
}

// New wraps client.
func New(client *firestore.Client) *Store {
	return &Store{Client: client}
}

func (s *Store) col(name string) *firestore.CollectionRef {
	return s.Client.Collection(name)
}

func (s *Store) GetItem(ctx context.Context, id string) (*model.Item, error) {
	snap, err := s.get(ctx, club.CollectionItems, id)
	if err != nil || snap == nil {
		return nil, err
	}
	var doc itemDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decoding item %s: %w", id, err)
	}
	item := doc.item(snap.Ref.ID)
	return &item, nil
}

func (s *Store) ListItems(ctx context.Context, filter model.ItemFilter) ([]model.Item, error) {
	q := s.col(club.CollectionItems).Query
	if filter.Category != "" {
		q = q.Where("category", "==", filter.Category)
	}
	if filter.BatchID != "" {
		q = q.Where("batchId", "==", filter.BatchID)
	}

	var items []model.Item
	err := each(ctx, q, func(snap *firestore.DocumentSnapshot) error {
		var doc itemDoc
		if err := snap.DataTo(&doc); err != nil {
			return fmt.Errorf("decoding item %s: %w", snap.Ref.ID, err)
		}
		items = append(items, doc.item(snap.Ref.ID))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}

	sort.SliceStable(items, func(i, j int) bool { return itemLess(items[i], items[j]) })
	return items, nil
}

func (s *Store) PutItem(ctx context.Context, item *model.Item) error {
	if _, err := s.col(club.CollectionItems).Doc(item.ID).Set(ctx, newItemDoc(*item)); err != nil {
		return fmt.Errorf("saving item: %w", err)
	}
	return nil
}

func (s *Store) DeleteItem(ctx context.Context, id string) error {
	return s.delete(ctx, club.CollectionItems, id, "item")
}

func (s *Store) GetMatch(ctx context.Context, id string) (*model.Match, error) {
	snap, err := s.get(ctx, club.CollectionMatches, id)
	if err != nil || snap == nil {
		return nil, err
	}
	var doc matchDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decoding match %s: %w", id, err)
	}
	m := doc.match(snap.Ref.ID)
	return &m, nil
}

func (s *Store) ListMatches(ctx context.Context, filter model.MatchFilter) ([]model.Match, error) {
	q := s.col(club.CollectionMatches).Query
	if filter.Date != "" {
		q = q.Where("date", "==", filter.Date)
	}

	var matches []model.Match
	err := each(ctx, q, func(snap *firestore.DocumentSnapshot) error {
		var doc matchDoc
		if err := snap.DataTo(&doc); err != nil {
			return fmt.Errorf("decoding match %s: %w", snap.Ref.ID, err)
		}
		matches = append(matches, doc.match(snap.Ref.ID))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing matches: %w", err)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return a.ID < b.ID
	})
	return matches, nil
}

func (s *Store) PutMatch(ctx context.Context, m *model.Match) error {
	if _, err := s.col(club.CollectionMatches).Doc(m.ID).Set(ctx, newMatchDoc(*m)); err != nil {
		return fmt.Errorf("saving match: %w", err)
	}
	return nil
}

func (s *Store) DeleteMatch(ctx context.Context, id string) error {
	return s.delete(ctx, club.CollectionMatches, id, "match")
}

func (s *Store) GetMember(ctx context.Context, memberType, id string) (*model.Member, error) {
	snap, err := s.get(ctx, club.MemberCollection(memberType), id)
	if err != nil || snap == nil {
		return nil, err
	}
	var doc memberDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decoding member %s: %w", id, err)
	}
	m := doc.member(memberType, snap.Ref.ID)
	return &m, nil
}

func (s *Store) ListMembers(ctx context.Context, memberType string) ([]model.Member, error) {
	if memberType == "" {
		var all []model.Member
		for _, t := range []string{model.MemberTypeCoach, model.MemberTypePlayer} {
			members, err := s.ListMembers(ctx, t)
			if err != nil {
				return nil, err
			}
			all = append(all, members...)
		}
		return all, nil
	}

	var members []model.Member
	err := each(ctx, s.col(club.MemberCollection(memberType)).OrderBy("name", firestore.Asc),
		func(snap *firestore.DocumentSnapshot) error {
			var doc memberDoc
			if err := snap.DataTo(&doc); err != nil {
				return fmt.Errorf("decoding member %s: %w", snap.Ref.ID, err)
			}
			members = append(members, doc.member(memberType, snap.Ref.ID))
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	return members, nil
}

func (s *Store) PutMember(ctx context.Context, m *model.Member) error {
	if !model.ValidMemberType(m.Type) {
		return fmt.Errorf("saving member: unknown type %q", m.Type)
	}
	if _, err := s.col(club.MemberCollection(m.Type)).Doc(m.ID).Set(ctx, newMemberDoc(*m)); err != nil {
		return fmt.Errorf("saving member: %w", err)
	}
	return nil
}

func (s *Store) DeleteMember(ctx context.Context, memberType, id string) error {
	return s.delete(ctx, club.MemberCollection(memberType), id, "member")
}

// get returns nil, nil when the document does not exist.
func (s *Store) get(ctx context.Context, collection, id string) (*firestore.DocumentSnapshot, error) {
	if strings.TrimSpace(id) == "" {
		return nil, nil
	}
	snap, err := s.col(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s/%s: %w", collection, id, err)
	}
	return snap, nil
}

func (s *Store) delete(ctx context.Context, collection, id, what string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s: %w", what, model.ErrNotFound)
	}
	_, err := s.col(collection).Doc(id).Delete(ctx, firestore.Exists)
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%s: %w", what, model.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("deleting %s: %w", what, err)
	}
	return nil
}

func each(ctx context.Context, q firestore.Query, fn func(*firestore.DocumentSnapshot) error) error {
	it := q.Documents(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(snap); err != nil {
			return err
		}
	}
}

// itemLess orders items the way the SQL store does: by category, then batch,
// then number with unnumbered items first, then name.
func itemLess(a, b model.Item) bool {
	if a.Category != b.Category {
		return a.Category < b.Category
	}
	if a.BatchID != b.BatchID {
		return a.BatchID < b.BatchID
	}
	if (a.Number == nil) != (b.Number == nil) {
		return a.Number == nil
	}
	if a.Number != nil && *a.Number != *b.Number {
		return *a.Number < *b.Number
	}
	return a.Name < b.Name
}
