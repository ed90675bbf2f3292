// Package cache wraps a club.Repository with a read-through cache.
//
// Only collections named at construction are cached. Any put or delete on a
// collection drops the written record and every cached listing of that
// collection. Cached values are copied on the way in and out so callers
// never share slices with the cache.
package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/erazemk/oprema/internal/club"
	"github.com/erazemk/oprema/internal/model"
)

// Repository is a caching club.Repository.
type Repository struct {
	next        club.Repository
	collections map[string]bool

	mu      sync.Mutex
	records map[string]any
	lists   map[string]map[string]any
	gens    map[string]int
	hits    int
	misses  int
}

var _ club.Repository = (*Repository)(nil)

// New caches reads of the given collections in front of next.
func New(next club.Repository, collections ...string) *Repository {
	c := &Repository{
		next:        next,
		collections: make(map[string]bool, len(collections)),
		records:     make(map[string]any),
		lists:       make(map[string]map[string]any),
		gens:        make(map[string]int),
	}
	for _, name := range collections {
		c.collections[name] = true
	}
	return c
}

// Stats returns the hit and miss counts.
func (c *Repository) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Invalidate drops everything cached for collection.
func (c *Repository) Invalidate(collection string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidate(collection, "")
}

func key(collection, id string) string {
	return collection + "/" + id
}

// lookup returns the cached record and, on a miss, the collection
// generation to pass to store.
func (c *Repository) lookup(collection, k string) (any, int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.records[k]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, c.gens[collection], ok
}

func (c *Repository) lookupList(collection, k string) (any, int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.lists[collection][k]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, c.gens[collection], ok
}

// store keeps v unless the collection was written since gen was read.
func (c *Repository) store(collection, k string, gen int, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[collection] != gen {
		return
	}
	c.records[k] = v
}

func (c *Repository) storeList(collection, k string, gen int, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[collection] != gen {
		return
	}
	if c.lists[collection] == nil {
		c.lists[collection] = make(map[string]any)
	}
	c.lists[collection][k] = v
}

// invalidate drops the record id, or every record of the collection when id
// is empty, along with all lists of the collection. Callers hold mu.
func (c *Repository) invalidate(collection, id string) {
	c.gens[collection]++
	if id != "" {
		delete(c.records, key(collection, id))
	} else {
		prefix := collection + "/"
		for k := range c.records {
			if strings.HasPrefix(k, prefix) {
				delete(c.records, k)
			}
		}
	}
	delete(c.lists, collection)
}

func (c *Repository) drop(collection, id string) {
	if !c.collections[collection] {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidate(collection, id)
}

func (c *Repository) GetItem(ctx context.Context, id string) (*model.Item, error) {
	if !c.collections[club.CollectionItems] {
		return c.next.GetItem(ctx, id)
	}
	k := key(club.CollectionItems, id)
	v, gen, ok := c.lookup(club.CollectionItems, k)
	if ok {
		return cloneItemPtr(v.(*model.Item)), nil
	}

	item, err := c.next.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(club.CollectionItems, k, gen, cloneItemPtr(item))
	return item, nil
}

func (c *Repository) ListItems(ctx context.Context, filter model.ItemFilter) ([]model.Item, error) {
	if !c.collections[club.CollectionItems] {
		return c.next.ListItems(ctx, filter)
	}
	k := fmt.Sprintf("category=%s&batch=%s", filter.Category, filter.BatchID)
	v, gen, ok := c.lookupList(club.CollectionItems, k)
	if ok {
		return cloneItems(v.([]model.Item)), nil
	}

	items, err := c.next.ListItems(ctx, filter)
	if err != nil {
		return nil, err
	}
	c.storeList(club.CollectionItems, k, gen, cloneItems(items))
	return items, nil
}

func (c *Repository) PutItem(ctx context.Context, item *model.Item) error {
	defer c.drop(club.CollectionItems, item.ID)
	return c.next.PutItem(ctx, item)
}

func (c *Repository) DeleteItem(ctx context.Context, id string) error {
	defer c.drop(club.CollectionItems, id)
	return c.next.DeleteItem(ctx, id)
}

func (c *Repository) GetMatch(ctx context.Context, id string) (*model.Match, error) {
	if !c.collections[club.CollectionMatches] {
		return c.next.GetMatch(ctx, id)
	}
	k := key(club.CollectionMatches, id)
	v, gen, ok := c.lookup(club.CollectionMatches, k)
	if ok {
		return cloneMatchPtr(v.(*model.Match)), nil
	}

	m, err := c.next.GetMatch(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(club.CollectionMatches, k, gen, cloneMatchPtr(m))
	return m, nil
}

func (c *Repository) ListMatches(ctx context.Context, filter model.MatchFilter) ([]model.Match, error) {
	if !c.collections[club.CollectionMatches] {
		return c.next.ListMatches(ctx, filter)
	}
	k := "date=" + filter.Date
	v, gen, ok := c.lookupList(club.CollectionMatches, k)
	if ok {
		return cloneMatches(v.([]model.Match)), nil
	}

	matches, err := c.next.ListMatches(ctx, filter)
	if err != nil {
		return nil, err
	}
	c.storeList(club.CollectionMatches, k, gen, cloneMatches(matches))
	return matches, nil
}

func (c *Repository) PutMatch(ctx context.Context, m *model.Match) error {
	defer c.drop(club.CollectionMatches, m.ID)
	return c.next.PutMatch(ctx, m)
}

func (c *Repository) DeleteMatch(ctx context.Context, id string) error {
	defer c.drop(club.CollectionMatches, id)
	return c.next.DeleteMatch(ctx, id)
}

func (c *Repository) GetMember(ctx context.Context, memberType, id string) (*model.Member, error) {
	collection := club.MemberCollection(memberType)
	if !c.collections[collection] || !model.ValidMemberType(memberType) {
		return c.next.GetMember(ctx, memberType, id)
	}
	k := key(collection, id)
	v, gen, ok := c.lookup(collection, k)
	if ok {
		return cloneMemberPtr(v.(*model.Member)), nil
	}

	m, err := c.next.GetMember(ctx, memberType, id)
	if err != nil {
		return nil, err
	}
	c.store(collection, k, gen, cloneMemberPtr(m))
	return m, nil
}

func (c *Repository) ListMembers(ctx context.Context, memberType string) ([]model.Member, error) {
	collection := club.MemberCollection(memberType)
	if !c.collections[collection] || !model.ValidMemberType(memberType) {
		return c.next.ListMembers(ctx, memberType)
	}
	v, gen, ok := c.lookupList(collection, "")
	if ok {
		return append([]model.Member(nil), v.([]model.Member)...), nil
	}

	members, err := c.next.ListMembers(ctx, memberType)
	if err != nil {
		return nil, err
	}
	c.storeList(collection, "", gen, append([]model.Member(nil), members...))
	return members, nil
}

func (c *Repository) PutMember(ctx context.Context, m *model.Member) error {
	defer c.drop(club.MemberCollection(m.Type), m.ID)
	return c.next.PutMember(ctx, m)
}

func (c *Repository) DeleteMember(ctx context.Context, memberType, id string) error {
	defer c.drop(club.MemberCollection(memberType), id)
	return c.next.DeleteMember(ctx, memberType, id)
}

func cloneItemPtr(item *model.Item) *model.Item {
	if item == nil {
		return nil
	}
	c := item.Clone()
	return &c
}

func cloneItems(items []model.Item) []model.Item {
	if items == nil {
		return nil
	}
	out := make([]model.Item, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}

func cloneMatchPtr(m *model.Match) *model.Match {
	if m == nil {
		return nil
	}
	c := *m
	if m.FieldIDs != nil {
		c.FieldIDs = make([]string, len(m.FieldIDs))
		copy(c.FieldIDs, m.FieldIDs)
	}
	return &c
}

func cloneMatches(matches []model.Match) []model.Match {
	if matches == nil {
		return nil
	}
	out := make([]model.Match, len(matches))
	for i, m := range matches {
		out[i] = *cloneMatchPtr(&m)
	}
	return out
}

func cloneMemberPtr(m *model.Member) *model.Member {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}
