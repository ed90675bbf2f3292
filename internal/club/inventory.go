package club

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/erazemk/oprema/internal/clock"
	"github.com/erazemk/oprema/internal/ledger"
	"github.com/erazemk/oprema/internal/model"
)

// Inventory manages equipment items, their distributions and batches.
type Inventory struct {
	repo  Repository
	dir   Directory
	clock clock.Clock
	opts  options
}

// NewInventory creates an Inventory service.
func NewInventory(repo Repository, dir Directory, clk clock.Clock, opts ...Option) *Inventory {
	return &Inventory{repo: repo, dir: dir, clock: clk, opts: buildOptions(opts)}
}

// ItemInput holds the editable fields of an item.
type ItemInput struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Model    string `json:"model"`
	Size     string `json:"size"`
	Status   string `json:"status"`
	Quantity int    `json:"quantity"`
}

// Validate checks the input and fills in the default status.
func (in *ItemInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("name", "required")
	}
	if in.Quantity < 0 {
		return invalid("quantity", "must not be negative")
	}
	if in.Status == "" {
		in.Status = model.ItemStatusNew
	}
	if !model.ValidItemStatus(in.Status) {
		return invalid("status", "unknown status")
	}
	return nil
}

// AddDistributionInput hands out units of an item.
type AddDistributionInput struct {
	Type     string `json:"type"`
	TargetID string `json:"target_id"`
	Quantity int    `json:"quantity"`
}

// GenerateBatchInput describes a numbered series of items.
type GenerateBatchInput struct {
	BaseName   string `json:"base_name"`
	Model      string `json:"model"`
	Size       string `json:"size"`
	Category   string `json:"category"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Exclusions []int  `json:"exclusions"`
}

// AllocationResult is the result of AddDistribution.
type AllocationResult struct {
	Outcome    Outcome           `json:"outcome"`
	Item       model.Item        `json:"item"`
	Allocation ledger.Allocation `json:"allocation"`
}

// BatchResult reports how many generated items were persisted. Writes stop at
// the first failure: FailedAt is the index of the failed item (-1 when all
// succeeded) and Err its error. Nothing is retried.
type BatchResult struct {
	BatchID   string
	Intended  int
	Succeeded int
	FailedAt  int
	Err       error
	Items     []model.Item
}

// Complete reports whether every item was persisted.
func (r BatchResult) Complete() bool {
	return r.Err == nil && r.Succeeded == r.Intended
}

// DeleteFailure is one item that could not be deleted.
type DeleteFailure struct {
	ItemID string
	Err    error
}

// BatchDeleteResult reports a batch deletion. Deletes are attempted for every
// member even after a failure.
type BatchDeleteResult struct {
	Outcome  Outcome
	Intended int
	Deleted  int
	Failures []DeleteFailure
}

// DistributionView is a distribution with its position and resolved name.
type DistributionView struct {
	model.Distribution
	Index       int    `json:"index"`
	DisplayName string `json:"display_name"`
}

// ItemView is an item with its derived stock figures.
type ItemView struct {
	model.Item
	DistributedCount int                `json:"distributed_count"`
	Remaining        int                `json:"remaining"`
	Distributions    []DistributionView `json:"distributions"`
}

// Get returns an item.
func (s *Inventory) Get(ctx context.Context, id string) (model.Item, error) {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return model.Item{}, err
	}
	if item == nil {
		return model.Item{}, notFound("item", id)
	}
	return *item, nil
}

// List returns items matching filter.
func (s *Inventory) List(ctx context.Context, filter model.ItemFilter) ([]model.Item, error) {
	return s.repo.ListItems(ctx, filter)
}

// View derives stock figures for item and resolves recipient names: the live
// directory name first, then the name captured at distribution time, then
// UnknownName.
func (s *Inventory) View(ctx context.Context, item model.Item) ItemView {
	eff := ledger.Effective(item)
	views := make([]DistributionView, len(eff))
	for i, d := range eff {
		views[i] = DistributionView{Distribution: d, Index: i, DisplayName: s.displayName(ctx, d)}
	}
	return ItemView{
		Item:             item,
		DistributedCount: ledger.DistributedCount(item),
		Remaining:        ledger.Remaining(item),
		Distributions:    views,
	}
}

func (s *Inventory) displayName(ctx context.Context, d model.Distribution) string {
	if s.dir != nil {
		m, err := s.dir.Lookup(ctx, d.Type, d.TargetID)
		if err == nil && m != nil {
			return m.Name
		}
	}
	if d.Name != "" {
		return d.Name
	}
	return UnknownName
}

// Create adds a standalone item.
func (s *Inventory) Create(ctx context.Context, in ItemInput) (model.Item, error) {
	if err := in.Validate(); err != nil {
		return model.Item{}, err
	}

	now := s.clock.Now()
	item := model.Item{
		ID:            s.opts.newID(),
		Name:          strings.TrimSpace(in.Name),
		Category:      in.Category,
		Model:         in.Model,
		Size:          in.Size,
		Status:        in.Status,
		Quantity:      in.Quantity,
		Distributions: []model.Distribution{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.PutItem(ctx, &item); err != nil {
		return model.Item{}, fmt.Errorf("creating item: %w", err)
	}

	slog.Info("item created", "id", item.ID, "name", item.Name, "quantity", item.Quantity)
	return item, nil
}

// Update changes an item's descriptive fields and quantity. Distributions are
// kept; a legacy assignment is rewritten as a distribution.
func (s *Inventory) Update(ctx context.Context, id string, in ItemInput) (model.Item, error) {
	if err := in.Validate(); err != nil {
		return model.Item{}, err
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return model.Item{}, err
	}

	item := ledger.Materialize(current)
	item.Name = strings.TrimSpace(in.Name)
	item.Category = in.Category
	item.Model = in.Model
	item.Size = in.Size
	item.Status = in.Status
	item.Quantity = in.Quantity
	item.UpdatedAt = s.clock.Now()

	if err := s.repo.PutItem(ctx, &item); err != nil {
		return model.Item{}, fmt.Errorf("updating item: %w", err)
	}
	return item, nil
}

// Delete removes a single item.
func (s *Inventory) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteItem(ctx, id)
}

// AddDistribution hands out units of an item to a player or coach. When the
// result would exceed the item's quantity the operator is asked to confirm;
// if they decline nothing is written and the outcome is Declined.
func (s *Inventory) AddDistribution(ctx context.Context, itemID string, in AddDistributionInput, confirm Confirmer) (AllocationResult, error) {
	d := model.Distribution{
		Type:     in.Type,
		TargetID: strings.TrimSpace(in.TargetID),
		Quantity: in.Quantity,
	}
	if err := ledger.ValidateDistribution(d); err != nil {
		return AllocationResult{}, invalidErr(distributionField(err), err)
	}

	item, err := s.Get(ctx, itemID)
	if err != nil {
		return AllocationResult{}, err
	}

	member, err := s.lookup(ctx, d.Type, d.TargetID)
	if err != nil {
		return AllocationResult{}, err
	}
	d.Name = member.Name
	d.Timestamp = s.clock.Now()

	updated, alloc, err := ledger.AddDistribution(item, d)
	if err != nil {
		return AllocationResult{}, invalidErr(distributionField(err), err)
	}

	if alloc.OverAllocated {
		ok, err := ask(ctx, confirm, Prompt{
			Kind: PromptOverAllocation,
			Message: fmt.Sprintf("%s: distributing %d leaves %d in stock (quantity %d)",
				item.Name, d.Quantity, alloc.After, item.Quantity),
		})
		if err != nil {
			return AllocationResult{}, fmt.Errorf("confirming over-allocation: %w", err)
		}
		if !ok {
			return AllocationResult{Outcome: Declined, Item: item, Allocation: alloc}, nil
		}
	}

	updated.UpdatedAt = d.Timestamp
	if err := s.repo.PutItem(ctx, &updated); err != nil {
		return AllocationResult{}, fmt.Errorf("saving distribution: %w", err)
	}

	slog.Info("distribution added", "item", item.ID, "type", d.Type, "target", d.TargetID,
		"quantity", d.Quantity, "remaining", alloc.After, "over_allocated", alloc.OverAllocated)
	return AllocationResult{Outcome: Committed, Item: updated, Allocation: alloc}, nil
}

// RemoveDistribution deletes the distribution at index.
func (s *Inventory) RemoveDistribution(ctx context.Context, itemID string, index int) (model.Item, model.Distribution, error) {
	item, err := s.Get(ctx, itemID)
	if err != nil {
		return model.Item{}, model.Distribution{}, err
	}

	updated, removed, err := ledger.RemoveDistribution(item, index)
	if err != nil {
		return model.Item{}, model.Distribution{}, invalidErr("index", err)
	}

	updated.UpdatedAt = s.clock.Now()
	if err := s.repo.PutItem(ctx, &updated); err != nil {
		return model.Item{}, model.Distribution{}, fmt.Errorf("removing distribution: %w", err)
	}

	slog.Info("distribution removed", "item", item.ID, "index", index,
		"target", removed.TargetID, "quantity", removed.Quantity)
	return updated, removed, nil
}

// GenerateBatch creates a numbered series of items, one write per item. The
// returned error covers invalid input only; write failures are reported in
// the result.
func (s *Inventory) GenerateBatch(ctx context.Context, in GenerateBatchInput) (BatchResult, error) {
	items, err := ledger.GenerateBatch(ledger.BatchSpec{
		BaseName:   in.BaseName,
		Model:      in.Model,
		Size:       in.Size,
		Category:   in.Category,
		Start:      in.Start,
		End:        in.End,
		Exclusions: in.Exclusions,
	}, s.opts.newID)
	if err != nil {
		return BatchResult{}, invalidErr(batchField(err), err)
	}
	if len(items) == 0 {
		return BatchResult{}, invalidErr("exclusions", ledger.ErrEmptyBatch)
	}

	result := BatchResult{BatchID: items[0].BatchID, Intended: len(items), FailedAt: -1}

	now := s.clock.Now()
	for i := range items {
		items[i].CreatedAt = now
		items[i].UpdatedAt = now
		if err := s.repo.PutItem(ctx, &items[i]); err != nil {
			result.FailedAt = i
			result.Err = fmt.Errorf("saving %s: %w", items[i].Name, err)
			slog.Error("batch generation stopped", "batch", result.BatchID,
				"succeeded", result.Succeeded, "intended", result.Intended, "error", err)
			return result, nil
		}
		result.Succeeded++
		result.Items = append(result.Items, items[i])
	}

	slog.Info("batch generated", "batch", result.BatchID, "items", result.Succeeded)
	return result, nil
}

// BatchSummary totals the items of a batch.
func (s *Inventory) BatchSummary(ctx context.Context, batchID string) (ledger.Summary, error) {
	items, err := s.batchItems(ctx, batchID)
	if err != nil {
		return ledger.Summary{}, err
	}
	return ledger.Summarize(items)
}

// DeleteBatch deletes every item of a batch after the operator confirms.
// Deletes run one by one; failures are collected, not fatal.
func (s *Inventory) DeleteBatch(ctx context.Context, batchID string, confirm Confirmer) (BatchDeleteResult, error) {
	items, err := s.batchItems(ctx, batchID)
	if err != nil {
		return BatchDeleteResult{}, err
	}

	ok, err := ask(ctx, confirm, Prompt{
		Kind:    PromptBatchDelete,
		Message: fmt.Sprintf("delete %d items of batch %s", len(items), batchID),
	})
	if err != nil {
		return BatchDeleteResult{}, fmt.Errorf("confirming batch delete: %w", err)
	}
	result := BatchDeleteResult{Outcome: Declined, Intended: len(items)}
	if !ok {
		return result, nil
	}

	result.Outcome = Committed
	for _, item := range items {
		if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
			result.Failures = append(result.Failures, DeleteFailure{ItemID: item.ID, Err: err})
			continue
		}
		result.Deleted++
	}

	if len(result.Failures) > 0 {
		slog.Error("batch delete incomplete", "batch", batchID,
			"deleted", result.Deleted, "failed", len(result.Failures))
	} else {
		slog.Info("batch deleted", "batch", batchID, "items", result.Deleted)
	}
	return result, nil
}

// MigrateLegacy rewrites every item still carrying a single-assignment
// record as an item with a distributions list. It returns how many items were
// rewritten.
func (s *Inventory) MigrateLegacy(ctx context.Context) (int, error) {
	items, err := s.repo.ListItems(ctx, model.ItemFilter{})
	if err != nil {
		return 0, fmt.Errorf("listing items for migration: %w", err)
	}

	migrated := 0
	for _, item := range items {
		if item.AssignedType == "" && item.AssignedTo == "" {
			continue
		}

		updated := ledger.Materialize(item)
		for i := range updated.Distributions {
			d := &updated.Distributions[i]
			if d.Name == "" {
				d.Name = s.displayName(ctx, *d)
			}
			if d.Timestamp.IsZero() {
				d.Timestamp = item.UpdatedAt
			}
		}

		if err := s.repo.PutItem(ctx, &updated); err != nil {
			return migrated, fmt.Errorf("migrating item %s: %w", item.ID, err)
		}
		migrated++
	}
	return migrated, nil
}

func (s *Inventory) batchItems(ctx context.Context, batchID string) ([]model.Item, error) {
	if batchID == "" {
		return nil, invalid("batch_id", "required")
	}
	items, err := s.repo.ListItems(ctx, model.ItemFilter{BatchID: batchID})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, notFound("batch", batchID)
	}
	return items, nil
}

func (s *Inventory) lookup(ctx context.Context, memberType, id string) (*model.Member, error) {
	if s.dir == nil {
		return nil, invalid("target_id", "no directory to resolve recipient")
	}
	m, err := s.dir.Lookup(ctx, memberType, id)
	if err != nil {
		return nil, fmt.Errorf("looking up %s %s: %w", memberType, id, err)
	}
	if m == nil {
		return nil, invalid("target_id", fmt.Sprintf("no %s with id %s", memberType, id))
	}
	return m, nil
}

func distributionField(err error) string {
	switch err {
	case ledger.ErrInvalidQuantity:
		return "quantity"
	case ledger.ErrInvalidType:
		return "type"
	case ledger.ErrMissingTarget:
		return "target_id"
	}
	return "distribution"
}

func batchField(err error) string {
	switch err {
	case ledger.ErrInvalidRange, ledger.ErrBatchTooLarge:
		return "range"
	case ledger.ErrMissingBaseName:
		return "base_name"
	}
	return "batch"
}
