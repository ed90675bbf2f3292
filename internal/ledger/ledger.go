// Package ledger does the stock accounting for inventory items: what has been
// handed out, what is left, and how numbered batches add up.
//
// Every function here is pure. Inputs are never mutated; callers persist the
// returned values themselves.
package ledger

import (
	"errors"

	"github.com/erazemk/oprema/internal/model"
)

// Validation errors.
var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidType     = errors.New("distribution type must be player or coach")
	ErrMissingTarget   = errors.New("distribution target required")
	ErrIndexOutOfRange = errors.New("distribution index out of range")
)

// Allocation describes the effect of adding a distribution.
type Allocation struct {
	Before        int  `json:"remaining_before"`
	After         int  `json:"remaining_after"`
	OverAllocated bool `json:"over_allocated"`
}

// Effective returns the distributions that count against the item's stock.
// An item with no distributions but a legacy single assignment counts as one
// distribution of quantity 1.
func Effective(item model.Item) []model.Distribution {
	if len(item.Distributions) > 0 || !item.HasLegacyAssignment() {
		return item.Distributions
	}
	return []model.Distribution{{
		Type:     item.AssignedType,
		TargetID: item.AssignedTo,
		Quantity: 1,
	}}
}

// DistributedCount returns the number of units handed out.
func DistributedCount(item model.Item) int {
	total := 0
	for _, d := range Effective(item) {
		total += d.Quantity
	}
	return total
}

// Remaining returns quantity minus distributed units. It is negative when the
// item has been over-allocated.
func Remaining(item model.Item) int {
	return item.Quantity - DistributedCount(item)
}

// ValidateDistribution checks a distribution before it is appended.
func ValidateDistribution(d model.Distribution) error {
	if d.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if !model.ValidMemberType(d.Type) {
		return ErrInvalidType
	}
	if d.TargetID == "" {
		return ErrMissingTarget
	}
	return nil
}

// AddDistribution returns a copy of item with d appended. Over-allocation is
// reported in the Allocation, not as an error.
func AddDistribution(item model.Item, d model.Distribution) (model.Item, Allocation, error) {
	if err := ValidateDistribution(d); err != nil {
		return item, Allocation{}, err
	}

	before := Remaining(item)
	out := Materialize(item)
	out.Distributions = append(out.Distributions, d)
	after := Remaining(out)

	return out, Allocation{
		Before:        before,
		After:         after,
		OverAllocated: after < 0,
	}, nil
}

// RemoveDistribution returns a copy of item without the distribution at index,
// along with the removed entry.
func RemoveDistribution(item model.Item, index int) (model.Item, model.Distribution, error) {
	out := Materialize(item)
	if index < 0 || index >= len(out.Distributions) {
		return item, model.Distribution{}, ErrIndexOutOfRange
	}

	removed := out.Distributions[index]
	out.Distributions = append(out.Distributions[:index], out.Distributions[index+1:]...)
	return out, removed, nil
}

// Materialize returns a copy of item in the current shape: a synthesized
// legacy distribution becomes a real entry and the legacy fields are cleared.
func Materialize(item model.Item) model.Item {
	out := item.Clone()
	eff := Effective(item)
	out.Distributions = make([]model.Distribution, len(eff))
	copy(out.Distributions, eff)
	out.AssignedType = ""
	out.AssignedTo = ""
	return out
}
