package ledger

import (
	"errors"
	"testing"

	"github.com/erazemk/oprema/internal/model"
)

func dist(targetID string, qty int) model.Distribution {
	return model.Distribution{Type: model.MemberTypePlayer, TargetID: targetID, Quantity: qty}
}

func TestRemainingWithoutDistributions(t *testing.T) {
	for _, qty := range []int{0, 1, 12} {
		item := model.Item{Quantity: qty}
		if got := Remaining(item); got != qty {
			t.Errorf("Remaining(quantity=%d) = %d, want %d", qty, got, qty)
		}
	}
}

func TestRemainingSubtractsDistributions(t *testing.T) {
	item := model.Item{
		Quantity:      10,
		Distributions: []model.Distribution{dist("p1", 3), dist("p2", 2)},
	}
	if got := Remaining(item); got != 5 {
		t.Errorf("expected remaining 5, got %d", got)
	}
	if got := DistributedCount(item); got != 5 {
		t.Errorf("expected distributed 5, got %d", got)
	}
}

func TestRemainingMayBeNegative(t *testing.T) {
	item := model.Item{Quantity: 1, Distributions: []model.Distribution{dist("p1", 3)}}
	if got := Remaining(item); got != -2 {
		t.Errorf("expected remaining -2, got %d", got)
	}
}

func TestRemainingLegacyAssignment(t *testing.T) {
	tests := []struct {
		name string
		item model.Item
		want int
	}{
		{
			name: "legacy assignment counts as one",
			item: model.Item{Quantity: 4, AssignedType: "player", AssignedTo: "p1"},
			want: 3,
		},
		{
			name: "half-filled legacy fields ignored",
			item: model.Item{Quantity: 4, AssignedType: "player"},
			want: 4,
		},
		{
			name: "distributions win over legacy fields",
			item: model.Item{
				Quantity:      4,
				AssignedType:  "player",
				AssignedTo:    "p1",
				Distributions: []model.Distribution{dist("p2", 2)},
			},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Remaining(tt.item); got != tt.want {
				t.Errorf("Remaining() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAddDistributionDecreasesRemaining(t *testing.T) {
	items := []model.Item{
		{Quantity: 5},
		{Quantity: 5, Distributions: []model.Distribution{dist("p1", 2)}},
		{Quantity: 5, AssignedType: "coach", AssignedTo: "c1"},
	}

	for _, item := range items {
		before := Remaining(item)
		d := dist("p9", 2)

		out, alloc, err := AddDistribution(item, d)
		if err != nil {
			t.Fatalf("AddDistribution: %v", err)
		}
		if got := Remaining(out); got != before-d.Quantity {
			t.Errorf("expected remaining %d, got %d", before-d.Quantity, got)
		}
		if alloc.Before != before || alloc.After != before-d.Quantity {
			t.Errorf("unexpected allocation %+v (before %d)", alloc, before)
		}
		if out.AssignedType != "" || out.AssignedTo != "" {
			t.Errorf("expected legacy fields cleared, got %q/%q", out.AssignedType, out.AssignedTo)
		}
	}
}

func TestAddDistributionMaterializesLegacy(t *testing.T) {
	item := model.Item{Quantity: 3, AssignedType: "coach", AssignedTo: "c1"}

	out, _, err := AddDistribution(item, dist("p1", 1))
	if err != nil {
		t.Fatalf("AddDistribution: %v", err)
	}
	if len(out.Distributions) != 2 {
		t.Fatalf("expected 2 distributions, got %d", len(out.Distributions))
	}
	if out.Distributions[0].TargetID != "c1" || out.Distributions[0].Quantity != 1 {
		t.Errorf("expected legacy entry first, got %+v", out.Distributions[0])
	}
	if !item.HasLegacyAssignment() {
		t.Error("input item was mutated")
	}
}

func TestAddDistributionOverAllocation(t *testing.T) {
	item := model.Item{Quantity: 2, Distributions: []model.Distribution{dist("p1", 2)}}

	out, alloc, err := AddDistribution(item, dist("p2", 1))
	if err != nil {
		t.Fatalf("over-allocation must not be an error: %v", err)
	}
	if !alloc.OverAllocated {
		t.Error("expected over-allocation flag")
	}
	if Remaining(out) != -1 {
		t.Errorf("expected remaining -1, got %d", Remaining(out))
	}

	_, alloc, _ = AddDistribution(model.Item{Quantity: 2}, dist("p1", 2))
	if alloc.OverAllocated {
		t.Error("using exactly the full stock is not over-allocation")
	}
}

func TestAddDistributionValidation(t *testing.T) {
	tests := []struct {
		name string
		d    model.Distribution
		want error
	}{
		{"zero quantity", model.Distribution{Type: "player", TargetID: "p1", Quantity: 0}, ErrInvalidQuantity},
		{"negative quantity", model.Distribution{Type: "player", TargetID: "p1", Quantity: -1}, ErrInvalidQuantity},
		{"bad type", model.Distribution{Type: "referee", TargetID: "p1", Quantity: 1}, ErrInvalidType},
		{"missing target", model.Distribution{Type: "coach", Quantity: 1}, ErrMissingTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := model.Item{Quantity: 5}
			out, _, err := AddDistribution(item, tt.d)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if len(out.Distributions) != 0 {
				t.Error("expected no distribution appended on error")
			}
		})
	}
}

func TestRemoveDistribution(t *testing.T) {
	item := model.Item{
		Quantity:      10,
		Distributions: []model.Distribution{dist("p1", 1), dist("p2", 4), dist("p3", 2)},
	}
	before := Remaining(item)

	out, removed, err := RemoveDistribution(item, 1)
	if err != nil {
		t.Fatalf("RemoveDistribution: %v", err)
	}
	if removed.TargetID != "p2" {
		t.Errorf("expected p2 removed, got %q", removed.TargetID)
	}
	if got := Remaining(out); got != before+removed.Quantity {
		t.Errorf("expected remaining %d, got %d", before+removed.Quantity, got)
	}
	if len(out.Distributions) != 2 || out.Distributions[1].TargetID != "p3" {
		t.Errorf("unexpected distributions after removal: %+v", out.Distributions)
	}
	if len(item.Distributions) != 3 || item.Distributions[1].TargetID != "p2" {
		t.Error("input item was mutated")
	}
}

func TestRemoveDistributionOutOfRange(t *testing.T) {
	item := model.Item{Quantity: 1, Distributions: []model.Distribution{dist("p1", 1)}}

	for _, idx := range []int{-1, 1, 5} {
		if _, _, err := RemoveDistribution(item, idx); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("index %d: expected ErrIndexOutOfRange, got %v", idx, err)
		}
	}
}

func TestRemoveLegacyDistribution(t *testing.T) {
	item := model.Item{Quantity: 1, AssignedType: "player", AssignedTo: "p1"}

	out, removed, err := RemoveDistribution(item, 0)
	if err != nil {
		t.Fatalf("RemoveDistribution: %v", err)
	}
	if removed.TargetID != "p1" {
		t.Errorf("expected legacy target removed, got %q", removed.TargetID)
	}
	if Remaining(out) != 1 {
		t.Errorf("expected remaining 1, got %d", Remaining(out))
	}
	if out.HasLegacyAssignment() {
		t.Error("expected legacy fields cleared")
	}
}

func TestRemainingIsIdempotent(t *testing.T) {
	item := model.Item{Quantity: 6, Distributions: []model.Distribution{dist("p1", 2)}}
	first := Remaining(item)
	for i := 0; i < 3; i++ {
		if got := Remaining(item); got != first {
			t.Fatalf("call %d: got %d, want %d", i, got, first)
		}
	}
}
