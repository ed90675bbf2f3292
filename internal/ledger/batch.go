package ledger

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/erazemk/oprema/internal/model"
)

// MaxBatchSize caps the number of items a single batch may generate.
const MaxBatchSize = 1000

// Batch errors.
var (
	ErrEmptyBatch      = errors.New("batch has no items")
	ErrInvalidRange    = errors.New("start number must not exceed end number")
	ErrMissingBaseName = errors.New("batch base name required")
	ErrBatchTooLarge   = fmt.Errorf("batch may not exceed %d items", MaxBatchSize)
)

// Summary aggregates the items of one batch.
type Summary struct {
	BatchID          string       `json:"batch_id"`
	BaseName         string       `json:"base_name"`
	FirstNumber      int          `json:"first_number"`
	LastNumber       int          `json:"last_number"`
	TotalQuantity    int          `json:"total_quantity"`
	DistributedCount int          `json:"distributed_count"`
	StockRemaining   int          `json:"stock_remaining"`
	Items            []model.Item `json:"items"`

	numbered bool
}

// Summarize totals a batch. Items come back ordered by number; items without
// a number sort last in their original order.
func Summarize(items []model.Item) (Summary, error) {
	if len(items) == 0 {
		return Summary{}, ErrEmptyBatch
	}

	sorted := make([]model.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Number, sorted[j].Number
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return *a < *b
	})

	s := Summary{
		BatchID:  sorted[0].BatchID,
		BaseName: baseName(sorted[0].Name),
		Items:    sorted,
	}

	seen := false
	for _, item := range sorted {
		s.TotalQuantity += item.Quantity
		s.DistributedCount += DistributedCount(item)
		if item.Number == nil {
			continue
		}
		n := *item.Number
		if !seen || n < s.FirstNumber {
			s.FirstNumber = n
		}
		if !seen || n > s.LastNumber {
			s.LastNumber = n
		}
		seen = true
	}
	s.numbered = seen
	s.StockRemaining = s.TotalQuantity - s.DistributedCount

	return s, nil
}

// Label returns the display title for the batch, e.g. "Jersey #1-30".
// A batch whose items carry no numbers is labelled by its base name alone.
func (s Summary) Label() string {
	if !s.numbered {
		return s.BaseName
	}
	if s.FirstNumber == s.LastNumber {
		return fmt.Sprintf("%s #%d", s.BaseName, s.FirstNumber)
	}
	return fmt.Sprintf("%s #%d-%d", s.BaseName, s.FirstNumber, s.LastNumber)
}

// BatchSpec describes a numbered series of items to generate.
type BatchSpec struct {
	BaseName   string
	Model      string
	Size       string
	Category   string
	Start      int
	End        int
	Exclusions []int
}

// GenerateBatch builds one item per number in [Start, End] that is not
// excluded. All items share a fresh batch ID and have quantity 1. newID
// supplies the batch ID first and then one ID per item.
func GenerateBatch(spec BatchSpec, newID func() string) ([]model.Item, error) {
	name := strings.TrimSpace(spec.BaseName)
	if name == "" {
		return nil, ErrMissingBaseName
	}
	if spec.Start > spec.End {
		return nil, ErrInvalidRange
	}

	excluded := make(map[int]bool, len(spec.Exclusions))
	for _, n := range spec.Exclusions {
		if n >= spec.Start && n <= spec.End {
			excluded[n] = true
		}
	}
	// End-Start as unsigned cannot overflow once Start <= End.
	width := uint64(spec.End) - uint64(spec.Start)
	if width >= uint64(MaxBatchSize+len(excluded)) {
		return nil, ErrBatchTooLarge
	}
	count := int(width) + 1 - len(excluded)

	batchID := newID()
	items := make([]model.Item, 0, count)
	for i := 0; i <= int(width); i++ {
		n := spec.Start + i
		if excluded[n] {
			continue
		}
		number := n
		items = append(items, model.Item{
			ID:            newID(),
			Name:          fmt.Sprintf("%s #%d", name, n),
			Category:      spec.Category,
			Model:         spec.Model,
			Size:          spec.Size,
			Status:        model.ItemStatusNew,
			Quantity:      1,
			BatchID:       batchID,
			Number:        &number,
			Distributions: []model.Distribution{},
		})
	}
	return items, nil
}

// baseName strips a trailing " #N" from a generated item name.
func baseName(name string) string {
	i := strings.LastIndex(name, " #")
	if i < 0 {
		return name
	}
	return name[:i]
}
