package club

import "context"

// Outcome of an operation that may need operator confirmation.
type Outcome string

const (
	// Committed means the change was persisted.
	Committed Outcome = "committed"
	// Declined means the operator did not confirm and nothing was written.
	Declined Outcome = "declined"
)

// PromptKind identifies why confirmation is needed.
type PromptKind string

const (
	PromptOverAllocation   PromptKind = "over_allocation"
	PromptScheduleConflict PromptKind = "schedule_conflict"
	PromptBatchDelete      PromptKind = "batch_delete"
)

// Prompt is a yes/no question put to the operator.
type Prompt struct {
	Kind    PromptKind `json:"kind"`
	Message string     `json:"message"`
}

// Confirmer asks the operator to acknowledge a prompt.
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, p Prompt) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, p Prompt) (bool, error) {
	return f(ctx, p)
}

// ConfirmFlag answers every prompt with ok. HTTP handlers use it for the
// request's confirm flag.
func ConfirmFlag(ok bool) Confirmer {
	return ConfirmFunc(func(context.Context, Prompt) (bool, error) {
		return ok, nil
	})
}

func ask(ctx context.Context, c Confirmer, p Prompt) (bool, error) {
	if c == nil {
		return false, nil
	}
	return c.Confirm(ctx, p)
}
