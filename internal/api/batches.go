package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/oprema/internal/club"
	"github.com/erazemk/oprema/internal/ledger"
	"github.com/erazemk/oprema/internal/model"
)

// BatchesHandler handles numbered batch endpoints.
type BatchesHandler struct {
	Inventory *club.Inventory
}

type batchResponse struct {
	BatchID   string       `json:"batch_id"`
	Intended  int          `json:"intended"`
	Succeeded int          `json:"succeeded"`
	FailedAt  int          `json:"failed_at"`
	Error     string       `json:"error,omitempty"`
	Items     []model.Item `json:"items"`
}

type batchSummaryResponse struct {
	ledger.Summary
	Label string `json:"label"`
}

type deleteFailure struct {
	ItemID string `json:"item_id"`
	Error  string `json:"error"`
}

type batchDeleteResponse struct {
	Intended int             `json:"intended"`
	Deleted  int             `json:"deleted"`
	Failures []deleteFailure `json:"failures,omitempty"`
}

// Create handles POST /api/batches. A batch that could only be partly
// written answers 500 with what was created.
func (h *BatchesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req club.GenerateBatchInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.Inventory.GenerateBatch(r.Context(), req)
	if err != nil {
		serviceError(w, err, "generate batch")
		return
	}

	resp := batchResponse{
		BatchID:   res.BatchID,
		Intended:  res.Intended,
		Succeeded: res.Succeeded,
		FailedAt:  res.FailedAt,
		Items:     res.Items,
	}
	if resp.Items == nil {
		resp.Items = []model.Item{}
	}

	if !res.Complete() {
		if res.Err != nil {
			resp.Error = res.Err.Error()
		}
		jsonResponse(w, http.StatusInternalServerError, resp)
		return
	}

	slog.Info("batch created", "user", actor(r), "batch", res.BatchID, "items", res.Succeeded)
	jsonResponse(w, http.StatusCreated, resp)
}

// Get handles GET /api/batches/{id}.
func (h *BatchesHandler) Get(w http.ResponseWriter, r *http.Request) {
	sum, err := h.Inventory.BatchSummary(r.Context(), r.PathValue("id"))
	if err != nil {
		serviceError(w, err, "summarize batch")
		return
	}
	jsonResponse(w, http.StatusOK, batchSummaryResponse{Summary: sum, Label: sum.Label()})
}

// Delete handles DELETE /api/batches/{id}?confirm=true.
func (h *BatchesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	batchID := r.PathValue("id")
	confirm := newConfirmation(r, false)

	res, err := h.Inventory.DeleteBatch(r.Context(), batchID, confirm)
	if err != nil {
		serviceError(w, err, "delete batch")
		return
	}
	if res.Outcome == club.Declined {
		confirm.needsConfirmation(w, map[string]int{"items": res.Intended})
		return
	}

	resp := batchDeleteResponse{Intended: res.Intended, Deleted: res.Deleted}
	for _, f := range res.Failures {
		resp.Failures = append(resp.Failures, deleteFailure{ItemID: f.ItemID, Error: f.Err.Error()})
	}

	slog.Info("batch deleted", "user", actor(r), "batch", batchID, "deleted", res.Deleted, "failed", len(res.Failures))
	if len(resp.Failures) > 0 {
		jsonResponse(w, http.StatusInternalServerError, resp)
		return
	}
	jsonResponse(w, http.StatusOK, resp)
}
