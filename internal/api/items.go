package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/oprema/internal/club"
	"github.com/erazemk/oprema/internal/model"
)

// ItemsHandler handles inventory item and distribution endpoints.
type ItemsHandler struct {
	Inventory *club.Inventory
}

type distributionRequest struct {
	club.AddDistributionInput
	Confirm bool `json:"confirm"`
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.Inventory.List(r.Context(), model.ItemFilter{
		Category: q.Get("category"),
		BatchID:  q.Get("batch"),
	})
	if err != nil {
		serviceError(w, err, "list items")
		return
	}

	views := make([]club.ItemView, len(items))
	for i, item := range items {
		views[i] = h.Inventory.View(r.Context(), item)
	}
	jsonResponse(w, http.StatusOK, views)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req club.ItemInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Inventory.Create(r.Context(), req)
	if err != nil {
		serviceError(w, err, "create item")
		return
	}
	jsonResponse(w, http.StatusCreated, h.Inventory.View(r.Context(), item))
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.Inventory.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		serviceError(w, err, "get item")
		return
	}
	jsonResponse(w, http.StatusOK, h.Inventory.View(r.Context(), item))
}

// Update handles PUT /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req club.ItemInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Inventory.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		serviceError(w, err, "update item")
		return
	}
	jsonResponse(w, http.StatusOK, h.Inventory.View(r.Context(), item))
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.Inventory.Delete(r.Context(), id); err != nil {
		serviceError(w, err, "delete item")
		return
	}

	slog.Info("item deleted", "user", actor(r), "id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// AddDistribution handles POST /api/items/{id}/distributions. Handing out
// more than is in stock answers 409 until the request is resent with confirm.
func (h *ItemsHandler) AddDistribution(w http.ResponseWriter, r *http.Request) {
	var req distributionRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	confirm := newConfirmation(r, req.Confirm)
	res, err := h.Inventory.AddDistribution(r.Context(), r.PathValue("id"), req.AddDistributionInput, confirm)
	if err != nil {
		serviceError(w, err, "add distribution")
		return
	}
	if res.Outcome == club.Declined {
		confirm.needsConfirmation(w, res.Allocation)
		return
	}

	slog.Info("items distributed", "user", actor(r), "item", res.Item.ID,
		"target", req.TargetID, "quantity", req.Quantity)
	jsonResponse(w, http.StatusCreated, h.Inventory.View(r.Context(), res.Item))
}

// RemoveDistribution handles DELETE /api/items/{id}/distributions/{index}.
func (h *ItemsHandler) RemoveDistribution(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid distribution index")
		return
	}

	item, removed, err := h.Inventory.RemoveDistribution(r.Context(), r.PathValue("id"), index)
	if err != nil {
		serviceError(w, err, "remove distribution")
		return
	}

	slog.Info("distribution returned", "user", actor(r), "item", item.ID,
		"target", removed.TargetID, "quantity", removed.Quantity)
	jsonResponse(w, http.StatusOK, h.Inventory.View(r.Context(), item))
}
