package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/oprema/internal/club"
	"github.com/erazemk/oprema/internal/model"
)

// MatchesHandler handles match scheduling endpoints.
type MatchesHandler struct {
	Schedule *club.Schedule
}

type matchRequest struct {
	club.SaveMatchInput
	Confirm bool `json:"confirm"`
}

type conflictsResponse struct {
	Conflicts []model.Match `json:"conflicts"`
}

// List handles GET /api/matches.
func (h *MatchesHandler) List(w http.ResponseWriter, r *http.Request) {
	matches, err := h.Schedule.List(r.Context(), model.MatchFilter{Date: r.URL.Query().Get("date")})
	if err != nil {
		serviceError(w, err, "list matches")
		return
	}
	if matches == nil {
		matches = []model.Match{}
	}
	jsonResponse(w, http.StatusOK, matches)
}

// Get handles GET /api/matches/{id}.
func (h *MatchesHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.Schedule.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		serviceError(w, err, "get match")
		return
	}
	jsonResponse(w, http.StatusOK, m)
}

// Create handles POST /api/matches.
func (h *MatchesHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, "", http.StatusCreated)
}

// Update handles PUT /api/matches/{id}.
func (h *MatchesHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, r.PathValue("id"), http.StatusOK)
}

// save stores the match, answering 409 with the clashing matches until the
// request is resent with confirm.
func (h *MatchesHandler) save(w http.ResponseWriter, r *http.Request, id string, status int) {
	var req matchRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.ID = id

	confirm := newConfirmation(r, req.Confirm)
	res, err := h.Schedule.Save(r.Context(), req.SaveMatchInput, confirm)
	if err != nil {
		serviceError(w, err, "save match")
		return
	}
	if res.Outcome == club.Declined {
		confirm.needsConfirmation(w, conflictsResponse{Conflicts: res.Conflicts})
		return
	}

	slog.Info("match saved", "user", actor(r), "id", res.Match.ID, "conflicts", len(res.Conflicts))
	jsonResponse(w, status, res.Match)
}

// Conflicts handles POST /api/matches/conflicts. Nothing is saved.
func (h *MatchesHandler) Conflicts(w http.ResponseWriter, r *http.Request) {
	var req club.SaveMatchInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	conflicts, err := h.Schedule.Conflicts(r.Context(), req)
	if err != nil {
		serviceError(w, err, "check conflicts")
		return
	}
	if conflicts == nil {
		conflicts = []model.Match{}
	}
	jsonResponse(w, http.StatusOK, conflictsResponse{Conflicts: conflicts})
}

// Delete handles DELETE /api/matches/{id}.
func (h *MatchesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.Schedule.Delete(r.Context(), id); err != nil {
		serviceError(w, err, "delete match")
		return
	}

	slog.Info("match deleted", "user", actor(r), "id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "match deleted"})
}
