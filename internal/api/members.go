package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/oprema/internal/club"
	"github.com/erazemk/oprema/internal/model"
)

// MembersHandler handles player and coach endpoints.
type MembersHandler struct {
	Roster *club.Roster
}

// List handles GET /api/members.
func (h *MembersHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.Roster.List(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		serviceError(w, err, "list members")
		return
	}
	if members == nil {
		members = []model.Member{}
	}
	jsonResponse(w, http.StatusOK, members)
}

// Create handles POST /api/members.
func (h *MembersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req club.MemberInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.Roster.Create(r.Context(), req)
	if err != nil {
		serviceError(w, err, "create member")
		return
	}

	slog.Info("member created", "user", actor(r), "type", m.Type, "id", m.ID, "name", m.Name)
	jsonResponse(w, http.StatusCreated, m)
}

// Get handles GET /api/members/{type}/{id}.
func (h *MembersHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.Roster.Get(r.Context(), r.PathValue("type"), r.PathValue("id"))
	if err != nil {
		serviceError(w, err, "get member")
		return
	}
	jsonResponse(w, http.StatusOK, m)
}

// Update handles PUT /api/members/{type}/{id}.
func (h *MembersHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req club.MemberInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.Roster.Update(r.Context(), r.PathValue("type"), r.PathValue("id"), req)
	if err != nil {
		serviceError(w, err, "update member")
		return
	}
	jsonResponse(w, http.StatusOK, m)
}

// Delete handles DELETE /api/members/{type}/{id}.
func (h *MembersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	memberType, id := r.PathValue("type"), r.PathValue("id")
	if err := h.Roster.Delete(r.Context(), memberType, id); err != nil {
		serviceError(w, err, "delete member")
		return
	}

	slog.Info("member deleted", "user", actor(r), "type", memberType, "id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "member deleted"})
}
