package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/oprema/internal/club"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

type validationResponse struct {
	Error string `json:"error"`
	Field string `json:"field"`
}

// serviceError maps a club service error to a response. action names what
// failed for the log and the generic 500 message.
func serviceError(w http.ResponseWriter, err error, action string) {
	var ve *club.ValidationError
	switch {
	case errors.As(err, &ve):
		jsonResponse(w, http.StatusBadRequest, validationResponse{Error: ve.Err.Error(), Field: ve.Field})
	case errors.Is(err, club.ErrNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
	default:
		slog.Error("failed to "+action, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to "+action)
	}
}

// confirmation answers service prompts with the request's confirm flag and
// keeps the last prompt so a refusal can be reported back.
type confirmation struct {
	ok     bool
	prompt *club.Prompt
}

func newConfirmation(r *http.Request, bodyFlag bool) *confirmation {
	return &confirmation{ok: bodyFlag || r.URL.Query().Get("confirm") == "true"}
}

func (c *confirmation) Confirm(_ context.Context, p club.Prompt) (bool, error) {
	c.prompt = &p
	return c.ok, nil
}

type warningResponse struct {
	Warning string          `json:"warning"`
	Kind    club.PromptKind `json:"kind"`
	Details any             `json:"details,omitempty"`
}

// needsConfirmation writes 409 with the prompt the operator has to accept by
// resending the request with confirm set.
func (c *confirmation) needsConfirmation(w http.ResponseWriter, details any) {
	resp := warningResponse{Warning: "confirmation required", Details: details}
	if c.prompt != nil {
		resp.Warning = c.prompt.Message
		resp.Kind = c.prompt.Kind
	}
	jsonResponse(w, http.StatusConflict, resp)
}
