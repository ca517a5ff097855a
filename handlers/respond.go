package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"replyMateAPI/services"
	"replyMateAPI/store"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// statusForError maps the service failure classes onto the HTTP contract.
// Quota exhaustion gets its own status so clients can route to the upgrade
// flow instead of showing a generic error.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidRequest), errors.Is(err, services.ErrUnsafeInput):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrQuotaExceeded):
		return http.StatusPaymentRequired
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// clientMessage keeps server-side detail out of responses. Validation
// failures are surfaced verbatim since the caller needs to act on them.
func clientMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		return err.Error()
	case errors.Is(err, services.ErrUnsafeInput):
		return "Input contains potentially unsafe content."
	case errors.Is(err, services.ErrQuotaExceeded):
		return "Generation quota exceeded. Upgrade your plan to continue."
	case errors.Is(err, services.ErrUnsafeOutput):
		return "Generated content was deemed unsafe."
	case errors.Is(err, services.ErrGenerationFailed):
		return "Failed to generate content. Please try again later."
	case errors.Is(err, store.ErrNotFound):
		return "Not found."
	default:
		return "An unexpected error occurred."
	}
}
