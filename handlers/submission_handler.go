package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"replyMateAPI/internal/submission"
	"replyMateAPI/middleware"
	"replyMateAPI/services"
)

type SubmissionHandler struct {
	submissions *services.SubmissionService
}

func NewSubmissionHandler(submissions *services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

func (h *SubmissionHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	subs, err := h.submissions.ListForUser(ctx, userID)
	if err != nil {
		log.Printf("Failed to list submissions for %s: %v", userID, err)
		respondWithError(w, http.StatusInternalServerError, clientMessage(err))
		return
	}
	if subs == nil {
		subs = []submission.Submission{}
	}

	respondWithJSON(w, http.StatusOK, subs)
}

func (h *SubmissionHandler) DeleteSubmission(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.submissions.DeleteForUser(ctx, userID, id); err != nil {
		status := statusForError(err)
		if status != http.StatusNotFound {
			log.Printf("Failed to delete submission %s: %v", id, err)
		}
		respondWithError(w, status, clientMessage(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SubmissionHandler) GetUsage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	counts, err := h.submissions.UsageCounts(ctx, userID)
	if err != nil {
		log.Printf("Failed to compute usage for %s: %v", userID, err)
		respondWithError(w, http.StatusInternalServerError, clientMessage(err))
		return
	}

	respondWithJSON(w, http.StatusOK, counts)
}
