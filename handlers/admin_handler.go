package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"replyMateAPI/internal/submission"
	"replyMateAPI/services"
)

// AdminHandler backs the admin panel: user listing, the full submission
// feed, and per-user usage figures. Routes are guarded by the admin
// middleware, not here.
type AdminHandler struct {
	users       *services.UserService
	submissions *services.SubmissionService
	analytics   *services.AnalyticsService
}

func NewAdminHandler(users *services.UserService, submissions *services.SubmissionService, analytics *services.AnalyticsService) *AdminHandler {
	return &AdminHandler{
		users:       users,
		submissions: submissions,
		analytics:   analytics,
	}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	users, err := h.users.List(ctx)
	if err != nil {
		log.Printf("Failed to list users: %v", err)
		respondWithError(w, http.StatusInternalServerError, clientMessage(err))
		return
	}

	respondWithJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) ListAllSubmissions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	subs, err := h.submissions.ListAll(ctx)
	if err != nil {
		log.Printf("Failed to list all submissions: %v", err)
		respondWithError(w, http.StatusInternalServerError, clientMessage(err))
		return
	}
	if subs == nil {
		subs = []submission.Submission{}
	}

	respondWithJSON(w, http.StatusOK, subs)
}

func (h *AdminHandler) AllUsage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	counts, err := h.analytics.AllUsageCounts(ctx)
	if err != nil {
		log.Printf("Failed to compute usage counts: %v", err)
		respondWithError(w, http.StatusInternalServerError, clientMessage(err))
		return
	}

	respondWithJSON(w, http.StatusOK, counts)
}
