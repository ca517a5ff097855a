package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"replyMateAPI/middleware"
	"replyMateAPI/services"
)

type GenerationHandler struct {
	generation *services.GenerationService
}

func NewGenerationHandler(generation *services.GenerationService) *GenerationHandler {
	return &GenerationHandler{generation: generation}
}

type generateReplyRequest struct {
	PostContent string `json:"postContent"`
	Tone        string `json:"tone"`
}

func (h *GenerationHandler) GenerateReply(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	userID, _ := middleware.GetUserID(r.Context())

	var req generateReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	reply, err := h.generation.GenerateShortReply(ctx, userID, req.PostContent, req.Tone)
	if err != nil {
		h.fail(w, "short-reply", err)
		return
	}

	middleware.RecordGeneration("short-reply", "ok")
	respondWithJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

type generateTweetsRequest struct {
	Examples []string `json:"examples"`
}

func (h *GenerationHandler) GenerateTweets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	userID, _ := middleware.GetUserID(r.Context())

	var req generateTweetsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tweets, err := h.generation.GenerateViralTweets(ctx, userID, req.Examples)
	if err != nil {
		h.fail(w, "viral-tweet", err)
		return
	}

	middleware.RecordGeneration("viral-tweet", "ok")
	respondWithJSON(w, http.StatusOK, map[string][]string{"tweets": tweets})
}

func (h *GenerationHandler) fail(w http.ResponseWriter, generationType string, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		log.Printf("generation error (%s): %v", generationType, err)
	}
	middleware.RecordGeneration(generationType, outcomeFor(err))
	respondWithError(w, status, clientMessage(err))
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		return "invalid"
	case errors.Is(err, services.ErrUnsafeInput):
		return "unsafe_input"
	case errors.Is(err, services.ErrUnsafeOutput):
		return "unsafe_output"
	case errors.Is(err, services.ErrQuotaExceeded):
		return "quota"
	default:
		return "failed"
	}
}
