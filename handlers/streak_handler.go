package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"focusFlowAPI/internal/apperror"
	"focusFlowAPI/internal/streak"
	"focusFlowAPI/middleware"
	"focusFlowAPI/services"
	"focusFlowAPI/utils"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type StreakHandler struct {
	streakService *services.StreakService
}

func NewStreakHandler(streakService *services.StreakService) *StreakHandler {
	return &StreakHandler{
		streakService: streakService,
	}
}

func (h *StreakHandler) GetStreaks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	// ?streakId= keeps the legacy single-streak query shape working.
	if raw := r.URL.Query().Get("streakId"); raw != "" {
		streakID, err := uuid.Parse(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid streak id")
			return
		}
		detail, err := h.streakService.GetStreakDetail(ctx, clerkID, streakID)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, detail)
		return
	}

	cards, err := h.streakService.ListStreaks(ctx, clerkID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"streaks": cards})
}

func (h *StreakHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	streakID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.streakService.GetStreakDetail(ctx, clerkID, streakID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, detail)
}

func (h *StreakHandler) CreateStreak(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req streak.CreateStreakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.streakService.CreateStreak(ctx, clerkID, &req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

func (h *StreakHandler) UpdateStreak(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	streakID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req streak.UpdateStreakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.streakService.UpdateStreak(ctx, clerkID, streakID, &req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

func (h *StreakHandler) DeleteStreak(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	streakID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.streakService.DeleteStreak(ctx, clerkID, streakID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Streak deleted"})
}

func (h *StreakHandler) CompleteToday(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	streakID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	// Body is optional; {date, tz} pins the calendar day for the client's zone.
	var req struct {
		Date     string `json:"date,omitempty"`
		Timezone string `json:"tz,omitempty"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	today, err := utils.ResolveToday(req.Date, req.Timezone, time.Now())
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.streakService.CompleteToday(ctx, clerkID, streakID, today)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (h *StreakHandler) ResetStreak(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	streakID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	st, err := h.streakService.ResetStreak(ctx, clerkID, streakID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"streak": st, "message": "Streak reset"})
}

func (h *StreakHandler) UseFreeze(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req streak.FreezeRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	result, err := h.streakService.UseFreeze(ctx, clerkID, req.StreakID, req.Days)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (h *StreakHandler) GetFreezeStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	status, err := h.streakService.FreezeStatus(ctx, clerkID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, status)
}

func (h *StreakHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req streak.RecalculateRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	today, err := utils.ResolveToday(req.Date, req.Timezone, time.Now())
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.streakService.Recalculate(ctx, clerkID, req.StreakID, req.RecalculateAll, today)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// pathUUID parses the {id} path variable, writing a 400 on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid streak id")
		return uuid.Nil, false
	}
	return id, true
}

// Helper functions
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

// respondWithServiceError maps service-layer error kinds onto HTTP statuses.
func respondWithServiceError(w http.ResponseWriter, err error) {
	respondWithJSON(w, apperror.HTTPStatus(err), map[string]string{
		"error": apperror.MessageOf(err),
		"code":  string(apperror.KindOf(err)),
	})
}
