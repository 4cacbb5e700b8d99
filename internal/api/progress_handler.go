package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kofadam/asahi-x-family/internal/api/shared"
	"github.com/kofadam/asahi-x-family/internal/domain"
	"github.com/kofadam/asahi-x-family/internal/platform/logger"
	"github.com/kofadam/asahi-x-family/internal/service/progress"
)

// ProgressHandler serves the learner progress routes.
type ProgressHandler struct {
	progressService progress.ProgressService
	logger          *slog.Logger
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progressService progress.ProgressService, logger *slog.Logger) *ProgressHandler {
	if progressService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("progressService cannot be nil for ProgressHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProgressHandler")
	}

	return &ProgressHandler{
		progressService: progressService,
		logger:          logger.With(slog.String("component", "progress_handler")),
	}
}

// Routes registers the handler's routes on r.
func (h *ProgressHandler) Routes(r chi.Router) {
	r.Get("/profile", h.GetProfile)
	r.Put("/preferences", h.UpdatePreferences)
	r.Put("/travel-mode", h.SetTravelMode)
	r.Get("/reviews/due", h.GetDueReviews)
	r.Post("/reviews/{id}/answer", h.SubmitReview)
	r.Get("/lessons", h.GetLessons)
	r.Get("/lessons/next", h.GetNextLesson)
	r.Post("/lessons/{id}/complete", h.CompleteLesson)
	r.Post("/practice", h.RecordPractice)
	r.Get("/achievements", h.GetAchievements)
}

// GetProfile handles GET /profile.
func (h *ProgressHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	profileID, ok := requireProfileID(w, r, log)
	if !ok {
		return
	}

	view, err := h.progressService.Profile(r.Context(), profileID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// UpdatePreferences handles PUT /preferences.
func (h *ProgressHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	profileID, ok := requireProfileID(w, r, log)
	if !ok {
		return
	}

	var req PreferencesRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	view, err := h.progressService.UpdatePreferences(r.Context(), profileID, req.ToPreferences())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("preferences updated", slog.String("profile_id", profileID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// SetTravelMode handles PUT /travel-mode.
func (h *ProgressHandler) SetTravelMode(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	profileID, ok := requireProfileID(w, r, log)
	if !ok {
		return
	}

	var req TravelModeRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	view, err := h.progressService.SetTravelMode(r.Context(), profileID, *req.Active)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// GetDueReviews handles GET /reviews/due. The service reports nothing due
// when progress cannot be read, so this route does not fail on store outages.
func (h *ProgressHandler) GetDueReviews(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	profileID, ok := requireProfileID(w, r, log)
	if !ok {
		return
	}

	items, err := h.progressService.DueReviews(r.Context(), profileID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list due reviews")
		return
	}
	if items == nil {
		items = []progress.DueReview{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DueReviewsResponse{Items: items, Count: len(items)})
}

// SubmitReview handles POST /reviews/{id}/answer.
func (h *ProgressHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	profileID, itemID, ok := handleProfileIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	rating, err := domain.ParseRating(req.Rating)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	outcome, err := h.progressService.SubmitReview(r.Context(), profileID, itemID, rating)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("review submitted",
		slog.String("profile_id", profileID.String()),
		slog.String("item_id", itemID.String()),
		slog.String("rating", rating.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, outcome)
}

// GetLessons handles GET /lessons.
func (h *ProgressHandler) GetLessons(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	profileID, ok := requireProfileID(w, r, log)
	if !ok {
		return
	}

	view, err := h.progressService.Lessons(r.Context(), profileID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// GetNextLesson handles GET /lessons/next.
func (h *ProgressHandler) GetNextLesson(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	profileID, ok := requireProfileID(w, r, log)
	if !ok {
		return
	}

	view, err := h.progressService.NextLesson(r.Context(), profileID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// CompleteLesson handles POST /lessons/{id}/complete.
func (h *ProgressHandler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	profileID, ok := requireProfileID(w, r, log)
	if !ok {
		return
	}

	lessonID := chi.URLParam(r, "id")
	if lessonID == "" {
		HandleAPIError(w, r, domain.NewValidationError("id", "is required", domain.ErrValidation), "")
		return
	}

	var req CompleteLessonRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	outcome, err := h.progressService.CompleteLesson(r.Context(), profileID, lessonID, *req.Accuracy)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("lesson completed",
		slog.String("profile_id", profileID.String()),
		slog.String("lesson_id", lessonID),
		slog.Int("xp_gained", outcome.XPGained))
	shared.RespondWithJSON(w, r, http.StatusOK, outcome)
}

// RecordPractice handles POST /practice.
func (h *ProgressHandler) RecordPractice(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	profileID, ok := requireProfileID(w, r, log)
	if !ok {
		return
	}

	var req PracticeRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	outcome, err := h.progressService.RecordPractice(r.Context(), profileID, req.ToPractice())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, outcome)
}

// GetAchievements handles GET /achievements.
func (h *ProgressHandler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	profileID, ok := requireProfileID(w, r, log)
	if !ok {
		return
	}

	views, err := h.progressService.Achievements(r.Context(), profileID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, views)
}
