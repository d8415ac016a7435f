package question

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/logging"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

// HTTPHandlers exposes the trivia REST endpoints.
type HTTPHandlers struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHTTPHandlers constructs trivia HTTP handlers.
func NewHTTPHandlers(svc *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		svc:    svc,
		logger: logger.With().Str("component", "question_http").Logger(),
	}
}

// Register mounts every route on mux.
func (h *HTTPHandlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("/categories", h.ListCategories)
	mux.HandleFunc("/categories/{id}/questions", h.QuestionsByCategory)
	mux.HandleFunc("/questions", h.Questions)
	mux.HandleFunc("/questions/search", h.SearchQuestions)
	mux.HandleFunc("/questions/{id}", h.DeleteQuestion)
	mux.HandleFunc("/quizzes", h.NextQuizQuestion)
}

// SearchRequest is the body of POST /questions/search.
type SearchRequest struct {
	SearchTerm string `json:"searchTerm"`
}

// QuizRequest is the body of POST /quizzes. PreviousQuestions may be omitted
// for the first question of a quiz.
type QuizRequest struct {
	QuizCategory      *CategorySpec `json:"quiz_category"`
	PreviousQuestions []int         `json:"previous_questions"`
}

// ListCategories handles GET /categories
func (h *HTTPHandlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httperrors.RespondMethodNotAllowed(w)
		return
	}

	categories, err := h.svc.Categories(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"categories": CategoryMap(categories),
	})
}

// Questions handles GET /questions?page=N and POST /questions
func (h *HTTPHandlers) Questions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listQuestions(w, r)
	case http.MethodPost:
		h.createQuestion(w, r)
	default:
		httperrors.RespondMethodNotAllowed(w)
	}
}

func (h *HTTPHandlers) listQuestions(w http.ResponseWriter, r *http.Request) {
	page, err := pageParam(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	result, err := h.svc.ListQuestions(r.Context(), page)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"questions":        result.Questions,
		"total_questions":  result.Total,
		"categories":       result.Categories,
		"current_category": nil,
	})
}

func (h *HTTPHandlers) createQuestion(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidJSON, "Invalid JSON payload")
		return
	}

	id, err := h.svc.CreateQuestion(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info().Int("question_id", id).Msg("question created")
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"created": id,
	})
}

// DeleteQuestion handles DELETE /questions/{id}
func (h *HTTPHandlers) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		httperrors.RespondMethodNotAllowed(w)
		return
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		httperrors.RespondNotFound(w, "resource not found")
		return
	}

	deleted, err := h.svc.DeleteQuestion(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info().Int("question_id", deleted).Msg("question deleted")
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"deleted": deleted,
	})
}

// SearchQuestions handles POST /questions/search?page=N
func (h *HTTPHandlers) SearchQuestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w)
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidJSON, "Invalid JSON payload")
		return
	}
	page, err := pageParam(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	result, err := h.svc.SearchQuestions(r.Context(), req.SearchTerm, page)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"questions":        result.Questions,
		"total_questions":  result.Total,
		"current_category": nil,
	})
}

// QuestionsByCategory handles GET /categories/{id}/questions
func (h *HTTPHandlers) QuestionsByCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httperrors.RespondMethodNotAllowed(w)
		return
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		httperrors.RespondNotFound(w, "resource not found")
		return
	}

	result, err := h.svc.QuestionsByCategory(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"questions":        result.Questions,
		"total_questions":  result.Total,
		"current_category": result.CurrentCategory,
	})
}

// NextQuizQuestion handles POST /quizzes
func (h *HTTPHandlers) NextQuizQuestion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w)
		return
	}

	var req QuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, ErrInvalidInput) {
			h.respondError(w, r, err)
			return
		}
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidJSON, "Invalid JSON payload")
		return
	}
	if req.QuizCategory == nil {
		httperrors.RespondUnprocessable(w, httperrors.ErrCodeInvalidInput, "quiz_category is required")
		return
	}

	next, err := h.svc.NextQuizQuestion(r.Context(), *req.QuizCategory, req.PreviousQuestions)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"question": next,
	})
}

func pageParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, fmt.Errorf("%w: page must be a positive integer", ErrBadRequest)
	}
	return page, nil
}

// respondError maps error kinds to statuses. Unclassified errors are logged and
// reported as internal errors without leaking their text.
func (h *HTTPHandlers) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httperrors.RespondNotFound(w, "resource not found")
	case errors.Is(err, ErrBadRequest):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeBadRequest, err.Error())
	case errors.Is(err, ErrInvalidInput):
		httperrors.RespondUnprocessable(w, httperrors.ErrCodeInvalidInput, err.Error())
	case errors.Is(err, ErrUnprocessable):
		logging.FromContext(r.Context()).Warn().Err(err).Msg("store rejected write")
		httperrors.RespondUnprocessable(w, httperrors.ErrCodeUnprocessable, "unprocessable")
	default:
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		httperrors.RespondInternalError(w, "internal server error")
	}
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response")
	}
}
