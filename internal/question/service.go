package question

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var quizSelections = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "trivia_quiz_selections_total",
	Help: "Quiz question selections by outcome.",
}, []string{"scope", "outcome"})

// Store is the persistence collaborator. Question scans are ordered by id ascending;
// lookups by id return ErrNotFound when the row is absent.
type Store interface {
	Questions(ctx context.Context, q QuestionQuery) ([]Question, error)
	Question(ctx context.Context, id int) (Question, error)
	InsertQuestion(ctx context.Context, q NewQuestion) (int, error)
	DeleteQuestion(ctx context.Context, id int) error
	Categories(ctx context.Context) ([]Category, error)
	Category(ctx context.Context, id int) (Category, error)
}

// Page is one page of questions together with the size of the full result.
type Page struct {
	Questions  []Formatted
	Total      int
	Categories map[int]string
}

// CategoryPage lists every question of one category.
type CategoryPage struct {
	Questions       []Formatted
	Total           int
	CurrentCategory string
}

// CreateRequest is the payload for a new question. Pointer fields distinguish
// absent values from zero values.
type CreateRequest struct {
	Question   *string `json:"question"`
	Answer     *string `json:"answer"`
	Category   *int    `json:"category"`
	Difficulty *int    `json:"difficulty"`
}

// Validate enforces presence of every field.
func (r CreateRequest) Validate() error {
	switch {
	case r.Question == nil || strings.TrimSpace(*r.Question) == "":
		return fmt.Errorf("%w: question is required", ErrBadRequest)
	case r.Answer == nil || strings.TrimSpace(*r.Answer) == "":
		return fmt.Errorf("%w: answer is required", ErrBadRequest)
	case r.Category == nil:
		return fmt.Errorf("%w: category is required", ErrBadRequest)
	case r.Difficulty == nil:
		return fmt.Errorf("%w: difficulty is required", ErrBadRequest)
	}
	return nil
}

// Service implements listing, search, quiz selection and question lifecycle over a Store.
type Service struct {
	store    Store
	cache    CategoryCache
	selector *Selector
	logger   zerolog.Logger
}

type ServiceOptions struct {
	// Cache is optional; nil disables category caching.
	Cache CategoryCache
	// Rand is optional; nil uses the global math/rand/v2 generator.
	Rand RandSource
}

func NewService(store Store, logger zerolog.Logger, opts ServiceOptions) *Service {
	return &Service{
		store:    store,
		cache:    opts.Cache,
		selector: NewSelector(opts.Rand),
		logger:   logger.With().Str("component", "question_service").Logger(),
	}
}

// Categories returns every category ordered by id, preferring the cache.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx); err == nil && len(cached) > 0 {
			return cached, nil
		} else if err != nil {
			s.logger.Warn().Err(err).Msg("category cache read failed")
		}
	}

	categories, err := s.store.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("%w: no categories", ErrNotFound)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, categories); err != nil {
			s.logger.Warn().Err(err).Msg("category cache write failed")
		}
	}
	return categories, nil
}

// ListQuestions returns one page of all questions plus the category map.
// An empty page is NotFound unless the collection itself is empty and page is 1.
func (s *Service) ListQuestions(ctx context.Context, page int) (Page, error) {
	if page < 1 {
		return Page{}, fmt.Errorf("%w: page must be >= 1", ErrBadRequest)
	}

	all, err := s.store.Questions(ctx, QuestionQuery{})
	if err != nil {
		return Page{}, fmt.Errorf("list questions: %w", err)
	}
	current := Paginate(all, page)
	if len(current) == 0 && !(len(all) == 0 && page == 1) {
		return Page{}, fmt.Errorf("%w: page %d is empty", ErrNotFound, page)
	}

	categories, err := s.Categories(ctx)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Page{}, err
	}

	return Page{
		Questions:  FormatAll(current),
		Total:      len(all),
		Categories: CategoryMap(categories),
	}, nil
}

// SearchQuestions pages through questions whose text contains term, ignoring case.
func (s *Service) SearchQuestions(ctx context.Context, term string, page int) (Page, error) {
	if term == "" {
		return Page{}, fmt.Errorf("%w: searchTerm is required", ErrBadRequest)
	}
	if page < 1 {
		return Page{}, fmt.Errorf("%w: page must be >= 1", ErrBadRequest)
	}

	matches, err := s.store.Questions(ctx, QuestionQuery{Search: term})
	if err != nil {
		return Page{}, fmt.Errorf("search questions: %w", err)
	}
	return Page{
		Questions: FormatAll(Paginate(matches, page)),
		Total:     len(matches),
	}, nil
}

// QuestionsByCategory lists every question in the category.
func (s *Service) QuestionsByCategory(ctx context.Context, categoryID int) (CategoryPage, error) {
	category, err := s.store.Category(ctx, categoryID)
	if err != nil {
		return CategoryPage{}, fmt.Errorf("category %d: %w", categoryID, err)
	}

	qs, err := s.store.Questions(ctx, QuestionQuery{CategoryID: &categoryID})
	if err != nil {
		return CategoryPage{}, fmt.Errorf("questions for category %d: %w", categoryID, err)
	}
	return CategoryPage{
		Questions:       FormatAll(qs),
		Total:           len(qs),
		CurrentCategory: category.Type,
	}, nil
}

// NextQuizQuestion returns a random eligible question, or nil when every eligible
// question has already been asked.
func (s *Service) NextQuizQuestion(ctx context.Context, spec CategorySpec, previous []int) (*Formatted, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	pool, err := s.store.Questions(ctx, spec.Query(previous))
	if err != nil {
		return nil, fmt.Errorf("quiz pool: %w", err)
	}

	q, ok, err := s.selector.Next(spec, pool, previous)
	if err != nil {
		return nil, err
	}
	if !ok {
		quizSelections.WithLabelValues(spec.Scope, "exhausted").Inc()
		return nil, nil
	}
	quizSelections.WithLabelValues(spec.Scope, "question").Inc()
	f := Format(q)
	return &f, nil
}

// CreateQuestion stores a new question and returns its id.
func (s *Service) CreateQuestion(ctx context.Context, req CreateRequest) (int, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}
	id, err := s.store.InsertQuestion(ctx, NewQuestion{
		Question:   strings.TrimSpace(*req.Question),
		Answer:     strings.TrimSpace(*req.Answer),
		Category:   *req.Category,
		Difficulty: *req.Difficulty,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: insert question: %v", ErrUnprocessable, err)
	}
	return id, nil
}

// DeleteQuestion removes the question and echoes its id. Deleting an absent id is NotFound.
func (s *Service) DeleteQuestion(ctx context.Context, id int) (int, error) {
	if _, err := s.store.Question(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, fmt.Errorf("question %d: %w", id, ErrNotFound)
		}
		return 0, fmt.Errorf("%w: load question %d: %v", ErrUnprocessable, id, err)
	}
	if err := s.store.DeleteQuestion(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, fmt.Errorf("question %d: %w", id, ErrNotFound)
		}
		return 0, fmt.Errorf("%w: delete question %d: %v", ErrUnprocessable, id, err)
	}
	return id, nil
}
