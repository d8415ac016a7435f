package memory

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/gokatarajesh/trivia-api/internal/question"
)

// Store is a process-local question.Store, used for development and tests.
type Store struct {
	mu         sync.RWMutex
	nextID     int
	questions  map[int]question.Question
	categories map[int]question.Category
}

var _ question.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		nextID:     1,
		questions:  map[int]question.Question{},
		categories: map[int]question.Category{},
	}
}

// Seed is the YAML layout accepted by LoadSeed.
type Seed struct {
	Categories []struct {
		ID   int    `yaml:"id"`
		Type string `yaml:"type"`
	} `yaml:"categories"`
	Questions []struct {
		ID         int    `yaml:"id"`
		Question   string `yaml:"question"`
		Answer     string `yaml:"answer"`
		Category   int    `yaml:"category"`
		Difficulty int    `yaml:"difficulty"`
	} `yaml:"questions"`
}

// LoadSeed reads a YAML seed file into the store. Questions without an id are
// assigned the next free one.
func (s *Store) LoadSeed(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("decode seed file: %w", err)
	}

	for _, c := range seed.Categories {
		s.PutCategory(question.Category{ID: c.ID, Type: c.Type})
	}
	for _, q := range seed.Questions {
		if err := s.PutQuestion(question.Question{
			ID:         q.ID,
			Question:   q.Question,
			Answer:     q.Answer,
			Category:   q.Category,
			Difficulty: q.Difficulty,
		}); err != nil {
			return err
		}
	}
	return nil
}

// PutCategory inserts or replaces a category.
func (s *Store) PutCategory(c question.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.ID] = c
}

// PutQuestion inserts or replaces a question; a zero id is assigned.
func (s *Store) PutQuestion(q question.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[q.Category]; !ok {
		return fmt.Errorf("%w: category %d does not exist", question.ErrUnprocessable, q.Category)
	}
	if q.ID == 0 {
		q.ID = s.nextID
	}
	if q.ID >= s.nextID {
		s.nextID = q.ID + 1
	}
	s.questions[q.ID] = q
	return nil
}

func (s *Store) Questions(_ context.Context, q question.QuestionQuery) ([]question.Question, error) {
	s.mu.RLock()
	all := make([]question.Question, 0, len(s.questions))
	for _, item := range s.questions {
		all = append(all, item)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return q.Apply(all)
}

func (s *Store) Question(_ context.Context, id int) (question.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.questions[id]
	if !ok {
		return question.Question{}, question.ErrNotFound
	}
	return item, nil
}

func (s *Store) InsertQuestion(_ context.Context, nq question.NewQuestion) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[nq.Category]; !ok {
		return 0, fmt.Errorf("%w: category %d does not exist", question.ErrUnprocessable, nq.Category)
	}
	id := s.nextID
	s.nextID++
	s.questions[id] = question.Question{
		ID:         id,
		Question:   nq.Question,
		Answer:     nq.Answer,
		Category:   nq.Category,
		Difficulty: nq.Difficulty,
	}
	return id, nil
}

func (s *Store) DeleteQuestion(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[id]; !ok {
		return question.ErrNotFound
	}
	delete(s.questions, id)
	return nil
}

func (s *Store) Categories(_ context.Context) ([]question.Category, error) {
	s.mu.RLock()
	out := make([]question.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) Category(_ context.Context, id int) (question.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	if !ok {
		return question.Category{}, question.ErrNotFound
	}
	return c, nil
}
