package question

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Questions(ctx context.Context, q QuestionQuery) ([]Question, error) {
	args := m.Called(ctx, q)
	qs, _ := args.Get(0).([]Question)
	return qs, args.Error(1)
}

func (m *mockStore) Question(ctx context.Context, id int) (Question, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Question), args.Error(1)
}

func (m *mockStore) InsertQuestion(ctx context.Context, q NewQuestion) (int, error) {
	args := m.Called(ctx, q)
	return args.Int(0), args.Error(1)
}

func (m *mockStore) DeleteQuestion(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) Categories(ctx context.Context) ([]Category, error) {
	args := m.Called(ctx)
	cs, _ := args.Get(0).([]Category)
	return cs, args.Error(1)
}

func (m *mockStore) Category(ctx context.Context, id int) (Category, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Category), args.Error(1)
}

type memoryCache struct {
	categories []Category
	sets       int
}

func (c *memoryCache) Get(context.Context) ([]Category, error) { return c.categories, nil }

func (c *memoryCache) Set(_ context.Context, categories []Category) error {
	c.categories = categories
	c.sets++
	return nil
}

func numbered(n int) []Question {
	out := make([]Question, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, Question{ID: i, Question: fmt.Sprintf("Question %d", i), Answer: "a", Category: 1, Difficulty: 2})
	}
	return out
}

func newTestService(store Store, opts ServiceOptions) *Service {
	return NewService(store, zerolog.Nop(), opts)
}

func TestListQuestionsSecondPage(t *testing.T) {
	store := new(mockStore)
	store.On("Questions", mock.Anything, QuestionQuery{}).Return(numbered(19), nil)
	store.On("Categories", mock.Anything).Return([]Category{{ID: 1, Type: "Science"}}, nil)

	page, err := newTestService(store, ServiceOptions{}).ListQuestions(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 19, page.Total)
	require.Len(t, page.Questions, 9)
	assert.Equal(t, 11, page.Questions[0].ID)
	assert.Equal(t, 19, page.Questions[8].ID)
	assert.Equal(t, map[int]string{1: "Science"}, page.Categories)
}

func TestListQuestionsEmptyPageIsNotFound(t *testing.T) {
	store := new(mockStore)
	store.On("Questions", mock.Anything, QuestionQuery{}).Return(numbered(19), nil)

	_, err := newTestService(store, ServiceOptions{}).ListQuestions(context.Background(), 3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListQuestionsEmptyCollection(t *testing.T) {
	store := new(mockStore)
	store.On("Questions", mock.Anything, QuestionQuery{}).Return([]Question{}, nil)
	store.On("Categories", mock.Anything).Return([]Category{}, nil)

	svc := newTestService(store, ServiceOptions{})
	page, err := svc.ListQuestions(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
	assert.Empty(t, page.Questions)

	_, err = svc.ListQuestions(context.Background(), 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListQuestionsRejectsPageZero(t *testing.T) {
	_, err := newTestService(new(mockStore), ServiceOptions{}).ListQuestions(context.Background(), 0)
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestListQuestionsStoreFailure(t *testing.T) {
	store := new(mockStore)
	store.On("Questions", mock.Anything, QuestionQuery{}).Return(nil, errors.New("db down"))

	_, err := newTestService(store, ServiceOptions{}).ListQuestions(context.Background(), 1)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrBadRequest))
}

func TestCategoriesUsesCache(t *testing.T) {
	store := new(mockStore)
	store.On("Categories", mock.Anything).Return([]Category{{ID: 1, Type: "Science"}, {ID: 2, Type: "Art"}}, nil).Once()
	cache := &memoryCache{}
	svc := newTestService(store, ServiceOptions{Cache: cache})

	first, err := svc.Categories(context.Background())
	require.NoError(t, err)
	second, err := svc.Categories(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.sets)
	store.AssertNumberOfCalls(t, "Categories", 1)
}

func TestCategoriesEmptyIsNotFound(t *testing.T) {
	store := new(mockStore)
	store.On("Categories", mock.Anything).Return([]Category{}, nil)

	_, err := newTestService(store, ServiceOptions{}).Categories(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchQuestions(t *testing.T) {
	store := new(mockStore)
	store.On("Questions", mock.Anything, QuestionQuery{Search: "Tom"}).Return(numbered(12), nil)
	svc := newTestService(store, ServiceOptions{})

	page, err := svc.SearchQuestions(context.Background(), "Tom", 2)
	require.NoError(t, err)
	assert.Equal(t, 12, page.Total)
	assert.Len(t, page.Questions, 2)

	page, err = svc.SearchQuestions(context.Background(), "Tom", 5)
	require.NoError(t, err)
	assert.Empty(t, page.Questions, "search pages past the end are empty, not an error")
}

func TestSearchQuestionsRejectsEmptyTerm(t *testing.T) {
	store := new(mockStore)
	_, err := newTestService(store, ServiceOptions{}).SearchQuestions(context.Background(), "", 1)
	assert.ErrorIs(t, err, ErrBadRequest)
	store.AssertNotCalled(t, "Questions", mock.Anything, mock.Anything)
}

func TestQuestionsByCategory(t *testing.T) {
	cat := 3
	store := new(mockStore)
	store.On("Category", mock.Anything, 3).Return(Category{ID: 3, Type: "Geography"}, nil)
	store.On("Questions", mock.Anything, QuestionQuery{CategoryID: &cat}).Return(numbered(4), nil)

	page, err := newTestService(store, ServiceOptions{}).QuestionsByCategory(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, "Geography", page.CurrentCategory)
}

func TestQuestionsByCategoryMissing(t *testing.T) {
	store := new(mockStore)
	store.On("Category", mock.Anything, 8).Return(Category{}, ErrNotFound)

	_, err := newTestService(store, ServiceOptions{}).QuestionsByCategory(context.Background(), 8)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNextQuizQuestionExcludesPrevious(t *testing.T) {
	previous := []int{3, 7}
	store := new(mockStore)
	// The store is allowed to ignore the exclusion; the selector re-applies it.
	store.On("Questions", mock.Anything, QuestionQuery{ExcludeIDs: previous}).Return(numbered(10), nil)

	svc := newTestService(store, ServiceOptions{})
	for i := 0; i < 200; i++ {
		q, err := svc.NextQuizQuestion(context.Background(), AnyCategory(), previous)
		require.NoError(t, err)
		require.NotNil(t, q)
		assert.NotContains(t, previous, q.ID)
	}
}

func TestNextQuizQuestionExhausted(t *testing.T) {
	previous := seq(10)
	store := new(mockStore)
	store.On("Questions", mock.Anything, QuestionQuery{ExcludeIDs: previous}).Return([]Question{}, nil)

	q, err := newTestService(store, ServiceOptions{}).NextQuizQuestion(context.Background(), AnyCategory(), previous)
	require.NoError(t, err)
	assert.Nil(t, q)
}

func TestNextQuizQuestionCategoryScope(t *testing.T) {
	cat := 1
	store := new(mockStore)
	store.On("Questions", mock.Anything, QuestionQuery{CategoryID: &cat}).Return(numbered(3), nil)

	svc := newTestService(store, ServiceOptions{Rand: &fixedRand{n: 2}})
	q, err := svc.NextQuizQuestion(context.Background(), SpecificCategory(1), nil)
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, 3, q.ID)
}

func TestNextQuizQuestionInvalidSpec(t *testing.T) {
	store := new(mockStore)
	_, err := newTestService(store, ServiceOptions{}).NextQuizQuestion(context.Background(), CategorySpec{}, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
	store.AssertNotCalled(t, "Questions", mock.Anything, mock.Anything)
}

func ptr[T any](v T) *T { return &v }

func TestCreateQuestion(t *testing.T) {
	store := new(mockStore)
	store.On("InsertQuestion", mock.Anything, NewQuestion{Question: "Who?", Answer: "Tom", Category: 2, Difficulty: 1}).Return(31, nil)

	id, err := newTestService(store, ServiceOptions{}).CreateQuestion(context.Background(), CreateRequest{
		Question:   ptr(" Who? "),
		Answer:     ptr("Tom"),
		Category:   ptr(2),
		Difficulty: ptr(1),
	})
	require.NoError(t, err)
	assert.Equal(t, 31, id)
}

func TestCreateQuestionMissingFields(t *testing.T) {
	svc := newTestService(new(mockStore), ServiceOptions{})
	cases := map[string]CreateRequest{
		"question":   {Answer: ptr("a"), Category: ptr(1), Difficulty: ptr(1)},
		"blank":      {Question: ptr("  "), Answer: ptr("a"), Category: ptr(1), Difficulty: ptr(1)},
		"answer":     {Question: ptr("q"), Category: ptr(1), Difficulty: ptr(1)},
		"category":   {Question: ptr("q"), Answer: ptr("a"), Difficulty: ptr(1)},
		"difficulty": {Question: ptr("q"), Answer: ptr("a"), Category: ptr(1)},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateQuestion(context.Background(), req)
			assert.ErrorIs(t, err, ErrBadRequest)
		})
	}
}

func TestCreateQuestionStoreFailureIsUnprocessable(t *testing.T) {
	store := new(mockStore)
	store.On("InsertQuestion", mock.Anything, mock.Anything).Return(0, errors.New("violates foreign key constraint"))

	_, err := newTestService(store, ServiceOptions{}).CreateQuestion(context.Background(), CreateRequest{
		Question: ptr("q"), Answer: ptr("a"), Category: ptr(77), Difficulty: ptr(1),
	})
	assert.ErrorIs(t, err, ErrUnprocessable)
}

func TestDeleteQuestion(t *testing.T) {
	store := new(mockStore)
	store.On("Question", mock.Anything, 5).Return(Question{ID: 5}, nil)
	store.On("DeleteQuestion", mock.Anything, 5).Return(nil)

	id, err := newTestService(store, ServiceOptions{}).DeleteQuestion(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, id)
	store.AssertExpectations(t)
}

func TestDeleteQuestionMissing(t *testing.T) {
	store := new(mockStore)
	store.On("Question", mock.Anything, 404).Return(Question{}, ErrNotFound)

	_, err := newTestService(store, ServiceOptions{}).DeleteQuestion(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
	store.AssertNotCalled(t, "DeleteQuestion", mock.Anything, mock.Anything)
}

func TestDeleteQuestionStoreFailure(t *testing.T) {
	store := new(mockStore)
	store.On("Question", mock.Anything, 5).Return(Question{ID: 5}, nil)
	store.On("DeleteQuestion", mock.Anything, 5).Return(errors.New("deadlock detected"))

	_, err := newTestService(store, ServiceOptions{}).DeleteQuestion(context.Background(), 5)
	assert.ErrorIs(t, err, ErrUnprocessable)
}
