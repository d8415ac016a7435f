package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gokatarajesh/trivia-api/internal/question"
)

// DBTX is the subset of pgxpool.Pool (and pgx.Tx) the repositories need.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store combines the question and category repositories into a question.Store.
type Store struct {
	*QuestionRepository
	*CategoryRepository
}

var _ question.Store = (*Store)(nil)

func NewStore(db DBTX) *Store {
	return &Store{
		QuestionRepository: NewQuestionRepository(db),
		CategoryRepository: NewCategoryRepository(db),
	}
}
