package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gokatarajesh/trivia-api/internal/question"
)

const foreignKeyViolation = "23503"

// QuestionRepository runs question queries against Postgres.
type QuestionRepository struct {
	db DBTX
}

func NewQuestionRepository(db DBTX) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// Questions scans questions matching every active filter, ordered by id.
func (r *QuestionRepository) Questions(ctx context.Context, q question.QuestionQuery) ([]question.Question, error) {
	sql, args := buildQuestionQuery(q)
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	out := make([]question.Question, 0)
	for rows.Next() {
		var item question.Question
		if err := rows.Scan(&item.ID, &item.Question, &item.Answer, &item.Category, &item.Difficulty); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}
	return out, nil
}

// Question retrieves a question by its ID
func (r *QuestionRepository) Question(ctx context.Context, id int) (question.Question, error) {
	var item question.Question
	err := r.db.QueryRow(ctx, `
		SELECT id, question, answer, category, difficulty
		FROM questions
		WHERE id = $1
	`, id).Scan(&item.ID, &item.Question, &item.Answer, &item.Category, &item.Difficulty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return question.Question{}, question.ErrNotFound
		}
		return question.Question{}, fmt.Errorf("failed to get question: %w", err)
	}
	return item, nil
}

// InsertQuestion creates a question and returns the generated id.
func (r *QuestionRepository) InsertQuestion(ctx context.Context, q question.NewQuestion) (int, error) {
	var id int
	err := r.db.QueryRow(ctx, `
		INSERT INTO questions (question, answer, category, difficulty)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, q.Question, q.Answer, q.Category, q.Difficulty).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return 0, fmt.Errorf("%w: category %d does not exist", question.ErrUnprocessable, q.Category)
		}
		return 0, fmt.Errorf("failed to insert question: %w", err)
	}
	return id, nil
}

// DeleteQuestion deletes a question
func (r *QuestionRepository) DeleteQuestion(ctx context.Context, id int) error {
	result, err := r.db.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if result.RowsAffected() == 0 {
		return question.ErrNotFound
	}
	return nil
}

func buildQuestionQuery(q question.QuestionQuery) (string, []any) {
	var (
		where []string
		args  []any
	)
	if q.CategoryID != nil {
		args = append(args, *q.CategoryID)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if q.Search != "" {
		args = append(args, "%"+escapeLike(q.Search)+"%")
		where = append(where, fmt.Sprintf("question ILIKE $%d", len(args)))
	}
	if len(q.ExcludeIDs) > 0 {
		args = append(args, q.ExcludeIDs)
		where = append(where, fmt.Sprintf("id <> ALL($%d)", len(args)))
	}

	var b strings.Builder
	b.WriteString("SELECT id, question, answer, category, difficulty FROM questions")
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY id")
	return b.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
