package question

import (
	"encoding/json"
	"fmt"
)

// PageSize is the fixed number of questions returned per page.
const PageSize = 10

// Question is a stored trivia question.
type Question struct {
	ID         int
	Question   string
	Answer     string
	Category   int
	Difficulty int
}

// Category groups questions under a display label.
type Category struct {
	ID   int
	Type string
}

// Formatted is the payload delivered to clients.
type Formatted struct {
	ID         int    `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int    `json:"category"`
	Difficulty int    `json:"difficulty"`
}

// NewQuestion carries the fields required to insert a question.
type NewQuestion struct {
	Question   string
	Answer     string
	Category   int
	Difficulty int
}

// QuestionQuery narrows a question scan. Active filters compose by intersection;
// results are always ordered by id ascending.
type QuestionQuery struct {
	CategoryID *int
	Search     string
	ExcludeIDs []int
}

// Scope values for CategorySpec.
const (
	ScopeAll      = "all"
	ScopeCategory = "category"
)

// CategorySpec constrains quiz selection to the whole pool or to one category.
// The zero value is invalid.
type CategorySpec struct {
	Scope string `json:"scope"`
	ID    int    `json:"id,omitempty"`
}

// AnyCategory selects across every question.
func AnyCategory() CategorySpec {
	return CategorySpec{Scope: ScopeAll}
}

// SpecificCategory restricts selection to a single category id.
func SpecificCategory(id int) CategorySpec {
	return CategorySpec{Scope: ScopeCategory, ID: id}
}

// Validate rejects an absent or malformed spec.
func (c CategorySpec) Validate() error {
	switch c.Scope {
	case ScopeAll:
		if c.ID != 0 {
			return fmt.Errorf("%w: scope %q does not take an id", ErrInvalidInput, ScopeAll)
		}
		return nil
	case ScopeCategory:
		if c.ID <= 0 {
			return fmt.Errorf("%w: category id must be positive", ErrInvalidInput)
		}
		return nil
	case "":
		return fmt.Errorf("%w: quiz_category scope is required", ErrInvalidInput)
	default:
		return fmt.Errorf("%w: unknown quiz_category scope %q", ErrInvalidInput, c.Scope)
	}
}

// Query builds the store query for this constraint, excluding the given ids.
func (c CategorySpec) Query(previous []int) QuestionQuery {
	q := QuestionQuery{ExcludeIDs: previous}
	if c.Scope == ScopeCategory {
		id := c.ID
		q.CategoryID = &id
	}
	return q
}

// UnmarshalJSON refuses unknown fields, so a {"type": ...} payload is rejected.
func (c *CategorySpec) UnmarshalJSON(data []byte) error {
	type plain CategorySpec
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: quiz_category must be an object", ErrInvalidInput)
	}
	for key := range raw {
		if key != "scope" && key != "id" {
			return fmt.Errorf("%w: unexpected quiz_category field %q", ErrInvalidInput, key)
		}
	}
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	*c = CategorySpec(p)
	return nil
}

// Format projects a question to its client shape.
func Format(q Question) Formatted {
	return Formatted{
		ID:         q.ID,
		Question:   q.Question,
		Answer:     q.Answer,
		Category:   q.Category,
		Difficulty: q.Difficulty,
	}
}

// FormatAll projects every question, preserving order.
func FormatAll(qs []Question) []Formatted {
	out := make([]Formatted, 0, len(qs))
	for _, q := range qs {
		out = append(out, Format(q))
	}
	return out
}

// CategoryMap renders categories keyed by id.
func CategoryMap(cs []Category) map[int]string {
	out := make(map[int]string, len(cs))
	for _, c := range cs {
		out[c.ID] = c.Type
	}
	return out
}
