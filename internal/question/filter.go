package question

import (
	"fmt"
	"strings"
)

// FilterByCategory keeps questions whose category equals categoryID.
func FilterByCategory(qs []Question, categoryID int) []Question {
	out := make([]Question, 0, len(qs))
	for _, q := range qs {
		if q.Category == categoryID {
			out = append(out, q)
		}
	}
	return out
}

// FilterBySubstring keeps questions whose text contains term, ignoring case.
// An empty term is a bad request rather than match-all.
func FilterBySubstring(qs []Question, term string) ([]Question, error) {
	if term == "" {
		return nil, fmt.Errorf("%w: search term is required", ErrBadRequest)
	}
	needle := strings.ToLower(term)
	out := make([]Question, 0, len(qs))
	for _, q := range qs {
		if strings.Contains(strings.ToLower(q.Question), needle) {
			out = append(out, q)
		}
	}
	return out, nil
}

// FilterExcluding drops questions whose id is in ids.
func FilterExcluding(qs []Question, ids []int) []Question {
	if len(ids) == 0 {
		return qs
	}
	skip := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		skip[id] = struct{}{}
	}
	out := make([]Question, 0, len(qs))
	for _, q := range qs {
		if _, ok := skip[q.ID]; !ok {
			out = append(out, q)
		}
	}
	return out
}

// Apply narrows qs by every active filter of the query.
func (q QuestionQuery) Apply(qs []Question) ([]Question, error) {
	if q.CategoryID != nil {
		qs = FilterByCategory(qs, *q.CategoryID)
	}
	if q.Search != "" {
		var err error
		if qs, err = FilterBySubstring(qs, q.Search); err != nil {
			return nil, err
		}
	}
	return FilterExcluding(qs, q.ExcludeIDs), nil
}
