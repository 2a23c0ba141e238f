// Package listing filters, sorts and paginates in-memory record lists. It is
// pure: every call works on a copy of its input and keeps no state between
// calls.
package listing

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	// AllValue is the sentinel meaning "no constraint" for a filter.
	AllValue = "all"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Desc {
		return Asc
	}
	return Desc
}

// ParseDirection accepts "asc"/"desc" in any case and falls back otherwise.
func ParseDirection(s string, fallback Direction) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc":
		return Asc
	case "desc":
		return Desc
	}
	return fallback
}

// SortState is the active sort of a view.
type SortState struct {
	Key       string    `json:"key"`
	Direction Direction `json:"direction"`
}

// Query is one request against a list.
type Query struct {
	Search   string
	Sort     SortState
	Page     int
	PageSize int
	Filters  map[string]string
}

// Page is the visible slice of a filtered, sorted list.
type Page[T any] struct {
	Data       []T       `json:"data"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalPages int       `json:"totalPages"`
	Sort       SortState `json:"sort"`
}

// Schema tells the engine how to read records of type T.
type Schema[T any] struct {
	// SearchFields are matched case-insensitively against the search term.
	SearchFields []func(T) string

	Sorts   map[string]SortField[T]
	Filters map[string]Filter[T]

	// DefaultSort applies when the query names no valid sort key.
	DefaultSort SortState

	// DefaultDirection is used when switching to a new sort key.
	DefaultDirection Direction

	// Tiebreak orders records whose sort values are equal. With a unique
	// key, descending order is the exact reverse of ascending.
	Tiebreak func(T) string

	Locale language.Tag
}

// Toggle computes the next sort state after the user picks key. Unknown keys
// leave the state untouched.
func (s Schema[T]) Toggle(current SortState, key string) SortState {
	if _, ok := s.Sorts[key]; !ok {
		return current
	}
	if current.Key == key {
		return SortState{Key: key, Direction: current.Direction.Flip()}
	}
	return SortState{Key: key, Direction: s.defaultDirection()}
}

func (s Schema[T]) defaultDirection() Direction {
	if s.DefaultDirection == "" {
		return Asc
	}
	return s.DefaultDirection
}

// resolveSort falls back to the default sort for unknown keys.
func (s Schema[T]) resolveSort(requested SortState) (SortState, bool) {
	state := requested
	if _, ok := s.Sorts[state.Key]; !ok {
		state = s.DefaultSort
	}
	if _, ok := s.Sorts[state.Key]; !ok {
		return SortState{}, false
	}
	if state.Direction != Asc && state.Direction != Desc {
		state.Direction = s.defaultDirection()
	}
	return state, true
}

// Apply runs search, filters, sort and pagination over items.
func Apply[T any](items []T, q Query, s Schema[T]) Page[T] {
	term := strings.ToLower(strings.TrimSpace(q.Search))

	matched := make([]T, 0, len(items))
	for _, item := range items {
		if !matchesSearch(item, term, s.SearchFields) {
			continue
		}
		if !matchesFilters(item, q.Filters, s.Filters) {
			continue
		}
		matched = append(matched, item)
	}

	state, sortable := s.resolveSort(q.Sort)
	if sortable {
		sortItems(matched, state, s)
	}

	return paginate(matched, q.Page, q.PageSize, state)
}

func matchesSearch[T any](item T, term string, fields []func(T) string) bool {
	if term == "" {
		return true
	}
	for _, get := range fields {
		if strings.Contains(strings.ToLower(get(item)), term) {
			return true
		}
	}
	return false
}

func matchesFilters[T any](item T, values map[string]string, filters map[string]Filter[T]) bool {
	for name, value := range values {
		value = strings.TrimSpace(value)
		if value == "" || strings.EqualFold(value, AllValue) {
			continue
		}
		filter, ok := filters[name]
		if !ok {
			continue
		}
		if !filter(item, value) {
			return false
		}
	}
	return true
}

func sortItems[T any](items []T, state SortState, s Schema[T]) {
	field := s.Sorts[state.Key]

	tag := s.Locale
	if tag == language.Und {
		tag = language.English
	}
	col := collate.New(tag)

	sort.SliceStable(items, func(i, j int) bool {
		c := field.compare(col, items[i], items[j])
		if c == 0 && s.Tiebreak != nil {
			c = strings.Compare(s.Tiebreak(items[i]), s.Tiebreak(items[j]))
		}
		if state.Direction == Desc {
			c = -c
		}
		return c < 0
	})
}

func paginate[T any](items []T, page, pageSize int, state SortState) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if page < 1 {
		page = 1
	}

	total := len(items)
	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))

	out := Page[T]{
		Data:       []T{},
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		Sort:       state,
	}

	start := (page - 1) * pageSize
	if start >= total {
		return out
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	out.Data = append(out.Data, items[start:end]...)
	return out
}
