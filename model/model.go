package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidFilter   = errors.New("invalid filter")
	ErrInvalidSort     = errors.New("invalid sort")
)

// Filter represents which tasks should be shown.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// SortBy represents how the visible tasks are ordered.
type SortBy string

const (
	SortPriority     SortBy = "priority"
	SortDate         SortBy = "date"
	SortAlphabetical SortBy = "alphabetical"
)

// Priority is one of high, medium or low.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

var priorityCycle = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Task is an individual todo item.
type Task struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	Priority  Priority  `json:"priority"`
	CreatedAt time.Time `json:"createdAt"`
}

// ViewState holds the filter and sort selections.
type ViewState struct {
	Filter Filter `json:"filter"`
	SortBy SortBy `json:"sortBy"`
}

// NewViewState returns the initial selections: all tasks, newest first.
func NewViewState() ViewState {
	return ViewState{Filter: FilterAll, SortBy: SortDate}
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	return p.Rank() >= 0
}

// Rank orders priorities for sorting: high=0, medium=1, low=2.
// Unknown values rank -1.
func (p Priority) Rank() int {
	for i, v := range priorityCycle {
		if v == p {
			return i
		}
	}
	return -1
}

// Next advances high -> medium -> low -> high.
func (p Priority) Next() Priority {
	rank := p.Rank()
	if rank < 0 {
		return PriorityMedium
	}
	return priorityCycle[(rank+1)%len(priorityCycle)]
}

func (f Filter) Valid() bool {
	switch f {
	case FilterAll, FilterActive, FilterCompleted:
		return true
	}
	return false
}

// Matches reports whether a task with the given completion state passes f.
func (f Filter) Matches(completed bool) bool {
	switch f {
	case FilterActive:
		return !completed
	case FilterCompleted:
		return completed
	default:
		return true
	}
}

// Next cycles all -> active -> completed -> all.
func (f Filter) Next() Filter {
	switch f {
	case FilterAll:
		return FilterActive
	case FilterActive:
		return FilterCompleted
	default:
		return FilterAll
	}
}

func (s SortBy) Valid() bool {
	switch s {
	case SortPriority, SortDate, SortAlphabetical:
		return true
	}
	return false
}

// Next cycles date -> priority -> alphabetical -> date.
func (s SortBy) Next() SortBy {
	switch s {
	case SortDate:
		return SortPriority
	case SortPriority:
		return SortAlphabetical
	default:
		return SortDate
	}
}

func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
	return p, nil
}

func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilter, s)
	}
	return f, nil
}

func ParseSortBy(s string) (SortBy, error) {
	v := SortBy(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSort, s)
	}
	return v, nil
}
