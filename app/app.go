package app

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"task-manager/model"
)

// Store holds the task collection and the view selections.
// It is not safe for concurrent use; the UI loop is its only caller.
type Store struct {
	tasks  []model.Task
	view   model.ViewState
	lastID int64
	now    func() time.Time
	coll   *collate.Collator
}

// NewStore creates an empty store showing all tasks, newest first.
func NewStore() *Store {
	return NewStoreWithClock(time.Now)
}

// NewStoreWithClock is NewStore with a custom source for creation times.
func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{
		tasks: []model.Task{},
		view:  model.NewViewState(),
		now:   now,
		coll:  collate.New(language.Und),
	}
}

// Tasks returns the underlying collection, in stored order, as a copy.
func (s *Store) Tasks() []model.Task {
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Task returns a task by id.
func (s *Store) Task(id int64) (model.Task, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i], true
	}
	return model.Task{}, false
}

func (s *Store) Len() int {
	return len(s.tasks)
}

// View returns the current filter and sort selections.
func (s *Store) View() model.ViewState {
	return s.view
}

// Add appends a new task. Blank text is ignored and reported as false.
func (s *Store) Add(text string) (model.Task, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Task{}, false
	}
	now := s.now()
	task := model.Task{
		ID:        s.nextID(now),
		Text:      text,
		Completed: false,
		Priority:  model.PriorityMedium,
		CreatedAt: now,
	}
	s.tasks = append(s.tasks, task)
	return task, true
}

func (s *Store) ToggleCompleted(id int64) {
	if i := s.indexOf(id); i >= 0 {
		s.tasks[i].Completed = !s.tasks[i].Completed
	}
}

func (s *Store) Delete(id int64) {
	if i := s.indexOf(id); i >= 0 {
		s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	}
}

// CyclePriority advances the task's priority one step: high -> medium -> low -> high.
func (s *Store) CyclePriority(id int64) {
	if i := s.indexOf(id); i >= 0 {
		s.tasks[i].Priority = s.tasks[i].Priority.Next()
	}
}

func (s *Store) SetFilter(f model.Filter) {
	if f.Valid() {
		s.view.Filter = f
	}
}

func (s *Store) SetSort(by model.SortBy) {
	if by.Valid() {
		s.view.SortBy = by
	}
}

// DeriveView returns the filtered, sorted tasks the user sees.
// It is rebuilt on every call and shares no memory with the store.
func (s *Store) DeriveView() []model.Task {
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if s.view.Filter.Matches(t.Completed) {
			out = append(out, t)
		}
	}

	switch s.view.SortBy {
	case model.SortPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Priority.Rank() < out[j].Priority.Rank()
		})
	case model.SortDate:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	case model.SortAlphabetical:
		sort.SliceStable(out, func(i, j int) bool {
			return s.coll.CompareString(out[i].Text, out[j].Text) < 0
		})
	}
	return out
}

// Reorder moves the task at source to destination, both positions in the
// derived view. The move is only kept when the view shows every task in date
// order; under any other filter or sort it is dropped. A destination outside
// the view (a cancelled drag) is a no-op. It reports whether the collection
// was replaced.
func (s *Store) Reorder(source, destination int) bool {
	view := s.DeriveView()
	if source < 0 || source >= len(view) || destination < 0 || destination >= len(view) {
		return false
	}
	if s.view.Filter != model.FilterAll || s.view.SortBy != model.SortDate {
		return false
	}

	moved := view[source]
	view = append(view[:source], view[source+1:]...)
	view = append(view[:destination], append([]model.Task{moved}, view[destination:]...)...)
	s.tasks = view
	return true
}

func (s *Store) indexOf(id int64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// nextID uses the creation time in milliseconds, bumped past the last issued
// id when the clock has not moved on.
func (s *Store) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
