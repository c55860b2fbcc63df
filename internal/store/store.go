// Package store holds the session's records, rollups and filter selection.
package store

import (
	"fmt"

	"github.com/godilite/collab-dashboard/internal/survey"
)

// Listener is notified synchronously after every filter mutation.
type Listener func(filters survey.FilterState)

type subscription struct {
	id int
	fn Listener
}

// Store owns one session's dataset and filter state. It has a single writer;
// callers that share a Store across goroutines must serialize access.
type Store struct {
	records     []survey.EvaluationRecord
	aggregates  survey.AggregatedTables
	filters     survey.FilterState
	subscribers []subscription
	nextID      int
}

// New creates a store over bundle with default filters. The bundle is shared,
// not copied; it must not be mutated afterwards.
func New(bundle *survey.Bundle) *Store {
	if bundle == nil {
		panic("bundle must not be nil")
	}
	return &Store{
		records:    bundle.Records,
		aggregates: bundle.Aggregates,
		filters:    survey.DefaultFilters(),
	}
}

func (s *Store) Records() []survey.EvaluationRecord {
	return s.records
}

func (s *Store) Aggregates() survey.AggregatedTables {
	return s.aggregates
}

func (s *Store) Filters() survey.FilterState {
	return s.filters
}

// SetFilter replaces one field of the filter state. Scalar fields take the
// first value, or ALL when none is given. The sentiment field takes every
// value and collapses an empty or ALL-containing list to ALL.
func (s *Store) SetFilter(key survey.FilterKey, values ...string) error {
	next := s.filters

	first := survey.All
	if len(values) > 0 && values[0] != "" {
		first = values[0]
	}

	switch key {
	case survey.FilterYear:
		next.Year = first
	case survey.FilterDivision:
		next.Division = first
	case survey.FilterDepartment:
		next.Department = first
	case survey.FilterUnit:
		next.Unit = first
	case survey.FilterScoreType:
		next.ScoreType = first
	case survey.FilterSentiment:
		sel, err := survey.NewSentimentSelection(values...)
		if err != nil {
			return err
		}
		next.Sentiment = sel
	default:
		return fmt.Errorf("%w: %q", survey.ErrUnknownFilterKey, key)
	}

	s.filters = next
	s.notify()
	return nil
}

// SetFilters replaces the whole filter state and notifies once.
func (s *Store) SetFilters(filters survey.FilterState) {
	s.filters = filters.Normalize()
	s.notify()
}

// ResetFilters restores the all-ALL defaults.
func (s *Store) ResetFilters() {
	s.filters = survey.DefaultFilters()
	s.notify()
}

// FilteredRecords returns the records passing every active constraint, in
// storage order. The result is a fresh slice.
func (s *Store) FilteredRecords() []survey.EvaluationRecord {
	return Filter(s.records, s.filters)
}

// Subscribe registers fn and returns a func that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.nextID++
	id := s.nextID
	s.subscribers = append(s.subscribers, subscription{id: id, fn: fn})
	return func() {
		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) notify() {
	for _, sub := range s.subscribers {
		sub.fn(s.filters)
	}
}

// Filter is the pure form of FilteredRecords.
func Filter(records []survey.EvaluationRecord, filters survey.FilterState) []survey.EvaluationRecord {
	out := make([]survey.EvaluationRecord, 0, len(records))
	for _, r := range records {
		if filters.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
