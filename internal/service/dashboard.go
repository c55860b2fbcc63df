package service

import (
	"time"

	"github.com/godilite/collab-dashboard/internal/store"
	"github.com/godilite/collab-dashboard/internal/survey"
)

// View names reported to the build observer.
const (
	ViewOverview  = "overview"
	ViewDivisions = "divisions"
	ViewReviews   = "reviews"
)

// BuildObserver receives the duration of every view rebuild.
type BuildObserver func(view string, took time.Duration)

type DashboardOption func(*Dashboard)

func WithFormatter(f *Formatter) DashboardOption {
	return func(d *Dashboard) {
		if f != nil {
			d.formatter = f
		}
	}
}

func WithReviewLimit(n int) DashboardOption {
	return func(d *Dashboard) {
		if n > 0 {
			d.reviewLimit = n
		}
	}
}

func WithBuildObserver(fn BuildObserver) DashboardOption {
	return func(d *Dashboard) {
		d.observe = fn
	}
}

// WithReviewSelection sets the review selection the first build uses.
func WithReviewSelection(sel survey.SentimentSelection) DashboardOption {
	return func(d *Dashboard) {
		d.reviewSelection = sel
	}
}

// Dashboard owns a Store and keeps every derived view current: it subscribes
// to the store and rebuilds the snapshot after each filter change. The review
// sentiment selection is local to the review section and never touches the
// store's filter state.
type Dashboard struct {
	store       *store.Store
	formatter   *Formatter
	reviewLimit int
	observe     BuildObserver

	reviewSelection survey.SentimentSelection
	snapshot        Snapshot
	unsubscribe     func()
}

func NewDashboard(st *store.Store, opts ...DashboardOption) *Dashboard {
	if st == nil {
		panic("store must not be nil")
	}
	d := &Dashboard{
		store:           st,
		formatter:       DefaultFormatter(),
		reviewLimit:     DefaultReviewLimit,
		reviewSelection: survey.AllSentiments(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.rebuild(st.Filters())
	d.unsubscribe = st.Subscribe(d.rebuild)
	return d
}

func (d *Dashboard) Store() *store.Store {
	return d.store
}

func (d *Dashboard) Snapshot() Snapshot {
	return d.snapshot
}

// ToggleReviewSentiment applies the checkbox rule to the review selection and
// rebuilds the review listing.
func (d *Dashboard) ToggleReviewSentiment(label string) (ReviewListing, error) {
	sel, err := d.reviewSelection.Toggle(label)
	if err != nil {
		return d.snapshot.Reviews, err
	}
	d.reviewSelection = sel
	d.snapshot.Reviews = d.buildReviews()
	return d.snapshot.Reviews, nil
}

// SetReviewSelection replaces the review selection wholesale.
func (d *Dashboard) SetReviewSelection(sel survey.SentimentSelection) ReviewListing {
	d.reviewSelection = sel
	d.snapshot.Reviews = d.buildReviews()
	return d.snapshot.Reviews
}

// Close detaches the dashboard from its store.
func (d *Dashboard) Close() {
	if d.unsubscribe != nil {
		d.unsubscribe()
		d.unsubscribe = nil
	}
}

func (d *Dashboard) rebuild(filters survey.FilterState) {
	agg := d.store.Aggregates()

	var overview HospitalOverview
	d.timed(ViewOverview, func() {
		overview = BuildHospitalOverview(agg.Hospital, filters.Year, d.formatter)
	})

	var divisions DivisionComparison
	d.timed(ViewDivisions, func() {
		divisions = BuildDivisionComparison(agg.Divisions, filters.Division, filters.Year)
	})

	d.snapshot = Snapshot{
		Filters:   filters,
		Overview:  overview,
		Divisions: divisions,
		Reviews:   d.buildReviews(),
	}
}

func (d *Dashboard) buildReviews() ReviewListing {
	var out ReviewListing
	d.timed(ViewReviews, func() {
		out = ReviewListing{
			Selection: d.reviewSelection,
			Reviews:   ListReviews(d.store.FilteredRecords(), d.reviewSelection, d.reviewLimit),
		}
	})
	return out
}

func (d *Dashboard) timed(view string, fn func()) {
	if d.observe == nil {
		fn()
		return
	}
	start := time.Now()
	fn()
	d.observe(view, time.Since(start))
}
