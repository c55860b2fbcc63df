package loader

import (
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/godilite/collab-dashboard/internal/survey"
)

type AggregateOption func(*aggregateOptions)

type aggregateOptions struct {
	sortKeys bool
}

// WithSortedKeys orders periods and divisions lexically instead of by first
// appearance.
func WithSortedKeys() AggregateOption {
	return func(o *aggregateOptions) { o.sortKeys = true }
}

type accumulator struct {
	sums  []float64
	count int
}

func (a *accumulator) add(r survey.EvaluationRecord) {
	if a.sums == nil {
		a.sums = make([]float64, len(survey.Dimensions))
	}
	for i, d := range survey.Dimensions {
		a.sums[i] += r.Score(d)
	}
	a.count++
}

func (a *accumulator) row() survey.ScoreRow {
	var row survey.ScoreRow
	if a.count == 0 {
		return row
	}
	for i, d := range survey.Dimensions {
		row = row.With(d, a.sums[i]/float64(a.count))
	}
	row.Count = a.count
	return row
}

// BuildAggregates computes the hospital and per-division rollups as plain
// means over records. Records without a division only feed the hospital table.
func BuildAggregates(records []survey.EvaluationRecord, opts ...AggregateOption) survey.AggregatedTables {
	var o aggregateOptions
	for _, opt := range opts {
		opt(&o)
	}

	hospital := orderedmap.New[string, *accumulator]()
	divisions := orderedmap.New[string, *orderedmap.OrderedMap[string, *accumulator]]()

	for _, r := range records {
		acc, ok := hospital.Get(r.Period)
		if !ok {
			acc = &accumulator{}
			hospital.Set(r.Period, acc)
		}
		acc.add(r)

		if r.Division == "" || r.Division == survey.NotAvailable {
			continue
		}
		years, ok := divisions.Get(r.Division)
		if !ok {
			years = orderedmap.New[string, *accumulator]()
			divisions.Set(r.Division, years)
		}
		acc, ok = years.Get(r.Period)
		if !ok {
			acc = &accumulator{}
			years.Set(r.Period, acc)
		}
		acc.add(r)
	}

	out := survey.AggregatedTables{
		Hospital:  survey.NewYearlyTable(),
		Divisions: survey.NewDivisionTable(),
	}
	fill := func(dst *survey.YearlyTable, src *orderedmap.OrderedMap[string, *accumulator]) {
		for _, period := range keys(src, o.sortKeys) {
			acc, _ := src.Get(period)
			dst.Set(period, acc.row())
		}
	}
	fill(out.Hospital, hospital)
	for _, division := range keys(divisions, o.sortKeys) {
		years, _ := divisions.Get(division)
		table := survey.NewYearlyTable()
		fill(table, years)
		out.Divisions.Put(division, table)
	}
	return out
}

func keys[V any](m *orderedmap.OrderedMap[string, V], sorted bool) []string {
	out := make([]string, 0, m.Len())
	for p := m.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Key)
	}
	if sorted {
		sort.Strings(out)
	}
	return out
}
