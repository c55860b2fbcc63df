package survey

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// YearlyTable maps a period label to its rollup. Iteration follows insertion
// order, and the last inserted period is the table's latest.
type YearlyTable struct {
	rows *orderedmap.OrderedMap[string, ScoreRow]
}

func NewYearlyTable() *YearlyTable {
	return &YearlyTable{rows: orderedmap.New[string, ScoreRow]()}
}

func (t *YearlyTable) init() {
	if t.rows == nil {
		t.rows = orderedmap.New[string, ScoreRow]()
	}
}

// Set inserts or replaces a period. Replacing keeps the original position.
func (t *YearlyTable) Set(period string, row ScoreRow) {
	t.init()
	t.rows.Set(period, row)
}

func (t *YearlyTable) Get(period string) (ScoreRow, bool) {
	if t == nil || t.rows == nil {
		return ScoreRow{}, false
	}
	return t.rows.Get(period)
}

func (t *YearlyTable) Len() int {
	if t == nil || t.rows == nil {
		return 0
	}
	return t.rows.Len()
}

// Periods returns the keys in table order.
func (t *YearlyTable) Periods() []string {
	out := make([]string, 0, t.Len())
	t.Each(func(period string, _ ScoreRow) {
		out = append(out, period)
	})
	return out
}

// Latest returns the most recently keyed period.
func (t *YearlyTable) Latest() (string, ScoreRow, bool) {
	if t.Len() == 0 {
		return "", ScoreRow{}, false
	}
	p := t.rows.Newest()
	return p.Key, p.Value, true
}

func (t *YearlyTable) Each(fn func(period string, row ScoreRow)) {
	if t == nil || t.rows == nil {
		return
	}
	for p := t.rows.Oldest(); p != nil; p = p.Next() {
		fn(p.Key, p.Value)
	}
}

func (t *YearlyTable) MarshalJSON() ([]byte, error) {
	t.init()
	return t.rows.MarshalJSON()
}

func (t *YearlyTable) UnmarshalJSON(b []byte) error {
	t.rows = orderedmap.New[string, ScoreRow]()
	return t.rows.UnmarshalJSON(b)
}

// DivisionTable maps a division name to its yearly rollups, in insertion order.
type DivisionTable struct {
	divisions *orderedmap.OrderedMap[string, *YearlyTable]
}

func NewDivisionTable() *DivisionTable {
	return &DivisionTable{divisions: orderedmap.New[string, *YearlyTable]()}
}

func (t *DivisionTable) init() {
	if t.divisions == nil {
		t.divisions = orderedmap.New[string, *YearlyTable]()
	}
}

// Set stores a row for division and period, creating the division on first use.
func (t *DivisionTable) Set(division, period string, row ScoreRow) {
	t.init()
	years, ok := t.divisions.Get(division)
	if !ok {
		years = NewYearlyTable()
		t.divisions.Set(division, years)
	}
	years.Set(period, row)
}

// Put stores a whole yearly table for a division.
func (t *DivisionTable) Put(division string, years *YearlyTable) {
	t.init()
	if years == nil {
		years = NewYearlyTable()
	}
	t.divisions.Set(division, years)
}

func (t *DivisionTable) Get(division string) (*YearlyTable, bool) {
	if t == nil || t.divisions == nil {
		return nil, false
	}
	return t.divisions.Get(division)
}

func (t *DivisionTable) Len() int {
	if t == nil || t.divisions == nil {
		return 0
	}
	return t.divisions.Len()
}

func (t *DivisionTable) Names() []string {
	out := make([]string, 0, t.Len())
	t.Each(func(name string, _ *YearlyTable) {
		out = append(out, name)
	})
	return out
}

func (t *DivisionTable) Each(fn func(division string, years *YearlyTable)) {
	if t == nil || t.divisions == nil {
		return
	}
	for p := t.divisions.Oldest(); p != nil; p = p.Next() {
		fn(p.Key, p.Value)
	}
}

func (t *DivisionTable) MarshalJSON() ([]byte, error) {
	t.init()
	return t.divisions.MarshalJSON()
}

func (t *DivisionTable) UnmarshalJSON(b []byte) error {
	t.divisions = orderedmap.New[string, *YearlyTable]()
	return t.divisions.UnmarshalJSON(b)
}

// AggregatedTables holds the precomputed hospital-wide and per-division rollups.
type AggregatedTables struct {
	Hospital  *YearlyTable   `json:"hospital"`
	Divisions *DivisionTable `json:"divisions"`
}

// Empty reports whether no rollups were supplied.
func (a AggregatedTables) Empty() bool {
	return a.Hospital.Len() == 0 && a.Divisions.Len() == 0
}
