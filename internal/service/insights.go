package service

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/godilite/collab-dashboard/internal/survey"
)

// DefaultConsistencyTolerance is the composite drift reported by ConsistencyReport.
const DefaultConsistencyTolerance = 0.05

// SentimentDistribution counts records per sentiment in display order.
// Ratios are percentages of the input size.
func SentimentDistribution(records []survey.EvaluationRecord) []SentimentCount {
	counts := make(map[survey.Sentiment]int, len(survey.Sentiments))
	for _, r := range records {
		counts[r.Sentiment]++
	}
	out := make([]SentimentCount, 0, len(survey.Sentiments))
	for _, s := range survey.Sentiments {
		c := SentimentCount{Sentiment: s, Label: s.Label(), Count: counts[s]}
		if len(records) > 0 {
			c.Ratio = roundTo(float64(counts[s])*100/float64(len(records)), 1)
		}
		out = append(out, c)
	}
	return out
}

// KeywordFrequency returns the top n keywords by count, ties broken
// alphabetically. n <= 0 returns every keyword.
func KeywordFrequency(records []survey.EvaluationRecord, n int) []KeywordCount {
	counts := make(map[string]int)
	for _, r := range records {
		for _, kw := range r.Keywords {
			kw = strings.TrimSpace(kw)
			if kw == "" {
				continue
			}
			counts[kw]++
		}
	}
	out := make([]KeywordCount, 0, len(counts))
	for kw, c := range counts {
		out = append(out, KeywordCount{Keyword: kw, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Keyword < out[j].Keyword
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// DepartmentStats summarizes each evaluated department, busiest first.
func DepartmentStats(records []survey.EvaluationRecord) []DepartmentStat {
	type acc struct {
		count, positive int
		composite       float64
	}
	var order []string
	byDept := make(map[string]*acc)
	for _, r := range records {
		a, ok := byDept[r.Department]
		if !ok {
			a = &acc{}
			byDept[r.Department] = a
			order = append(order, r.Department)
		}
		a.count++
		a.composite += r.Composite
		if r.Sentiment == survey.Positive {
			a.positive++
		}
	}
	out := make([]DepartmentStat, 0, len(order))
	for _, dept := range order {
		a := byDept[dept]
		out = append(out, DepartmentStat{
			Department:    dept,
			Responses:     a.count,
			PositiveRatio: roundTo(float64(a.positive)*100/float64(a.count), 1),
			MeanComposite: roundTo(a.composite/float64(a.count), 2),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Responses > out[j].Responses
	})
	return out
}

// ConsistencyReport lists rollups whose composite differs from the mean of
// the five sub-scores by more than tolerance. Nothing is corrected.
func ConsistencyReport(tables survey.AggregatedTables, tolerance float64) []Inconsistency {
	if tolerance <= 0 {
		tolerance = DefaultConsistencyTolerance
	}
	var out []Inconsistency
	check := func(scope string, t *survey.YearlyTable) {
		t.Each(func(period string, row survey.ScoreRow) {
			if row.Count == 0 {
				return
			}
			mean := row.SubScoreMean()
			delta := row.Composite - mean
			if math.Abs(delta) > tolerance {
				out = append(out, Inconsistency{
					Scope:        scope,
					Period:       period,
					Composite:    row.Composite,
					SubScoreMean: roundTo(mean, 4),
					Delta:        roundTo(delta, 4),
				})
			}
		})
	}
	check("hospital", tables.Hospital)
	tables.Divisions.Each(func(division string, years *survey.YearlyTable) {
		check(fmt.Sprintf("division:%s", division), years)
	})
	return out
}
