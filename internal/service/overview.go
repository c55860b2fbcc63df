package service

import "github.com/godilite/collab-dashboard/internal/survey"

// HospitalScores resolves the hospital-wide row for year.
//
// For ALL every value is the count-weighted mean across years, so years with
// more responses dominate; the count is the sum. A year missing from the
// table yields the zero row.
func HospitalScores(table *survey.YearlyTable, year string) survey.ScoreRow {
	if year != survey.All {
		row, _ := table.Get(year)
		return row
	}

	sums := make([]float64, len(survey.Dimensions))
	var total int
	table.Each(func(_ string, row survey.ScoreRow) {
		for i, d := range survey.Dimensions {
			sums[i] += row.Value(d) * float64(row.Count)
		}
		total += row.Count
	})

	out := survey.ScoreRow{Count: total}
	if total == 0 {
		return out
	}
	for i, d := range survey.Dimensions {
		out = out.With(d, sums[i]/float64(total))
	}
	return out
}

// HospitalTrend returns one series per dimension over every period in table order.
func HospitalTrend(table *survey.YearlyTable) []TrendSeries {
	periods := table.Periods()
	out := make([]TrendSeries, 0, len(survey.Dimensions))
	for _, d := range survey.Dimensions {
		y := make([]float64, len(periods))
		for i, p := range periods {
			row, _ := table.Get(p)
			y[i] = row.Value(d)
		}
		out = append(out, TrendSeries{
			Dimension: d.Key(),
			Name:      d.Label(),
			X:         periods,
			Y:         y,
		})
	}
	return out
}

// BuildHospitalOverview derives the score cards and trend chart.
func BuildHospitalOverview(table *survey.YearlyTable, year string, f *Formatter) HospitalOverview {
	if f == nil {
		f = DefaultFormatter()
	}
	scores := HospitalScores(table, year)
	cards := make([]ScoreCard, 0, len(survey.Dimensions))
	for _, d := range survey.Dimensions {
		v := scores.Value(d)
		cards = append(cards, ScoreCard{
			Dimension:    d.Key(),
			Label:        d.Label(),
			Value:        v,
			Count:        scores.Count,
			ValueDisplay: f.Score(v),
			CountDisplay: f.Count(scores.Count),
		})
	}
	return HospitalOverview{
		Year:   year,
		Scores: scores,
		Cards:  cards,
		Trend:  HospitalTrend(table),
	}
}
