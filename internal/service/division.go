package service

import "github.com/godilite/collab-dashboard/internal/survey"

const (
	radarType = "scatterpolar"
	radarFill = "toself"
)

// ResolveDivisionRow picks the row for year, falling back to the division's
// own latest period when year is ALL or absent. A division without periods
// resolves to the zero row.
func ResolveDivisionRow(years *survey.YearlyTable, year string) survey.ScoreRow {
	if year != survey.All {
		if row, ok := years.Get(year); ok {
			return row
		}
	}
	_, row, _ := years.Latest()
	return row
}

func radarTheta() []string {
	out := make([]string, len(survey.SubScores))
	for i, d := range survey.SubScores {
		out[i] = d.Label()
	}
	return out
}

func radar(name string, row survey.ScoreRow) RadarSeries {
	return RadarSeries{
		Type:  radarType,
		Name:  name,
		R:     row.Radii(),
		Theta: radarTheta(),
		Fill:  radarFill,
	}
}

// BuildDivisionComparison derives the radar series and the table rows.
// An unknown division yields empty series and rows.
func BuildDivisionComparison(table *survey.DivisionTable, division, year string) DivisionComparison {
	out := DivisionComparison{
		Division: division,
		Year:     year,
		Series:   []RadarSeries{},
		Rows:     []DivisionRow{},
	}

	if division == survey.All {
		table.Each(func(name string, years *survey.YearlyTable) {
			row := ResolveDivisionRow(years, year)
			out.Series = append(out.Series, radar(name, row))
			out.Rows = append(out.Rows, DivisionRow{Label: name, Scores: row})
		})
		return out
	}

	years, ok := table.Get(division)
	if !ok {
		return out
	}
	out.Series = append(out.Series, radar(division, ResolveDivisionRow(years, year)))
	years.Each(func(period string, row survey.ScoreRow) {
		out.Rows = append(out.Rows, DivisionRow{Label: period, Scores: row})
	})
	return out
}
