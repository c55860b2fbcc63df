package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godilite/collab-dashboard/internal/survey"
)

func uniformRow(v float64, count int) survey.ScoreRow {
	return survey.ScoreRow{
		Respect: v, InfoSharing: v, Clarity: v, Attitude: v, Satisfaction: v, Composite: v,
		Count: count,
	}
}

func hospitalTable(rows ...any) *survey.YearlyTable {
	t := survey.NewYearlyTable()
	for i := 0; i < len(rows); i += 2 {
		t.Set(rows[i].(string), rows[i+1].(survey.ScoreRow))
	}
	return t
}

func TestHospitalScores(t *testing.T) {
	t.Run("ALL is count-weighted", func(t *testing.T) {
		table := hospitalTable(
			"2022", uniformRow(4.0, 10),
			"2023", uniformRow(5.0, 10),
		)

		row := HospitalScores(table, survey.All)

		assert.InDelta(t, 4.5, row.Respect, 1e-9)
		assert.InDelta(t, 4.5, row.Composite, 1e-9)
		assert.Equal(t, 20, row.Count)
	})

	t.Run("larger years dominate", func(t *testing.T) {
		table := hospitalTable(
			"2022", uniformRow(3.0, 30),
			"2023", uniformRow(4.0, 10),
			"2024", survey.ScoreRow{Respect: 5.0, Clarity: 1.0, Count: 60},
		)

		row := HospitalScores(table, survey.All)

		assert.InDelta(t, (3.0*30+4.0*10+5.0*60)/100, row.Respect, 1e-9)
		assert.InDelta(t, (3.0*30+4.0*10+1.0*60)/100, row.Clarity, 1e-9)
		assert.InDelta(t, (3.0*30+4.0*10)/100, row.InfoSharing, 1e-9)
		assert.Equal(t, 100, row.Count)
	})

	t.Run("specific year verbatim", func(t *testing.T) {
		want := survey.ScoreRow{Respect: 4.1, InfoSharing: 3.9, Clarity: 3.8, Attitude: 4.0, Satisfaction: 4.2, Composite: 4.9, Count: 7}
		table := hospitalTable("2023", want)

		assert.Equal(t, want, HospitalScores(table, "2023"))
	})

	t.Run("absent year is zero", func(t *testing.T) {
		table := hospitalTable("2023", uniformRow(4.0, 7))

		assert.Equal(t, survey.ScoreRow{}, HospitalScores(table, "2030"))
	})

	t.Run("ALL over empty table is zero", func(t *testing.T) {
		assert.Equal(t, survey.ScoreRow{}, HospitalScores(survey.NewYearlyTable(), survey.All))
	})
}

func TestBuildHospitalOverview(t *testing.T) {
	table := hospitalTable(
		"2024", uniformRow(4.0, 1200),
		"2022", uniformRow(3.5, 800),
	)

	ov := BuildHospitalOverview(table, survey.All, nil)

	require.Len(t, ov.Cards, 6)
	assert.Equal(t, "respect", ov.Cards[0].Dimension)
	assert.Equal(t, "종합점수", ov.Cards[5].Label)
	assert.Equal(t, "3.80", ov.Cards[0].ValueDisplay)
	assert.Equal(t, "2,000건", ov.Cards[0].CountDisplay)

	require.Len(t, ov.Trend, 6)
	for _, s := range ov.Trend {
		assert.Equal(t, []string{"2024", "2022"}, s.X, "x follows table order")
	}
	assert.Equal(t, []float64{4.0, 3.5}, ov.Trend[0].Y)
}

func divisionTable() *survey.DivisionTable {
	t := survey.NewDivisionTable()
	t.Set("진료부문", "2023", uniformRow(3.0, 5))
	t.Set("진료부문", "2024", uniformRow(4.0, 6))
	t.Set("간호부문", "2022", uniformRow(2.0, 3))
	t.Set("간호부문", "2023", uniformRow(2.5, 4))
	t.Set("행정부문", "2025", uniformRow(4.5, 2))
	return t
}

func TestBuildDivisionComparison(t *testing.T) {
	t.Run("ALL division uses each division's latest year", func(t *testing.T) {
		out := BuildDivisionComparison(divisionTable(), survey.All, survey.All)

		require.Len(t, out.Series, 3)
		require.Len(t, out.Rows, 3)
		assert.Equal(t, []float64{4.0, 4.0, 4.0, 4.0, 4.0}, out.Series[0].R)
		assert.Equal(t, []float64{2.5, 2.5, 2.5, 2.5, 2.5}, out.Series[1].R)
		assert.Equal(t, "행정부문", out.Series[2].Name)
		assert.Equal(t, "toself", out.Series[0].Fill)
		assert.Equal(t, []string{"존중배려", "정보공유", "명확처리", "태도개선", "전반만족"}, out.Series[0].Theta)
		assert.Equal(t, "간호부문", out.Rows[1].Label)
		assert.Equal(t, 4, out.Rows[1].Scores.Count)
	})

	t.Run("selected year applies where present and falls back elsewhere", func(t *testing.T) {
		out := BuildDivisionComparison(divisionTable(), survey.All, "2023")

		require.Len(t, out.Series, 3)
		assert.Equal(t, 3.0, out.Series[0].R[0])
		assert.Equal(t, 2.5, out.Series[1].R[0])
		assert.Equal(t, 4.5, out.Series[2].R[0], "no 2023 row, latest used")
	})

	t.Run("one division, rows per year in key order", func(t *testing.T) {
		out := BuildDivisionComparison(divisionTable(), "간호부문", "2022")

		require.Len(t, out.Series, 1)
		assert.Equal(t, "간호부문", out.Series[0].Name)
		assert.Equal(t, 2.0, out.Series[0].R[0])
		require.Len(t, out.Rows, 2)
		assert.Equal(t, "2022", out.Rows[0].Label)
		assert.Equal(t, "2023", out.Rows[1].Label)
	})

	t.Run("unknown division is empty, not an error", func(t *testing.T) {
		out := BuildDivisionComparison(divisionTable(), "없는부문", survey.All)

		assert.NotNil(t, out.Series)
		assert.Empty(t, out.Series)
		assert.Empty(t, out.Rows)
	})

	t.Run("division without years resolves to zero row", func(t *testing.T) {
		table := divisionTable()
		table.Put("신규부문", nil)

		out := BuildDivisionComparison(table, survey.All, survey.All)

		require.Len(t, out.Series, 4)
		assert.Equal(t, []float64{0, 0, 0, 0, 0}, out.Series[3].R)
	})
}

func reviewRecords(n int) []survey.EvaluationRecord {
	out := make([]survey.EvaluationRecord, n)
	for i := range out {
		out[i] = survey.EvaluationRecord{
			ID:        fmt.Sprint(i),
			Period:    "2024",
			Text:      fmt.Sprintf("review %d", i),
			Sentiment: survey.Sentiments[i%3],
		}
	}
	return out
}

func TestListReviews(t *testing.T) {
	t.Run("caps at 1000 preserving order", func(t *testing.T) {
		out := ListReviews(reviewRecords(1500), survey.AllSentiments(), 0)

		require.Len(t, out, 1000)
		for i, r := range out {
			assert.Equal(t, fmt.Sprintf("review %d", i), r.Text)
		}
	})

	t.Run("placeholder and empty text excluded", func(t *testing.T) {
		records := reviewRecords(4)
		records[1].Text = survey.NotAvailable
		records[2].Text = ""

		out := ListReviews(records, survey.AllSentiments(), 10)

		require.Len(t, out, 2)
		assert.Equal(t, "review 0", out[0].Text)
		assert.Equal(t, "review 3", out[1].Text)
	})

	t.Run("secondary sentiment selection", func(t *testing.T) {
		sel, err := survey.NewSentimentSelection("negative")
		require.NoError(t, err)

		out := ListReviews(reviewRecords(9), sel, 0)

		require.Len(t, out, 3)
		for _, r := range out {
			assert.Equal(t, survey.Negative, r.Sentiment)
			assert.Equal(t, "2024", r.Period)
		}
	})
}
