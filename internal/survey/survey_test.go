package survey

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYearlyTableOrder(t *testing.T) {
	table := NewYearlyTable()
	table.Set("2024", ScoreRow{Composite: 4, Count: 1})
	table.Set("2022", ScoreRow{Composite: 3, Count: 2})
	table.Set("2023", ScoreRow{Composite: 3.5, Count: 3})
	table.Set("2024", ScoreRow{Composite: 4.2, Count: 4})

	assert.Equal(t, []string{"2024", "2022", "2023"}, table.Periods())

	period, row, ok := table.Latest()
	require.True(t, ok)
	assert.Equal(t, "2023", period)
	assert.Equal(t, 3, row.Count)

	got, ok := table.Get("2024")
	require.True(t, ok)
	assert.Equal(t, 4.2, got.Composite)
}

func TestNilTablesAreEmpty(t *testing.T) {
	var yt *YearlyTable
	var dt *DivisionTable

	assert.Zero(t, yt.Len())
	assert.Empty(t, yt.Periods())
	_, _, ok := yt.Latest()
	assert.False(t, ok)
	assert.Zero(t, dt.Len())
	assert.True(t, AggregatedTables{}.Empty())
}

func TestTablesJSONKeepsOrder(t *testing.T) {
	divisions := NewDivisionTable()
	divisions.Set("진료부문", "2024", ScoreRow{Respect: 4, Count: 2})
	divisions.Set("간호부문", "2023", ScoreRow{Respect: 3, Count: 1})
	divisions.Set("간호부문", "2021", ScoreRow{Respect: 2, Count: 1})

	b, err := json.Marshal(divisions)
	require.NoError(t, err)

	var back DivisionTable
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, []string{"진료부문", "간호부문"}, back.Names())
	years, ok := back.Get("간호부문")
	require.True(t, ok)
	assert.Equal(t, []string{"2023", "2021"}, years.Periods())
}

func TestScoreRow(t *testing.T) {
	row := ScoreRow{Respect: 1, InfoSharing: 2, Clarity: 3, Attitude: 4, Satisfaction: 5, Composite: 3}

	assert.Equal(t, []float64{1, 2, 3, 4, 5}, row.Radii())
	assert.Equal(t, 3.0, row.SubScoreMean())
	assert.Equal(t, 4.0, row.Value(Attitude))
	assert.Equal(t, 4.5, row.With(Composite, 4.5).Composite)
	assert.Equal(t, "info_sharing", InfoSharing.Key())
	assert.Equal(t, "종합점수", Composite.Label())
}

func TestRecordValidate(t *testing.T) {
	ok := EvaluationRecord{ID: "1", Respect: 5, Composite: 0, Sentiment: Neutral}
	require.NoError(t, ok.Validate())

	high := ok
	high.Clarity = 5.01
	assert.ErrorIs(t, high.Validate(), ErrScoreOutOfRange)

	nan := ok
	nan.Composite = math.NaN()
	assert.ErrorIs(t, nan.Validate(), ErrScoreOutOfRange)

	noLabel := ok
	noLabel.Sentiment = ""
	assert.ErrorIs(t, noLabel.Validate(), ErrInvalidSentiment)
}

func TestHasReviewText(t *testing.T) {
	assert.True(t, EvaluationRecord{Text: "좋아요"}.HasReviewText())
	assert.False(t, EvaluationRecord{Text: NotAvailable}.HasReviewText())
	assert.False(t, EvaluationRecord{}.HasReviewText())
}

func TestFilterStateMatches(t *testing.T) {
	r := EvaluationRecord{
		Year: "2025", Period: "2025년 상반기",
		Division: "진료부문", Department: "내과", Unit: "내과외래",
		Sentiment: Negative,
	}

	assert.True(t, DefaultFilters().Matches(r))

	f := DefaultFilters()
	f.Year = "2025년 상반기"
	f.Division = "진료부문"
	assert.True(t, f.Matches(r))

	f.Year = "2025"
	assert.False(t, f.Matches(r), "year compares against the period label")

	f = DefaultFilters()
	f.Unit = "병동"
	assert.False(t, f.Matches(r))

	f = DefaultFilters()
	f.Sentiment, _ = NewSentimentSelection("positive")
	assert.False(t, f.Matches(r))
}

func TestFilterStateNormalize(t *testing.T) {
	f := FilterState{Division: "진료부문"}.Normalize()

	assert.Equal(t, All, f.Year)
	assert.Equal(t, "진료부문", f.Division)
	assert.Equal(t, "composite", f.ScoreType)
	assert.Equal(t, "ALL|진료부문|ALL|ALL|ALL", f.Key())
}

func TestFilterStateKeyEscapesSeparators(t *testing.T) {
	a := DefaultFilters()
	a.Division, a.Department = "A|B", "C"
	b := DefaultFilters()
	b.Division, b.Department = "A", "B|C"
	assert.NotEqual(t, a.Key(), b.Key())
	assert.Equal(t, `ALL|A\|B|C|ALL|ALL`, a.Key())

	c := DefaultFilters()
	c.Unit = "x:5"
	assert.Equal(t, `ALL|ALL|ALL|x\:5|ALL`, c.Key())

	d := DefaultFilters()
	d.Unit = `x\`
	assert.Equal(t, `ALL|ALL|ALL|x\\|ALL`, d.Key())
}

func TestParseFilterKey(t *testing.T) {
	k, err := ParseFilterKey("scoreType")
	require.NoError(t, err)
	assert.Equal(t, FilterScoreType, k)

	_, err = ParseFilterKey("color")
	assert.ErrorIs(t, err, ErrUnknownFilterKey)
}

func testBundle() *Bundle {
	hospital := NewYearlyTable()
	hospital.Set("2024", ScoreRow{Composite: 4, Count: 1})
	divisions := NewDivisionTable()
	divisions.Set("진료부문", "2024", ScoreRow{Composite: 4, Count: 1})
	return &Bundle{
		Records: []EvaluationRecord{
			{ID: "2024_1_1", Period: "2024", Division: "진료부문", Composite: 4, Sentiment: Positive},
		},
		Aggregates: AggregatedTables{Hospital: hospital, Divisions: divisions},
	}
}

func TestBundleValidate(t *testing.T) {
	b := testBundle()
	require.NoError(t, b.Validate())
	assert.Equal(t, []string{"2024"}, b.Years())
	assert.Equal(t, []string{"진료부문"}, b.Divisions())

	b.Aggregates.Divisions.Set("진료부문", "2023", ScoreRow{Count: -1})
	assert.ErrorIs(t, b.Validate(), ErrInvalidBundle)

	b = testBundle()
	b.Records[0].Sentiment = "great"
	assert.ErrorIs(t, b.Validate(), ErrInvalidBundle)
}

func TestBundleFingerprint(t *testing.T) {
	a, b := testBundle(), testBundle()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.Records[0].Text = "changed"
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())

	c := testBundle()
	c.Aggregates.Hospital.Set("2024", ScoreRow{Composite: 4.1, Count: 1})
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestBundleFingerprintCoversKeywords(t *testing.T) {
	a, b := testBundle(), testBundle()
	a.Records[0].Keywords = []string{"소통"}
	b.Records[0].Keywords = []string{"지연"}
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())

	b.Records[0].Keywords = []string{"소", "통"}
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestBundleFingerprintFieldBoundaries(t *testing.T) {
	a, b := testBundle(), testBundle()
	a.Records[0].ID, a.Records[0].Period = "1a", "b"
	b.Records[0].ID, b.Records[0].Period = "1", "ab"
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())

	c, d := testBundle(), testBundle()
	c.Records[0].Department, c.Records[0].Division = "내과진료", "부문"
	d.Records[0].Department, d.Records[0].Division = "내과", "진료부문"
	assert.NotEqual(t, c.Fingerprint(), d.Fingerprint())
}
