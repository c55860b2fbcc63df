package service

import "github.com/godilite/collab-dashboard/internal/survey"

// ScoreCard drives one headline card of the hospital overview.
type ScoreCard struct {
	Dimension    string  `json:"dimension"`
	Label        string  `json:"label"`
	Value        float64 `json:"value"`
	Count        int     `json:"count"`
	ValueDisplay string  `json:"value_display"`
	CountDisplay string  `json:"count_display"`
}

// TrendSeries is one line of the time-series chart.
type TrendSeries struct {
	Dimension string    `json:"dimension"`
	Name      string    `json:"name"`
	X         []string  `json:"x"`
	Y         []float64 `json:"y"`
}

type HospitalOverview struct {
	Year   string          `json:"year"`
	Scores survey.ScoreRow `json:"scores"`
	Cards  []ScoreCard     `json:"cards"`
	Trend  []TrendSeries   `json:"trend"`
}

// RadarSeries is one closed polygon of the division radar chart.
type RadarSeries struct {
	Type  string    `json:"type"`
	Name  string    `json:"name"`
	R     []float64 `json:"r"`
	Theta []string  `json:"theta"`
	Fill  string    `json:"fill"`
}

// DivisionRow is one table row: a division name when comparing all
// divisions, a period when drilling into one.
type DivisionRow struct {
	Label  string          `json:"label"`
	Scores survey.ScoreRow `json:"scores"`
}

type DivisionComparison struct {
	Division string        `json:"division"`
	Year     string        `json:"year"`
	Series   []RadarSeries `json:"series"`
	Rows     []DivisionRow `json:"rows"`
}

type Review struct {
	Period    string           `json:"period"`
	Text      string           `json:"text"`
	Sentiment survey.Sentiment `json:"sentiment"`
}

type ReviewListing struct {
	Selection survey.SentimentSelection `json:"selection"`
	Reviews   []Review                  `json:"reviews"`
}

// Snapshot is every derived view for one filter state.
type Snapshot struct {
	Filters   survey.FilterState `json:"filters"`
	Overview  HospitalOverview   `json:"overview"`
	Divisions DivisionComparison `json:"divisions"`
	Reviews   ReviewListing      `json:"reviews"`
}

type TeamScore struct {
	Department string  `json:"department"`
	Division   string  `json:"division"`
	Score      float64 `json:"score"`
	Count      int     `json:"count"`
	Rank       int     `json:"rank"`
}

type RankingGroup struct {
	Period   string      `json:"period"`
	Division string      `json:"division"`
	Teams    []TeamScore `json:"teams"`
}

type SentimentCount struct {
	Sentiment survey.Sentiment `json:"sentiment"`
	Label     string           `json:"label"`
	Count     int              `json:"count"`
	Ratio     float64          `json:"ratio"`
}

type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

type DepartmentStat struct {
	Department    string  `json:"department"`
	Responses     int     `json:"responses"`
	PositiveRatio float64 `json:"positive_ratio"`
	MeanComposite float64 `json:"mean_composite"`
}

// Inconsistency flags a rollup whose composite drifts from its sub-score mean.
type Inconsistency struct {
	Scope        string  `json:"scope"`
	Period       string  `json:"period"`
	Composite    float64 `json:"composite"`
	SubScoreMean float64 `json:"sub_score_mean"`
	Delta        float64 `json:"delta"`
}
