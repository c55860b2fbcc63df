package models

// PeriodAggregate is one row of the hospital or division rollup queries.
// Division is empty for hospital-wide rows.
type PeriodAggregate struct {
	Division     string
	Period       string
	Respect      float64
	InfoSharing  float64
	Clarity      float64
	Attitude     float64
	Satisfaction float64
	Composite    float64
	Count        int
}

// EvaluationRow mirrors the evaluations table.
type EvaluationRow struct {
	Seq                 int64
	ResponseID          string
	Year                string
	Period              string
	EvaluatorDepartment string
	EvaluatorDivision   string
	Department          string
	Division            string
	Unit                string
	Respect             float64
	InfoSharing         float64
	Clarity             float64
	Attitude            float64
	Satisfaction        float64
	Composite           float64
	Text                string
	Sentiment           string
	Keywords            string
}
