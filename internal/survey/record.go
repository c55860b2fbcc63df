package survey

import "fmt"

// EvaluationRecord is one survey response. Records are loaded once and never
// mutated afterwards.
type EvaluationRecord struct {
	ID     string `json:"id"`
	Year   string `json:"year"`
	Period string `json:"period"`

	EvaluatorDepartment string `json:"evaluator_department"`
	EvaluatorDivision   string `json:"evaluator_division"`

	Department string `json:"department"`
	Division   string `json:"division"`
	Unit       string `json:"unit"`

	Respect      float64 `json:"respect"`
	InfoSharing  float64 `json:"info_sharing"`
	Clarity      float64 `json:"clarity"`
	Attitude     float64 `json:"attitude"`
	Satisfaction float64 `json:"satisfaction"`
	Composite    float64 `json:"composite"`

	Text      string    `json:"text"`
	Sentiment Sentiment `json:"sentiment"`
	Keywords  []string  `json:"keywords,omitempty"`
}

func (r EvaluationRecord) Score(d Dimension) float64 {
	switch d {
	case Respect:
		return r.Respect
	case InfoSharing:
		return r.InfoSharing
	case Clarity:
		return r.Clarity
	case Attitude:
		return r.Attitude
	case Satisfaction:
		return r.Satisfaction
	case Composite:
		return r.Composite
	}
	return 0
}

// HasReviewText reports whether the cleaned comment can be listed.
func (r EvaluationRecord) HasReviewText() bool {
	return r.Text != "" && r.Text != NotAvailable
}

// Validate checks the score bounds and the sentiment label.
func (r EvaluationRecord) Validate() error {
	for _, d := range Dimensions {
		if err := checkScore(d.Key(), r.Score(d)); err != nil {
			return fmt.Errorf("record %s: %w", r.ID, err)
		}
	}
	if !r.Sentiment.Valid() {
		return fmt.Errorf("record %s: %w: %q", r.ID, ErrInvalidSentiment, r.Sentiment)
	}
	return nil
}
