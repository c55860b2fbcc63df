package survey

import (
	"errors"
	"fmt"
)

// MaxScore is the upper bound of every rubric score.
const MaxScore = 5.0

var ErrScoreOutOfRange = errors.New("score out of range")

// Dimension identifies one rubric dimension or the composite score.
type Dimension int

const (
	Respect Dimension = iota
	InfoSharing
	Clarity
	Attitude
	Satisfaction
	Composite
)

// SubScores are the five rubric dimensions in radar order.
var SubScores = []Dimension{Respect, InfoSharing, Clarity, Attitude, Satisfaction}

// Dimensions are the sub-scores followed by the composite.
var Dimensions = []Dimension{Respect, InfoSharing, Clarity, Attitude, Satisfaction, Composite}

func (d Dimension) Key() string {
	switch d {
	case Respect:
		return "respect"
	case InfoSharing:
		return "info_sharing"
	case Clarity:
		return "clarity"
	case Attitude:
		return "attitude"
	case Satisfaction:
		return "satisfaction"
	case Composite:
		return "composite"
	}
	return fmt.Sprintf("dimension(%d)", int(d))
}

// Label is the dashboard heading for the dimension.
func (d Dimension) Label() string {
	switch d {
	case Respect:
		return "존중배려"
	case InfoSharing:
		return "정보공유"
	case Clarity:
		return "명확처리"
	case Attitude:
		return "태도개선"
	case Satisfaction:
		return "전반만족"
	case Composite:
		return "종합점수"
	}
	return d.Key()
}

// ScoreRow is one rollup: the five sub-score means, the composite mean and
// the number of records behind them.
type ScoreRow struct {
	Respect      float64 `json:"respect"`
	InfoSharing  float64 `json:"info_sharing"`
	Clarity      float64 `json:"clarity"`
	Attitude     float64 `json:"attitude"`
	Satisfaction float64 `json:"satisfaction"`
	Composite    float64 `json:"composite"`
	Count        int     `json:"count"`
}

func (r ScoreRow) Value(d Dimension) float64 {
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

// With returns a copy of r with dimension d set to v.
func (r ScoreRow) With(d Dimension, v float64) ScoreRow {
	switch d {
	case Respect:
		r.Respect = v
	case InfoSharing:
		r.InfoSharing = v
	case Clarity:
		r.Clarity = v
	case Attitude:
		r.Attitude = v
	case Satisfaction:
		r.Satisfaction = v
	case Composite:
		r.Composite = v
	}
	return r
}

// Radii returns the five sub-scores in radar order.
func (r ScoreRow) Radii() []float64 {
	out := make([]float64, len(SubScores))
	for i, d := range SubScores {
		out[i] = r.Value(d)
	}
	return out
}

// SubScoreMean is the unweighted mean of the five sub-scores.
func (r ScoreRow) SubScoreMean() float64 {
	var sum float64
	for _, d := range SubScores {
		sum += r.Value(d)
	}
	return sum / float64(len(SubScores))
}

func checkScore(name string, v float64) error {
	if v < 0 || v > MaxScore || v != v {
		return fmt.Errorf("%w: %s=%v", ErrScoreOutOfRange, name, v)
	}
	return nil
}
