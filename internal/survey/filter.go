package survey

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownFilterKey = errors.New("unknown filter key")

// FilterKey names one field of FilterState.
type FilterKey string

const (
	FilterYear       FilterKey = "year"
	FilterDivision   FilterKey = "division"
	FilterDepartment FilterKey = "department"
	FilterUnit       FilterKey = "unit"
	FilterSentiment  FilterKey = "sentiment"
	FilterScoreType  FilterKey = "score_type"
)

var filterKeys = map[string]FilterKey{
	"year":       FilterYear,
	"division":   FilterDivision,
	"department": FilterDepartment,
	"unit":       FilterUnit,
	"sentiment":  FilterSentiment,
	"score_type": FilterScoreType,
	"scoretype":  FilterScoreType,
}

func ParseFilterKey(s string) (FilterKey, error) {
	k, ok := filterKeys[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFilterKey, s)
	}
	return k, nil
}

// FilterState is the current dashboard selection. Every string field holds a
// name or All.
type FilterState struct {
	Year       string             `json:"year"`
	Division   string             `json:"division"`
	Department string             `json:"department"`
	Unit       string             `json:"unit"`
	Sentiment  SentimentSelection `json:"sentiment"`
	// ScoreType is carried for the score selector; no view reads it yet.
	ScoreType string `json:"score_type"`
}

func DefaultFilters() FilterState {
	return FilterState{
		Year:       All,
		Division:   All,
		Department: All,
		Unit:       All,
		Sentiment:  AllSentiments(),
		ScoreType:  Composite.Key(),
	}
}

// Matches applies every non-ALL constraint conjunctively.
func (f FilterState) Matches(r EvaluationRecord) bool {
	if f.Year != All && r.Period != f.Year {
		return false
	}
	if f.Division != All && r.Division != f.Division {
		return false
	}
	if f.Department != All && r.Department != f.Department {
		return false
	}
	if f.Unit != All && r.Unit != f.Unit {
		return false
	}
	return f.Sentiment.Matches(r.Sentiment)
}

// keyEscaper escapes the field separator, the cache key separator and the
// escape character itself so distinct states never share a Key.
var keyEscaper = strings.NewReplacer(`\`, `\\`, "|", `\|`, ":", `\:`)

// Key is a stable textual form used for cache keys and logs.
func (f FilterState) Key() string {
	fields := []string{f.Year, f.Division, f.Department, f.Unit, f.Sentiment.String()}
	for i, v := range fields {
		fields[i] = keyEscaper.Replace(v)
	}
	return strings.Join(fields, "|")
}

// Normalize replaces empty fields with All.
func (f FilterState) Normalize() FilterState {
	for _, p := range []*string{&f.Year, &f.Division, &f.Department, &f.Unit} {
		if strings.TrimSpace(*p) == "" {
			*p = All
		}
	}
	if f.ScoreType == "" {
		f.ScoreType = Composite.Key()
	}
	return f
}
