package survey

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// All is the filter value meaning "no constraint on this field".
const All = "ALL"

// NotAvailable marks a missing organizational name or review text.
const NotAvailable = "N/A"

var ErrInvalidSentiment = errors.New("invalid sentiment")

// Sentiment is the closed set of labels assigned to a review comment.
type Sentiment string

const (
	Positive Sentiment = "positive"
	Negative Sentiment = "negative"
	Neutral  Sentiment = "neutral"
)

// Sentiments lists the concrete sentiments in display order.
var Sentiments = []Sentiment{Positive, Neutral, Negative}

var sentimentAliases = map[string]Sentiment{
	"positive": Positive,
	"negative": Negative,
	"neutral":  Neutral,
	"긍정":       Positive,
	"부정":       Negative,
	"중립":       Neutral,
}

// ParseSentiment accepts the English and Korean labels used by the survey exports.
func ParseSentiment(s string) (Sentiment, error) {
	v, ok := sentimentAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidSentiment, s)
	}
	return v, nil
}

func (s Sentiment) Valid() bool {
	return s == Positive || s == Negative || s == Neutral
}

// Label returns the Korean label shown next to a review.
func (s Sentiment) Label() string {
	switch s {
	case Positive:
		return "긍정"
	case Negative:
		return "부정"
	case Neutral:
		return "중립"
	}
	return string(s)
}

func (s *Sentiment) UnmarshalText(b []byte) error {
	v, err := ParseSentiment(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// SentimentSelection is a non-empty set of sentiments or the ALL sentinel.
// The zero value is ALL, so an empty selection can never be observed.
type SentimentSelection struct {
	items []Sentiment
}

// AllSentiments returns the unconstrained selection.
func AllSentiments() SentimentSelection {
	return SentimentSelection{}
}

// NewSentimentSelection builds a selection from labels. No labels, or any
// label equal to ALL, collapse to the ALL selection.
func NewSentimentSelection(labels ...string) (SentimentSelection, error) {
	var items []Sentiment
	for _, l := range labels {
		if strings.EqualFold(strings.TrimSpace(l), All) {
			return AllSentiments(), nil
		}
		v, err := ParseSentiment(l)
		if err != nil {
			return SentimentSelection{}, err
		}
		if !slices.Contains(items, v) {
			items = append(items, v)
		}
	}
	return SentimentSelection{items: items}, nil
}

func (s SentimentSelection) IsAll() bool {
	return len(s.items) == 0
}

// Matches reports whether a record with sentiment v passes the selection.
func (s SentimentSelection) Matches(v Sentiment) bool {
	return s.IsAll() || slices.Contains(s.items, v)
}

// Toggle applies the checkbox rule: ALL resets the selection, a concrete
// sentiment flips its membership and an emptied selection falls back to ALL.
func (s SentimentSelection) Toggle(label string) (SentimentSelection, error) {
	if strings.EqualFold(strings.TrimSpace(label), All) {
		return AllSentiments(), nil
	}
	v, err := ParseSentiment(label)
	if err != nil {
		return s, err
	}
	items := slices.Clone(s.items)
	if i := slices.Index(items, v); i >= 0 {
		items = slices.Delete(items, i, i+1)
	} else {
		items = append(items, v)
	}
	return SentimentSelection{items: items}, nil
}

// Labels returns ["ALL"] or the selected sentiments in selection order.
func (s SentimentSelection) Labels() []string {
	if s.IsAll() {
		return []string{All}
	}
	out := make([]string, len(s.items))
	for i, v := range s.items {
		out[i] = string(v)
	}
	return out
}

func (s SentimentSelection) String() string {
	return strings.Join(s.Labels(), ",")
}

func (s SentimentSelection) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Labels())
}

func (s *SentimentSelection) UnmarshalJSON(b []byte) error {
	var labels []string
	if err := json.Unmarshal(b, &labels); err != nil {
		return err
	}
	v, err := NewSentimentSelection(labels...)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
