package service

import "github.com/godilite/collab-dashboard/internal/survey"

// DefaultReviewLimit caps the review listing.
const DefaultReviewLimit = 1000

// ListReviews keeps the records matching the review-local sentiment selection
// that carry listable text, in source order, up to limit.
func ListReviews(records []survey.EvaluationRecord, sel survey.SentimentSelection, limit int) []Review {
	if limit <= 0 {
		limit = DefaultReviewLimit
	}
	out := make([]Review, 0, min(limit, len(records)))
	for _, r := range records {
		if len(out) == limit {
			break
		}
		if !sel.Matches(r.Sentiment) || !r.HasReviewText() {
			continue
		}
		out = append(out, Review{
			Period:    r.Period,
			Text:      r.Text,
			Sentiment: r.Sentiment,
		})
	}
	return out
}
