package loader

import (
	"slices"
	"strings"

	"github.com/godilite/collab-dashboard/internal/survey"
)

// RawRecord is one parsed export row before cleaning.
type RawRecord struct {
	Record           survey.EvaluationRecord
	SentimentLabel   string
	CompositeMissing bool
}

type CleanOptions struct {
	ExcludedDivisions   []string
	ExcludedDepartments []string
}

// DefaultCleanOptions returns the exclusions applied to every survey export.
func DefaultCleanOptions() CleanOptions {
	return CleanOptions{
		ExcludedDivisions:   []string{"미분류", "윤리경영실"},
		ExcludedDepartments: []string{"내분비외과"},
	}
}

// CleanReport counts what Clean did to its input.
type CleanReport struct {
	Input              int `json:"input"`
	Kept               int `json:"kept"`
	ExcludedDivision   int `json:"excluded_division"`
	ExcludedDepartment int `json:"excluded_department"`
	MissingComposite   int `json:"missing_composite"`
	OutOfRange         int `json:"out_of_range"`
	DefaultedSentiment int `json:"defaulted_sentiment"`
}

// Clean applies the exclusions, drops unscored rows and fills blanks with
// the N/A sentinel. Input order is preserved.
func Clean(raw []RawRecord, opts CleanOptions) ([]survey.EvaluationRecord, CleanReport) {
	report := CleanReport{Input: len(raw)}
	out := make([]survey.EvaluationRecord, 0, len(raw))

	for _, rr := range raw {
		r := rr.Record
		if slices.Contains(opts.ExcludedDivisions, r.Division) || slices.Contains(opts.ExcludedDivisions, r.EvaluatorDivision) {
			report.ExcludedDivision++
			continue
		}
		if slices.Contains(opts.ExcludedDepartments, r.Department) || slices.Contains(opts.ExcludedDepartments, r.EvaluatorDepartment) {
			report.ExcludedDepartment++
			continue
		}
		if rr.CompositeMissing {
			report.MissingComposite++
			continue
		}

		for _, p := range []*string{&r.Division, &r.Department, &r.Unit, &r.Text, &r.EvaluatorDivision, &r.EvaluatorDepartment} {
			*p = strings.TrimSpace(*p)
			if *p == "" || strings.EqualFold(*p, "nan") {
				*p = survey.NotAvailable
			}
		}

		if !r.Sentiment.Valid() {
			s, err := survey.ParseSentiment(rr.SentimentLabel)
			if err != nil {
				s = survey.Neutral
				report.DefaultedSentiment++
			}
			r.Sentiment = s
		}

		if err := r.Validate(); err != nil {
			report.OutOfRange++
			continue
		}
		out = append(out, r)
	}

	report.Kept = len(out)
	return out, report
}
