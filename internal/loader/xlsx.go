package loader

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/godilite/collab-dashboard/internal/survey"
)

// Column positions of the survey export sheet.
const (
	colResponseID          = 0
	colSurveyYear          = 1
	colEvaluatorDepartment = 2
	colEvaluatorDivision   = 5
	colDepartment          = 6
	colUnit                = 8
	colDivision            = 9
	colRespect             = 10
	colComposite           = 15
	colCleanedText         = 20
	colSentiment           = 22
	colKeywords            = 24

	minColumns = colComposite + 1
)

type XLSXOptions struct {
	// Sheet defaults to the first sheet of the workbook.
	Sheet      string
	PeriodMode PeriodMode
	SplitYear  int
	Clean      CleanOptions
}

func DefaultXLSXOptions() XLSXOptions {
	return XLSXOptions{
		PeriodMode: PeriodIntegrated,
		SplitYear:  2025,
		Clean:      DefaultCleanOptions(),
	}
}

// XLSXSource loads a bundle from a survey export workbook and computes the
// rollups from the cleaned records.
type XLSXSource struct {
	path   string
	opts   XLSXOptions
	logger *zap.Logger
}

func NewXLSXSource(path string, logger *zap.Logger, opts XLSXOptions) *XLSXSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &XLSXSource{path: path, opts: opts, logger: logger}
}

func (s *XLSXSource) Load(ctx context.Context) (*survey.Bundle, error) {
	records, _, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}
	return &survey.Bundle{Records: records, Aggregates: BuildAggregates(records)}, nil
}

// Records reads and cleans the workbook rows.
func (s *XLSXSource) Records(ctx context.Context) ([]survey.EvaluationRecord, CleanReport, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, CleanReport{}, fmt.Errorf("open workbook %s: %w", s.path, err)
	}
	defer func() { _ = f.Close() }()

	raw, err := ReadWorkbook(ctx, f, s.opts)
	if err != nil {
		return nil, CleanReport{}, err
	}
	records, report := Clean(raw, s.opts.Clean)
	s.logger.Info("workbook cleaned",
		zap.String("path", s.path),
		zap.Int("rows", report.Input),
		zap.Int("kept", report.Kept),
		zap.Int("excluded_division", report.ExcludedDivision),
		zap.Int("excluded_department", report.ExcludedDepartment),
		zap.Int("missing_composite", report.MissingComposite),
		zap.Int("out_of_range", report.OutOfRange),
		zap.Int("defaulted_sentiment", report.DefaultedSentiment))
	return records, report, nil
}

// ReadWorkbook parses the data rows of the export sheet. The first row is a
// header and is skipped; rows shorter than the score columns are ignored.
func ReadWorkbook(ctx context.Context, f *excelize.File, opts XLSXOptions) ([]RawRecord, error) {
	sheet := opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheet)
	}

	out := make([]RawRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if len(row) < minColumns || strings.TrimSpace(row[colResponseID]) == "" {
			continue
		}
		out = append(out, parseRow(row, opts))
	}
	return out, nil
}

func parseRow(row []string, opts XLSXOptions) RawRecord {
	id := cell(row, colResponseID)
	rec := survey.EvaluationRecord{
		ID:                  id,
		Year:                normalizeYear(cell(row, colSurveyYear), id),
		Period:              ParsePeriod(id, opts.PeriodMode, opts.SplitYear),
		EvaluatorDepartment: cell(row, colEvaluatorDepartment),
		EvaluatorDivision:   cell(row, colEvaluatorDivision),
		Department:          cell(row, colDepartment),
		Unit:                cell(row, colUnit),
		Division:            cell(row, colDivision),
		Text:                cell(row, colCleanedText),
		Keywords:            ParseKeywords(cell(row, colKeywords)),
	}
	for i, d := range survey.SubScores {
		v, _ := parseScore(cell(row, colRespect+i))
		rec = setScore(rec, d, v)
	}
	composite, ok := parseScore(cell(row, colComposite))
	rec.Composite = composite

	return RawRecord{
		Record:           rec,
		SentimentLabel:   cell(row, colSentiment),
		CompositeMissing: !ok,
	}
}

func setScore(r survey.EvaluationRecord, d survey.Dimension, v float64) survey.EvaluationRecord {
	switch d {
	case survey.Respect:
		r.Respect = v
	case survey.InfoSharing:
		r.InfoSharing = v
	case survey.Clarity:
		r.Clarity = v
	case survey.Attitude:
		r.Attitude = v
	case survey.Satisfaction:
		r.Satisfaction = v
	case survey.Composite:
		r.Composite = v
	}
	return r
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseScore reports false for blank or non-numeric cells.
func parseScore(s string) (float64, bool) {
	if s == "" || strings.EqualFold(s, "nan") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// normalizeYear strips spreadsheet float formatting ("2024.0") and falls back
// to the response id prefix.
func normalizeYear(raw, responseID string) string {
	if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
		return strconv.Itoa(int(v))
	}
	if raw != "" {
		return raw
	}
	if prefix, _, ok := strings.Cut(responseID, "_"); ok {
		return prefix
	}
	return ""
}
