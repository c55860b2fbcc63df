package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/godilite/collab-dashboard/internal/repository/models"
	"github.com/godilite/collab-dashboard/internal/survey"
)

const schema = `
	CREATE TABLE IF NOT EXISTS evaluations (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		response_id TEXT NOT NULL,
		year TEXT NOT NULL DEFAULT '',
		period TEXT NOT NULL,
		evaluator_department TEXT NOT NULL DEFAULT '',
		evaluator_division TEXT NOT NULL DEFAULT '',
		department TEXT NOT NULL,
		division TEXT NOT NULL,
		unit TEXT NOT NULL DEFAULT '',
		respect REAL NOT NULL,
		info_sharing REAL NOT NULL,
		clarity REAL NOT NULL,
		attitude REAL NOT NULL,
		satisfaction REAL NOT NULL,
		composite REAL NOT NULL,
		text TEXT NOT NULL DEFAULT '',
		sentiment TEXT NOT NULL,
		keywords TEXT NOT NULL DEFAULT '[]'
	);
	CREATE INDEX IF NOT EXISTS idx_evaluations_period ON evaluations(period);
	CREATE INDEX IF NOT EXISTS idx_evaluations_division_period ON evaluations(division, period);
`

// EvaluationRepository stores survey records in SQLite and computes the
// rollups in SQL.
type EvaluationRepository struct {
	db *sql.DB
}

func NewEvaluationRepository(db *sql.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

func (r *EvaluationRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create evaluations schema: %w", err)
	}
	return nil
}

// ReplaceRecords swaps the table contents for records in one transaction.
// Insertion order becomes the storage order returned by LoadRecords.
func (r *EvaluationRepository) ReplaceRecords(ctx context.Context, records []survey.EvaluationRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ReplaceRecords: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM evaluations`); err != nil {
		return fmt.Errorf("clear evaluations: %w", err)
	}
	if err := insertRecords(ctx, tx, records); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ReplaceRecords: %w", err)
	}
	return nil
}

// InsertRecords appends records after the existing rows.
func (r *EvaluationRepository) InsertRecords(ctx context.Context, records []survey.EvaluationRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin InsertRecords: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := insertRecords(ctx, tx, records); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit InsertRecords: %w", err)
	}
	return nil
}

func insertRecords(ctx context.Context, tx *sql.Tx, records []survey.EvaluationRecord) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO evaluations (
			response_id, year, period, evaluator_department, evaluator_division,
			department, division, unit,
			respect, info_sharing, clarity, attitude, satisfaction, composite,
			text, sentiment, keywords
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert evaluations: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		keywords := rec.Keywords
		if keywords == nil {
			keywords = []string{}
		}
		kw, err := json.Marshal(keywords)
		if err != nil {
			return fmt.Errorf("encode keywords for %s: %w", rec.ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			rec.ID, rec.Year, rec.Period, rec.EvaluatorDepartment, rec.EvaluatorDivision,
			rec.Department, rec.Division, rec.Unit,
			rec.Respect, rec.InfoSharing, rec.Clarity, rec.Attitude, rec.Satisfaction, rec.Composite,
			rec.Text, string(rec.Sentiment), string(kw),
		); err != nil {
			return fmt.Errorf("insert evaluation %s: %w", rec.ID, err)
		}
	}
	return nil
}

// LoadRecords returns every stored record in insertion order.
func (r *EvaluationRepository) LoadRecords(ctx context.Context) ([]survey.EvaluationRecord, error) {
	const query = `
		SELECT
			seq, response_id, year, period, evaluator_department, evaluator_division,
			department, division, unit,
			respect, info_sharing, clarity, attitude, satisfaction, composite,
			text, sentiment, keywords
		FROM evaluations
		ORDER BY seq
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query LoadRecords: %w", err)
	}
	defer rows.Close()

	var results []survey.EvaluationRecord
	for rows.Next() {
		var row models.EvaluationRow
		if err := rows.Scan(
			&row.Seq, &row.ResponseID, &row.Year, &row.Period, &row.EvaluatorDepartment, &row.EvaluatorDivision,
			&row.Department, &row.Division, &row.Unit,
			&row.Respect, &row.InfoSharing, &row.Clarity, &row.Attitude, &row.Satisfaction, &row.Composite,
			&row.Text, &row.Sentiment, &row.Keywords,
		); err != nil {
			return nil, fmt.Errorf("scan LoadRecords row: %w", err)
		}
		rec, err := toRecord(row)
		if err != nil {
			return nil, err
		}
		results = append(results, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate LoadRecords: %w", err)
	}
	return results, nil
}

func toRecord(row models.EvaluationRow) (survey.EvaluationRecord, error) {
	sentiment, err := survey.ParseSentiment(row.Sentiment)
	if err != nil {
		return survey.EvaluationRecord{}, fmt.Errorf("evaluation %s: %w", row.ResponseID, err)
	}
	var keywords []string
	if row.Keywords != "" {
		if err := json.Unmarshal([]byte(row.Keywords), &keywords); err != nil {
			return survey.EvaluationRecord{}, fmt.Errorf("decode keywords for %s: %w", row.ResponseID, err)
		}
	}
	if len(keywords) == 0 {
		keywords = nil
	}
	return survey.EvaluationRecord{
		ID:                  row.ResponseID,
		Year:                row.Year,
		Period:              row.Period,
		EvaluatorDepartment: row.EvaluatorDepartment,
		EvaluatorDivision:   row.EvaluatorDivision,
		Department:          row.Department,
		Division:            row.Division,
		Unit:                row.Unit,
		Respect:             row.Respect,
		InfoSharing:         row.InfoSharing,
		Clarity:             row.Clarity,
		Attitude:            row.Attitude,
		Satisfaction:        row.Satisfaction,
		Composite:           row.Composite,
		Text:                row.Text,
		Sentiment:           sentiment,
		Keywords:            keywords,
	}, nil
}

// HospitalAggregates computes per-period means over all records, in order of
// each period's first appearance.
func (r *EvaluationRepository) HospitalAggregates(ctx context.Context) ([]models.PeriodAggregate, error) {
	const query = `
		SELECT
			'' AS division,
			period,
			AVG(respect), AVG(info_sharing), AVG(clarity), AVG(attitude), AVG(satisfaction), AVG(composite),
			COUNT(*) AS response_count
		FROM evaluations
		GROUP BY period
		ORDER BY MIN(seq)
	`
	return r.queryAggregates(ctx, "HospitalAggregates", query)
}

// DivisionAggregates computes per-division, per-period means. Rows without a
// division are left out. Divisions and their periods follow first appearance.
func (r *EvaluationRepository) DivisionAggregates(ctx context.Context) ([]models.PeriodAggregate, error) {
	const query = `
		SELECT
			division,
			period,
			AVG(respect), AVG(info_sharing), AVG(clarity), AVG(attitude), AVG(satisfaction), AVG(composite),
			COUNT(*) AS response_count
		FROM evaluations
		WHERE division <> '' AND division <> 'N/A'
		GROUP BY division, period
		ORDER BY MIN(seq)
	`
	return r.queryAggregates(ctx, "DivisionAggregates", query)
}

func (r *EvaluationRepository) queryAggregates(ctx context.Context, name, query string) ([]models.PeriodAggregate, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	defer rows.Close()

	var results []models.PeriodAggregate
	for rows.Next() {
		var a models.PeriodAggregate
		if err := rows.Scan(&a.Division, &a.Period,
			&a.Respect, &a.InfoSharing, &a.Clarity, &a.Attitude, &a.Satisfaction, &a.Composite,
			&a.Count); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", name, err)
		}
		results = append(results, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", name, err)
	}
	return results, nil
}

// Load assembles a bundle from the stored records and the SQL rollups.
func (r *EvaluationRepository) Load(ctx context.Context) (*survey.Bundle, error) {
	records, err := r.LoadRecords(ctx)
	if err != nil {
		return nil, err
	}
	hospital, err := r.HospitalAggregates(ctx)
	if err != nil {
		return nil, err
	}
	divisions, err := r.DivisionAggregates(ctx)
	if err != nil {
		return nil, err
	}

	tables := survey.AggregatedTables{
		Hospital:  survey.NewYearlyTable(),
		Divisions: survey.NewDivisionTable(),
	}
	for _, a := range hospital {
		tables.Hospital.Set(a.Period, toScoreRow(a))
	}
	for _, a := range divisions {
		tables.Divisions.Set(a.Division, a.Period, toScoreRow(a))
	}
	return &survey.Bundle{Records: records, Aggregates: tables}, nil
}

func toScoreRow(a models.PeriodAggregate) survey.ScoreRow {
	return survey.ScoreRow{
		Respect:      a.Respect,
		InfoSharing:  a.InfoSharing,
		Clarity:      a.Clarity,
		Attitude:     a.Attitude,
		Satisfaction: a.Satisfaction,
		Composite:    a.Composite,
		Count:        a.Count,
	}
}
