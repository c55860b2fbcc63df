package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/godilite/collab-dashboard/internal/app"
	"github.com/godilite/collab-dashboard/internal/config"
	"github.com/godilite/collab-dashboard/internal/loader"
	"github.com/godilite/collab-dashboard/internal/service"
	"github.com/godilite/collab-dashboard/internal/survey"
)

type reportFlags struct {
	source     string
	path       string
	year       string
	division   string
	department string
	unit       string
	sentiment  []string
	asJSON     bool
}

func newReportCmd(g *globalFlags) *cobra.Command {
	f := &reportFlags{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the overview and division comparison for a filter selection",
		Long: `Report loads a dataset, applies the filters and prints the hospital
score cards, the division table and any composite-score inconsistencies.

  dashctl report --source sqlite --path ./data/dashboard.db --year 2024년
  dashctl report --division 간호부문 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, g, f)
		},
	}
	cmd.Flags().StringVar(&f.source, "source", config.SourceSample, "dataset source: sample, json, xlsx or sqlite")
	cmd.Flags().StringVar(&f.path, "path", "", "dataset file or database path")
	cmd.Flags().StringVar(&f.year, "year", survey.All, "period filter")
	cmd.Flags().StringVar(&f.division, "division", survey.All, "division filter")
	cmd.Flags().StringVar(&f.department, "department", survey.All, "department filter")
	cmd.Flags().StringVar(&f.unit, "unit", survey.All, "unit filter")
	cmd.Flags().StringSliceVar(&f.sentiment, "sentiment", nil, "sentiment filter (repeatable)")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "print the snapshot as JSON")
	return cmd
}

func runReport(cmd *cobra.Command, g *globalFlags, f *reportFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := g.logger()

	cfg := &config.Config{
		DataSource: f.source,
		DataPath:   f.path,
		DBPath:     f.path,
		DBDriver:   "sqlite3",
		PeriodMode: loader.PeriodIntegrated,
		SplitYear:  2025,
	}
	source, db, err := app.NewSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	svc := service.NewDashboardService(source, logger)
	if err := svc.Load(ctx); err != nil {
		return err
	}

	sentiment, err := survey.NewSentimentSelection(f.sentiment...)
	if err != nil {
		return err
	}
	filters := survey.DefaultFilters()
	filters.Year = f.year
	filters.Division = f.division
	filters.Department = f.department
	filters.Unit = f.unit
	filters.Sentiment = sentiment

	snap, err := svc.Snapshot(ctx, filters.Normalize(), survey.AllSentiments())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if f.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	bundle, _ := svc.Bundle()
	printSnapshot(out, snap, service.ConsistencyReport(bundle.Aggregates, service.DefaultConsistencyTolerance))
	return nil
}

func printSnapshot(w io.Writer, snap service.Snapshot, inconsistencies []service.Inconsistency) {
	bold := color.New(color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(w, "%s  filters: %s\n\n", bold("Hospital overview"), snap.Filters.Key())
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tVALUE\tRESPONSES")
	for _, c := range snap.Overview.Cards {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Label, c.ValueDisplay, c.CountDisplay)
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "\n%s  division: %s  year: %s\n\n", bold("Division comparison"), snap.Divisions.Division, snap.Divisions.Year)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := "ROW"
	for _, d := range survey.Dimensions {
		header += "\t" + d.Label()
	}
	fmt.Fprintln(tw, header+"\tN")
	for _, r := range snap.Divisions.Rows {
		line := r.Label
		for _, d := range survey.Dimensions {
			line += fmt.Sprintf("\t%.2f", r.Scores.Value(d))
		}
		fmt.Fprintf(tw, "%s\t%d\n", line, r.Scores.Count)
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "\n%s %d\n", bold("Reviews:"), len(snap.Reviews.Reviews))
	if len(inconsistencies) > 0 {
		fmt.Fprintf(w, "%s\n", yellow(fmt.Sprintf("%d rollups whose composite differs from the sub-score mean", len(inconsistencies))))
		for _, inc := range inconsistencies {
			fmt.Fprintf(w, "  %s %s: composite %.2f, sub-score mean %.2f\n", inc.Scope, inc.Period, inc.Composite, inc.SubScoreMean)
		}
	}
}
