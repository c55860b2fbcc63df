package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/godilite/collab-dashboard/internal/loader"
	"github.com/godilite/collab-dashboard/internal/repository"
	"github.com/godilite/collab-dashboard/internal/survey"
	dbbuilder "github.com/godilite/collab-dashboard/pkg/database"
)

type importFlags struct {
	dbPath     string
	sheet      string
	periodMode string
	splitYear  int
	sample     bool
	appendRows bool
}

func newImportCmd(g *globalFlags) *cobra.Command {
	f := &importFlags{}
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Load an export workbook or bundle file into the SQLite store",
		Long: `Import reads a survey export (.xlsx) or a bundle document (.json),
cleans the rows the same way the server does, and writes them to the SQLite
store. Existing rows are replaced unless --append is given.

  dashctl import survey.xlsx --db ./data/dashboard.db --period-mode split
  dashctl import --sample --db ./data/dashboard.db`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, g, f, args)
		},
	}
	cmd.Flags().StringVar(&f.dbPath, "db", "./data/dashboard.db", "SQLite database path")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "worksheet name (default: first sheet)")
	cmd.Flags().StringVar(&f.periodMode, "period-mode", string(loader.PeriodIntegrated), "period labels: integrated or split")
	cmd.Flags().IntVar(&f.splitYear, "split-year", 2025, "year labelled by half in split mode")
	cmd.Flags().BoolVar(&f.sample, "sample", false, "import the built-in sample dataset")
	cmd.Flags().BoolVar(&f.appendRows, "append", false, "append instead of replacing stored rows")
	return cmd
}

func runImport(cmd *cobra.Command, g *globalFlags, f *importFlags, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if f.sample == (len(args) == 1) {
		return fmt.Errorf("give exactly one of a file argument or --sample")
	}

	records, report, err := readRecords(ctx, g, f, args)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no records left after cleaning")
	}

	db, err := dbbuilder.Open(ctx, append(dbbuilder.SQLiteDefaults(), dbbuilder.WithDataSource(f.dbPath))...)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repository.NewEvaluationRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}
	if f.appendRows {
		err = repo.InsertRecords(ctx, records)
	} else {
		err = repo.ReplaceRecords(ctx, records)
	}
	if err != nil {
		return err
	}

	printImportReport(cmd.OutOrStdout(), f.dbPath, len(records), report)
	return nil
}

func readRecords(ctx context.Context, g *globalFlags, f *importFlags, args []string) ([]survey.EvaluationRecord, *loader.CleanReport, error) {
	if f.sample {
		b, err := loader.NewSampleSource().Load(ctx)
		if err != nil {
			return nil, nil, err
		}
		return b.Records, nil, nil
	}

	path := args[0]
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		mode, err := loader.ParsePeriodMode(f.periodMode)
		if err != nil {
			return nil, nil, err
		}
		opts := loader.DefaultXLSXOptions()
		opts.Sheet = f.sheet
		opts.PeriodMode = mode
		opts.SplitYear = f.splitYear
		records, report, err := loader.NewXLSXSource(path, g.logger(), opts).Records(ctx)
		if err != nil {
			return nil, nil, err
		}
		return records, &report, nil
	case ".json":
		b, err := loader.NewJSONSource(path).Load(ctx)
		if err != nil {
			return nil, nil, err
		}
		return b.Records, nil, nil
	}
	return nil, nil, fmt.Errorf("unsupported file type %q (want .xlsx or .json)", filepath.Ext(path))
}

func printImportReport(w io.Writer, dbPath string, stored int, report *loader.CleanReport) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(w, "%s %d records into %s\n", green("imported"), stored, dbPath)
	if report == nil {
		return
	}
	dropped := report.Input - report.Kept
	fmt.Fprintf(w, "  rows read:           %d\n", report.Input)
	fmt.Fprintf(w, "  dropped:             %s\n", countColor(dropped, yellow))
	fmt.Fprintf(w, "    excluded division:   %d\n", report.ExcludedDivision)
	fmt.Fprintf(w, "    excluded department: %d\n", report.ExcludedDepartment)
	fmt.Fprintf(w, "    missing composite:   %d\n", report.MissingComposite)
	fmt.Fprintf(w, "    out of range:        %d\n", report.OutOfRange)
	fmt.Fprintf(w, "  defaulted sentiment: %s\n", countColor(report.DefaultedSentiment, yellow))
}

func countColor(n int, warn func(a ...interface{}) string) string {
	if n == 0 {
		return "0"
	}
	return warn(n)
}
