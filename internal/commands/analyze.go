package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/aggregate"
	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/report"
	"github.com/cleared-dev/tally/internal/source"
)

func newAnalyzeCommand(opts *rootOptions) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "analyze <statement>",
		Short: "Analyze one statement (.pdf or .txt) and print its summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadWorkspace(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runAnalyze(cmd.Context(), ws, args[0], outDir, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "write records.csv, summary.txt and budget.txt to this directory")

	return cmd
}

func runAnalyze(ctx context.Context, ws *workspace, path, outDir string, out io.Writer) error {
	agg, err := ws.aggregator()
	if err != nil {
		return err
	}

	src, err := source.DefaultRegistry().Open(path)
	if err != nil {
		return err
	}

	res, err := agg.Run(ctx, src)
	if err != nil {
		return fmt.Errorf("analyzing %s: %w", filepath.Base(path), err)
	}
	warnInvariants(ws, res)

	fmt.Fprintf(out, "%s: %d records", filepath.Base(path), len(res.Records))
	if res.StoppedEarly {
		fmt.Fprintf(out, " (stopped at closing totals on page %d)", res.PagesScanned)
	}
	fmt.Fprintln(out)
	if err := report.WriteSummary(out, res.Period, res.Summary); err != nil {
		return err
	}
	if len(ws.cfg.Budget) > 0 {
		fmt.Fprintln(out)
		if err := report.WriteBudget(out, report.Budget(ws.cfg.Allocations(), res.Summary)); err != nil {
			return err
		}
	}

	if outDir == "" {
		return nil
	}
	if err := writeReports(outDir, ws.cfg, res); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nReports written to %s\n", outDir)
	return nil
}

// warnInvariants logs any disagreement between records and totals.
func warnInvariants(ws *workspace, res *aggregate.Result) {
	for _, e := range aggregate.Check(res.Records, res.Summary) {
		ws.log.Warn().Str("check", e.Check).Msg(e.Description)
	}
}

// writeReports writes the report files for one run into dir.
func writeReports(dir string, cfg *config.Config, res *aggregate.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating report dir: %w", err)
	}

	if err := writeFile(filepath.Join(dir, "records.csv"), func(w io.Writer) error {
		return report.WriteRecords(w, res.Records)
	}); err != nil {
		return err
	}

	if err := writeFile(filepath.Join(dir, "summary.txt"), func(w io.Writer) error {
		return report.WriteSummary(w, res.Period, res.Summary)
	}); err != nil {
		return err
	}

	if len(cfg.Budget) == 0 {
		return nil
	}
	return writeFile(filepath.Join(dir, "budget.txt"), func(w io.Writer) error {
		return report.WriteBudget(w, report.Budget(cfg.Allocations(), res.Summary))
	})
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// reportDirName is the per-statement folder under reports/.
func reportDirName(fileName string) string {
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}
