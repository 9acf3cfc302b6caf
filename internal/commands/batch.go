package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/logger"
	"github.com/cleared-dev/tally/internal/runlog"
	"github.com/cleared-dev/tally/internal/source"
)

func newBatchCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Analyze every statement in import/",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadWorkspace(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runBatch(cmd.Context(), ws, cmd.OutOrStdout())
		},
	}
	return cmd
}

// runBatch analyzes each statement independently. A failing statement is
// recorded in the run log and left in import/; the others still complete.
func runBatch(ctx context.Context, ws *workspace, out io.Writer) error {
	agg, err := ws.aggregator()
	if err != nil {
		return err
	}

	reg := source.DefaultRegistry()
	files, err := reg.Scan(ws.root)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "No statements to import.")
		return nil
	}

	var entries []runlog.Entry
	for _, f := range files {
		entry := runlog.NewEntry(f.Name, time.Now())
		log := ws.log.With().Str("source", f.Name).Str("run_id", entry.RunID.String()).Logger()

		err := func() error {
			src, err := reg.Open(f.Path)
			if err != nil {
				return err
			}
			res, err := agg.Run(logger.WithContext(ctx, log), src)
			if err != nil {
				return err
			}
			warnInvariants(ws, res)

			reportDir := filepath.Join(ws.root, "reports", reportDirName(f.Name))
			if err := writeReports(reportDir, ws.cfg, res); err != nil {
				return err
			}
			if err := source.MarkProcessed(ws.root, f.Name); err != nil {
				// The statement stays in import/ and will be retried, so its
				// reports must not outlive the failed run.
				if rmErr := os.RemoveAll(reportDir); rmErr != nil {
					log.Warn().Err(rmErr).Str("dir", reportDir).Msg("removing reports of failed run")
				}
				return err
			}
			entry.Records = len(res.Records)
			entry.ExpenseTotal = res.Summary.ExpenseTotal
			return nil
		}()

		if err != nil {
			entry.Status = runlog.StatusFailed
			entry.Error = err.Error()
			log.Error().Err(err).Msg("statement failed")
			fmt.Fprintf(out, "FAILED %s: %v\n", f.Name, err)
		} else {
			entry.Status = runlog.StatusOK
			fmt.Fprintf(out, "ok     %s: %d records, %s\n", f.Name, entry.Records, entry.ExpenseTotal.StringFixed(2))
		}
		entries = append(entries, entry)
	}

	if err := runlog.Append(ws.root, entries); err != nil {
		return fmt.Errorf("writing run log: %w", err)
	}

	fmt.Fprintf(out, "\n%s\n", runlog.Summarize(entries))
	return nil
}
