package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/runlog"
)

func newRunsCommand(opts *rootOptions) *cobra.Command {
	var failedOnly bool

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show the batch run log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := runlog.Read(opts.repo)
			if err != nil {
				return err
			}
			return writeRuns(cmd.OutOrStdout(), entries, failedOnly)
		},
	}

	cmd.Flags().BoolVar(&failedOnly, "failed", false, "show only failed runs")

	return cmd
}

func writeRuns(out io.Writer, entries []runlog.Entry, failedOnly bool) error {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tSTATUS\tSOURCE\tRECORDS\tTOTAL\tERROR")
	for _, e := range entries {
		if failedOnly && e.Status != runlog.StatusFailed {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			e.Timestamp.Local().Format(time.DateTime), e.Status, e.Source,
			e.Records, e.ExpenseTotal.StringFixed(2), e.Error)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%s\n", runlog.Summarize(entries))
	return nil
}
