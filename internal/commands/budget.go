package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/aggregate"
	"github.com/cleared-dev/tally/internal/report"
)

func newBudgetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "budget <records.csv>",
		Short: "Compare a saved records.csv against the configured budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadWorkspace(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening records: %w", err)
			}
			defer f.Close()

			records, err := report.ReadRecords(f)
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(args[0]), err)
			}

			sum := aggregate.Totals(records)
			return report.WriteBudget(cmd.OutOrStdout(), report.Budget(ws.cfg.Allocations(), sum))
		},
	}
}
