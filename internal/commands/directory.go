package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/directory"
)

func newDirectoryCommand(opts *rootOptions) *cobra.Command {
	dirCmd := &cobra.Command{
		Use:   "directory",
		Short: "Inspect the counterparty directory",
	}
	dirCmd.AddCommand(newDirectoryListCommand(opts))
	dirCmd.AddCommand(newDirectoryClassifyCommand(opts))
	return dirCmd
}

func newDirectoryListCommand(opts *rootOptions) *cobra.Command {
	var categories bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List counterparties in lookup order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadWorkspace(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if categories {
				for _, c := range ws.dir.Categories() {
					fmt.Fprintln(cmd.OutOrStdout(), c)
				}
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SHORTHAND\tNAME\tCATEGORY")
			for _, e := range ws.dir.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Shorthand, e.Name, e.Category)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&categories, "categories", false, "list only the distinct categories")

	return cmd
}

func newDirectoryClassifyCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <detail text>",
		Short: "Show which counterparty a transaction detail resolves to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadWorkspace(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			key := directory.NormalizeKey(strings.Join(args, " "))
			out := cmd.OutOrStdout()
			if cp, ok := ws.dir.Classify(key); ok {
				fmt.Fprintf(out, "%s -> %s (%s) via %s\n", key, cp.Name, cp.Category, cp.Shorthand)
				return nil
			}
			fmt.Fprintf(out, "%s -> unclassified\n", key)
			return nil
		},
	}
}
