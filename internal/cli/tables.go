package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ampcalc/ampcalc/internal/config"
	"github.com/ampcalc/ampcalc/internal/standards"
)

// newTablesCmd creates the tables command group for inspecting the
// standards dataset in use.
func newTablesCmd(cfg **config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Inspect the standards dataset",
	}
	cmd.AddCommand(newTablesListCmd(cfg), newTablesShowCmd(cfg))
	return cmd
}

// newTablesListCmd lists dataset contents: coefficients, series, ladders.
func newTablesListCmd(cfg **config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every table in the dataset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := loadTable(cmd, *cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Dataset schema version: %s\n\n", table.SchemaVersion())

			fmt.Fprintln(out, "Coefficients:")
			for _, c := range table.Coefficients() {
				fmt.Fprintf(out, "  %s/%s = %g  (%s)\n", c.Category, c.Key, c.Value, c.Citation)
			}

			fmt.Fprintln(out, "\nBreakpoint series:")
			for _, s := range table.AllSeries() {
				fmt.Fprintf(out, "  %s/%s: %d points  (%s)\n",
					s.Category, s.Standard, len(s.Points), s.Citation)
			}

			fmt.Fprintln(out, "\nSize ladders:")
			for _, l := range table.AllLadders() {
				fmt.Fprintf(out, "  %s/%s: %d sizes, max %g  (%s)\n",
					l.Name, l.Standard, len(l.Sizes), l.Sizes[len(l.Sizes)-1], l.Citation)
			}
			return nil
		},
	}
}

// newTablesShowCmd prints the full contents of the tables for one standard.
func newTablesShowCmd(cfg **config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "show <standard>",
		Short: "Show every table row for a standard (nec or iec)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			std, err := standards.ParseStandard(args[0])
			if err != nil {
				return err
			}
			table, err := loadTable(cmd, *cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			for _, s := range table.AllSeries() {
				if s.Standard != std {
					continue
				}
				fmt.Fprintf(out, "%s (%s)\n", s.Category, s.Citation)
				for _, p := range s.Points {
					fmt.Fprintf(out, "  %8g -> %.3f\n", p.X, p.Factor)
				}
				fmt.Fprintln(out)
			}

			for _, l := range table.AllLadders() {
				if l.Standard != std {
					continue
				}
				sizes := make([]string, len(l.Sizes))
				for i, size := range l.Sizes {
					sizes[i] = fmt.Sprintf("%g", size)
				}
				fmt.Fprintf(out, "%s (%s)\n  %s\n\n", l.Name, l.Citation, strings.Join(sizes, ", "))
			}
			return nil
		},
	}
}
