package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ampcalc/ampcalc/internal/circuit"
	"github.com/ampcalc/ampcalc/internal/config"
	"github.com/ampcalc/ampcalc/internal/engine"
	"github.com/ampcalc/ampcalc/internal/engine/batch"
	"github.com/ampcalc/ampcalc/internal/engine/cache"
	"github.com/ampcalc/ampcalc/internal/ingest"
	"github.com/ampcalc/ampcalc/internal/validate"
)

// newSizeCmd creates the size command group.
func newSizeCmd(cfg **config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "size",
		Short: "Sizing calculation commands",
	}
	cmd.AddCommand(newSizeBreakerCmd(cfg), newSizeBatchCmd(cfg))
	return cmd
}

// newSizeBreakerCmd creates the single-circuit breaker sizing command.
func newSizeBreakerCmd(cfg **config.Config) *cobra.Command {
	var file string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "breaker",
		Short: "Size a circuit breaker for one circuit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			inputs, err := ingest.ParseFile(file)
			if err != nil {
				return err
			}
			if len(inputs) != 1 {
				return fmt.Errorf("%s defines %d circuits; use 'size batch' for multiple circuits",
					file, len(inputs))
			}
			in := inputs[0]

			validation := validate.Validate(in)
			if !validation.Valid() {
				renderFieldErrors(cmd.ErrOrStderr(), validation.Errors)
				return fmt.Errorf("input failed validation with %d error(s)", len(validation.Errors))
			}

			calc, err := newCalculator(cmd, *cfg)
			if err != nil {
				return err
			}

			result, err := calc.Calculate(cmd.Context(), in)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, result)
			}
			renderResult(cmd.OutOrStdout(), result, isWriterTerminal(cmd.OutOrStdout()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "circuit description file (YAML)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the result as JSON")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// newSizeBatchCmd creates the multi-circuit sizing command.
func newSizeBatchCmd(cfg **config.Config) *cobra.Command {
	var file string
	var asJSON bool
	var parallel int

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Size breakers for every circuit in a file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			inputs, err := ingest.ParseFile(file)
			if err != nil {
				return err
			}

			// Hard gate: every circuit must validate before any runs.
			invalid := 0
			for i, in := range inputs {
				validation := validate.Validate(in)
				if !validation.Valid() {
					invalid++
					fmt.Fprintf(cmd.ErrOrStderr(), "circuit %s:\n", circuitLabel(in, i))
					renderFieldErrors(cmd.ErrOrStderr(), validation.Errors)
				}
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d circuits failed validation", invalid, len(inputs))
			}

			calc, err := newCalculator(cmd, *cfg)
			if err != nil {
				return err
			}

			runner, err := batch.NewRunner(calc, batch.WithParallelism(parallel))
			if err != nil {
				return err
			}

			items, err := runner.Run(cmd.Context(), inputs)
			if err != nil {
				return err
			}

			if asJSON {
				results := make([]*engine.Result, 0, len(items))
				for _, item := range items {
					results = append(results, item.Result)
				}
				return writeJSON(cmd, results)
			}

			tty := isWriterTerminal(cmd.OutOrStdout())
			for i, item := range items {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				if item.Err != nil {
					printError(cmd, fmt.Errorf("circuit %s: %w", circuitLabel(inputs[i], i), item.Err))
					continue
				}
				renderResult(cmd.OutOrStdout(), item.Result, tty)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "circuits description file (YAML)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit results as JSON")
	cmd.Flags().IntVar(&parallel, "parallel", batch.DefaultParallelism, "maximum concurrent calculations")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// newCalculator builds the engine, wrapped in the memoizing cache when the
// config enables it.
func newCalculator(cmd *cobra.Command, cfg *config.Config) (cache.Calculator, error) {
	table, err := loadTable(cmd, cfg)
	if err != nil {
		return nil, err
	}
	eng, err := engine.New(table)
	if err != nil {
		return nil, err
	}
	if cfg != nil && cfg.Cache.Enabled {
		return cache.New(eng, cfg.Cache.MaxEntries)
	}
	return eng, nil
}

// circuitLabel returns the circuit name or its 1-based position.
func circuitLabel(in *circuit.Input, index int) string {
	if in != nil && in.Name != "" {
		return in.Name
	}
	return fmt.Sprintf("#%d", index+1)
}

// writeJSON renders v as indented JSON on stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
