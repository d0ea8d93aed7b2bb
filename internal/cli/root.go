// Package cli implements the ampcalc command tree. The CLI is a thin
// caller around the sizing pipeline: it parses circuit files, runs the
// validator, invokes the engine, and renders results; the pipeline itself
// stays free of any I/O.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ampcalc/ampcalc/internal/config"
	"github.com/ampcalc/ampcalc/internal/logging"
	"github.com/ampcalc/ampcalc/internal/standards"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the ampcalc CLI.
// It wires up configuration loading, logging, and the subcommand groups
// (size, tables, config).
func NewRootCmd(ver string) *cobra.Command {
	var cfg *config.Config

	cmd := &cobra.Command{
		Use:     "ampcalc",
		Short:   "Electrical sizing calculator",
		Long:    "ampcalc: size circuit breakers per NEC/IEC with derating, voltage-drop, and short-circuit checks",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cfg, err = loadConfig(cmd)
			if err != nil {
				return err
			}
			setupLogging(cmd, cfg)
			return nil
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "config file path (default ~/.ampcalc/config.yaml)")
	cmd.PersistentFlags().String("dataset", "", "standards dataset file (default: embedded dataset)")

	cmd.AddCommand(newSizeCmd(&cfg), newTablesCmd(&cfg), newConfigCmd())
	return cmd
}

// loadConfig resolves and loads the configuration file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		defaultPath, err := config.DefaultPath()
		if err != nil {
			// No resolvable home directory; fall back to defaults.
			return config.Default(), nil
		}
		path = defaultPath
	}
	return config.Load(path)
}

// loadTable returns the standards table from the --dataset flag, the
// configured dataset path, or the embedded default, in that order.
func loadTable(cmd *cobra.Command, cfg *config.Config) (*standards.Table, error) {
	if path, _ := cmd.Flags().GetString("dataset"); path != "" {
		return standards.LoadFile(path)
	}
	if cfg != nil && cfg.Standards.Dataset != "" {
		return standards.LoadFile(cfg.Standards.Dataset)
	}
	return standards.Default()
}

// setupLogging configures logging from config and the --debug flag and
// stores the logger in the command context.
func setupLogging(cmd *cobra.Command, cfg *config.Config) {
	logCfg := logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		logCfg.Level = "debug"
		logCfg.Format = logging.FormatConsole
	}

	root := logging.NewLogger(logCfg)
	logger = logging.ComponentLogger(root, "cli")
	cmd.SetContext(logging.WithContext(cmd.Context(), logger))

	logger.Debug().Str("command", cmd.Name()).Msg("command started")
}

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(newConfigInitCmd(), newConfigValidateCmd())
	return cmd
}

const rootCmdExample = `  # Size a breaker from a circuit description
  ampcalc size breaker -f circuit.yaml

  # Same, as JSON for downstream tooling
  ampcalc size breaker -f circuit.yaml --json

  # Size every circuit in a file, eight at a time
  ampcalc size batch -f circuits.yaml --parallel 8

  # Inspect the standards dataset in use
  ampcalc tables list

  # Write a default config file
  ampcalc config init`

// printError writes a consistent error line to stderr.
func printError(cmd *cobra.Command, err error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
}
