// Command wheelcalc evaluates wheel calculation requests from files and
// serves the calculation API.
package main

import (
	"fmt"
	"os"

	"Wheelcalc/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type app struct {
	verbose  bool
	logLevel string
	log      *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "wheelcalc",
		Short: "Bicycle wheel stiffness, tension and buckling calculator",
		Long: `wheelcalc evaluates the modal stiffness model of a spoked bicycle wheel.

Requests use the same JSON layout as POST /api/calculate and may also be
written in YAML. Run "wheelcalc serve" to start the HTTP API.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := a.logLevel
			if a.verbose {
				level = "debug"
			}
			log, err := logging.New(level)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(
		a.calcCmd(),
		a.reportCmd(),
		a.importCmd(),
		a.tokenCmd(),
		a.serveCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
