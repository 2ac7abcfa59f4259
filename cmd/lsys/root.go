package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"lindenmayer.dev/fractal"
	"lindenmayer.dev/internal/config"
	"lindenmayer.dev/internal/logging"
)

// app is the state shared by the commands.
type app struct {
	cfg     config.Config
	log     *slog.Logger
	catalog *fractal.Catalog
}

func newRootCmd() *cobra.Command {
	a := &app{catalog: fractal.Standard()}
	var configFile, logLevel, logFormat string
	rootCmd := &cobra.Command{
		Use:          "lsys",
		Short:        "lsys draws Lindenmayer system fractals",
		Long:         `lsys expands L-system grammars lazily and draws them with a turtle, predicting the number of drawing steps in advance.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile, nil)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.Log.Format = logFormat
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			level, err := logging.ParseLevel(cfg.Log.Level)
			if err != nil {
				return err
			}
			log, err := logging.NewWriter(cmd.ErrOrStderr(), level, cfg.Log.Format)
			if err != nil {
				return err
			}
			a.cfg, a.log = cfg, log
			return nil
		},
	}

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML configuration file (default $"+config.EnvFile+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(
		newListCmd(a),
		newDescribeCmd(a),
		newProjectCmd(a),
		newRenderCmd(a),
		newPlotCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// lookup resolves the fractal named by the first argument.
func (a *app) lookup(args []string) (*fractal.Fractal, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("expected a fractal name, one of %v", a.catalog.Names())
	}
	return a.catalog.Lookup(args[0])
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
