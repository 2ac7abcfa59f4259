package main

import (
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"lindenmayer.dev/fractal"
	"lindenmayer.dev/plotter"
	"lindenmayer.dev/render"
)

func (a *app) plotterOptions() plotter.Options {
	return plotter.Options{
		Size: a.cfg.Plotter.Size,
		Pens: a.cfg.Plotter.Pens,
	}
}

func newPlotCmd(a *app) *cobra.Command {
	var (
		device string
		depth  int
		dryRun bool
		stdout bool
	)
	cmd := &cobra.Command{
		Use:   "plot NAME",
		Short: "Plot a fractal on an HPGL pen plotter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.lookup(args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("device") {
				device = a.cfg.Plotter.Device
			}
			var out io.Writer = cmd.OutOrStdout()
			if !stdout {
				dev, err := plotter.Open(device)
				if err != nil {
					return err
				}
				defer dev.Close()
				out = dev
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			po := a.plotterOptions()
			po.DryRun = dryRun
			opts := render.Options{
				Options: fractal.Options{
					Depth:  depth,
					Width:  1,
					Fit:    true,
					Margin: a.cfg.Render.Margin,
					Logger: a.log,
				},
				Plotter: po,
			}
			res, err := render.Render(ctx, out, f, render.HPGL, opts)
			if err != nil {
				return err
			}
			a.log.Info("plotted fractal", "fractal", f.Name(), "depth", res.Depth,
				"steps", res.Steps, "dry_run", dryRun)
			return nil
		},
	}
	cmd.Flags().StringVar(&device, "device", "", "Serial device of the plotter (default the platform ports)")
	cmd.Flags().IntVarP(&depth, "depth", "d", -1, "Number of rewrites (default iterations if negative)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Move the pen without lowering it")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Write the HPGL commands to stdout instead of a device")
	return cmd
}
