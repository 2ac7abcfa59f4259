package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"lindenmayer.dev/fractal"
	"lindenmayer.dev/render"
)

type renderFlags struct {
	output string
	format string
	depth  int
	width  int
	stroke float64
	fit    bool
	cols   int
}

func newRenderCmd(a *app) *cobra.Command {
	var fl renderFlags
	cmd := &cobra.Command{
		Use:   "render NAME",
		Short: "Render a fractal to an image",
		Long: `Render draws a fractal as PNG, SVG, CBOR segments, HPGL or a terminal preview.
The format defaults to the extension of the output file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.lookup(args)
			if err != nil {
				return err
			}
			rc := a.cfg.Render
			if cmd.Flags().Changed("width") {
				rc.Width = fl.width
			}
			if cmd.Flags().Changed("stroke") {
				rc.StrokeWidth = fl.stroke
			}
			if cmd.Flags().Changed("fit") {
				rc.Fit = fl.fit
			}
			name := fl.format
			if name == "" {
				name = strings.TrimPrefix(filepath.Ext(fl.output), ".")
			}
			if name == "" {
				name = rc.Format
			}
			format, err := render.ParseFormat(name)
			if err != nil {
				return err
			}
			if rc.Width <= 0 {
				return fmt.Errorf("invalid width %d", rc.Width)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			var out io.Writer = cmd.OutOrStdout()
			var file *os.File
			if fl.output != "" && fl.output != "-" {
				if file, err = os.Create(fl.output); err != nil {
					return err
				}
				out = file
			}
			opts := render.Options{
				Options: fractal.Options{
					Depth:       fl.depth,
					Width:       float64(rc.Width),
					StrokeWidth: rc.StrokeWidth,
					Fit:         rc.Fit,
					Margin:      rc.Margin,
					Logger:      a.log,
				},
				Cols:    fl.cols,
				Profile: termenv.NewOutput(out).Profile,
				Plotter: a.plotterOptions(),
			}
			res, err := render.Render(ctx, out, f, format, opts)
			if file != nil {
				if cerr := file.Close(); err == nil {
					err = cerr
				}
				if err != nil {
					os.Remove(fl.output)
				}
			}
			if err != nil {
				if errors.Is(err, context.Canceled) {
					a.log.Warn("rendering interrupted", "fractal", f.Name(), "steps", res.Steps)
				}
				return err
			}
			a.log.Info("rendered fractal", "fractal", f.Name(), "format", format,
				"depth", res.Depth, "steps", res.Steps, "output", fl.output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&fl.output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVarP(&fl.format, "format", "f", "", "Output format (png, svg, cbor, term, hpgl)")
	cmd.Flags().IntVarP(&fl.depth, "depth", "d", -1, "Number of rewrites (default iterations if negative)")
	cmd.Flags().IntVarP(&fl.width, "width", "w", 0, "Width and height of the drawing")
	cmd.Flags().Float64Var(&fl.stroke, "stroke", 0, "Stroke width (derived from the fractal size if zero)")
	cmd.Flags().BoolVar(&fl.fit, "fit", false, "Measure the drawing and scale it to fill the image")
	cmd.Flags().IntVar(&fl.cols, "cols", 80, "Columns of terminal previews")
	return cmd
}
