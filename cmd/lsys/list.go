package main

import (
	"fmt"
	"image/color"
	"text/tabwriter"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"lindenmayer.dev/canvas"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available fractals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := termenv.NewOutput(cmd.OutOrStdout())
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tITERATIONS\tSTEPS\tTITLE")
			i := 0
			for f := range a.catalog.All() {
				steps, err := f.Steps(-1)
				if err != nil {
					return err
				}
				hex := hexColor(canvas.Hue(float64(i) / float64(a.catalog.Len())))
				name := out.String(f.Name()).Foreground(out.Color(hex)).Bold()
				fmt.Fprintf(tw, "%s\t%d\t%v\t%s\n", name, f.Iterations(), steps, f.Title())
				i++
			}
			return tw.Flush()
		},
	}
}

func hexColor(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}
