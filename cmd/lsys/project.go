package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newProjectCmd(a *app) *cobra.Command {
	var (
		depth       int
		approximate bool
	)
	cmd := &cobra.Command{
		Use:   "project NAME",
		Short: "Project the number of drawing steps of a fractal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.lookup(args)
			if err != nil {
				return err
			}
			depth = f.Depth(depth)
			p := f.Projector()
			out := cmd.OutOrStdout()
			if approximate {
				steps, err := p.Approximate(depth)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s at depth %d: about %.6g steps\n", f.Name(), depth, steps)
				return nil
			}
			steps, err := p.Steps(depth)
			if err != nil {
				return err
			}
			counts, err := p.Counts(depth)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s at depth %d: %v steps\n", f.Name(), depth, steps)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SYMBOL\tSTEPS\tCOUNT")
			stepping := p.Stepping()
			for i, s := range p.Symbols() {
				fmt.Fprintf(tw, "%q\t%t\t%v\n", s, stepping[i], counts[i])
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&depth, "depth", "d", -1, "Number of rewrites (default iterations if negative)")
	cmd.Flags().BoolVar(&approximate, "float", false, "Project in floating point")
	return cmd
}
