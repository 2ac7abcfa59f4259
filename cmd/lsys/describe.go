package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

func newDescribeCmd(a *app) *cobra.Command {
	var depth int
	cmd := &cobra.Command{
		Use:   "describe NAME",
		Short: "Describe the grammar and transition matrix of a fractal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.lookup(args)
			if err != nil {
				return err
			}
			desc, err := f.Describe(depth)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if isTerminal(out) {
				r, err := glamour.NewTermRenderer(
					glamour.WithAutoStyle(),
					glamour.WithWordWrap(100),
				)
				if err != nil {
					return err
				}
				if desc, err = r.Render(desc); err != nil {
					return err
				}
			}
			_, err = fmt.Fprint(out, desc)
			return err
		},
	}
	cmd.Flags().IntVarP(&depth, "depth", "d", -1, "Depth of the step count (default iterations if negative)")
	return cmd
}
