package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"warp/internal/gpu"
	"warp/internal/ir"
	"warp/internal/layout"
)

var dumpShowLayout bool

func init() {
	dumpCmd.Flags().BoolVar(&dumpShowLayout, "layout", false, "also print device argument layouts of kernel functions")
}

var dumpCmd = &cobra.Command{
	Use:   "dump <snapshot.wir>",
	Short: "Print an IR snapshot in textual form",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		g, root, err := ir.DecodeModule(data)
		if err != nil {
			return err
		}
		if err := ir.DumpModule(cmd.OutOrStdout(), g, root, ir.DumpOptions{}); err != nil {
			return err
		}
		if dumpShowLayout {
			return dumpKernelLayouts(cmd.OutOrStdout(), g, root)
		}
		return nil
	},
	Args: cobra.ExactArgs(1),
}

// dumpKernelLayouts prints the device ABI layout of every kernel
// function's argument list.
func dumpKernelLayouts(w io.Writer, g *ir.Graph, root ir.ModuleID) error {
	eng := layout.New(layout.Device64(), g.Types)
	var visit func(m ir.ModuleID) error
	visit = func(m ir.ModuleID) error {
		for _, it := range g.Module(m).Items {
			switch it.Kind {
			case ir.ItemFunc:
				fn := g.Func(it.Func)
				if !fn.Attrs.Has(gpu.KernelAttrName) {
					continue
				}
				fmt.Fprintf(w, "// kernel @%s (%s)\n", fn.Name, eng.Target.Name)
				for i, p := range fn.Params {
					l, err := eng.Of(p)
					if err != nil {
						return fmt.Errorf("kernel %s argument %d: %w", fn.Name, i, err)
					}
					fmt.Fprintf(w, "//   arg %d: %s size=%d align=%d\n", i, g.Types.String(p), l.Size, l.Align)
				}
			case ir.ItemModule:
				if err := visit(it.Module); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return visit(root)
}
