package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"warp/internal/gpu"
	"warp/internal/ir"
)

var demoOutput string

func init() {
	demoCmd.Flags().StringVarP(&demoOutput, "output", "o", "demo.wir", "snapshot path to write")
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Write a sample IR snapshot with an inline launch",
	Long:  "Write a snapshot of a saxpy host function carrying one inline gpu.launch, ready for the outline command.",
	RunE: func(cmd *cobra.Command, args []string) error {
		g := ir.NewGraph()
		root := g.NewModule("demo")
		buildSaxpy(g, root)

		data, err := ir.EncodeModule(g, root)
		if err != nil {
			return err
		}
		if err := os.WriteFile(demoOutput, data, 0o644); err != nil {
			return err
		}
		quiet, _ := cmd.Flags().GetBool("quiet")
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", demoOutput)
		}
		return nil
	},
}

// buildSaxpy assembles y[i] = a*x[i] + y[i] as a host function with one
// inline launch over a single block of 256 threads.
func buildSaxpy(g *ir.Graph, root ir.ModuleID) {
	bt := g.Types.Builtins()
	buf := g.Types.Buffer(bt.F32, 1)

	host := g.NewFunc("saxpy", []ir.TypeID{buf, buf}, nil)
	body := g.NewFuncRegion(host)
	entry := g.NewBlock(body, []ir.TypeID{buf, buf})
	g.AppendFunc(root, host)

	b := ir.NewBuilder(g)
	b.SetInsertionPointStart(entry)

	x := g.Block(entry).Params[0]
	y := g.Block(entry).Params[1]
	one := gpu.NewConstIndex(b, 1)
	threads := gpu.NewConstIndex(b, 256)
	a := gpu.NewConstFloat(b, bt.F32, 2.0)

	_, launchBody := gpu.NewLaunch(b,
		[3]ir.ValueID{one, one, one},
		[3]ir.ValueID{threads, one, one},
		[]ir.ValueID{x, y, a})
	b.Create(ir.OpReturn, nil, nil, 0, nil)

	// Inside the launch body the twelve leading parameters are the index
	// placeholders; thread-id.x is the fourth one.
	params := g.Block(launchBody).Params
	tid := params[3]
	px := params[gpu.NumIndexPlaceholders]
	py := params[gpu.NumIndexPlaceholders+1]
	pa := params[gpu.NumIndexPlaceholders+2]

	kb := ir.NewBuilder(g)
	kb.SetInsertionPointStart(launchBody)
	xv := kb.Create(ir.OpLoad, []ir.ValueID{px, tid}, []ir.TypeID{bt.F32}, 0, nil)
	yv := kb.Create(ir.OpLoad, []ir.ValueID{py, tid}, []ir.TypeID{bt.F32}, 0, nil)
	ax := kb.Create(ir.OpMulF, []ir.ValueID{pa, g.Op(xv).Results[0]}, []ir.TypeID{bt.F32}, 0, nil)
	sum := kb.Create(ir.OpAddF, []ir.ValueID{g.Op(ax).Results[0], g.Op(yv).Results[0]}, []ir.TypeID{bt.F32}, 0, nil)
	kb.Create(ir.OpStore, []ir.ValueID{g.Op(sum).Results[0], py, tid}, nil, 0, nil)
	kb.Create(ir.OpLaunchEnd, nil, nil, 0, nil)
}
