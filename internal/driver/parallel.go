package driver

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"warp/internal/gpu"
	"warp/internal/ir"
)

// ValidateModule checks every function of the module tree plus the kernel
// post-conditions. Per-function validation is read-only, so functions are
// checked concurrently.
func ValidateModule(ctx context.Context, g *ir.Graph, root ir.ModuleID) error {
	funcs := collectFuncs(g, root, nil)

	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.NumCPU())
	for _, f := range funcs {
		eg.Go(func() error {
			if err := ir.ValidateFunc(g, f); err != nil {
				return fmt.Errorf("function %s: %w", g.Func(f).Name, err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	if err := ir.ValidateSymbols(g, root); err != nil {
		return err
	}
	return gpu.VerifyKernels(g, root)
}

func collectFuncs(g *ir.Graph, m ir.ModuleID, out []ir.FuncID) []ir.FuncID {
	mod := g.Module(m)
	if mod == nil {
		return out
	}
	for _, it := range mod.Items {
		switch it.Kind {
		case ir.ItemFunc:
			out = append(out, it.Func)
		case ir.ItemModule:
			out = collectFuncs(g, it.Module, out)
		}
	}
	return out
}
