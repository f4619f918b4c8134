package gpu

import (
	"errors"
	"fmt"

	"warp/internal/ir"
)

// VerifyKernels checks the outlining post-conditions on a module tree:
// 1. every kernel-holder module owns exactly one item, a body-bearing
//    kernel-entry function
// 2. every body-bearing kernel-entry function lives in a kernel holder
// 3. no launch ops remain anywhere in root's own functions
func VerifyKernels(g *ir.Graph, root ir.ModuleID) error {
	var errs []error
	var visit func(m ir.ModuleID)
	visit = func(m ir.ModuleID) {
		mod := g.Module(m)
		holder := mod.Attrs.Has(KernelModuleAttrName)
		if holder {
			if len(mod.Items) != 1 {
				errs = append(errs, fmt.Errorf("kernel module owns %d items, want exactly 1", len(mod.Items)))
			}
		}
		for _, it := range mod.Items {
			switch it.Kind {
			case ir.ItemFunc:
				fn := g.Func(it.Func)
				isKernel := fn.Attrs.Has(KernelAttrName)
				switch {
				case holder && (!isKernel || fn.IsDecl()):
					errs = append(errs, fmt.Errorf("kernel module owns %s, which is not a kernel body", fn.Name))
				case !holder && isKernel && !fn.IsDecl():
					errs = append(errs, fmt.Errorf("kernel body %s lives outside a kernel module", fn.Name))
				}
				remaining := g.CollectOps(it.Func, func(o *ir.Op) bool { return o.Kind == ir.OpLaunch })
				if !holder && len(remaining) > 0 {
					errs = append(errs, fmt.Errorf("function %s still contains %d launch ops", fn.Name, len(remaining)))
				}
			case ir.ItemModule:
				visit(it.Module)
			}
		}
	}
	visit(root)
	return errors.Join(errs...)
}
