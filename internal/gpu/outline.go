package gpu

import (
	"warp/internal/ir"
)

// PassName is the registry name of the outlining pass.
const PassName = "gpu-outline-kernels"

// OutlineKernel moves the body of a launch op into a brand-new kernel
// function named after the host. The launch region is detached and
// reattached, never copied; launch-body terminators become ordinary
// returns. The launch op itself is left in place for the call-site rewrite.
func OutlineKernel(g *ir.Graph, launch ir.OpID, hostName string) ir.FuncID {
	paramTypes := make([]ir.TypeID, 0, len(KernelOperands(g, launch)))
	for _, v := range KernelOperands(g, launch) {
		paramTypes = append(paramTypes, g.Value(v).Type)
	}
	kernel := g.NewFunc(hostName+KernelOutlineSuffix, paramTypes, nil)
	body := g.NewFuncRegion(kernel)
	g.TakeBody(body, g.Op(launch).Regions[0])
	g.Func(kernel).Attrs[KernelAttrName] = ir.UnitAttr()

	terms := g.CollectOps(kernel, func(o *ir.Op) bool { return o.Kind == ir.OpLaunchEnd })
	b := ir.NewBuilder(g)
	for _, t := range terms {
		b.SetInsertionPointBefore(t)
		b.Create(ir.OpReturn, nil, nil, 0, nil)
		g.EraseOp(t)
	}
	return kernel
}

// ConvertToLaunchFunc replaces a launch op with a launch_func calling
// kernel, carrying the launch configuration and live-in operands, with
// constant arguments hoisted into the kernel. The launch op is erased.
func ConvertToLaunchFunc(g *ir.Graph, launch ir.OpID, kernel ir.FuncID) ir.OpID {
	b := ir.NewBuilder(g)
	b.SetInsertionPointBefore(launch)
	args := append([]ir.ValueID(nil), KernelOperands(g, launch)...)
	call := NewLaunchFunc(b, kernel, GridSize(g, launch), BlockSize(g, launch), args)
	call = HoistConstants(g, call, kernel)
	g.EraseOp(launch)
	return call
}

// OutlineModule outlines every launch op of every function in root.
//
// Per host function, the launch ops are snapshotted up front so mutation
// cannot disturb the visit. Each launch is rewritten atomically: the body
// is extracted, index ops injected, the declaration inserted after the host
// (renamed on symbol collision), the call site rewritten, and the body
// moved into a fresh nested module tagged as a kernel holder. Kernel
// modules are meant to be compiled to device code independently by a later
// pass; the declarations left in root keep call sites resolvable.
//
// A module with no launch ops is left untouched, so running the pass twice
// is a no-op.
func OutlineModule(g *ir.Graph, root ir.ModuleID) error {
	// TODO: handle functions and globals referenced from the launch body.
	for _, h := range g.Funcs(root) {
		host := g.Func(h)
		if host.IsDecl() {
			continue
		}
		hostName := host.Name
		// Insert just after the host function.
		at := g.ItemIndex(root, h) + 1
		launches := g.CollectOps(h, func(o *ir.Op) bool { return o.Kind == ir.OpLaunch })
		for _, launch := range launches {
			kernel := OutlineKernel(g, launch, hostName)
			InjectIndexOps(g, kernel)

			// Potentially changes the signature, pulling in constants.
			call := ConvertToLaunchFunc(g, launch, kernel)

			// Insert a declaration after the host, renamed on symbol
			// collision, and re-resolve the call binding to it.
			decl := g.CloneFuncDecl(kernel)
			g.InsertFunc(root, at, decl)
			g.Op(call).Callee = decl

			// Move the body into a headless clone of the (final) declaration
			// and park it in a fresh kernel module.
			bodyFn := g.CloneFuncDecl(decl)
			g.MoveFuncBody(bodyFn, kernel)

			holder := g.NewModule("")
			g.Module(holder).Attrs[KernelModuleAttrName] = ir.UnitAttr()
			g.AppendFunc(holder, bodyFn)
			g.InsertModule(root, at+1, holder)
			at += 2
		}
	}
	return nil
}
