package gpu_test

import (
	"strings"
	"testing"

	"warp/internal/gpu"
	"warp/internal/ir"
)

// hostFixture is a module with one host function carrying zero or more
// inline launches. Every launch computes (thread-id.x + n) * c where n is
// the host parameter and c is a host-side constant, so outlining has one
// live-in to keep and one constant to hoist.
type hostFixture struct {
	g    *ir.Graph
	root ir.ModuleID
	host ir.FuncID
	n    ir.ValueID // host parameter, stays a kernel argument
	c    ir.ValueID // host constant, gets hoisted
}

func buildHost(t *testing.T, numLaunches int) *hostFixture {
	t.Helper()
	g := ir.NewGraph()
	root := g.NewModule("test")
	index := g.Types.Builtins().Index

	host := g.NewFunc("main", []ir.TypeID{index}, nil)
	region := g.NewFuncRegion(host)
	entry := g.NewBlock(region, []ir.TypeID{index})
	g.AppendFunc(root, host)

	n := g.Block(entry).Params[0]
	b := ir.NewBuilder(g)
	b.SetInsertionPointStart(entry)
	one := gpu.NewConstIndex(b, 1)
	c := gpu.NewConstIndex(b, 42)

	for range numLaunches {
		_, body := gpu.NewLaunch(b,
			[3]ir.ValueID{one, one, one},
			[3]ir.ValueID{one, one, one},
			[]ir.ValueID{n, c})

		params := g.Block(body).Params
		tid := params[3] // thread-id.x placeholder
		pn := params[gpu.NumIndexPlaceholders]
		pc := params[gpu.NumIndexPlaceholders+1]

		kb := ir.NewBuilder(g)
		kb.SetInsertionPointStart(body)
		sum := kb.Create(ir.OpAddI, []ir.ValueID{tid, pn}, []ir.TypeID{index}, 0, nil)
		kb.Create(ir.OpMulI, []ir.ValueID{g.Op(sum).Results[0], pc}, []ir.TypeID{index}, 0, nil)
		kb.Create(ir.OpLaunchEnd, nil, nil, 0, nil)
	}
	b.Create(ir.OpReturn, nil, nil, 0, nil)

	if err := ir.ValidateModule(g, root); err != nil {
		t.Fatalf("fixture does not validate: %v", err)
	}
	return &hostFixture{g: g, root: root, host: host, n: n, c: c}
}

// expected op kinds at the head of every outlined kernel body.
var indexOpKinds = []ir.OpKind{
	ir.OpBlockID, ir.OpBlockID, ir.OpBlockID,
	ir.OpThreadID, ir.OpThreadID, ir.OpThreadID,
	ir.OpGridDim, ir.OpGridDim, ir.OpGridDim,
	ir.OpBlockDim, ir.OpBlockDim, ir.OpBlockDim,
}

func checkIndexPrefix(t *testing.T, g *ir.Graph, ops []ir.OpID) {
	t.Helper()
	if len(ops) < gpu.NumIndexPlaceholders {
		t.Fatalf("kernel body has %d ops, need at least %d", len(ops), gpu.NumIndexPlaceholders)
	}
	for i, want := range indexOpKinds {
		op := g.Op(ops[i])
		if op.Kind != want {
			t.Errorf("body op %d: got %s, want %s", i, op.Kind, want)
		}
		wantDim := [3]string{"x", "y", "z"}[i%3]
		if dim, ok := op.Attrs.Get(gpu.DimAttrName); !ok || dim.Str != wantDim {
			t.Errorf("body op %d: dim attr %q, want %q", i, dim.Str, wantDim)
		}
	}
}

func TestOutlineSingleLaunch(t *testing.T) {
	fx := buildHost(t, 1)
	g := fx.g

	if err := gpu.OutlineModule(g, fx.root); err != nil {
		t.Fatalf("OutlineModule: %v", err)
	}

	items := g.Module(fx.root).Items
	if len(items) != 3 {
		t.Fatalf("root has %d items, want host + declaration + kernel module", len(items))
	}
	if items[0].Kind != ir.ItemFunc || items[0].Func != fx.host {
		t.Fatalf("host function moved from item 0")
	}
	if items[1].Kind != ir.ItemFunc {
		t.Fatalf("item 1 is not the kernel declaration")
	}
	decl := g.Func(items[1].Func)
	if decl.Name != "main_kernel" {
		t.Errorf("declaration named %s, want main_kernel", decl.Name)
	}
	if !decl.IsDecl() {
		t.Errorf("declaration in root carries a body")
	}
	if len(decl.Params) != 1 {
		t.Errorf("declaration has %d params, want 1 (constant hoisted)", len(decl.Params))
	}

	// Call site: the launch is gone, one launch_func bound to the
	// declaration, passing only the non-constant live-in.
	if left := g.CollectOps(fx.host, func(o *ir.Op) bool { return o.Kind == ir.OpLaunch }); len(left) != 0 {
		t.Errorf("%d launch ops remain in host", len(left))
	}
	calls := g.CollectOps(fx.host, func(o *ir.Op) bool { return o.Kind == ir.OpLaunchFunc })
	if len(calls) != 1 {
		t.Fatalf("host has %d launch_func ops, want 1", len(calls))
	}
	call := g.Op(calls[0])
	if call.Callee != items[1].Func {
		t.Errorf("call bound to func %d, want declaration %d", call.Callee, items[1].Func)
	}
	if len(call.Operands) != ir.LaunchConfigOperands+1 {
		t.Fatalf("call carries %d operands, want %d", len(call.Operands), ir.LaunchConfigOperands+1)
	}
	if call.Operands[ir.LaunchConfigOperands] != fx.n {
		t.Errorf("surviving call argument is not the host parameter")
	}

	// Kernel module: exactly one body-bearing kernel function.
	if items[2].Kind != ir.ItemModule {
		t.Fatalf("item 2 is not the kernel module")
	}
	holder := g.Module(items[2].Module)
	if !holder.Attrs.Has(gpu.KernelModuleAttrName) {
		t.Errorf("nested module is not tagged as a kernel module")
	}
	if len(holder.Items) != 1 || holder.Items[0].Kind != ir.ItemFunc {
		t.Fatalf("kernel module items: %+v", holder.Items)
	}
	body := g.Func(holder.Items[0].Func)
	if body.Name != decl.Name {
		t.Errorf("kernel body named %s, declaration named %s", body.Name, decl.Name)
	}
	if !body.Attrs.Has(gpu.KernelAttrName) {
		t.Errorf("kernel body lacks the kernel attribute")
	}
	if body.IsDecl() {
		t.Fatalf("kernel body has no body region")
	}

	// Body shape: 12 index ops, the hoisted constant clone, the original
	// computation, a plain return.
	blk := g.Block(g.EntryBlock(holder.Items[0].Func))
	if len(blk.Params) != 1 {
		t.Fatalf("kernel entry has %d params, want 1", len(blk.Params))
	}
	checkIndexPrefix(t, g, blk.Ops)
	wantTail := []ir.OpKind{ir.OpConstIndex, ir.OpAddI, ir.OpMulI, ir.OpReturn}
	tail := blk.Ops[gpu.NumIndexPlaceholders:]
	if len(tail) != len(wantTail) {
		t.Fatalf("kernel body tail has %d ops, want %d", len(tail), len(wantTail))
	}
	for i, want := range wantTail {
		if got := g.Op(tail[i]).Kind; got != want {
			t.Errorf("tail op %d: got %s, want %s", i, got, want)
		}
	}
	clone := g.Op(tail[0])
	if v, ok := clone.Attrs.Get(gpu.ValueAttrName); !ok || v.Int != 42 {
		t.Errorf("hoisted constant payload = %+v, want 42", v)
	}

	// The placeholder uses were rewired: the add reads thread-id.x and the
	// surviving parameter, the mul reads the hoisted clone.
	add := g.Op(tail[1])
	if add.Operands[0] != g.Op(blk.Ops[3]).Results[0] {
		t.Errorf("add operand 0 is not thread-id.x")
	}
	if add.Operands[1] != blk.Params[0] {
		t.Errorf("add operand 1 is not the kernel parameter")
	}
	mul := g.Op(tail[2])
	if mul.Operands[1] != clone.Results[0] {
		t.Errorf("mul operand 1 is not the hoisted constant")
	}

	if err := ir.ValidateModule(g, fx.root); err != nil {
		t.Errorf("module does not validate after outlining: %v", err)
	}
	if err := gpu.VerifyKernels(g, fx.root); err != nil {
		t.Errorf("kernel post-conditions: %v", err)
	}
}

func TestOutlineNoLaunches(t *testing.T) {
	fx := buildHost(t, 0)
	g := fx.g

	if err := gpu.OutlineModule(g, fx.root); err != nil {
		t.Fatalf("OutlineModule: %v", err)
	}
	if n := len(g.Module(fx.root).Items); n != 1 {
		t.Errorf("launch-free module grew to %d items", n)
	}
	if err := ir.ValidateModule(g, fx.root); err != nil {
		t.Errorf("module does not validate: %v", err)
	}
}

func TestOutlineTwoLaunches(t *testing.T) {
	fx := buildHost(t, 2)
	g := fx.g

	if err := gpu.OutlineModule(g, fx.root); err != nil {
		t.Fatalf("OutlineModule: %v", err)
	}

	items := g.Module(fx.root).Items
	wantKinds := []ir.ItemKind{ir.ItemFunc, ir.ItemFunc, ir.ItemModule, ir.ItemFunc, ir.ItemModule}
	if len(items) != len(wantKinds) {
		t.Fatalf("root has %d items, want %d", len(items), len(wantKinds))
	}
	for i, want := range wantKinds {
		if items[i].Kind != want {
			t.Fatalf("item %d has kind %d, want %d", i, items[i].Kind, want)
		}
	}

	// First launch outlines under the host name, the second is renamed.
	first := g.Func(items[1].Func)
	second := g.Func(items[3].Func)
	if first.Name != "main_kernel" || second.Name != "main_kernel_0" {
		t.Errorf("kernel names %q and %q, want main_kernel and main_kernel_0", first.Name, second.Name)
	}
	for _, mi := range []int{2, 4} {
		holder := g.Module(items[mi].Module)
		declName := g.Func(items[mi-1].Func).Name
		if bodyName := g.Func(holder.Items[0].Func).Name; bodyName != declName {
			t.Errorf("kernel module %d holds %s, want %s", mi, bodyName, declName)
		}
	}

	calls := g.CollectOps(fx.host, func(o *ir.Op) bool { return o.Kind == ir.OpLaunchFunc })
	if len(calls) != 2 {
		t.Fatalf("host has %d launch_func ops, want 2", len(calls))
	}
	if g.Op(calls[0]).Callee != items[1].Func || g.Op(calls[1]).Callee != items[3].Func {
		t.Errorf("call bindings do not follow source order")
	}

	if err := ir.ValidateModule(g, fx.root); err != nil {
		t.Errorf("module does not validate after outlining: %v", err)
	}
	if err := gpu.VerifyKernels(g, fx.root); err != nil {
		t.Errorf("kernel post-conditions: %v", err)
	}
}

func TestOutlineIsIdempotent(t *testing.T) {
	fx := buildHost(t, 1)
	g := fx.g

	if err := gpu.OutlineModule(g, fx.root); err != nil {
		t.Fatalf("first run: %v", err)
	}
	var before strings.Builder
	if err := ir.DumpModule(&before, g, fx.root, ir.DumpOptions{}); err != nil {
		t.Fatalf("dump: %v", err)
	}

	if err := gpu.OutlineModule(g, fx.root); err != nil {
		t.Fatalf("second run: %v", err)
	}
	var after strings.Builder
	if err := ir.DumpModule(&after, g, fx.root, ir.DumpOptions{}); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if before.String() != after.String() {
		t.Errorf("second run changed the module:\n--- first\n%s\n--- second\n%s", before.String(), after.String())
	}
}
