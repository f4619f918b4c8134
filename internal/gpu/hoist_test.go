package gpu_test

import (
	"testing"

	"warp/internal/gpu"
	"warp/internal/ir"
)

// callFixture pairs a host-side launch_func with its kernel. The kernel
// body adds its two parameters; the call passes hostArgs positionally.
type callFixture struct {
	g      *ir.Graph
	kernel ir.FuncID
	host   ir.FuncID
	call   ir.OpID
	add    ir.OpID
}

// buildCall wires a two-parameter kernel and a host calling it. When
// constArg is true the first call argument is a host-side constant,
// otherwise both arguments are host parameters.
func buildCall(t *testing.T, constArg bool) *callFixture {
	t.Helper()
	g := ir.NewGraph()
	index := g.Types.Builtins().Index

	kernel := g.NewFunc("k", []ir.TypeID{index, index}, nil)
	kregion := g.NewFuncRegion(kernel)
	kentry := g.NewBlock(kregion, []ir.TypeID{index, index})
	kb := ir.NewBuilder(g)
	kb.SetInsertionPointStart(kentry)
	kp := g.Block(kentry).Params
	add := kb.Create(ir.OpAddI, []ir.ValueID{kp[0], kp[1]}, []ir.TypeID{index}, 0, nil)
	kb.Create(ir.OpReturn, nil, nil, 0, nil)

	host := g.NewFunc("host", []ir.TypeID{index, index}, nil)
	hregion := g.NewFuncRegion(host)
	hentry := g.NewBlock(hregion, []ir.TypeID{index, index})
	hp := g.Block(hentry).Params

	b := ir.NewBuilder(g)
	b.SetInsertionPointStart(hentry)
	one := gpu.NewConstIndex(b, 1)
	first := hp[0]
	if constArg {
		first = gpu.NewConstIndex(b, 5)
	}
	call := gpu.NewLaunchFunc(b, kernel,
		[3]ir.ValueID{one, one, one},
		[3]ir.ValueID{one, one, one},
		[]ir.ValueID{first, hp[1]})
	b.Create(ir.OpReturn, nil, nil, 0, nil)

	return &callFixture{g: g, kernel: kernel, host: host, call: call, add: add}
}

func TestHoistConstants(t *testing.T) {
	fx := buildCall(t, true)
	g := fx.g

	newCall := gpu.HoistConstants(g, fx.call, fx.kernel)
	if newCall == fx.call {
		t.Fatalf("hoisting did not replace the call")
	}
	if g.Op(fx.call) != nil {
		t.Errorf("original call was not erased")
	}

	call := g.Op(newCall)
	if len(call.Operands) != ir.LaunchConfigOperands+1 {
		t.Fatalf("call carries %d operands, want %d", len(call.Operands), ir.LaunchConfigOperands+1)
	}
	if len(g.Func(fx.kernel).Params) != 1 {
		t.Errorf("kernel declares %d params, want 1", len(g.Func(fx.kernel).Params))
	}

	blk := g.Block(g.EntryBlock(fx.kernel))
	if len(blk.Params) != 1 {
		t.Fatalf("kernel entry keeps %d params, want 1", len(blk.Params))
	}
	clone := g.Op(blk.Ops[0])
	if clone.Kind != ir.OpConstIndex {
		t.Fatalf("first kernel op is %s, want the hoisted constant", clone.Kind)
	}
	if v, ok := clone.Attrs.Get(gpu.ValueAttrName); !ok || v.Int != 5 {
		t.Errorf("hoisted constant payload = %+v, want 5", v)
	}

	// The add now reads the clone and the surviving parameter, in the
	// original positions.
	addOp := g.Op(fx.add)
	if addOp.Operands[0] != clone.Results[0] {
		t.Errorf("add operand 0 is not the hoisted constant")
	}
	if addOp.Operands[1] != blk.Params[0] {
		t.Errorf("add operand 1 is not the surviving parameter")
	}

	if err := ir.ValidateFunc(g, fx.kernel); err != nil {
		t.Errorf("kernel does not validate: %v", err)
	}
	if err := ir.ValidateFunc(g, fx.host); err != nil {
		t.Errorf("host does not validate: %v", err)
	}
}

func TestHoistConstantsNoConstants(t *testing.T) {
	fx := buildCall(t, false)
	g := fx.g

	got := gpu.HoistConstants(g, fx.call, fx.kernel)
	if got != fx.call {
		t.Errorf("constant-free call was replaced")
	}
	if n := len(g.Func(fx.kernel).Params); n != 2 {
		t.Errorf("kernel signature shrank to %d params", n)
	}
	if n := len(g.Block(g.EntryBlock(fx.kernel)).Params); n != 2 {
		t.Errorf("kernel entry shrank to %d params", n)
	}
}

func TestHoistConstantsIsIdempotent(t *testing.T) {
	fx := buildCall(t, true)
	g := fx.g

	first := gpu.HoistConstants(g, fx.call, fx.kernel)
	second := gpu.HoistConstants(g, first, fx.kernel)
	if second != first {
		t.Errorf("second hoist replaced the call again")
	}
	if n := len(g.Func(fx.kernel).Params); n != 1 {
		t.Errorf("kernel signature changed on the second hoist: %d params", n)
	}
}
