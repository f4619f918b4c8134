package ir_test

import (
	"strings"
	"testing"

	"warp/internal/ir"
)

func TestValidateFuncUnterminatedBlock(t *testing.T) {
	g := ir.NewGraph()
	index := g.Types.Builtins().Index

	f, entry := newFuncWithEntry(g, "f", []ir.TypeID{index})
	p := g.Block(entry).Params[0]
	b := ir.NewBuilder(g)
	b.SetInsertionPointStart(entry)
	b.Create(ir.OpAddI, []ir.ValueID{p, p}, []ir.TypeID{index}, 0, nil)

	err := ir.ValidateFunc(g, f)
	if err == nil || !strings.Contains(err.Error(), "terminator") {
		t.Errorf("unterminated block not flagged: %v", err)
	}
}

func TestValidateFuncEmptyBlock(t *testing.T) {
	g := ir.NewGraph()
	f, _ := newFuncWithEntry(g, "f", nil)

	err := ir.ValidateFunc(g, f)
	if err == nil || !strings.Contains(err.Error(), "empty block") {
		t.Errorf("empty block not flagged: %v", err)
	}
}

func TestValidateFuncCrossFunctionOperand(t *testing.T) {
	g := ir.NewGraph()
	index := g.Types.Builtins().Index

	_, otherEntry := newFuncWithEntry(g, "other", []ir.TypeID{index})
	foreign := g.Block(otherEntry).Params[0]

	f, entry := newFuncWithEntry(g, "f", nil)
	b := ir.NewBuilder(g)
	b.SetInsertionPointStart(entry)
	b.Create(ir.OpAddI, []ir.ValueID{foreign, foreign}, []ir.TypeID{index}, 0, nil)
	b.Create(ir.OpReturn, nil, nil, 0, nil)

	err := ir.ValidateFunc(g, f)
	if err == nil || !strings.Contains(err.Error(), "outside the function") {
		t.Errorf("cross-function operand not flagged: %v", err)
	}
}

func TestValidateFuncCallArityMismatch(t *testing.T) {
	g := ir.NewGraph()
	index := g.Types.Builtins().Index

	callee := g.NewFunc("kernel", []ir.TypeID{index, index}, nil)

	f, entry := newFuncWithEntry(g, "f", []ir.TypeID{index})
	p := g.Block(entry).Params[0]
	b := ir.NewBuilder(g)
	b.SetInsertionPointStart(entry)
	// Six config operands plus a single argument against a two-parameter
	// callee.
	call := b.Create(ir.OpLaunchFunc, []ir.ValueID{p, p, p, p, p, p, p}, nil, 0, nil)
	g.Op(call).Callee = callee
	b.Create(ir.OpReturn, nil, nil, 0, nil)

	err := ir.ValidateFunc(g, f)
	if err == nil || !strings.Contains(err.Error(), "declares 2 parameters") {
		t.Errorf("arity mismatch not flagged: %v", err)
	}
}

func TestValidateFuncDeclIsClean(t *testing.T) {
	g := ir.NewGraph()
	index := g.Types.Builtins().Index
	f := g.NewFunc("decl", []ir.TypeID{index}, nil)
	if err := ir.ValidateFunc(g, f); err != nil {
		t.Errorf("declaration flagged: %v", err)
	}
}

func TestValidateModuleDuplicateSymbols(t *testing.T) {
	g := ir.NewGraph()
	root := g.NewModule("m")

	// AppendFunc renames on collision, so force the clash afterwards.
	a := g.NewFunc("f", nil, nil)
	b := g.NewFunc("g", nil, nil)
	g.AppendFunc(root, a)
	g.AppendFunc(root, b)
	g.Func(b).Name = "f"

	err := ir.ValidateModule(g, root)
	if err == nil || !strings.Contains(err.Error(), "duplicate symbol") {
		t.Errorf("duplicate symbols not flagged: %v", err)
	}
	if err := ir.ValidateSymbols(g, root); err == nil {
		t.Errorf("ValidateSymbols missed the duplicate")
	}
}

func TestValidateModuleRecursesIntoNestedModules(t *testing.T) {
	g := ir.NewGraph()
	root := g.NewModule("root")
	child := g.NewModule("child")
	g.InsertModule(root, 0, child)

	f, _ := newFuncWithEntry(g, "broken", nil) // empty entry block
	g.AppendFunc(child, f)

	if err := ir.ValidateModule(g, root); err == nil {
		t.Errorf("defect in a nested module not flagged")
	}
}
