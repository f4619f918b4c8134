package gpu

import (
	"slices"

	"warp/internal/ir"
)

// indexPrefixLen counts the leading index ops of a block. Hoisted constant
// clones are placed after them so implicit indices stay at the block head.
func indexPrefixLen(g *ir.Graph, blk *ir.Block) int {
	n := 0
	for _, oid := range blk.Ops {
		op := g.Op(oid)
		if op == nil || !isIndexOp(op.Kind) {
			break
		}
		n++
	}
	return n
}

// HoistConstants moves every constant-defined argument of call into the
// kernel body, erasing the matching kernel parameter and call argument.
// When nothing hoists, the original call is returned untouched. Otherwise
// the kernel signature is rebuilt from the surviving entry parameters and
// the call is replaced by one of identical kind with the reduced argument
// list; argument-to-parameter positional correspondence is preserved.
func HoistConstants(g *ir.Graph, call ir.OpID, kernel ir.FuncID) ir.OpID {
	entry := g.EntryBlock(kernel)
	blk := g.Block(entry)

	kb := ir.NewBuilder(g)
	kb.SetInsertionPoint(entry, indexPrefixLen(g, blk))

	numArgs := len(g.Op(call).Operands) - ir.LaunchConfigOperands
	var retained []ir.ValueID
	hoisted := false
	// Scan back to front: erasing parameter i never shifts an unvisited one.
	for i := numArgs - 1; i >= 0; i-- {
		arg := g.Op(call).Operands[ir.LaunchConfigOperands+i]
		val := g.Value(arg)
		var def *ir.Op
		if val.DefKind == ir.DefOpResult {
			def = g.Op(val.DefOp)
		}
		if def == nil || !IsConstant(def.Kind) {
			retained = append(retained, arg)
			continue
		}
		clone := kb.Clone(def.ID)
		g.ReplaceAllUses(blk.Params[i], g.Op(clone).Results[0])
		g.EraseBlockParam(entry, i)
		hoisted = true
	}
	if !hoisted {
		return call
	}
	slices.Reverse(retained)

	// Rebuild the declared signature from the surviving entry parameters.
	params := make([]ir.TypeID, 0, len(blk.Params))
	for _, p := range blk.Params {
		params = append(params, g.Value(p).Type)
	}
	g.Func(kernel).Params = params

	lb := ir.NewBuilder(g)
	lb.SetInsertionPointBefore(call)
	newCall := NewLaunchFunc(lb, kernel, GridSize(g, call), BlockSize(g, call), retained)
	g.EraseOp(call)
	return newCall
}
