// Package gpu implements the accelerator dialect: launch operations, the
// implicit index operations, and the kernel outlining pass that rewrites
// inline launch regions into standalone kernel functions held in nested
// kernel modules.
package gpu

import (
	"warp/internal/ir"
)

const (
	// KernelAttrName marks a function as a kernel entry point.
	KernelAttrName = "gpu.kernel"
	// KernelModuleAttrName marks a nested module as a kernel holder.
	KernelModuleAttrName = "gpu.kernel_module"
	// DimAttrName carries the axis (x|y|z) of an index operation.
	DimAttrName = "dim"
	// ValueAttrName carries the payload of a constant operation.
	ValueAttrName = "value"

	// KernelOutlineSuffix is appended to the host name when naming an
	// outlined kernel. Collisions are resolved at insertion time.
	KernelOutlineSuffix = "_kernel"

	// NumIndexPlaceholders is the number of leading placeholder parameters
	// of a launch body: three axes by four index kinds.
	NumIndexPlaceholders = 12
)

var dims = [3]string{"x", "y", "z"}

// IsConstant reports whether ops of this kind produce a compile-time
// constant: zero operands, deterministic result, safe to duplicate.
func IsConstant(k ir.OpKind) bool {
	return k == ir.OpConstIndex || k == ir.OpConstInt || k == ir.OpConstFloat
}

func isIndexOp(k ir.OpKind) bool {
	switch k {
	case ir.OpBlockID, ir.OpThreadID, ir.OpGridDim, ir.OpBlockDim:
		return true
	default:
		return false
	}
}

// NewConstIndex creates a const.index op and returns its result.
func NewConstIndex(b *ir.Builder, v int64) ir.ValueID {
	g := b.Graph()
	op := b.Create(ir.OpConstIndex, nil,
		[]ir.TypeID{g.Types.Builtins().Index}, 0,
		ir.AttrSet{ValueAttrName: ir.IntAttr(v)})
	return g.Op(op).Results[0]
}

// NewConstFloat creates a const.float op of type t and returns its result.
func NewConstFloat(b *ir.Builder, t ir.TypeID, v float64) ir.ValueID {
	g := b.Graph()
	op := b.Create(ir.OpConstFloat, nil, []ir.TypeID{t}, 0,
		ir.AttrSet{ValueAttrName: ir.FloatAttr(v)})
	return g.Op(op).Results[0]
}

// NewLaunch creates an inline launch op with the given configuration and
// kernel operands. Its body region gets one entry block carrying the
// twelve index placeholder parameters followed by one parameter per kernel
// operand. Returns the op and the body block.
func NewLaunch(b *ir.Builder, grid, block [3]ir.ValueID, kernelOperands []ir.ValueID) (ir.OpID, ir.BlockID) {
	g := b.Graph()
	operands := make([]ir.ValueID, 0, ir.LaunchConfigOperands+len(kernelOperands))
	operands = append(operands, grid[0], grid[1], grid[2], block[0], block[1], block[2])
	operands = append(operands, kernelOperands...)

	op := b.Create(ir.OpLaunch, operands, nil, 1, nil)

	index := g.Types.Builtins().Index
	paramTypes := make([]ir.TypeID, 0, NumIndexPlaceholders+len(kernelOperands))
	for range NumIndexPlaceholders {
		paramTypes = append(paramTypes, index)
	}
	for _, v := range kernelOperands {
		paramTypes = append(paramTypes, g.Value(v).Type)
	}
	body := g.NewBlock(g.Op(op).Regions[0], paramTypes)
	return op, body
}

// NewLaunchFunc creates a launch_func op calling kernel with the given
// configuration and argument list.
func NewLaunchFunc(b *ir.Builder, kernel ir.FuncID, grid, block [3]ir.ValueID, args []ir.ValueID) ir.OpID {
	operands := make([]ir.ValueID, 0, ir.LaunchConfigOperands+len(args))
	operands = append(operands, grid[0], grid[1], grid[2], block[0], block[1], block[2])
	operands = append(operands, args...)
	op := b.Create(ir.OpLaunchFunc, operands, nil, 0, nil)
	b.Graph().Op(op).Callee = kernel
	return op
}

// GridSize returns the grid-size operand triple of a launch-style op.
func GridSize(g *ir.Graph, op ir.OpID) [3]ir.ValueID {
	o := g.Op(op)
	return [3]ir.ValueID{o.Operands[0], o.Operands[1], o.Operands[2]}
}

// BlockSize returns the block-size operand triple of a launch-style op.
func BlockSize(g *ir.Graph, op ir.OpID) [3]ir.ValueID {
	o := g.Op(op)
	return [3]ir.ValueID{o.Operands[3], o.Operands[4], o.Operands[5]}
}

// KernelOperands returns the operand list past the launch configuration.
func KernelOperands(g *ir.Graph, op ir.OpID) []ir.ValueID {
	return g.Op(op).Operands[ir.LaunchConfigOperands:]
}
