package ir

// LaunchConfigOperands is the number of leading launch configuration
// operands (grid x,y,z then block x,y,z) on OpLaunch and OpLaunchFunc.
const LaunchConfigOperands = 6

// OpKind enumerates operation kinds in the accelerator IR.
type OpKind uint8

const (
	// OpInvalid marks an erased or uninitialized operation slot.
	OpInvalid OpKind = iota
	// OpConstIndex produces a compile-time index constant.
	OpConstIndex
	// OpConstInt produces a compile-time integer constant.
	OpConstInt
	// OpConstFloat produces a compile-time float constant.
	OpConstFloat
	// OpAddI adds two index/integer values.
	OpAddI
	// OpMulI multiplies two index/integer values.
	OpMulI
	// OpAddF adds two float values.
	OpAddF
	// OpMulF multiplies two float values.
	OpMulF
	// OpLoad reads a buffer element.
	OpLoad
	// OpStore writes a buffer element.
	OpStore
	// OpBlockID produces the block id along one axis.
	OpBlockID
	// OpThreadID produces the thread id along one axis.
	OpThreadID
	// OpGridDim produces the grid extent along one axis.
	OpGridDim
	// OpBlockDim produces the block extent along one axis.
	OpBlockDim
	// OpLaunch is an inline accelerator launch carrying its body region.
	OpLaunch
	// OpLaunchFunc launches an outlined kernel function.
	OpLaunchFunc
	// OpLaunchEnd terminates a launch body region.
	OpLaunchEnd
	// OpReturn terminates a function body block.
	OpReturn
)

var opKindNames = [...]string{
	OpInvalid:    "<invalid>",
	OpConstIndex: "const.index",
	OpConstInt:   "const.int",
	OpConstFloat: "const.float",
	OpAddI:       "arith.addi",
	OpMulI:       "arith.muli",
	OpAddF:       "arith.addf",
	OpMulF:       "arith.mulf",
	OpLoad:       "buf.load",
	OpStore:      "buf.store",
	OpBlockID:    "gpu.block_id",
	OpThreadID:   "gpu.thread_id",
	OpGridDim:    "gpu.grid_dim",
	OpBlockDim:   "gpu.block_dim",
	OpLaunch:     "gpu.launch",
	OpLaunchFunc: "gpu.launch_func",
	OpLaunchEnd:  "gpu.terminator",
	OpReturn:     "return",
}

func (k OpKind) String() string {
	if int(k) < len(opKindNames) {
		return opKindNames[k]
	}
	return "<invalid>"
}

// IsTerminator reports whether ops of this kind end a block.
func (k OpKind) IsTerminator() bool {
	return k == OpLaunchEnd || k == OpReturn
}

// Op is a node in the program graph. It owns its attached regions; its
// operand and result lists reference values stored in the graph arena.
type Op struct {
	ID     OpID
	Kind   OpKind
	Parent BlockID

	Operands []ValueID
	Results  []ValueID
	Regions  []RegionID
	Attrs    AttrSet

	// Callee is the referenced function for OpLaunchFunc, NoFuncID otherwise.
	Callee FuncID

	Dead bool
}
