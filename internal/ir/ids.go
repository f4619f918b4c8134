package ir

type OpID int32
type ValueID int32
type BlockID int32
type RegionID int32
type FuncID int32
type ModuleID int32

const (
	NoOpID     OpID     = -1
	NoValueID  ValueID  = -1
	NoBlockID  BlockID  = -1
	NoRegionID RegionID = -1
	NoFuncID   FuncID   = -1
	NoModuleID ModuleID = -1
)
