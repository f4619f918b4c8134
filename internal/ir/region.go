package ir

// RegionOwnerKind distinguishes region owners.
type RegionOwnerKind uint8

const (
	// OwnerNone marks a detached region.
	OwnerNone RegionOwnerKind = iota
	// OwnerOp marks a region attached to an operation.
	OwnerOp
	// OwnerFunc marks a function body region.
	OwnerFunc
)

// Region is an ordered block sequence owned by exactly one operation or
// function.
type Region struct {
	ID RegionID

	OwnerKind RegionOwnerKind
	OwnerOp   OpID
	OwnerFunc FuncID

	Blocks []BlockID
}
