package ir

// ValueDefKind distinguishes how a value is defined.
type ValueDefKind uint8

const (
	// DefInvalid marks an erased value slot.
	DefInvalid ValueDefKind = iota
	// DefOpResult marks a value produced by an operation result.
	DefOpResult
	// DefBlockParam marks a value defined by entry into a block.
	DefBlockParam
)

// Use records one operand slot referencing a value.
type Use struct {
	Op    OpID
	Index int32
}

// Value is produced by exactly one operation result or block parameter and
// referenced by zero or more operand slots. Values own nothing; their
// lifetime is that of the defining node.
type Value struct {
	ID   ValueID
	Type TypeID

	DefKind  ValueDefKind
	DefOp    OpID
	DefBlock BlockID
	DefIndex int32

	// Uses is maintained by graph mutation and rebuilt on snapshot decode.
	Uses []Use `msgpack:"-"`

	Dead bool
}
