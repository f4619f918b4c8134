package layout

import (
	"fmt"

	"warp/internal/ir"
)

// ErrorKind enumerates layout calculation failures.
type ErrorKind uint8

const (
	// ErrUnsized indicates a type with no device representation.
	ErrUnsized ErrorKind = iota + 1
	// ErrNestedBuffer indicates a buffer whose element is itself a buffer.
	ErrNestedBuffer
)

// Error reports why a type has no layout on the target.
type Error struct {
	Kind ErrorKind
	Type ir.TypeID
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ErrUnsized:
		return fmt.Sprintf("type#%d has no device representation", e.Type)
	case ErrNestedBuffer:
		return fmt.Sprintf("type#%d is a buffer of buffers, which device calls cannot marshal", e.Type)
	default:
		return fmt.Sprintf("layout error kind=%d type#%d", e.Kind, e.Type)
	}
}
