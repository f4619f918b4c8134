package ir

import (
	"fmt"

	"fortio.org/safecast"
)

type TypeID int32

const NoTypeID TypeID = -1

type TypeKind uint8

const (
	KindInvalid TypeKind = iota
	KindIndex
	KindInt
	KindFloat
	KindBool
	KindBuffer
)

// Type is a structural type descriptor. Descriptors are comparable and
// interned, so TypeID equality implies structural equality.
type Type struct {
	Kind  TypeKind
	Width uint8 // bit width for Int/Float
	Elem  TypeID
	Rank  uint8
}

// Builtins stores TypeIDs for common primitive types.
type Builtins struct {
	Invalid TypeID
	Index   TypeID
	Bool    TypeID
	I32     TypeID
	I64     TypeID
	F32     TypeID
	F64     TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
type Interner struct {
	types    []Type
	index    map[Type]TypeID
	builtins Builtins
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[Type]TypeID, 16),
	}
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Index = in.Intern(Type{Kind: KindIndex})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.I32 = in.Intern(Type{Kind: KindInt, Width: 32})
	in.builtins.I64 = in.Intern(Type{Kind: KindInt, Width: 64})
	in.builtins.F32 = in.Intern(Type{Kind: KindFloat, Width: 32})
	in.builtins.F64 = in.Intern(Type{Kind: KindFloat, Width: 64})
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Buffer interns a rank-dimensional buffer of elem.
func (in *Interner) Buffer(elem TypeID, rank uint8) TypeID {
	return in.Intern(Type{Kind: KindBuffer, Elem: elem, Rank: rank})
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("ir: invalid TypeID")
	}
	return tt
}

// String renders a type for dumps and diagnostics.
func (in *Interner) String(id TypeID) string {
	tt, ok := in.Lookup(id)
	if !ok {
		return "<invalid>"
	}
	switch tt.Kind {
	case KindIndex:
		return "index"
	case KindBool:
		return "bool"
	case KindInt:
		return fmt.Sprintf("i%d", tt.Width)
	case KindFloat:
		return fmt.Sprintf("f%d", tt.Width)
	case KindBuffer:
		return fmt.Sprintf("buffer<%s,%d>", in.String(tt.Elem), tt.Rank)
	default:
		return "<invalid>"
	}
}

// all returns the backing slice, used by snapshot encoding.
func (in *Interner) all() []Type {
	return in.types
}

// internerFromSlice rebuilds an interner from a serialized descriptor list.
// Slice order is authoritative: TypeIDs are indices into it.
func internerFromSlice(ts []Type) *Interner {
	in := &Interner{
		types: append([]Type(nil), ts...),
		index: make(map[Type]TypeID, len(ts)),
	}
	if len(in.types) == 0 {
		in.types = append(in.types, Type{Kind: KindInvalid})
	}
	for i, t := range in.types {
		if t.Kind == KindInvalid {
			continue
		}
		if _, ok := in.index[t]; !ok {
			in.index[t] = TypeID(i) //nolint:gosec // G115: bounded by slice length
		}
	}
	in.builtins.Invalid = 0
	in.builtins.Index = in.Intern(Type{Kind: KindIndex})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.I32 = in.Intern(Type{Kind: KindInt, Width: 32})
	in.builtins.I64 = in.Intern(Type{Kind: KindInt, Width: 64})
	in.builtins.F32 = in.Intern(Type{Kind: KindFloat, Width: 32})
	in.builtins.F64 = in.Intern(Type{Kind: KindFloat, Width: 64})
	return in
}
