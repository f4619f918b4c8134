package ir

// AttrKind distinguishes attribute payload kinds.
type AttrKind uint8

const (
	// AttrUnit represents a presence-only marker attribute.
	AttrUnit AttrKind = iota
	// AttrString represents a string attribute.
	AttrString
	// AttrInt represents an integer attribute.
	AttrInt
	// AttrFloat represents a float attribute.
	AttrFloat
)

// Attr is a named attribute payload attached to ops, funcs and modules.
type Attr struct {
	Kind AttrKind

	Str   string
	Int   int64
	Float float64
}

// UnitAttr builds a presence-only marker.
func UnitAttr() Attr { return Attr{Kind: AttrUnit} }

// StringAttr builds a string attribute.
func StringAttr(s string) Attr { return Attr{Kind: AttrString, Str: s} }

// IntAttr builds an integer attribute.
func IntAttr(v int64) Attr { return Attr{Kind: AttrInt, Int: v} }

// FloatAttr builds a float attribute.
func FloatAttr(v float64) Attr { return Attr{Kind: AttrFloat, Float: v} }

// AttrSet is a mutable named attribute set.
type AttrSet map[string]Attr

// Has reports whether name is present.
func (s AttrSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Get returns the attribute stored under name.
func (s AttrSet) Get(name string) (Attr, bool) {
	a, ok := s[name]
	return a, ok
}

// Clone returns an independent copy of the set.
func (s AttrSet) Clone() AttrSet {
	if s == nil {
		return nil
	}
	out := make(AttrSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
