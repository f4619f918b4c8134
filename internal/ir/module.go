package ir

// ItemKind distinguishes module item kinds.
type ItemKind uint8

const (
	// ItemFunc marks a function item.
	ItemFunc ItemKind = iota
	// ItemModule marks a nested module item.
	ItemModule
)

// Item is one entry in a module's ordered body.
type Item struct {
	Kind   ItemKind
	Func   FuncID
	Module ModuleID
}

// Module owns an ordered collection of functions and nested modules.
// Symbol names are unique within one module; nested modules open a fresh
// namespace.
type Module struct {
	ID     ModuleID
	Name   string
	Parent ModuleID

	Attrs AttrSet
	Items []Item
}
