package ir

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when the snapshot format changes.
const snapshotSchemaVersion uint16 = 1

// snapshot is the on-disk .wir payload: the full arena plus the root
// module. Use lists are derived data and never serialized.
type snapshot struct {
	Schema uint16

	Types   []Type
	Ops     []Op
	Values  []Value
	Blocks  []Block
	Regions []Region
	Funcs   []Func
	Modules []Module

	Root ModuleID
}

// EncodeModule serializes the graph and a root module into a snapshot.
func EncodeModule(g *Graph, root ModuleID) ([]byte, error) {
	if g.Module(root) == nil {
		return nil, fmt.Errorf("ir: encode of invalid root module %d", root)
	}
	s := snapshot{
		Schema:  snapshotSchemaVersion,
		Types:   g.Types.all(),
		Ops:     g.ops,
		Values:  g.values,
		Blocks:  g.blocks,
		Regions: g.regions,
		Funcs:   g.funcs,
		Modules: g.modules,
		Root:    root,
	}
	return msgpack.Marshal(&s)
}

// DecodeModule rebuilds a graph from snapshot bytes. Value use lists are
// reconstructed from live operand lists.
func DecodeModule(data []byte) (*Graph, ModuleID, error) {
	var s snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return nil, NoModuleID, fmt.Errorf("ir: corrupt snapshot: %w", err)
	}
	if s.Schema != snapshotSchemaVersion {
		return nil, NoModuleID, fmt.Errorf("ir: snapshot schema %d, want %d", s.Schema, snapshotSchemaVersion)
	}
	g := &Graph{
		Types:   internerFromSlice(s.Types),
		ops:     s.Ops,
		values:  s.Values,
		blocks:  s.Blocks,
		regions: s.Regions,
		funcs:   s.Funcs,
		modules: s.Modules,
	}
	for i := range g.ops {
		if g.ops[i].Attrs == nil {
			g.ops[i].Attrs = AttrSet{}
		}
	}
	for i := range g.funcs {
		if g.funcs[i].Attrs == nil {
			g.funcs[i].Attrs = AttrSet{}
		}
	}
	for i := range g.modules {
		if g.modules[i].Attrs == nil {
			g.modules[i].Attrs = AttrSet{}
		}
	}
	for i := range g.ops {
		op := &g.ops[i]
		if op.Dead {
			continue
		}
		for j, v := range op.Operands {
			val := g.Value(v)
			if val == nil {
				return nil, NoModuleID, fmt.Errorf("ir: snapshot op %s references erased value", op.Kind)
			}
			val.Uses = append(val.Uses, Use{Op: op.ID, Index: int32(j)})
		}
	}
	if g.Module(s.Root) == nil {
		return nil, NoModuleID, fmt.Errorf("ir: snapshot root module %d out of range", s.Root)
	}
	return g, s.Root, nil
}
