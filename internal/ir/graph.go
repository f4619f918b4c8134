package ir

import (
	"fmt"

	"fortio.org/safecast"
)

// Graph is the arena owning every IR node. Nodes are addressed by stable
// int32 IDs; erased nodes leave tombstones so outstanding IDs never shift.
// All structural mutation goes through Graph methods, which keep value use
// lists and parent links consistent.
type Graph struct {
	// Types is the type interner shared by every node in the graph.
	Types *Interner

	ops     []Op
	values  []Value
	blocks  []Block
	regions []Region
	funcs   []Func
	modules []Module
}

// NewGraph returns an empty graph with a fresh type interner.
func NewGraph() *Graph {
	return &Graph{Types: NewInterner()}
}

func arenaIndex[T ~int32](what string, n int) T {
	v, err := safecast.Conv[int32](n)
	if err != nil {
		panic(fmt.Errorf("%s arena overflow: %w", what, err))
	}
	return T(v)
}

// Op returns the operation for id, or nil for erased/invalid ids.
func (g *Graph) Op(id OpID) *Op {
	if id < 0 || int(id) >= len(g.ops) || g.ops[id].Dead {
		return nil
	}
	return &g.ops[id]
}

// Value returns the value for id, or nil for erased/invalid ids.
func (g *Graph) Value(id ValueID) *Value {
	if id < 0 || int(id) >= len(g.values) || g.values[id].Dead {
		return nil
	}
	return &g.values[id]
}

// Block returns the block for id, or nil when invalid.
func (g *Graph) Block(id BlockID) *Block {
	if id < 0 || int(id) >= len(g.blocks) {
		return nil
	}
	return &g.blocks[id]
}

// Region returns the region for id, or nil when invalid.
func (g *Graph) Region(id RegionID) *Region {
	if id < 0 || int(id) >= len(g.regions) {
		return nil
	}
	return &g.regions[id]
}

// Func returns the function for id, or nil when invalid.
func (g *Graph) Func(id FuncID) *Func {
	if id < 0 || int(id) >= len(g.funcs) {
		return nil
	}
	return &g.funcs[id]
}

// Module returns the module for id, or nil when invalid.
func (g *Graph) Module(id ModuleID) *Module {
	if id < 0 || int(id) >= len(g.modules) {
		return nil
	}
	return &g.modules[id]
}

// ---- allocation ----

func (g *Graph) newValue(t TypeID, kind ValueDefKind, op OpID, block BlockID, index int) ValueID {
	id := arenaIndex[ValueID]("value", len(g.values))
	g.values = append(g.values, Value{
		ID:       id,
		Type:     t,
		DefKind:  kind,
		DefOp:    op,
		DefBlock: block,
		DefIndex: int32(index),
	})
	return id
}

// NewModule allocates an empty module. An empty name keeps the module
// anonymous (outside any symbol namespace).
func (g *Graph) NewModule(name string) ModuleID {
	id := arenaIndex[ModuleID]("module", len(g.modules))
	g.modules = append(g.modules, Module{
		ID:     id,
		Name:   name,
		Parent: NoModuleID,
		Attrs:  AttrSet{},
	})
	return id
}

// NewFunc allocates a bodyless function declaration.
func (g *Graph) NewFunc(name string, params, results []TypeID) FuncID {
	id := arenaIndex[FuncID]("func", len(g.funcs))
	g.funcs = append(g.funcs, Func{
		ID:      id,
		Name:    name,
		Parent:  NoModuleID,
		Params:  append([]TypeID(nil), params...),
		Results: append([]TypeID(nil), results...),
		Region:  NoRegionID,
		Attrs:   AttrSet{},
	})
	return id
}

// NewFuncRegion attaches a fresh empty body region to a declaration.
func (g *Graph) NewFuncRegion(f FuncID) RegionID {
	fn := g.Func(f)
	if fn == nil {
		panic("ir: NewFuncRegion on invalid func")
	}
	if fn.Region != NoRegionID {
		panic(fmt.Sprintf("ir: func %s already has a body", fn.Name))
	}
	id := arenaIndex[RegionID]("region", len(g.regions))
	g.regions = append(g.regions, Region{
		ID:        id,
		OwnerKind: OwnerFunc,
		OwnerOp:   NoOpID,
		OwnerFunc: f,
	})
	fn.Region = id
	return id
}

func (g *Graph) newOpRegion(op OpID) RegionID {
	id := arenaIndex[RegionID]("region", len(g.regions))
	g.regions = append(g.regions, Region{
		ID:        id,
		OwnerKind: OwnerOp,
		OwnerOp:   op,
		OwnerFunc: NoFuncID,
	})
	return id
}

// NewBlock appends a block with the given parameter types to a region.
func (g *Graph) NewBlock(region RegionID, paramTypes []TypeID) BlockID {
	r := g.Region(region)
	if r == nil {
		panic("ir: NewBlock on invalid region")
	}
	id := arenaIndex[BlockID]("block", len(g.blocks))
	g.blocks = append(g.blocks, Block{ID: id, Parent: region})
	b := &g.blocks[id]
	for i, t := range paramTypes {
		b.Params = append(b.Params, g.newValue(t, DefBlockParam, NoOpID, id, i))
	}
	r.Blocks = append(r.Blocks, id)
	return id
}

// NewOp allocates a detached operation with fresh result values and the
// requested number of empty attached regions. Operand uses are registered
// immediately; the op is placed with InsertOp.
func (g *Graph) NewOp(kind OpKind, operands []ValueID, resultTypes []TypeID, numRegions int, attrs AttrSet) OpID {
	id := arenaIndex[OpID]("op", len(g.ops))
	g.ops = append(g.ops, Op{
		ID:       id,
		Kind:     kind,
		Parent:   NoBlockID,
		Operands: append([]ValueID(nil), operands...),
		Attrs:    attrs.Clone(),
		Callee:   NoFuncID,
	})
	op := &g.ops[id]
	if op.Attrs == nil {
		op.Attrs = AttrSet{}
	}
	for i, v := range op.Operands {
		g.addUse(v, id, int32(i))
	}
	for i, t := range resultTypes {
		op.Results = append(op.Results, g.newValue(t, DefOpResult, id, NoBlockID, i))
	}
	for range numRegions {
		op.Regions = append(op.Regions, g.newOpRegion(id))
	}
	return op.ID
}

// InsertOp places a detached op into block at position at.
func (g *Graph) InsertOp(op OpID, block BlockID, at int) {
	o := g.Op(op)
	b := g.Block(block)
	if o == nil || b == nil {
		panic("ir: InsertOp on invalid op or block")
	}
	if o.Parent != NoBlockID {
		panic("ir: InsertOp on an op that already has a parent")
	}
	if at < 0 || at > len(b.Ops) {
		panic("ir: InsertOp position out of range")
	}
	b.Ops = append(b.Ops, NoOpID)
	copy(b.Ops[at+1:], b.Ops[at:])
	b.Ops[at] = op
	o.Parent = block
}

// ---- use-list maintenance ----

func (g *Graph) addUse(v ValueID, op OpID, index int32) {
	val := g.Value(v)
	if val == nil {
		panic("ir: operand references an erased value")
	}
	val.Uses = append(val.Uses, Use{Op: op, Index: index})
}

func (g *Graph) removeUse(v ValueID, op OpID, index int32) {
	val := g.Value(v)
	if val == nil {
		return
	}
	for i, u := range val.Uses {
		if u.Op == op && u.Index == index {
			val.Uses = append(val.Uses[:i], val.Uses[i+1:]...)
			return
		}
	}
}

func (g *Graph) shiftUse(v ValueID, op OpID, from, to int32) {
	val := g.Value(v)
	if val == nil {
		return
	}
	for i, u := range val.Uses {
		if u.Op == op && u.Index == from {
			val.Uses[i].Index = to
			return
		}
	}
}

// SetOperand rewires one operand slot.
func (g *Graph) SetOperand(op OpID, index int, v ValueID) {
	o := g.Op(op)
	if o == nil || index < 0 || index >= len(o.Operands) {
		panic("ir: SetOperand out of range")
	}
	g.removeUse(o.Operands[index], op, int32(index))
	o.Operands[index] = v
	g.addUse(v, op, int32(index))
}

// EraseOperand removes one operand slot, shifting later slots down.
func (g *Graph) EraseOperand(op OpID, index int) {
	o := g.Op(op)
	if o == nil || index < 0 || index >= len(o.Operands) {
		panic("ir: EraseOperand out of range")
	}
	g.removeUse(o.Operands[index], op, int32(index))
	for j := index + 1; j < len(o.Operands); j++ {
		g.shiftUse(o.Operands[j], op, int32(j), int32(j-1))
	}
	o.Operands = append(o.Operands[:index], o.Operands[index+1:]...)
}

// ReplaceAllUses redirects every use of old to new. old keeps its
// definition but ends up use-free.
func (g *Graph) ReplaceAllUses(old, new ValueID) {
	if old == new {
		return
	}
	ov := g.Value(old)
	nv := g.Value(new)
	if ov == nil || nv == nil {
		panic("ir: ReplaceAllUses on invalid value")
	}
	for _, u := range ov.Uses {
		g.ops[u.Op].Operands[u.Index] = new
		nv.Uses = append(nv.Uses, u)
	}
	ov.Uses = nil
}

// ---- erasure ----

// EraseOp removes an op from its block and the arena. Its results must be
// use-free; attached regions are erased recursively.
func (g *Graph) EraseOp(id OpID) {
	o := g.Op(id)
	if o == nil {
		panic("ir: EraseOp on invalid op")
	}
	for _, res := range o.Results {
		if v := g.Value(res); v != nil && len(v.Uses) > 0 {
			panic(fmt.Sprintf("ir: erasing %s op whose result still has %d uses", o.Kind, len(v.Uses)))
		}
	}
	for i, v := range o.Operands {
		g.removeUse(v, id, int32(i))
	}
	for _, r := range o.Regions {
		g.eraseRegionBody(r)
	}
	if b := g.Block(o.Parent); b != nil {
		for i, op := range b.Ops {
			if op == id {
				b.Ops = append(b.Ops[:i], b.Ops[i+1:]...)
				break
			}
		}
	}
	for _, res := range o.Results {
		g.values[res].Dead = true
		g.values[res].Uses = nil
	}
	o.Operands = nil
	o.Results = nil
	o.Regions = nil
	o.Parent = NoBlockID
	o.Kind = OpInvalid
	o.Dead = true
}

// eraseRegionBody erases every block of a region, innermost ops first so
// result values are use-free when their defining op goes away.
func (g *Graph) eraseRegionBody(region RegionID) {
	r := g.Region(region)
	if r == nil {
		return
	}
	blocks := append([]BlockID(nil), r.Blocks...)
	for _, bid := range blocks {
		b := g.Block(bid)
		ops := append([]OpID(nil), b.Ops...)
		for i := len(ops) - 1; i >= 0; i-- {
			if g.Op(ops[i]) != nil {
				g.EraseOp(ops[i])
			}
		}
		for _, p := range b.Params {
			g.values[p].Dead = true
			g.values[p].Uses = nil
		}
		b.Params = nil
	}
	r.Blocks = nil
}

// EraseBlockParam removes the i-th parameter of a block. The parameter must
// be use-free. Later parameters keep their values; their indices shift down.
func (g *Graph) EraseBlockParam(block BlockID, index int) {
	b := g.Block(block)
	if b == nil || index < 0 || index >= len(b.Params) {
		panic("ir: EraseBlockParam out of range")
	}
	p := g.Value(b.Params[index])
	if p == nil {
		panic("ir: EraseBlockParam on erased value")
	}
	if len(p.Uses) > 0 {
		panic(fmt.Sprintf("ir: erasing block param %d with %d uses", index, len(p.Uses)))
	}
	p.Dead = true
	b.Params = append(b.Params[:index], b.Params[index+1:]...)
	for j := index; j < len(b.Params); j++ {
		g.values[b.Params[j]].DefIndex = int32(j)
	}
}

// ---- ownership transfer ----

// TakeBody moves the block list of src into dst. dst must be empty; src is
// left without blocks. Bodies move, they are never copied.
func (g *Graph) TakeBody(dst, src RegionID) {
	d := g.Region(dst)
	s := g.Region(src)
	if d == nil || s == nil {
		panic("ir: TakeBody on invalid region")
	}
	if len(d.Blocks) != 0 {
		panic("ir: TakeBody into a non-empty region")
	}
	d.Blocks = s.Blocks
	s.Blocks = nil
	for _, bid := range d.Blocks {
		g.blocks[bid].Parent = dst
	}
}

// MoveFuncBody transfers the body region of src onto dst, leaving src a
// declaration. dst must be a declaration beforehand.
func (g *Graph) MoveFuncBody(dst, src FuncID) {
	df := g.Func(dst)
	sf := g.Func(src)
	if df == nil || sf == nil {
		panic("ir: MoveFuncBody on invalid func")
	}
	if df.Region != NoRegionID {
		panic(fmt.Sprintf("ir: MoveFuncBody target %s already has a body", df.Name))
	}
	if sf.Region == NoRegionID {
		return
	}
	df.Region = sf.Region
	sf.Region = NoRegionID
	r := g.Region(df.Region)
	r.OwnerKind = OwnerFunc
	r.OwnerFunc = dst
	r.OwnerOp = NoOpID
}

// ---- module body management ----

func (g *Graph) symbolTaken(m *Module, name string) bool {
	for _, it := range m.Items {
		switch it.Kind {
		case ItemFunc:
			if g.funcs[it.Func].Name == name {
				return true
			}
		case ItemModule:
			if n := g.modules[it.Module].Name; n != "" && n == name {
				return true
			}
		}
	}
	return false
}

func (g *Graph) uniqueName(m *Module, base string) string {
	if !g.symbolTaken(m, base) {
		return base
	}
	for i := 0; ; i++ {
		name := fmt.Sprintf("%s_%d", base, i)
		if !g.symbolTaken(m, name) {
			return name
		}
	}
}

// InsertFunc places f into module m at item position at, renaming it when
// its name collides with an existing symbol. Returns the final name.
func (g *Graph) InsertFunc(m ModuleID, at int, f FuncID) string {
	mod := g.Module(m)
	fn := g.Func(f)
	if mod == nil || fn == nil {
		panic("ir: InsertFunc on invalid module or func")
	}
	if fn.Parent != NoModuleID {
		panic(fmt.Sprintf("ir: func %s already belongs to a module", fn.Name))
	}
	fn.Name = g.uniqueName(mod, fn.Name)
	g.insertItem(mod, at, Item{Kind: ItemFunc, Func: f})
	fn.Parent = m
	return fn.Name
}

// AppendFunc places f at the end of module m, renaming on collision.
func (g *Graph) AppendFunc(m ModuleID, f FuncID) string {
	return g.InsertFunc(m, len(g.Module(m).Items), f)
}

// InsertModule places child into module m at item position at.
func (g *Graph) InsertModule(m ModuleID, at int, child ModuleID) {
	mod := g.Module(m)
	ch := g.Module(child)
	if mod == nil || ch == nil {
		panic("ir: InsertModule on invalid module")
	}
	if ch.Parent != NoModuleID {
		panic("ir: InsertModule on a module that already has a parent")
	}
	if ch.Name != "" {
		ch.Name = g.uniqueName(mod, ch.Name)
	}
	g.insertItem(mod, at, Item{Kind: ItemModule, Module: child})
	ch.Parent = m
}

func (g *Graph) insertItem(mod *Module, at int, it Item) {
	if at < 0 || at > len(mod.Items) {
		panic("ir: module insert position out of range")
	}
	mod.Items = append(mod.Items, Item{})
	copy(mod.Items[at+1:], mod.Items[at:])
	mod.Items[at] = it
}

// ItemIndex returns the position of f in m's item list, or -1.
func (g *Graph) ItemIndex(m ModuleID, f FuncID) int {
	mod := g.Module(m)
	if mod == nil {
		return -1
	}
	for i, it := range mod.Items {
		if it.Kind == ItemFunc && it.Func == f {
			return i
		}
	}
	return -1
}

// Funcs returns the functions of m in declaration order.
func (g *Graph) Funcs(m ModuleID) []FuncID {
	mod := g.Module(m)
	if mod == nil {
		return nil
	}
	var out []FuncID
	for _, it := range mod.Items {
		if it.Kind == ItemFunc {
			out = append(out, it.Func)
		}
	}
	return out
}

// EntryBlock returns the first body block of f, or NoBlockID for
// declarations.
func (g *Graph) EntryBlock(f FuncID) BlockID {
	fn := g.Func(f)
	if fn == nil || fn.Region == NoRegionID {
		return NoBlockID
	}
	r := g.Region(fn.Region)
	if r == nil || len(r.Blocks) == 0 {
		return NoBlockID
	}
	return r.Blocks[0]
}
