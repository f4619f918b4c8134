package ir

// Builder creates operations at a movable insertion point. Successive
// creates keep source order: each inserted op advances the point past
// itself.
type Builder struct {
	g     *Graph
	block BlockID
	at    int
}

// NewBuilder returns a builder with no insertion point set.
func NewBuilder(g *Graph) *Builder {
	return &Builder{g: g, block: NoBlockID}
}

// Graph returns the graph the builder mutates.
func (b *Builder) Graph() *Graph {
	return b.g
}

// SetInsertionPoint places the builder at position at of block.
func (b *Builder) SetInsertionPoint(block BlockID, at int) {
	blk := b.g.Block(block)
	if blk == nil || at < 0 || at > len(blk.Ops) {
		panic("ir: builder insertion point out of range")
	}
	b.block = block
	b.at = at
}

// SetInsertionPointStart places the builder before the first op of block.
func (b *Builder) SetInsertionPointStart(block BlockID) {
	b.SetInsertionPoint(block, 0)
}

// SetInsertionPointEnd places the builder after the last op of block.
func (b *Builder) SetInsertionPointEnd(block BlockID) {
	blk := b.g.Block(block)
	if blk == nil {
		panic("ir: builder insertion point on invalid block")
	}
	b.SetInsertionPoint(block, len(blk.Ops))
}

// SetInsertionPointBefore places the builder directly before op.
func (b *Builder) SetInsertionPointBefore(op OpID) {
	o := b.g.Op(op)
	if o == nil || o.Parent == NoBlockID {
		panic("ir: builder insertion point before detached op")
	}
	blk := b.g.Block(o.Parent)
	for i, id := range blk.Ops {
		if id == op {
			b.SetInsertionPoint(o.Parent, i)
			return
		}
	}
	panic("ir: op not found in its parent block")
}

// Create builds an op at the insertion point and advances past it.
func (b *Builder) Create(kind OpKind, operands []ValueID, resultTypes []TypeID, numRegions int, attrs AttrSet) OpID {
	if b.block == NoBlockID {
		panic("ir: builder has no insertion point")
	}
	op := b.g.NewOp(kind, operands, resultTypes, numRegions, attrs)
	b.g.InsertOp(op, b.block, b.at)
	b.at++
	return op
}

// Clone copies src (kind, attrs, operands, result types, callee) at the
// insertion point. Attached regions are not cloned; result values are
// fresh.
func (b *Builder) Clone(src OpID) OpID {
	o := b.g.Op(src)
	if o == nil {
		panic("ir: clone of invalid op")
	}
	if len(o.Regions) != 0 {
		panic("ir: clone of region-bearing ops is not supported")
	}
	resultTypes := make([]TypeID, 0, len(o.Results))
	for _, r := range o.Results {
		resultTypes = append(resultTypes, b.g.values[r].Type)
	}
	id := b.Create(o.Kind, o.Operands, resultTypes, 0, o.Attrs)
	b.g.ops[id].Callee = o.Callee
	return id
}
