package gpu

import (
	"fmt"

	"warp/internal/ir"
)

// createForAllDims creates one index op per axis in x, y, z order and
// collects the results.
func createForAllDims(b *ir.Builder, kind ir.OpKind, out *[]ir.ValueID) {
	g := b.Graph()
	index := g.Types.Builtins().Index
	for _, dim := range dims {
		op := b.Create(kind, nil, []ir.TypeID{index}, 0,
			ir.AttrSet{DimAttrName: ir.StringAttr(dim)})
		*out = append(*out, g.Op(op).Results[0])
	}
}

// InjectIndexOps adds ops producing block/thread ids and grid/block
// dimensions at the start of kernel's entry block and replaces the uses of
// the twelve leading placeholder parameters with them. The entry block
// signature shrinks by exactly twelve.
func InjectIndexOps(g *ir.Graph, kernel ir.FuncID) {
	entry := g.EntryBlock(kernel)
	if entry == ir.NoBlockID {
		panic(fmt.Sprintf("gpu: kernel %s has no entry block", g.Func(kernel).Name))
	}
	blk := g.Block(entry)
	if len(blk.Params) < NumIndexPlaceholders {
		panic(fmt.Sprintf("gpu: kernel %s entry block has %d placeholder parameters, need %d",
			g.Func(kernel).Name, len(blk.Params), NumIndexPlaceholders))
	}

	b := ir.NewBuilder(g)
	b.SetInsertionPointStart(entry)
	indexOps := make([]ir.ValueID, 0, NumIndexPlaceholders)
	createForAllDims(b, ir.OpBlockID, &indexOps)
	createForAllDims(b, ir.OpThreadID, &indexOps)
	createForAllDims(b, ir.OpGridDim, &indexOps)
	createForAllDims(b, ir.OpBlockDim, &indexOps)

	// Replace the leading 12 placeholder parameters with the index op
	// results. Iterate backwards since params are erased and indices change.
	for i := NumIndexPlaceholders - 1; i >= 0; i-- {
		g.ReplaceAllUses(blk.Params[i], indexOps[i])
		g.EraseBlockParam(entry, i)
	}
}
