package ir

// WalkFuncOps visits every op nested anywhere inside f in pre-order:
// an op is visited before the ops of its attached regions.
func (g *Graph) WalkFuncOps(f FuncID, visit func(OpID)) {
	fn := g.Func(f)
	if fn == nil || fn.Region == NoRegionID {
		return
	}
	g.walkRegion(fn.Region, visit)
}

func (g *Graph) walkRegion(region RegionID, visit func(OpID)) {
	r := g.Region(region)
	if r == nil {
		return
	}
	for _, bid := range r.Blocks {
		for _, oid := range g.Block(bid).Ops {
			op := g.Op(oid)
			if op == nil {
				continue
			}
			visit(oid)
			for _, nested := range op.Regions {
				g.walkRegion(nested, visit)
			}
		}
	}
}

// CollectOps snapshots the pre-order ops of f matching pred. Mutating the
// function afterwards does not disturb the returned list (collect-then-apply).
func (g *Graph) CollectOps(f FuncID, pred func(*Op) bool) []OpID {
	var out []OpID
	g.WalkFuncOps(f, func(id OpID) {
		if pred(g.Op(id)) {
			out = append(out, id)
		}
	})
	return out
}
