package layout

import "warp/internal/ir"

type cache struct {
	byType map[ir.TypeID]TypeLayout
}

func newCache() *cache {
	return &cache{byType: make(map[ir.TypeID]TypeLayout, 64)}
}

func (c *cache) get(id ir.TypeID) (TypeLayout, bool) {
	if c == nil {
		return TypeLayout{}, false
	}
	l, ok := c.byType[id]
	return l, ok
}

func (c *cache) put(id ir.TypeID, l *TypeLayout) {
	if c == nil {
		return
	}
	if l == nil {
		delete(c.byType, id)
		return
	}
	c.byType[id] = *l
}
