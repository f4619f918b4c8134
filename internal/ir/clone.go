package ir

// CloneFuncDecl copies a function's name, signature and attributes into a
// fresh declaration with no body and no parent module.
func (g *Graph) CloneFuncDecl(f FuncID) FuncID {
	fn := g.Func(f)
	if fn == nil {
		panic("ir: CloneFuncDecl on invalid func")
	}
	id := g.NewFunc(fn.Name, fn.Params, fn.Results)
	g.funcs[id].Attrs = fn.Attrs.Clone()
	return id
}
