package ir

// Func is a named container owning at most one body region, with a declared
// parameter/result signature. A func without a region is a declaration.
type Func struct {
	ID     FuncID
	Name   string
	Parent ModuleID

	Params  []TypeID
	Results []TypeID

	Region RegionID
	Attrs  AttrSet
}

// IsDecl reports whether the function has no body.
func (f *Func) IsDecl() bool {
	return f.Region == NoRegionID
}
