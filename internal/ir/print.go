package ir

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// DumpOptions configures module dumping.
type DumpOptions struct{}

// DumpModule writes a deterministic human-readable representation of a
// module tree.
func DumpModule(w io.Writer, g *Graph, m ModuleID, _ DumpOptions) error {
	if w == nil || g == nil {
		return nil
	}
	return dumpModule(w, g, m, 0)
}

func dumpModule(w io.Writer, g *Graph, m ModuleID, depth int) error {
	mod := g.Module(m)
	if mod == nil {
		return fmt.Errorf("invalid module id %d", m)
	}
	ind := strings.Repeat("  ", depth)
	header := "module"
	if mod.Name != "" {
		header += " @" + mod.Name
	}
	if attrs := formatAttrs(mod.Attrs); attrs != "" {
		header += " " + attrs
	}
	fmt.Fprintf(w, "%s%s {\n", ind, header)
	for _, it := range mod.Items {
		switch it.Kind {
		case ItemFunc:
			if err := dumpFunc(w, g, it.Func, depth+1); err != nil {
				return err
			}
		case ItemModule:
			if err := dumpModule(w, g, it.Module, depth+1); err != nil {
				return err
			}
		}
	}
	fmt.Fprintf(w, "%s}\n", ind)
	return nil
}

// names assigns stable per-function value names: entry parameters first,
// then every value in pre-order.
type names map[ValueID]string

func (n names) of(v ValueID) string {
	if s, ok := n[v]; ok {
		return s
	}
	return "%?"
}

func dumpFunc(w io.Writer, g *Graph, f FuncID, depth int) error {
	fn := g.Func(f)
	ind := strings.Repeat("  ", depth)

	var sig strings.Builder
	sig.WriteString("func @" + fn.Name + "(")
	for i, t := range fn.Params {
		if i > 0 {
			sig.WriteString(", ")
		}
		sig.WriteString(g.Types.String(t))
	}
	sig.WriteString(")")
	if attrs := formatAttrs(fn.Attrs); attrs != "" {
		sig.WriteString(" " + attrs)
	}
	if fn.IsDecl() {
		fmt.Fprintf(w, "%s%s\n", ind, sig.String())
		return nil
	}
	fmt.Fprintf(w, "%s%s {\n", ind, sig.String())

	nm := names{}
	next := 0
	assign := func(v ValueID) string {
		name := fmt.Sprintf("%%%d", next)
		next++
		nm[v] = name
		return name
	}
	var number func(region RegionID)
	number = func(region RegionID) {
		r := g.Region(region)
		for _, bid := range r.Blocks {
			b := g.Block(bid)
			for _, p := range b.Params {
				assign(p)
			}
			for _, oid := range b.Ops {
				op := g.Op(oid)
				if op == nil {
					continue
				}
				for _, res := range op.Results {
					assign(res)
				}
				for _, nested := range op.Regions {
					number(nested)
				}
			}
		}
	}
	number(fn.Region)

	dumpRegion(w, g, fn.Region, nm, depth+1)
	fmt.Fprintf(w, "%s}\n", ind)
	return nil
}

func dumpRegion(w io.Writer, g *Graph, region RegionID, nm names, depth int) {
	ind := strings.Repeat("  ", depth)
	r := g.Region(region)
	for bi, bid := range r.Blocks {
		b := g.Block(bid)
		var params strings.Builder
		for i, p := range b.Params {
			if i > 0 {
				params.WriteString(", ")
			}
			fmt.Fprintf(&params, "%s: %s", nm.of(p), g.Types.String(g.Value(p).Type))
		}
		if params.Len() > 0 {
			fmt.Fprintf(w, "%sbb%d(%s):\n", ind, bi, params.String())
		} else {
			fmt.Fprintf(w, "%sbb%d:\n", ind, bi)
		}
		for _, oid := range b.Ops {
			dumpOp(w, g, oid, nm, depth+1)
		}
	}
}

func dumpOp(w io.Writer, g *Graph, id OpID, nm names, depth int) {
	ind := strings.Repeat("  ", depth)
	op := g.Op(id)
	if op == nil {
		return
	}

	var line strings.Builder
	if len(op.Results) > 0 {
		for i, res := range op.Results {
			if i > 0 {
				line.WriteString(", ")
			}
			line.WriteString(nm.of(res))
		}
		line.WriteString(" = ")
	}
	line.WriteString(op.Kind.String())
	if op.Callee != NoFuncID {
		if callee := g.Func(op.Callee); callee != nil {
			line.WriteString(" @" + callee.Name)
		}
	}
	if len(op.Operands) > 0 {
		line.WriteString("(")
		for i, v := range op.Operands {
			if i > 0 {
				line.WriteString(", ")
			}
			line.WriteString(nm.of(v))
		}
		line.WriteString(")")
	}
	if attrs := formatAttrs(op.Attrs); attrs != "" {
		line.WriteString(" " + attrs)
	}
	if len(op.Results) > 0 {
		line.WriteString(" : ")
		for i, res := range op.Results {
			if i > 0 {
				line.WriteString(", ")
			}
			line.WriteString(g.Types.String(g.Value(res).Type))
		}
	}
	fmt.Fprintf(w, "%s%s\n", ind, line.String())
	for _, nested := range op.Regions {
		fmt.Fprintf(w, "%s{\n", ind)
		dumpRegion(w, g, nested, nm, depth+1)
		fmt.Fprintf(w, "%s}\n", ind)
	}
}

func formatAttrs(attrs AttrSet) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("{")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		a := attrs[k]
		switch a.Kind {
		case AttrUnit:
			b.WriteString(k)
		case AttrString:
			fmt.Fprintf(&b, "%s = %q", k, a.Str)
		case AttrInt:
			fmt.Fprintf(&b, "%s = %d", k, a.Int)
		case AttrFloat:
			fmt.Fprintf(&b, "%s = %g", k, a.Float)
		}
	}
	b.WriteString("}")
	return b.String()
}
