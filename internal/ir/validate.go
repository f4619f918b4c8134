package ir

import (
	"errors"
	"fmt"
)

// ValidateModule checks structural invariants of a module and every module
// nested inside it. Returns a joined error listing every violation.
func ValidateModule(g *Graph, m ModuleID) error {
	mod := g.Module(m)
	if mod == nil {
		return fmt.Errorf("invalid module id %d", m)
	}
	var errs []error
	for _, it := range mod.Items {
		switch it.Kind {
		case ItemFunc:
			if err := ValidateFunc(g, it.Func); err != nil {
				errs = append(errs, fmt.Errorf("function %s: %w", g.Func(it.Func).Name, err))
			}
		case ItemModule:
			if err := ValidateModule(g, it.Module); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if err := validateSymbols(g, mod); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ValidateFunc checks one function body:
// 1. every block ends with exactly one terminator op
// 2. every operand is defined inside the same function (no dangling
//    cross-function references)
// 3. launch_func arity matches the callee's declared signature
// 4. use lists mirror the operand lists
func ValidateFunc(g *Graph, f FuncID) error {
	fn := g.Func(f)
	if fn == nil {
		return fmt.Errorf("invalid func id %d", f)
	}
	if fn.IsDecl() {
		return nil
	}

	var errs []error
	if err := validateTerminated(g, fn); err != nil {
		errs = append(errs, err)
	}
	if err := validateDefs(g, f); err != nil {
		errs = append(errs, err)
	}
	if err := validateArity(g, f); err != nil {
		errs = append(errs, err)
	}
	if err := validateUses(g, f); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func validateTerminated(g *Graph, fn *Func) error {
	var errs []error
	var check func(region RegionID)
	check = func(region RegionID) {
		r := g.Region(region)
		for bi, bid := range r.Blocks {
			b := g.Block(bid)
			if len(b.Ops) == 0 {
				errs = append(errs, fmt.Errorf("bb%d: empty block", bi))
				continue
			}
			for i, oid := range b.Ops {
				op := g.Op(oid)
				last := i == len(b.Ops)-1
				if last && !op.Kind.IsTerminator() {
					errs = append(errs, fmt.Errorf("bb%d: block does not end with a terminator (got %s)", bi, op.Kind))
				}
				if !last && op.Kind.IsTerminator() {
					errs = append(errs, fmt.Errorf("bb%d: terminator %s in the middle of a block", bi, op.Kind))
				}
				for _, nested := range op.Regions {
					check(nested)
				}
			}
		}
	}
	check(fn.Region)
	return errors.Join(errs...)
}

// validateDefs checks that every operand used inside f is defined inside f,
// by an op result or a block parameter. Values flowing in from a sibling
// nested region of the host are flagged here rather than silently accepted.
func validateDefs(g *Graph, f FuncID) error {
	defined := make(map[ValueID]struct{})
	fn := g.Func(f)
	var collect func(region RegionID)
	collect = func(region RegionID) {
		r := g.Region(region)
		for _, bid := range r.Blocks {
			b := g.Block(bid)
			for _, p := range b.Params {
				defined[p] = struct{}{}
			}
			for _, oid := range b.Ops {
				op := g.Op(oid)
				if op == nil {
					continue
				}
				for _, res := range op.Results {
					defined[res] = struct{}{}
				}
				for _, nested := range op.Regions {
					collect(nested)
				}
			}
		}
	}
	collect(fn.Region)

	var errs []error
	g.WalkFuncOps(f, func(id OpID) {
		op := g.Op(id)
		for i, v := range op.Operands {
			if g.Value(v) == nil {
				errs = append(errs, fmt.Errorf("%s operand %d references an erased value", op.Kind, i))
				continue
			}
			if _, ok := defined[v]; !ok {
				errs = append(errs, fmt.Errorf("%s operand %d references a value defined outside the function", op.Kind, i))
			}
		}
	})
	return errors.Join(errs...)
}

func validateArity(g *Graph, f FuncID) error {
	var errs []error
	g.WalkFuncOps(f, func(id OpID) {
		op := g.Op(id)
		if op.Kind != OpLaunchFunc {
			return
		}
		callee := g.Func(op.Callee)
		if callee == nil {
			errs = append(errs, errors.New("launch_func references an invalid callee"))
			return
		}
		if len(op.Operands) < LaunchConfigOperands {
			errs = append(errs, fmt.Errorf("launch_func has %d operands, fewer than the %d launch config operands",
				len(op.Operands), LaunchConfigOperands))
			return
		}
		args := len(op.Operands) - LaunchConfigOperands
		if args != len(callee.Params) {
			errs = append(errs, fmt.Errorf("launch_func passes %d arguments but callee %s declares %d parameters",
				args, callee.Name, len(callee.Params)))
		}
	})
	return errors.Join(errs...)
}

func validateUses(g *Graph, f FuncID) error {
	var errs []error
	g.WalkFuncOps(f, func(id OpID) {
		op := g.Op(id)
		for i, v := range op.Operands {
			val := g.Value(v)
			if val == nil {
				continue
			}
			found := false
			for _, u := range val.Uses {
				if u.Op == id && u.Index == int32(i) {
					found = true
					break
				}
			}
			if !found {
				errs = append(errs, fmt.Errorf("%s operand %d is missing from the value's use list", op.Kind, i))
			}
		}
	})
	return errors.Join(errs...)
}

// ValidateSymbols checks symbol uniqueness in m and every nested module,
// without touching function bodies.
func ValidateSymbols(g *Graph, m ModuleID) error {
	mod := g.Module(m)
	if mod == nil {
		return fmt.Errorf("invalid module id %d", m)
	}
	var errs []error
	if err := validateSymbols(g, mod); err != nil {
		errs = append(errs, err)
	}
	for _, it := range mod.Items {
		if it.Kind == ItemModule {
			if err := ValidateSymbols(g, it.Module); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func validateSymbols(g *Graph, mod *Module) error {
	seen := make(map[string]struct{})
	var errs []error
	for _, it := range mod.Items {
		var name string
		switch it.Kind {
		case ItemFunc:
			name = g.Func(it.Func).Name
		case ItemModule:
			name = g.Module(it.Module).Name
		}
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			errs = append(errs, fmt.Errorf("duplicate symbol %q in module", name))
		}
		seen[name] = struct{}{}
	}
	return errors.Join(errs...)
}
