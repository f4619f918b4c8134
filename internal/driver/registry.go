// Package driver sequences IR passes over a module and owns the pass
// registry, the pipeline manifest, and post-pipeline validation.
package driver

import (
	"fmt"

	"warp/internal/gpu"
	"warp/internal/ir"
)

// Pass is one registered transformation: a plain callable entry point with
// no self-registering global state.
type Pass struct {
	Name string
	Doc  string
	Run  func(g *ir.Graph, root ir.ModuleID) error
}

// Registry is an explicit pass table owned by the driver.
type Registry struct {
	order  []string
	byName map[string]Pass
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Pass)}
}

// Register adds a pass. Registering a duplicate name is a programmer error.
func (r *Registry) Register(p Pass) {
	if p.Name == "" || p.Run == nil {
		panic("driver: registering an unnamed or nil pass")
	}
	if _, ok := r.byName[p.Name]; ok {
		panic(fmt.Sprintf("driver: pass %s registered twice", p.Name))
	}
	r.order = append(r.order, p.Name)
	r.byName[p.Name] = p
}

// Lookup returns the pass registered under name.
func (r *Registry) Lookup(name string) (Pass, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Names returns registered pass names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Doc returns the doc string of a registered pass.
func (r *Registry) Doc(name string) string {
	return r.byName[name].Doc
}

// DefaultRegistry returns the registry with every built-in pass.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Pass{
		Name: gpu.PassName,
		Doc:  "Outline gpu.launch bodies to kernel functions.",
		Run:  gpu.OutlineModule,
	})
	return r
}
