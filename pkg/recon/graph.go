package recon

import (
	"slices"
	"sort"
	"strings"
)

// Endpoint addresses one slot. Node is empty for a unit's own port and names
// an inner node otherwise (used for sink provenance slots).
type Endpoint struct {
	Unit string
	Node string
	Slot string
}

func (e Endpoint) String() string {
	parts := []string{e.Unit}
	if e.Node != "" {
		parts = append(parts, e.Node)
	}
	return strings.Join(append(parts, e.Slot), ".")
}

// Connection is a directed slot-to-slot edge.
type Connection struct {
	From Endpoint
	To   Endpoint
}

// FromGlobal reports whether the connection originates at the global source.
func (c Connection) FromGlobal() bool { return c.From.Unit == GlobalSourceName }

// Pipeline is an assembled, validated reconstruction graph. It is immutable
// once returned by Compiler.Build.
type Pipeline struct {
	Name string
	// Spec is the source of the spec the pipeline was built from.
	Spec string

	globalFields []string
	units        map[string]*Unit
	specOrder    []string
	upstream     map[string]string
	order        []string

	conns  []Connection
	byDest map[Endpoint]int
	sinks  map[string]*Sink
}

func newPipeline(name, spec string, globalFields []string) *Pipeline {
	return &Pipeline{
		Name:         name,
		Spec:         spec,
		globalFields: slices.Clone(globalFields),
		units:        make(map[string]*Unit),
		upstream:     make(map[string]string),
		byDest:       make(map[Endpoint]int),
		sinks:        make(map[string]*Sink),
	}
}

// Len returns the number of processing units, excluding the global source.
func (p *Pipeline) Len() int { return len(p.specOrder) }

// Empty reports whether the pipeline has no processing units.
func (p *Pipeline) Empty() bool { return len(p.specOrder) == 0 }

// GlobalFields returns the fields exposed by the global source.
func (p *Pipeline) GlobalFields() []string { return slices.Clone(p.globalFields) }

// HasGlobalField reports whether the global source exposes field.
func (p *Pipeline) HasGlobalField(field string) bool {
	return slices.Contains(p.globalFields, field)
}

// Unit returns the unit with the given name.
func (p *Pipeline) Unit(name string) (*Unit, bool) {
	u, ok := p.units[name]
	return u, ok
}

// Units returns all units in spec order.
func (p *Pipeline) Units() []*Unit {
	out := make([]*Unit, 0, len(p.specOrder))
	for _, name := range p.specOrder {
		out = append(out, p.units[name])
	}
	return out
}

// Upstream returns the name of the unit feeding name, if any.
func (p *Pipeline) Upstream(name string) (string, bool) {
	up, ok := p.upstream[name]
	return up, ok
}

// Order returns unit names in dependency order, upstream first.
func (p *Pipeline) Order() []string { return slices.Clone(p.order) }

// Connections returns every connection in creation order.
func (p *Pipeline) Connections() []Connection { return slices.Clone(p.conns) }

// ConnectionsTo returns connections whose destination is unit's port or one
// of its inner nodes.
func (p *Pipeline) ConnectionsTo(unit string) []Connection {
	var out []Connection
	for _, c := range p.conns {
		if c.To.Unit == unit {
			out = append(out, c)
		}
	}
	return out
}

// ConnectionsFrom returns connections whose source is unit.
func (p *Pipeline) ConnectionsFrom(unit string) []Connection {
	var out []Connection
	for _, c := range p.conns {
		if c.From.Unit == unit {
			out = append(out, c)
		}
	}
	return out
}

// Source returns the connection filling dest, if any.
func (p *Pipeline) Source(dest Endpoint) (Connection, bool) {
	i, ok := p.byDest[dest]
	if !ok {
		return Connection{}, false
	}
	return p.conns[i], true
}

// Unfilled returns the declared inputs of unit that no connection fills.
func (p *Pipeline) Unfilled(unit string) []string {
	u, ok := p.units[unit]
	if !ok {
		return nil
	}
	var out []string
	for _, slot := range u.inputs {
		if _, ok := p.byDest[Endpoint{Unit: unit, Slot: slot}]; !ok {
			out = append(out, slot)
		}
	}
	return out
}

// Sinks returns all persistence sinks sorted by identifier.
func (p *Pipeline) Sinks() []Sink {
	out := make([]Sink, 0, len(p.sinks))
	for _, s := range p.sinks {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Sink returns the sink with the given "unit.node" identifier.
func (p *Pipeline) Sink(id string) (Sink, bool) {
	s, ok := p.sinks[id]
	if !ok {
		return Sink{}, false
	}
	return *s, true
}

func (p *Pipeline) addUnit(u *Unit) {
	p.units[u.Name] = u
	p.specOrder = append(p.specOrder, u.Name)
}

// connect records c. Re-adding an identical connection is a no-op; a second
// source for the same destination is rejected.
func (p *Pipeline) connect(c Connection) error {
	if i, ok := p.byDest[c.To]; ok {
		if p.conns[i] == c {
			return nil
		}
		return &DuplicateConnectionError{Existing: p.conns[i], Rejected: c}
	}
	p.byDest[c.To] = len(p.conns)
	p.conns = append(p.conns, c)
	return nil
}
