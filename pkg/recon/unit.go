package recon

import (
	"slices"
	"sort"
)

// Unit is a resolved processing unit: an opaque sub-workflow with a declared
// input port, a declared output port and a set of named inner nodes.
// Units are owned by the pipeline they are built into.
type Unit struct {
	Name         string
	Key          Key
	OutputSuffix string
	Params       Parameters
	Threads      int

	inputs  []string
	outputs []string
	nodes   []string
}

// NewUnit returns a unit with the given contract. Slot lists are copied and
// sorted; nodes keep their order.
func NewUnit(name string, key Key, inputs, outputs, nodes []string) *Unit {
	return &Unit{
		Name:    name,
		Key:     key,
		inputs:  sortedSet(inputs),
		outputs: sortedSet(outputs),
		nodes:   append([]string(nil), nodes...),
	}
}

// Inputs returns the declared input slot names.
func (u *Unit) Inputs() []string { return slices.Clone(u.inputs) }

// Outputs returns the declared output slot names.
func (u *Unit) Outputs() []string { return slices.Clone(u.outputs) }

// Nodes returns the inner node names.
func (u *Unit) Nodes() []string { return slices.Clone(u.nodes) }

// HasInput reports whether slot is a declared input.
func (u *Unit) HasInput(slot string) bool {
	_, ok := slices.BinarySearch(u.inputs, slot)
	return ok
}

// HasOutput reports whether slot is a declared output.
func (u *Unit) HasOutput(slot string) bool {
	_, ok := slices.BinarySearch(u.outputs, slot)
	return ok
}

// Identifiers returns the fully qualified inner node identifiers
// ("unit.node").
func (u *Unit) Identifiers() []string {
	out := make([]string, len(u.nodes))
	for i, n := range u.nodes {
		out[i] = u.Name + "." + n
	}
	return out
}

func sortedSet(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func intersect(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, s := range b {
		set[s] = struct{}{}
	}
	var out []string
	for _, s := range a {
		if _, ok := set[s]; ok {
			out = append(out, s)
		}
	}
	return sortedSet(out)
}

func subtract(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, s := range b {
		set[s] = struct{}{}
	}
	var out []string
	for _, s := range a {
		if _, ok := set[s]; !ok {
			out = append(out, s)
		}
	}
	return sortedSet(out)
}
