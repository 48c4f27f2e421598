package recon

import (
	"sort"

	"go.uber.org/zap"
)

// unwiredGraph holds every resolved unit of a spec before any connection
// exists. Wiring needs all units present since inputs may reference nodes
// declared later in the spec.
type unwiredGraph struct {
	spec  *Spec
	opts  Options
	units []*Unit
}

// insert resolves every node, then checks name uniqueness once across the
// full set (global source included).
func (c *Compiler) insert(spec *Spec, opts Options) (*unwiredGraph, error) {
	g := &unwiredGraph{
		spec:  spec,
		opts:  opts,
		units: make([]*Unit, 0, len(spec.Nodes)),
	}
	names := []string{GlobalSourceName}
	for _, ns := range spec.Nodes {
		u, err := c.Resolve(ns, opts)
		if err != nil {
			return nil, err
		}
		g.units = append(g.units, u)
		names = append(names, u.Name)
	}
	if dups := duplicates(names); len(dups) > 0 {
		return nil, &DuplicateNodeNameError{Names: dups}
	}
	return g, nil
}

// wire routes every node's inputs, validates the result and attaches sinks.
func (g *unwiredGraph) wire(logger *zap.Logger) (*Pipeline, error) {
	name := g.opts.Name
	if name == "" {
		name = DefaultPipelineName
	}
	p := newPipeline(name, g.spec.Source, g.opts.globalFields())
	for _, u := range g.units {
		p.addUnit(u)
	}

	for i, ns := range g.spec.Nodes {
		dest := g.units[i]
		if up, ok := ns.Upstream(); ok {
			p.upstream[dest.Name] = up
		}
		if _, err := Route(p, dest, ns); err != nil {
			return nil, err
		}
		if missing := p.Unfilled(dest.Name); len(missing) > 0 {
			logger.Debug("unit has unfilled inputs",
				zap.String("node", dest.Name),
				zap.Strings("slots", missing))
		}
	}

	order, err := topoOrder(p)
	if err != nil {
		return nil, err
	}
	p.order = order

	if err := AttachSinks(p, g.opts.OutputDir, g.opts.ReportletsDir); err != nil {
		return nil, err
	}
	return p, nil
}

func duplicates(names []string) []string {
	counts := make(map[string]int, len(names))
	for _, n := range names {
		counts[n]++
	}
	if len(counts) == len(names) {
		return nil
	}
	var dups []string
	for n, c := range counts {
		if c > 1 {
			dups = append(dups, n)
		}
	}
	sort.Strings(dups)
	return dups
}
