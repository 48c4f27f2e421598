package recon

// Route wires the inputs of dest, declared by ns, into p and returns the
// connections it created.
//
// A node reading from the global source gets each declared input the global
// source provides. A node with an upstream node gets every slot the upstream
// outputs and dest declares from the upstream, and every remaining global
// field from the global source whether dest declares it or not.
func Route(p *Pipeline, dest *Unit, ns NodeSpec) ([]Connection, error) {
	needed := dest.inputs

	up, ok := ns.Upstream()
	if !ok {
		return connectAll(p, dest, GlobalSourceName, intersect(needed, p.globalFields))
	}

	upstream, ok := p.units[up]
	if !ok {
		return nil, &UnresolvedNodeError{Node: ns.Name, Input: up}
	}
	fromUpstream := intersect(upstream.outputs, needed)
	fromGlobal := subtract(p.globalFields, fromUpstream)

	conns, err := connectAll(p, dest, GlobalSourceName, fromGlobal)
	if err != nil {
		return nil, err
	}
	more, err := connectAll(p, dest, upstream.Name, fromUpstream)
	if err != nil {
		return nil, err
	}
	return append(conns, more...), nil
}

func connectAll(p *Pipeline, dest *Unit, from string, slots []string) ([]Connection, error) {
	conns := make([]Connection, 0, len(slots))
	for _, slot := range slots {
		c := Connection{
			From: Endpoint{Unit: from, Slot: slot},
			To:   Endpoint{Unit: dest.Name, Slot: slot},
		}
		if err := p.connect(c); err != nil {
			return nil, err
		}
		conns = append(conns, c)
	}
	return conns, nil
}
