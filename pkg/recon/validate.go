package recon

// topoOrder orders units upstream first, ties broken by spec order, and
// rejects cycles in the input references. Each unit has at most one
// upstream, so the dependency graph is a forest unless a cycle exists.
func topoOrder(p *Pipeline) ([]string, error) {
	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int, len(p.specOrder))
	order := make([]string, 0, len(p.specOrder))
	var path []string

	var visit func(name string) error
	visit = func(name string) error {
		color[name] = grey
		path = append(path, name)
		if up, ok := p.upstream[name]; ok {
			switch color[up] {
			case grey:
				start := 0
				for i, n := range path {
					if n == up {
						start = i
						break
					}
				}
				cycle := append(append([]string(nil), path[start:]...), up)
				// Report in data-flow direction.
				for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}
				return &CycleError{Path: cycle}
			case white:
				if err := visit(up); err != nil {
					return err
				}
			}
		}
		path = path[:len(path)-1]
		color[name] = black
		order = append(order, name)
		return nil
	}

	for _, name := range p.specOrder {
		if color[name] == white {
			if err := visit(name); err != nil {
				return nil, err
			}
		}
	}
	return order, nil
}
