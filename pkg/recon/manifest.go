package recon

// Manifest is the serialisable hand-off form of a pipeline.
type Manifest struct {
	Name         string               `json:"name" yaml:"name"`
	Spec         string               `json:"spec" yaml:"spec"`
	GlobalSource ManifestSource       `json:"global_source" yaml:"global_source"`
	Order        []string             `json:"order" yaml:"order"`
	Units        []ManifestUnit       `json:"units" yaml:"units"`
	Connections  []ManifestConnection `json:"connections" yaml:"connections"`
	Sinks        []ManifestSink       `json:"sinks,omitempty" yaml:"sinks,omitempty"`
}

type ManifestSource struct {
	Name   string   `json:"name" yaml:"name"`
	Fields []string `json:"fields" yaml:"fields"`
}

type ManifestUnit struct {
	Name         string     `json:"name" yaml:"name"`
	Software     Software   `json:"software" yaml:"software"`
	Action       Action     `json:"action" yaml:"action"`
	OutputSuffix string     `json:"output_suffix,omitempty" yaml:"output_suffix,omitempty"`
	Parameters   Parameters `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Threads      int        `json:"threads,omitempty" yaml:"threads,omitempty"`
	Inputs       []string   `json:"inputs" yaml:"inputs"`
	Outputs      []string   `json:"outputs" yaml:"outputs"`
	Nodes        []string   `json:"nodes" yaml:"nodes"`
}

type ManifestConnection struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

type ManifestSink struct {
	ID            string       `json:"id" yaml:"id"`
	Category      SinkCategory `json:"category" yaml:"category"`
	BaseDirectory string       `json:"base_directory" yaml:"base_directory"`
	Provenance    bool         `json:"provenance,omitempty" yaml:"provenance,omitempty"`
}

// Manifest returns the hand-off form of p.
func (p *Pipeline) Manifest() Manifest {
	m := Manifest{
		Name:         p.Name,
		Spec:         p.Spec,
		GlobalSource: ManifestSource{Name: GlobalSourceName, Fields: p.GlobalFields()},
		Order:        p.Order(),
	}
	for _, u := range p.Units() {
		m.Units = append(m.Units, ManifestUnit{
			Name:         u.Name,
			Software:     u.Key.Software,
			Action:       u.Key.Action,
			OutputSuffix: u.OutputSuffix,
			Parameters:   u.Params.Clone(),
			Threads:      u.Threads,
			Inputs:       u.Inputs(),
			Outputs:      u.Outputs(),
			Nodes:        u.Nodes(),
		})
	}
	for _, c := range p.conns {
		m.Connections = append(m.Connections, ManifestConnection{From: c.From.String(), To: c.To.String()})
	}
	for _, s := range p.Sinks() {
		m.Sinks = append(m.Sinks, ManifestSink{
			ID:            s.ID,
			Category:      s.Category,
			BaseDirectory: s.BaseDirectory,
			Provenance:    s.Provenance,
		})
	}
	return m
}
