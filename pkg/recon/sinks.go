package recon

import "strings"

const (
	sinkPrefix       = "ds"
	provenancePrefix = "ds_"
	reportMarker     = "report"

	// SourceFileSlot is the sink input names are derived from.
	SourceFileSlot = "source_file"
	// ProvenanceField is the global field wired into SourceFileSlot.
	ProvenanceField = "dwi_file"
)

// SinkCategory is the destination directory class of a sink.
type SinkCategory string

const (
	SinkOutput    SinkCategory = "output"
	SinkReportlet SinkCategory = "reportlets"
)

// Sink is the persistence routing assigned to one inner node.
type Sink struct {
	ID            string // "unit.node"
	Unit          string
	Node          string
	Category      SinkCategory
	BaseDirectory string
	// Provenance is set when SourceFileSlot is wired from the global source.
	Provenance bool
}

// ClassifySink inspects the trailing component of an identifier. sink is
// true for names starting with "ds"; reportlet when the name also contains
// "report"; provenance for the stricter "ds_" prefix.
func ClassifySink(id string) (sink, reportlet, provenance bool) {
	suffix := id[strings.LastIndex(id, ".")+1:]
	if !strings.HasPrefix(suffix, sinkPrefix) {
		return false, false, false
	}
	return true, strings.Contains(suffix, reportMarker), strings.HasPrefix(suffix, provenancePrefix)
}

// AttachSinks assigns a base directory to every sink in p and wires the
// provenance slot of "ds_" sinks. It may be applied more than once.
func AttachSinks(p *Pipeline, outputDir, reportletsDir string) error {
	for _, u := range p.Units() {
		for _, node := range u.nodes {
			id := u.Name + "." + node
			sink, reportlet, provenance := ClassifySink(id)
			if !sink {
				continue
			}
			s := &Sink{
				ID:            id,
				Unit:          u.Name,
				Node:          node,
				Category:      SinkOutput,
				BaseDirectory: outputDir,
			}
			if reportlet {
				s.Category = SinkReportlet
				s.BaseDirectory = reportletsDir
			}
			if provenance {
				err := p.connect(Connection{
					From: Endpoint{Unit: GlobalSourceName, Slot: ProvenanceField},
					To:   Endpoint{Unit: u.Name, Node: node, Slot: SourceFileSlot},
				})
				if err != nil {
					return err
				}
				s.Provenance = true
			}
			p.sinks[id] = s
		}
	}
	return nil
}
