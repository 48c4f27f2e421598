package recon

import "strings"

type override struct {
	path  string
	value any
}

// sloppyRules replace slow, high-quality settings with fast ones. Values are
// constants so applying them twice changes nothing.
var sloppyRules = map[Key][]override{
	{SoftwareMRTrix3, ActionTractography}:       {{"tckgen.select", 1000}},
	{SoftwareMRTrix3, ActionGlobalTractography}: {{"tckglobal.niter", 100000}},
	{SoftwareDSIStudio, ActionTractography}:     {{"fiber_count", 1000}},
	{SoftwareDSIStudio, ActionAutotrack}:        {{"track_voxel_ratio", 0.5}},
	{SoftwareDipy, Action3DSHORE}:               {{"radial_order", 4}},
	{SoftwareDipy, ActionMAPMRI}:                {{"radial_order", 4}},
}

// MakeSloppy returns a copy of spec with sloppy parameter overrides applied.
// Node names, order and inputs are unchanged.
func MakeSloppy(spec *Spec) *Spec {
	out := spec.Clone()
	for i := range out.Nodes {
		n := &out.Nodes[i]
		for _, o := range sloppyRules[n.Key()] {
			// A non-object parent (e.g. "tckgen": "x" or null) cannot take
			// the override; the node keeps its own value.
			if dot := strings.LastIndex(o.path, "."); dot >= 0 {
				if parent := n.Parameters.Get(o.path[:dot]); parent.Exists() && !parent.IsObject() {
					continue
				}
			}
			if params, err := n.Parameters.With(o.path, o.value); err == nil {
				n.Parameters = params
			}
		}
	}
	return out
}
