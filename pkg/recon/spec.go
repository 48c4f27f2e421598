package recon

import "fmt"

// Software identifies the backend a node is built with.
type Software string

const (
	SoftwareQSIPrep   Software = "qsiprep"
	SoftwareDSIStudio Software = "DSI Studio"
	SoftwareMRTrix3   Software = "MRTrix3"
	SoftwareDipy      Software = "Dipy"
	SoftwareAMICO     Software = "AMICO"
	SoftwarePyAFQ     Software = "pyAFQ"
)

// Action is a backend-specific operation tag.
type Action string

const (
	// qsiprep
	ActionConform                Action = "conform"
	ActionDiscardRepeatedSamples Action = "discard_repeated_samples"
	ActionControllability        Action = "controllability"
	ActionMifToFib               Action = "mif_to_fib"
	ActionReorientFSLStd         Action = "reorient_fslstd"
	ActionSteinhardt             Action = "steinhardt_order_parameters"

	// DSI Studio
	ActionReconstruction Action = "reconstruction"
	ActionExport         Action = "export"
	ActionAutotrack      Action = "autotrack"

	// shared by DSI Studio and MRTrix3
	ActionTractography Action = "tractography"
	ActionConnectivity Action = "connectivity"

	// MRTrix3
	ActionCSD                Action = "csd"
	ActionGlobalTractography Action = "global_tractography"

	// Dipy
	Action3DSHORE Action = "3dSHORE_reconstruction"
	ActionMAPMRI  Action = "MAPMRI_reconstruction"
	ActionDKI     Action = "DKI_reconstruction"

	// AMICO
	ActionFitNODDI Action = "fit_noddi"

	// pyAFQ
	ActionTractometry Action = "pyafq_tractometry"
)

// Key is the dispatch key of a builder.
type Key struct {
	Software Software
	Action   Action
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s", k.Software, k.Action)
}

// InputSentinel is the NodeSpec.Input value meaning "read from the global source".
const InputSentinel = "qsiprep"

// NodeSpec is one declarative node of a Spec.
type NodeSpec struct {
	Name         string     `json:"name"`
	Software     Software   `json:"software,omitempty"`
	Action       Action     `json:"action"`
	Parameters   Parameters `json:"parameters,omitempty"`
	OutputSuffix string     `json:"output_suffix,omitempty"`
	Input        string     `json:"input,omitempty"`
}

// Key returns the dispatch key, defaulting the software to qsiprep.
func (n NodeSpec) Key() Key {
	sw := n.Software
	if sw == "" {
		sw = SoftwareQSIPrep
	}
	return Key{Software: sw, Action: n.Action}
}

// Upstream returns the name of the node feeding this one, or false when the
// node reads from the global source.
func (n NodeSpec) Upstream() (string, bool) {
	if n.Input == "" || n.Input == InputSentinel {
		return "", false
	}
	return n.Input, true
}

// Spec is a parsed reconstruction spec document.
type Spec struct {
	Name       string     `json:"name"`
	Space      string     `json:"space"`
	Atlases    []string   `json:"atlases"`
	Anatomical []string   `json:"anatomical"`
	Nodes      []NodeSpec `json:"nodes"`

	// Source is the path or catalog name the document was loaded from.
	Source string `json:"-"`
}

// Clone returns a deep copy of s.
func (s *Spec) Clone() *Spec {
	out := &Spec{
		Name:       s.Name,
		Space:      s.Space,
		Atlases:    append([]string(nil), s.Atlases...),
		Anatomical: append([]string(nil), s.Anatomical...),
		Nodes:      make([]NodeSpec, len(s.Nodes)),
		Source:     s.Source,
	}
	for i, n := range s.Nodes {
		n.Parameters = n.Parameters.Clone()
		out.Nodes[i] = n
	}
	return out
}

// AnatomicalData describes which anatomical derivatives are available to the
// builders, keyed like "has_freesurfer".
type AnatomicalData map[string]bool

// Has reports whether the named derivative is available.
func (a AnatomicalData) Has(name string) bool { return a[name] }

// Clone returns an independent copy.
func (a AnatomicalData) Clone() AnatomicalData {
	out := make(AnatomicalData, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
