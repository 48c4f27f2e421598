package recon_test

import (
	"testing"

	"go.uber.org/zap"

	"github.com/ravi-parthasarathy/qsirecon/pkg/recon"
	"github.com/ravi-parthasarathy/qsirecon/pkg/recon/backends"
)

// testRegistry holds small contracts whose slot names make wiring easy to
// reason about.
func testRegistry() *backends.Registry {
	reg := backends.NewRegistry()
	reg.Register(&backends.Contract{
		Software:    recon.SoftwareQSIPrep,
		Action:      recon.ActionConform,
		InputSlots:  []string{"dwi_file"},
		OutputSlots: []string{"conformed_dwi"},
		InnerNodes:  []string{"inputnode", "conform", "outputnode"},
	})
	reg.Register(&backends.Contract{
		Software:    recon.SoftwareMRTrix3,
		Action:      recon.ActionCSD,
		InputSlots:  []string{"conformed_dwi", "bval"},
		OutputSlots: []string{"fod_sh_mif"},
		InnerNodes:  []string{"inputnode", "estimate_fod", "plot_peaks", "ds_report_peaks", "ds_fod", "outputnode"},
	})
	// up produces {A, B}; down needs {A, C}.
	reg.Register(&backends.Contract{
		Software:    "test",
		Action:      "up",
		InputSlots:  []string{"A"},
		OutputSlots: []string{"A", "B"},
		InnerNodes:  []string{"work"},
	})
	reg.Register(&backends.Contract{
		Software:    "test",
		Action:      "down",
		InputSlots:  []string{"A", "C"},
		OutputSlots: []string{"D"},
		InnerNodes:  []string{"work", "dsfile", "ds_out", "ds_report_qc", "dsreport_summary"},
	})
	return reg
}

func newCompiler(t *testing.T, opts ...recon.CompilerOption) *recon.Compiler {
	t.Helper()
	c, err := recon.NewCompiler(testRegistry(), opts...)
	if err != nil {
		t.Fatalf("NewCompiler: %v", err)
	}
	return c
}

func newTestLoader() *recon.Loader {
	return recon.NewLoader(nil, zap.NewNop())
}

func node(name string, sw recon.Software, action recon.Action, input string) recon.NodeSpec {
	return recon.NodeSpec{Name: name, Software: sw, Action: action, Input: input}
}

func connStrings(conns []recon.Connection) []string {
	out := make([]string, len(conns))
	for i, c := range conns {
		out[i] = c.From.String() + " -> " + c.To.String()
	}
	return out
}
