package backends_test

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/ravi-parthasarathy/qsirecon/pkg/recon"
	"github.com/ravi-parthasarathy/qsirecon/pkg/recon/backends"
)

func TestDefault_RegistersEveryAction(t *testing.T) {
	want := []recon.Key{
		{Software: recon.SoftwareAMICO, Action: recon.ActionFitNODDI},
		{Software: recon.SoftwareDSIStudio, Action: recon.ActionAutotrack},
		{Software: recon.SoftwareDSIStudio, Action: recon.ActionConnectivity},
		{Software: recon.SoftwareDSIStudio, Action: recon.ActionExport},
		{Software: recon.SoftwareDSIStudio, Action: recon.ActionReconstruction},
		{Software: recon.SoftwareDSIStudio, Action: recon.ActionTractography},
		{Software: recon.SoftwareDipy, Action: recon.Action3DSHORE},
		{Software: recon.SoftwareDipy, Action: recon.ActionDKI},
		{Software: recon.SoftwareDipy, Action: recon.ActionMAPMRI},
		{Software: recon.SoftwareMRTrix3, Action: recon.ActionConnectivity},
		{Software: recon.SoftwareMRTrix3, Action: recon.ActionCSD},
		{Software: recon.SoftwareMRTrix3, Action: recon.ActionGlobalTractography},
		{Software: recon.SoftwareMRTrix3, Action: recon.ActionTractography},
		{Software: recon.SoftwarePyAFQ, Action: recon.ActionTractometry},
		{Software: recon.SoftwareQSIPrep, Action: recon.ActionConform},
		{Software: recon.SoftwareQSIPrep, Action: recon.ActionControllability},
		{Software: recon.SoftwareQSIPrep, Action: recon.ActionDiscardRepeatedSamples},
		{Software: recon.SoftwareQSIPrep, Action: recon.ActionMifToFib},
		{Software: recon.SoftwareQSIPrep, Action: recon.ActionReorientFSLStd},
		{Software: recon.SoftwareQSIPrep, Action: recon.ActionSteinhardt},
	}
	if got := backends.Default().Keys(); !slices.Equal(got, want) {
		t.Errorf("Keys() =\n%v\nwant\n%v", got, want)
	}
}

func TestRegistry_LookupUnknown(t *testing.T) {
	_, err := backends.Default().Lookup(recon.Key{Software: recon.SoftwareMRTrix3, Action: "fly"})
	if err == nil || !strings.Contains(err.Error(), "MRTrix3/fly") {
		t.Fatalf("expected lookup error naming the key, got %v", err)
	}
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	reg := backends.NewRegistry()
	c := &backends.Contract{Software: "x", Action: "y"}
	reg.Register(c)
	reg.Register(c)
}

func TestDefault_ContractsAreWellFormed(t *testing.T) {
	reg := backends.Default()
	for _, key := range reg.Keys() {
		b, err := reg.Lookup(key)
		if err != nil {
			t.Fatalf("Lookup(%s): %v", key, err)
		}
		if len(b.Inputs()) == 0 || len(b.Outputs()) == 0 {
			t.Errorf("%s: empty slot contract", key)
		}
		u, err := b.Build(recon.BuildArgs{Name: "unit", OMPThreads: 2})
		if err != nil {
			t.Errorf("%s: Build with no parameters: %v", key, err)
			continue
		}
		nodes := u.Nodes()
		if !slices.Contains(nodes, "inputnode") || !slices.Contains(nodes, "outputnode") {
			t.Errorf("%s: nodes lack the port nodes: %v", key, nodes)
		}
		for _, id := range u.Identifiers() {
			sink, _, _ := recon.ClassifySink(id)
			node := id[strings.LastIndex(id, ".")+1:]
			if sink != strings.HasPrefix(node, "ds") {
				t.Errorf("%s: %s misclassified", key, id)
			}
		}
		if !slices.Equal(u.Inputs(), sorted(b.Inputs())) || !slices.Equal(u.Outputs(), sorted(b.Outputs())) {
			t.Errorf("%s: unit slots differ from builder contract", key)
		}
	}
}

func TestDefault_BuildsAreDeterministic(t *testing.T) {
	reg := backends.Default()
	for _, key := range reg.Keys() {
		b, _ := reg.Lookup(key)
		withPlots, err := b.Build(recon.BuildArgs{Name: "u"})
		if err != nil {
			t.Fatalf("%s: %v", key, err)
		}
		params, _ := recon.Parameters{}.With(recon.PlotReportsParam, false)
		withoutPlots, err := b.Build(recon.BuildArgs{Name: "u", Params: params})
		if err != nil {
			t.Fatalf("%s: %v", key, err)
		}
		if !slices.Equal(withPlots.Inputs(), withoutPlots.Inputs()) || !slices.Equal(withPlots.Outputs(), withoutPlots.Outputs()) {
			t.Errorf("%s: slot contract depends on parameters", key)
		}
	}
}

func TestBuiltinSpecsCompile(t *testing.T) {
	comp, err := recon.NewCompiler(backends.Default())
	if err != nil {
		t.Fatal(err)
	}
	loader := recon.NewLoader(nil, nil)
	for _, name := range recon.NewCatalog("").Names() {
		for _, sloppy := range []bool{false, true} {
			spec, err := loader.Load(name, sloppy)
			if err != nil {
				t.Fatalf("Load(%s): %v", name, err)
			}
			_, err = comp.CompileSubject(recon.SubjectRequest{
				Subject: "01",
				Scans:   []string{"sub-01_space-" + spec.Space + "_desc-preproc_dwi.nii.gz"},
				Spec:    spec,
			}, recon.Options{OMPThreads: 4, SkipODFPlots: sloppy})
			if err != nil {
				t.Errorf("%s (sloppy=%v): %v", name, sloppy, err)
			}
		}
	}
}

func TestMRTrixTractography_Requires5tt(t *testing.T) {
	b, err := backends.Default().Lookup(recon.Key{Software: recon.SoftwareMRTrix3, Action: recon.ActionTractography})
	if err != nil {
		t.Fatal(err)
	}
	params := recon.Parameters{"use_5tt": true}

	_, err = b.Build(recon.BuildArgs{Name: "track", Params: params})
	var invalid *recon.InvalidParameterError
	if !errors.As(err, &invalid) || invalid.Path != "use_5tt" {
		t.Fatalf("expected use_5tt error, got %v", err)
	}

	for _, have := range []string{"has_qsiprep_5tt_hsvs", "has_mrtrix_5tt_hsvs"} {
		if _, err := b.Build(recon.BuildArgs{
			Name:       "track",
			Params:     params,
			Anatomical: recon.AnatomicalData{have: true},
		}); err != nil {
			t.Errorf("with %s: %v", have, err)
		}
	}
	if _, err := b.Build(recon.BuildArgs{Name: "track", Params: recon.Parameters{"use_5tt": false}}); err != nil {
		t.Errorf("use_5tt=false: %v", err)
	}
}

func sorted(s []string) []string {
	s = slices.Clone(s)
	slices.Sort(s)
	return slices.Compact(s)
}
