package recon_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/ravi-parthasarathy/qsirecon/pkg/recon"
)

func TestRoute_GlobalCase(t *testing.T) {
	globals := []string{"A", "C", "dwi_file", "extra"}
	p, err := newCompiler(t).Build(&recon.Spec{
		Nodes: []recon.NodeSpec{node("d", "test", "down", recon.InputSentinel)},
	}, recon.Options{GlobalFields: globals})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	u, _ := p.Unit("d")
	for _, slot := range u.Inputs() {
		c, ok := p.Source(recon.Endpoint{Unit: "d", Slot: slot})
		if !ok {
			t.Errorf("slot %s not connected", slot)
			continue
		}
		if !c.FromGlobal() || c.From.Slot != slot {
			t.Errorf("slot %s fed by %s, want inputnode.%s", slot, c.From, slot)
		}
	}
	for _, c := range p.Connections() {
		if !c.FromGlobal() {
			t.Errorf("connection %s -> %s does not originate at the global source", c.From, c.To)
		}
	}
	// Only declared inputs are wired from the global source in this case.
	if _, ok := p.Source(recon.Endpoint{Unit: "d", Slot: "extra"}); ok {
		t.Error("undeclared global field wired in global case")
	}
}

func TestRoute_UpstreamAsymmetry(t *testing.T) {
	// up outputs {A, B}; down needs {A, C}; the default set holds A, B, C and X.
	p, err := newCompiler(t).Build(&recon.Spec{
		Nodes: []recon.NodeSpec{
			node("u", "test", "up", ""),
			node("d", "test", "down", "u"),
		},
	}, recon.Options{GlobalFields: []string{"A", "B", "C", "X"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	source := func(slot string) string {
		c, ok := p.Source(recon.Endpoint{Unit: "d", Slot: slot})
		if !ok {
			return ""
		}
		return c.From.String()
	}
	if got := source("A"); got != "u.A" {
		t.Errorf("A fed by %q, want u.A", got)
	}
	if got := source("C"); got != "inputnode.C" {
		t.Errorf("C fed by %q, want inputnode.C", got)
	}
	// B is an upstream output but not needed, so it is not taken from u and
	// falls back to the global source onto an unused port. X likewise.
	if got := source("B"); got != "inputnode.B" {
		t.Errorf("B fed by %q, want inputnode.B", got)
	}
	if got := source("X"); got != "inputnode.X" {
		t.Errorf("X fed by %q, want inputnode.X", got)
	}
	for _, c := range p.ConnectionsFrom("u") {
		if c.From.Slot != "A" {
			t.Errorf("unexpected upstream connection %s -> %s", c.From, c.To)
		}
	}
}

func TestRoute_UpstreamWinsTie(t *testing.T) {
	p, err := newCompiler(t).Build(&recon.Spec{
		Nodes: []recon.NodeSpec{
			node("u", "test", "up", ""),
			node("d", "test", "down", "u"),
		},
	}, recon.Options{GlobalFields: []string{"A"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	c, ok := p.Source(recon.Endpoint{Unit: "d", Slot: "A"})
	if !ok || c.From.Unit != "u" {
		t.Fatalf("A fed by %v, want upstream u", c.From)
	}
	if missing := p.Unfilled("d"); !slices.Equal(missing, []string{"C"}) {
		t.Errorf("Unfilled(d) = %v, want [C]", missing)
	}
}

func TestRoute_IdempotentAndConflicting(t *testing.T) {
	spec := &recon.Spec{
		Nodes: []recon.NodeSpec{
			node("u1", "test", "up", ""),
			node("u2", "test", "up", ""),
			node("d", "test", "down", "u1"),
		},
	}
	p, err := newCompiler(t).Build(spec, recon.Options{GlobalFields: []string{"C"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	before := len(p.Connections())
	d, _ := p.Unit("d")

	if _, err := recon.Route(p, d, spec.Nodes[2]); err != nil {
		t.Fatalf("re-routing the same node: %v", err)
	}
	if after := len(p.Connections()); after != before {
		t.Errorf("re-routing added connections: %d -> %d", before, after)
	}

	_, err = recon.Route(p, d, node("d", "test", "down", "u2"))
	var dupErr *recon.DuplicateConnectionError
	if !errors.As(err, &dupErr) {
		t.Fatalf("expected DuplicateConnectionError, got %v", err)
	}
	if dupErr.Existing.From.Unit != "u1" || dupErr.Rejected.From.Unit != "u2" {
		t.Errorf("got existing %s, rejected %s", dupErr.Existing.From, dupErr.Rejected.From)
	}
}

func TestEndpointString(t *testing.T) {
	cases := []struct {
		e    recon.Endpoint
		want string
	}{
		{recon.Endpoint{Unit: "u", Slot: "s"}, "u.s"},
		{recon.Endpoint{Unit: "u", Node: "ds_x", Slot: "source_file"}, "u.ds_x.source_file"},
	}
	for _, tc := range cases {
		if got := tc.e.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}
