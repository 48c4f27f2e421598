package backends

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/ravi-parthasarathy/qsirecon/pkg/recon"
)

// ParamKind is the JSON type a parameter must have.
type ParamKind int

const (
	KindAny ParamKind = iota
	KindString
	KindNumber
	KindBool
	KindObject
	KindArray
)

func (k ParamKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	}
	return "any"
}

func (k ParamKind) matches(r gjson.Result) bool {
	switch k {
	case KindString:
		return r.Type == gjson.String
	case KindNumber:
		return r.Type == gjson.Number
	case KindBool:
		return r.Type == gjson.True || r.Type == gjson.False
	case KindObject:
		return r.IsObject()
	case KindArray:
		return r.IsArray()
	}
	return true
}

// ParamRule constrains one parameter path. Absent parameters pass unless
// Required is set.
type ParamRule struct {
	Path     string
	Kind     ParamKind
	Choices  []string
	Required bool
}

func (p ParamRule) check(node string, params recon.Parameters) error {
	r := params.Get(p.Path)
	if !r.Exists() {
		if p.Required {
			return &recon.InvalidParameterError{Node: node, Path: p.Path, Reason: "required parameter is missing"}
		}
		return nil
	}
	if !p.Kind.matches(r) {
		return &recon.InvalidParameterError{Node: node, Path: p.Path, Reason: fmt.Sprintf("want %s, got %s", p.Kind, r.Raw)}
	}
	if len(p.Choices) > 0 && !slices.Contains(p.Choices, r.String()) {
		return &recon.InvalidParameterError{Node: node, Path: p.Path,
			Reason: fmt.Sprintf("%q is not one of %s", r.String(), strings.Join(p.Choices, ", "))}
	}
	return nil
}

// Contract is a declarative builder: a fixed slot contract, the inner nodes
// of the sub-workflow, and a parameter schema.
type Contract struct {
	Software recon.Software
	Action   recon.Action

	InputSlots  []string
	OutputSlots []string
	// InnerNodes are the sub-workflow's node names. Names starting with
	// "plot_" and "ds" names containing "report" are dropped when
	// plot_reports is false.
	InnerNodes []string

	Params []ParamRule
	// Requires maps a boolean parameter to anatomical derivatives, one of
	// which must be available when the parameter is true.
	Requires map[string][]string
	// MaxThreads caps the thread budget; 0 means no cap.
	MaxThreads int
}

// Key implements recon.Builder.
func (c *Contract) Key() recon.Key {
	return recon.Key{Software: c.Software, Action: c.Action}
}

// Inputs implements recon.Builder.
func (c *Contract) Inputs() []string { return slices.Clone(c.InputSlots) }

// Outputs implements recon.Builder.
func (c *Contract) Outputs() []string { return slices.Clone(c.OutputSlots) }

// Build implements recon.Builder.
func (c *Contract) Build(args recon.BuildArgs) (*recon.Unit, error) {
	for _, rule := range c.Params {
		if err := rule.check(args.Name, args.Params); err != nil {
			return nil, err
		}
	}
	for _, param := range slices.Sorted(maps.Keys(c.Requires)) {
		anyOf := c.Requires[param]
		if !args.Params.Get(param).Bool() {
			continue
		}
		if !slices.ContainsFunc(anyOf, args.Anatomical.Has) {
			return nil, &recon.InvalidParameterError{Node: args.Name, Path: param,
				Reason: fmt.Sprintf("requires one of %s", strings.Join(anyOf, ", "))}
		}
	}

	nodes := c.InnerNodes
	if !args.Params.PlotReports() {
		nodes = slices.DeleteFunc(slices.Clone(nodes), isReportNode)
	}

	u := recon.NewUnit(args.Name, c.Key(), c.InputSlots, c.OutputSlots, nodes)
	u.OutputSuffix = args.OutputSuffix
	u.Params = args.Params
	u.Threads = threads(args.OMPThreads, c.MaxThreads)
	return u, nil
}

func isReportNode(name string) bool {
	if strings.HasPrefix(name, "plot_") {
		return true
	}
	return strings.HasPrefix(name, "ds") && strings.Contains(name, "report")
}

func threads(budget, ceiling int) int {
	if budget < 1 {
		budget = 1
	}
	if ceiling > 0 && budget > ceiling {
		return ceiling
	}
	return budget
}

func wrap(nodes ...string) []string {
	return slices.Concat([]string{"inputnode"}, nodes, []string{"outputnode"})
}

func reportNodes(kinds ...string) []string {
	var out []string
	for _, k := range kinds {
		out = append(out, "plot_"+k, "ds_report_"+k)
	}
	return out
}

// dwiSlots are the preprocessed-scan inputs most model fits read.
var dwiSlots = []string{"dwi_file", "bval_file", "bvec_file", "b_file", "dwi_mask"}
