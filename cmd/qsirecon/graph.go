package main

import (
	"fmt"
	"sort"
	"strings"

	gographviz "github.com/awalterschulze/gographviz"
	"github.com/spf13/cobra"

	"github.com/ravi-parthasarathy/qsirecon/pkg/recon"
)

func graphCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "graph <spec>",
		Short: "Print the pipeline a spec compiles to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.buildSynthetic(args[0])
			if err != nil {
				return err
			}

			switch strings.ToLower(format) {
			case "dot":
				out, err := renderDOT(p)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), out)
			case "text", "":
				fmt.Fprint(cmd.OutOrStdout(), renderText(p))
			default:
				return fmt.Errorf("unknown format %q: use text or dot", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text or dot")
	return cmd
}

// renderPlan summarises every pipeline of a subject plan.
func renderPlan(plan *recon.SubjectPlan) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Subject: %s  (%d scans, %d units)\n", plan.Name, len(plan.Scans), plan.Units())
	if plan.CrashDumpDir != "" {
		fmt.Fprintf(&sb, "Crash dumps: %s\n", plan.CrashDumpDir)
	}
	if len(plan.Pipelines) == 0 {
		fmt.Fprintf(&sb, "  no scans in this space\n")
	}
	for _, p := range plan.Pipelines {
		sb.WriteString("\n")
		sb.WriteString(renderText(p))
	}
	return sb.String()
}

// renderText produces the human-readable text summary.
func renderText(p *recon.Pipeline) string {
	var sb strings.Builder

	conns := p.Connections()
	sinks := p.Sinks()
	fmt.Fprintf(&sb, "Pipeline: %s  (%d units, %d connections, %d sinks)\n",
		p.Name, p.Len(), len(conns), len(sinks))

	maxNameLen := 4
	for _, u := range p.Units() {
		if len(u.Name) > maxNameLen {
			maxNameLen = len(u.Name)
		}
	}

	fmt.Fprintf(&sb, "\nUnits:\n")
	for _, name := range p.Order() {
		u, _ := p.Unit(name)
		attrs := []string{fmt.Sprintf("threads=%d", u.Threads)}
		if u.OutputSuffix != "" {
			attrs = append(attrs, "suffix="+u.OutputSuffix)
		}
		if up, ok := p.Upstream(name); ok {
			attrs = append(attrs, "input="+up)
		}
		if missing := p.Unfilled(name); len(missing) > 0 {
			attrs = append(attrs, "unfilled="+strings.Join(missing, ","))
		}
		fmt.Fprintf(&sb, "  %-*s  %-36s  %s\n", maxNameLen, name, u.Key.String(), strings.Join(attrs, " "))
	}

	fmt.Fprintf(&sb, "\nConnections:\n")
	maxFromLen := 4
	for _, c := range conns {
		if n := len(c.From.String()); n > maxFromLen {
			maxFromLen = n
		}
	}
	for _, c := range conns {
		fmt.Fprintf(&sb, "  %-*s  →  %s\n", maxFromLen, c.From, c.To)
	}

	if len(sinks) > 0 {
		fmt.Fprintf(&sb, "\nSinks:\n")
		for _, s := range sinks {
			fmt.Fprintf(&sb, "  %-10s  %s  %s\n", s.Category, s.ID, s.BaseDirectory)
		}
	}
	return sb.String()
}

// renderDOT produces a DOT digraph with one node per unit and sink. Slot
// connections between the same pair of units are merged into one edge.
func renderDOT(p *recon.Pipeline) (string, error) {
	g := gographviz.NewGraph()
	name := p.Name
	if name == "" {
		name = "pipeline"
	}
	if err := g.SetName(dotQuote(name)); err != nil {
		return "", err
	}
	if err := g.SetDir(true); err != nil {
		return "", err
	}
	if err := g.AddAttr(g.Name, "rankdir", "LR"); err != nil {
		return "", err
	}

	if err := g.AddNode(g.Name, dotQuote(recon.GlobalSourceName), map[string]string{
		"shape": "cylinder",
		"label": dotQuote(recon.GlobalSourceName),
	}); err != nil {
		return "", err
	}
	for _, unitName := range p.Order() {
		u, _ := p.Unit(unitName)
		label := fmt.Sprintf("%s\\n%s", u.Name, u.Key)
		if err := g.AddNode(g.Name, dotQuote(u.Name), map[string]string{
			"shape": "box",
			"label": dotQuote(label),
		}); err != nil {
			return "", err
		}
	}

	type pair struct{ from, to string }
	slots := map[pair][]string{}
	var pairs []pair
	for _, c := range p.Connections() {
		if c.To.Node != "" {
			continue
		}
		k := pair{c.From.Unit, c.To.Unit}
		if _, ok := slots[k]; !ok {
			pairs = append(pairs, k)
		}
		slots[k] = append(slots[k], c.To.Slot)
	}
	for _, k := range pairs {
		s := slots[k]
		sort.Strings(s)
		if err := g.AddEdge(dotQuote(k.from), dotQuote(k.to), true, map[string]string{
			"label": dotQuote(strings.Join(s, "\\n")),
		}); err != nil {
			return "", err
		}
	}

	for _, s := range p.Sinks() {
		attrs := map[string]string{
			"shape": "folder",
			"label": dotQuote(s.Node),
		}
		if s.Category == recon.SinkReportlet {
			attrs["style"] = "dashed"
		}
		if err := g.AddNode(g.Name, dotQuote(s.ID), attrs); err != nil {
			return "", err
		}
		if err := g.AddEdge(dotQuote(s.Unit), dotQuote(s.ID), true, map[string]string{
			"style": "dotted",
		}); err != nil {
			return "", err
		}
	}

	return g.String(), nil
}

// dotQuote wraps s in double quotes. Backslash escapes such as \n are kept
// so labels can break lines.
func dotQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
