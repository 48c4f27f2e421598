package recon

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SubjectRequest is the input to per-subject assembly.
type SubjectRequest struct {
	Subject string
	// Scans are preprocessed DWI paths found for the subject; only those in
	// the spec's space are used.
	Scans      []string
	Spec       *Spec
	Anatomical AnatomicalData
	// RunID names the crash-dump directory.
	RunID string
}

// SubjectPlan is the set of per-scan pipelines for one subject.
type SubjectPlan struct {
	Name         string
	Subject      string
	CrashDumpDir string
	Scans        []string
	Pipelines    []*Pipeline
}

// Units returns the total number of processing units across all scans.
func (s *SubjectPlan) Units() int {
	n := 0
	for _, p := range s.Pipelines {
		n += p.Len()
	}
	return n
}

// ScanWorkflowName derives a workflow name from a scan path: the base name
// without extension and trailing entity, with dashes turned to underscores.
// A base name with no entity separator is kept whole so the name is never
// empty.
func ScanWorkflowName(scan string) string {
	base := filepath.Base(scan)
	for _, ext := range []string{".nii.gz", ".nii"} {
		if strings.HasSuffix(base, ext) {
			base = strings.TrimSuffix(base, ext)
			break
		}
	}
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	tokens := strings.Split(base, "_")
	if len(tokens) > 1 {
		tokens = tokens[:len(tokens)-1]
	}
	return strings.ReplaceAll(strings.Join(tokens, "_"), "-", "_")
}

// ScanAnatomical returns the anatomical descriptor builders see for one
// scan: the subject's data plus the extras the spec asks for.
func ScanAnatomical(base AnatomicalData, spec *Spec) AnatomicalData {
	out := base.Clone()
	for _, extra := range spec.Anatomical {
		out["has_"+extra] = true
	}
	if len(spec.Atlases) > 0 {
		out["has_atlases"] = true
	}
	return out
}

// CompileSubject builds one pipeline per scan in the spec's space. A subject
// without matching scans yields an empty plan, not an error.
func (c *Compiler) CompileSubject(req SubjectRequest, opts Options) (*SubjectPlan, error) {
	spec := req.Spec
	plan := &SubjectPlan{
		Name:    fmt.Sprintf("sub-%s_%s", req.Subject, spec.Name),
		Subject: req.Subject,
	}
	if req.RunID != "" {
		plan.CrashDumpDir = filepath.Join(opts.OutputDir, "qsirecon", "sub-"+req.Subject, "log", req.RunID)
	}

	space := "space-" + spec.Space
	for _, scan := range req.Scans {
		if strings.Contains(filepath.Base(scan), space) {
			plan.Scans = append(plan.Scans, scan)
		}
	}
	if len(plan.Scans) == 0 {
		c.logger.Info("no dwi files found", zap.String("subject", req.Subject), zap.String("space", spec.Space))
		return plan, nil
	}
	c.logger.Info("found dwi files", zap.String("subject", req.Subject), zap.Strings("scans", plan.Scans))

	for _, scan := range plan.Scans {
		scanOpts := opts
		scanOpts.Name = ScanWorkflowName(scan) + "_recon_wf"
		scanOpts.Anatomical = ScanAnatomical(req.Anatomical, spec)
		p, err := c.Build(spec, scanOpts)
		if err != nil {
			return nil, fmt.Errorf("subject %s, scan %s: %w", req.Subject, scan, err)
		}
		plan.Pipelines = append(plan.Pipelines, p)
	}
	return plan, nil
}

// CompileSubjects assembles independent subjects in parallel. Plans are
// returned in request order; the first failure is returned.
func (c *Compiler) CompileSubjects(ctx context.Context, reqs []SubjectRequest, opts Options) ([]*SubjectPlan, error) {
	plans := make([]*SubjectPlan, len(reqs))
	g, ctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			plan, err := c.CompileSubject(req, opts)
			if err != nil {
				return err
			}
			plans[i] = plan
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return plans, nil
}
