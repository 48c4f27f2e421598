package recon

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// DefaultPipelineName is used when Options.Name is empty.
const DefaultPipelineName = "recon_wf"

// Options carries the shared build-time data for one pipeline.
type Options struct {
	Name          string
	OMPThreads    int
	Anatomical    AnatomicalData
	SkipODFPlots  bool
	OutputDir     string
	ReportletsDir string
	// GlobalFields overrides the global source field set; nil means
	// DefaultInputFields().
	GlobalFields []string
}

func (o Options) globalFields() []string {
	if o.GlobalFields != nil {
		return o.GlobalFields
	}
	return DefaultInputFields()
}

// Compiler turns specs into pipelines. It holds no per-build state and is
// safe for concurrent use as long as its registry is.
type Compiler struct {
	registry BuilderRegistry
	logger   *zap.Logger
	observer Observer
}

// CompilerOption configures a Compiler.
type CompilerOption func(*Compiler)

// WithLogger sets the compiler's logger.
func WithLogger(l *zap.Logger) CompilerOption {
	return func(c *Compiler) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver sets the compiler's build observer.
func WithObserver(o Observer) CompilerOption {
	return func(c *Compiler) {
		if o != nil {
			c.observer = o
		}
	}
}

// NewCompiler returns a compiler resolving nodes against reg.
func NewCompiler(reg BuilderRegistry, opts ...CompilerOption) (*Compiler, error) {
	if reg == nil {
		return nil, errors.New("builder registry must not be nil")
	}
	c := &Compiler{
		registry: reg,
		logger:   zap.NewNop(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Resolve maps a node spec to a unit. The node's own parameters are never
// modified; the plot-skip override is applied to a copy.
func (c *Compiler) Resolve(ns NodeSpec, opts Options) (*Unit, error) {
	key := ns.Key()
	if ns.Name == "" {
		return nil, &UnknownNodeError{Key: key}
	}
	if ns.Action == "" {
		return nil, &UnknownNodeError{Node: ns.Name, Key: key, Err: errors.New("missing action")}
	}
	b, err := c.registry.Lookup(key)
	if err != nil {
		return nil, &UnknownNodeError{Node: ns.Name, Key: key, Err: err}
	}

	params := ns.Parameters.Clone()
	if opts.SkipODFPlots {
		c.logger.Info("skipping ODF plots", zap.String("node", ns.Name))
		if params, err = params.With(PlotReportsParam, false); err != nil {
			return nil, fmt.Errorf("node %q: %w", ns.Name, err)
		}
	}

	u, err := b.Build(BuildArgs{
		OMPThreads:   opts.OMPThreads,
		Anatomical:   opts.Anatomical,
		Name:         ns.Name,
		OutputSuffix: ns.OutputSuffix,
		Params:       params,
	})
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, &UnknownNodeError{Node: ns.Name, Key: key, Err: errors.New("builder returned no unit")}
	}
	return u, nil
}

// Build compiles spec into a validated pipeline. Either a complete pipeline
// or an error is returned, never both.
func (c *Compiler) Build(spec *Spec, opts Options) (*Pipeline, error) {
	p, err := c.build(spec, opts)
	c.observer.ObserveBuild(spec.Source, p, err)
	if err != nil {
		return nil, fmt.Errorf("spec %q: %w", spec.Source, err)
	}
	return p, nil
}

func (c *Compiler) build(spec *Spec, opts Options) (*Pipeline, error) {
	g, err := c.insert(spec, opts)
	if err != nil {
		return nil, err
	}
	p, err := g.wire(c.logger)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("pipeline built",
		zap.String("pipeline", p.Name),
		zap.Int("units", p.Len()),
		zap.Int("connections", len(p.conns)),
		zap.Int("sinks", len(p.sinks)))
	return p, nil
}
