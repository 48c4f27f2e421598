package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/ravi-parthasarathy/qsirecon/internal/config"
	"github.com/ravi-parthasarathy/qsirecon/internal/metrics"
	"github.com/ravi-parthasarathy/qsirecon/pkg/recon"
	"github.com/ravi-parthasarathy/qsirecon/pkg/recon/backends"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app is the state shared by every subcommand, set up before each runs.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	collector *metrics.Collector

	logLevel  string
	logFormat string
}

func rootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "qsirecon",
		Short: "qsirecon: diffusion MRI reconstruction pipeline compiler",
		Long: `qsirecon turns a declarative reconstruction spec into a validated
processing graph for every subject and scan.

Each node of a spec names a backend (DSI Studio, MRTrix3, Dipy, AMICO, pyAFQ)
and an action. Nodes read from the preprocessed scan or from an upstream node.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.teardown()
		},
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error (default $LOG_LEVEL)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format: json or text (default $LOG_FORMAT)")

	root.AddCommand(compileCmd(a))
	root.AddCommand(lintCmd(a))
	root.AddCommand(graphCmd(a))
	root.AddCommand(catalogCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.LogFormat = a.logFormat
	}
	logger, err := initLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	a.collector = metrics.NewCollector()
	return nil
}

func (a *app) teardown() error {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.cfg == nil || a.cfg.MetricsTextfile == "" {
		return nil
	}
	if err := a.collector.WriteTextfile(a.cfg.MetricsTextfile); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

func (a *app) loader() *recon.Loader {
	return recon.NewLoader(recon.NewCatalog(a.cfg.SpecDir), a.logger)
}

func (a *app) compiler() (*recon.Compiler, error) {
	return recon.NewCompiler(backends.Default(),
		recon.WithLogger(a.logger),
		recon.WithObserver(a.collector))
}

func (a *app) options(threads int, skipPlots bool) recon.Options {
	return recon.Options{
		OMPThreads:    threads,
		SkipODFPlots:  skipPlots,
		OutputDir:     a.cfg.OutputDir,
		ReportletsDir: a.cfg.ReportletsDir(),
	}
}

// ─── compile ──────────────────────────────────────────────────────────────────

func compileCmd(a *app) *cobra.Command {
	var (
		subjects     []string
		scans        []string
		reconInput   string
		sloppy       bool
		skipODFPlots bool
		ompThreads   int
		format       string
	)

	cmd := &cobra.Command{
		Use:   "compile <spec>",
		Short: "Build the reconstruction pipelines for one or more subjects",
		Long: `Build the reconstruction pipelines for one or more subjects.

<spec> is a path to a JSON spec or the name of a built-in spec (see
"qsirecon catalog"). Scans are given with --scan for a single subject or
discovered under --recon-input/sub-<label>.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(subjects) == 0 {
				return fmt.Errorf("at least one --subject is required")
			}
			if len(scans) > 0 && len(subjects) > 1 {
				return fmt.Errorf("--scan can only be used with a single --subject")
			}
			if len(scans) == 0 && reconInput == "" {
				return fmt.Errorf("one of --scan or --recon-input is required")
			}
			if !cmd.Flags().Changed("sloppy") {
				sloppy = a.cfg.Sloppy
			}
			if !cmd.Flags().Changed("skip-odf-plots") {
				skipODFPlots = a.cfg.SkipODFPlots
			}
			if !cmd.Flags().Changed("omp-nthreads") {
				ompThreads = a.cfg.OMPThreads
			}

			spec, err := a.loader().Load(args[0], sloppy)
			if err != nil {
				return err
			}
			runID := uuid.NewString()
			reqs := make([]recon.SubjectRequest, 0, len(subjects))
			for _, s := range subjects {
				s = strings.TrimPrefix(s, "sub-")
				subjectScans := scans
				if len(subjectScans) == 0 {
					if subjectScans, err = findScans(reconInput, s); err != nil {
						return err
					}
				}
				reqs = append(reqs, recon.SubjectRequest{
					Subject: s,
					Scans:   subjectScans,
					Spec:    spec,
					RunID:   runID,
				})
			}

			comp, err := a.compiler()
			if err != nil {
				return err
			}
			ctx := signalContext(cmd.Context())
			plans, err := comp.CompileSubjects(ctx, reqs, a.options(ompThreads, skipODFPlots))
			if err != nil {
				return err
			}
			a.logger.Info("compiled subjects",
				zap.String("spec", spec.Source),
				zap.String("run_id", runID),
				zap.Int("subjects", len(plans)))
			return writePlans(cmd.OutOrStdout(), plans, format)
		},
	}

	cmd.Flags().StringSliceVar(&subjects, "subject", nil, "subject label, with or without the sub- prefix (repeatable)")
	cmd.Flags().StringSliceVar(&scans, "scan", nil, "preprocessed DWI file (repeatable)")
	cmd.Flags().StringVar(&reconInput, "recon-input", "", "directory holding sub-<label> preprocessed outputs")
	cmd.Flags().BoolVar(&sloppy, "sloppy", false, "use fast, low-quality parameters (testing only)")
	cmd.Flags().BoolVar(&skipODFPlots, "skip-odf-plots", false, "do not generate ODF report plots")
	cmd.Flags().IntVar(&ompThreads, "omp-nthreads", 1, "threads available to each processing unit")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json or yaml")
	return cmd
}

// ─── lint ─────────────────────────────────────────────────────────────────────

func lintCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint <spec>",
		Short: "Validate a spec by building it against a synthetic scan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.buildSynthetic(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "OK: spec %q is valid (%d nodes, %d connections, %d sinks)\n",
				p.Spec, p.Len(), len(p.Connections()), len(p.Sinks()))
			for _, name := range p.Order() {
				if missing := p.Unfilled(name); len(missing) > 0 {
					fmt.Fprintf(out, "warning: %s: inputs not fed by any source: %s\n", name, strings.Join(missing, ", "))
				}
			}
			return nil
		},
	}
	return cmd
}

// buildSynthetic compiles ref for a made-up subject with one scan in the
// spec's space, with every anatomical derivative the spec asks for.
func (a *app) buildSynthetic(ref string) (*recon.Pipeline, error) {
	spec, err := a.loader().Load(ref, a.cfg.Sloppy)
	if err != nil {
		return nil, err
	}
	comp, err := a.compiler()
	if err != nil {
		return nil, err
	}
	plan, err := comp.CompileSubject(recon.SubjectRequest{
		Subject: "lint",
		Scans:   []string{syntheticScan(spec)},
		Spec:    spec,
	}, a.options(a.cfg.OMPThreads, a.cfg.SkipODFPlots))
	if err != nil {
		return nil, err
	}
	if len(plan.Pipelines) == 0 {
		return nil, fmt.Errorf("spec %q produced no pipeline", spec.Source)
	}
	return plan.Pipelines[0], nil
}

func syntheticScan(spec *recon.Spec) string {
	return fmt.Sprintf("sub-lint_space-%s_desc-preproc_dwi.nii.gz", spec.Space)
}

// ─── catalog ──────────────────────────────────────────────────────────────────

func catalogCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the named specs available to compile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range recon.NewCatalog(a.cfg.SpecDir).Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// initLogger builds the process logger. format "json" uses zap's production
// encoder and "text" its console encoder.
func initLogger(level, format string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("unknown log level %q: use debug, info, warn or error", level)
	}

	var cfg zap.Config
	switch strings.ToLower(format) {
	case "json":
		cfg = zap.NewProductionConfig()
	case "text":
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q: use json or text", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// planManifest is the serialised form of one subject plan.
type planManifest struct {
	Name         string           `json:"name" yaml:"name"`
	Subject      string           `json:"subject" yaml:"subject"`
	CrashDumpDir string           `json:"crash_dump_dir,omitempty" yaml:"crash_dump_dir,omitempty"`
	Scans        []string         `json:"scans" yaml:"scans"`
	Pipelines    []recon.Manifest `json:"pipelines" yaml:"pipelines"`
}

func manifests(plans []*recon.SubjectPlan) []planManifest {
	out := make([]planManifest, 0, len(plans))
	for _, plan := range plans {
		m := planManifest{
			Name:         plan.Name,
			Subject:      plan.Subject,
			CrashDumpDir: plan.CrashDumpDir,
			Scans:        plan.Scans,
			Pipelines:    []recon.Manifest{},
		}
		for _, p := range plan.Pipelines {
			m.Pipelines = append(m.Pipelines, p.Manifest())
		}
		out = append(out, m)
	}
	return out
}

func writePlans(w io.Writer, plans []*recon.SubjectPlan, format string) error {
	switch strings.ToLower(format) {
	case "text", "":
		for _, plan := range plans {
			fmt.Fprint(w, renderPlan(plan))
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(manifests(plans))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(manifests(plans)); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q: use text, json or yaml", format)
}

// signalContext returns a context that is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(ch)
		select {
		case <-ch:
			fmt.Fprintln(os.Stderr, "\n[qsirecon] interrupted, cancelling compilation")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx
}
