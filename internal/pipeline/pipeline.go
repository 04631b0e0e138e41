// Package pipeline runs the full export-to-steps pipeline over one table,
// or over many export files in parallel.
package pipeline

import (
	"log/slog"

	"stepline/internal/config"
	"stepline/internal/logging"
	"stepline/internal/procgraph"
	"stepline/internal/sheet"
)

// Options configures one pipeline run.
type Options struct {
	StartMarker string
	SkipNames   []string
	Layout      procgraph.Layout
	MaxSteps    int
	Logger      *slog.Logger // nil means logging.New("pipeline")
}

// DefaultOptions matches config.Default.
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default())
}

// OptionsFromConfig maps the configuration onto run options.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		StartMarker: cfg.StartMarker,
		SkipNames:   cfg.SkipNames,
		Layout:      cfg.Layout,
		MaxSteps:    cfg.MaxSteps,
	}
}

// Result is the outcome of one run.
type Result struct {
	Steps        []procgraph.Step       `json:"steps"`
	Ordering     []string               `json:"ordering"`
	Starts       []string               `json:"starts"`
	NodeCount    int                    `json:"node_count"`
	Applications []string               `json:"applications"`
	Diagnostics  []procgraph.Diagnostic `json:"diagnostics,omitempty"`

	graph *procgraph.Graph
}

// Graph returns the repaired node table the steps were projected from.
func (r *Result) Graph() *procgraph.Graph { return r.graph }

// Run rebuilds the process graph from t and linearizes it. The only error
// is sheet.ErrMalformedTable; every other input problem degrades the
// result and shows up in Diagnostics.
func Run(t *sheet.Table, opts Options) (*Result, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.New("pipeline")
	}
	d := procgraph.NewDiagnostics(logger)

	roles := procgraph.BuildRoleRegistry(t)
	g := procgraph.Parse(t, roles, procgraph.ParseOptions{
		Layout:    opts.Layout,
		SkipNames: opts.SkipNames,
	}, d)
	procgraph.Consolidate(g)
	repaired := procgraph.ResolveRules(g, d)
	starts := procgraph.SelectStarts(g, opts.StartMarker, d)
	ordering := procgraph.Linearize(g, starts, procgraph.LinearizeOptions{MaxSteps: opts.MaxSteps}, d)

	var steps []procgraph.Step
	if g.HasApplications() {
		steps = procgraph.Project(g, ordering)
	} else if g.Len() > 0 {
		d.Info(procgraph.CodeNoApplication, "no node names an application system", "nodes", g.Len())
	}

	logger.Debug("pipeline finished",
		"rows", t.Len(), "nodes", g.Len(), "roles", len(roles),
		"rule_repairs", repaired, "starts", len(starts), "steps", len(steps))

	return &Result{
		Steps:        steps,
		Ordering:     ordering,
		Starts:       starts,
		NodeCount:    g.Len(),
		Applications: procgraph.Applications(steps),
		Diagnostics:  d.Items(),
		graph:        g,
	}, nil
}
