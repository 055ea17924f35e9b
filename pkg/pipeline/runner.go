package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/meshgrad/pkg/gradient"
	gio "github.com/matzehuels/meshgrad/pkg/io"
	"github.com/matzehuels/meshgrad/pkg/observability"
	"github.com/matzehuels/meshgrad/pkg/proximity"
)

// Runner executes pipeline runs. It holds no per-run state, so multiple
// goroutines can share one Runner.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute loads the input and renders every requested format.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	loadStart := time.Now()
	st, err := r.Load(opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.State = st
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.BlobCount = st.Len()
	result.Stats.EdgeCount = len(proximity.Build(st, opts.Focus))

	opts.Logger.Debug("loaded gradient",
		"blobs", result.Stats.BlobCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.LoadTime)

	renderStart := time.Now()
	artifacts, timings, err := r.Render(ctx, st, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.Formats = timings

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load returns opts.State when set, otherwise the decoded input document.
func (r *Runner) Load(opts Options) (gradient.State, error) {
	if opts.State != nil {
		return opts.State.Clone(), nil
	}
	return gio.ImportJSON(opts.Input)
}

// Render renders st in every format of opts concurrently. It returns the
// artifacts and the time each format took.
func (r *Runner) Render(ctx context.Context, st gradient.State, opts Options) (map[string][]byte, map[string]time.Duration, error) {
	r.applyLogger(&opts)
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, nil, err
	}

	hooks := observability.Export()
	start := time.Now()
	hooks.OnExportStart(ctx, opts.Formats)

	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(opts.Formats))
		timings   = make(map[string]time.Duration, len(opts.Formats))
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			t0 := time.Now()
			data, err := RenderFormat(gctx, st, format, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", format, err)
			}
			d := time.Since(t0)

			mu.Lock()
			artifacts[format] = data
			timings[format] = d
			mu.Unlock()

			hooks.OnArtifact(gctx, format, len(data), d)
			opts.Logger.Debug("rendered artifact", "format", format, "bytes", len(data), "duration", d)
			return nil
		})
	}
	err := g.Wait()
	hooks.OnExportComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}
	return artifacts, timings, nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
