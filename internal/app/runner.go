package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/dugout-dev/dugout/internal/domain"
	"github.com/dugout-dev/dugout/internal/layout"
	"github.com/dugout-dev/dugout/internal/ports"
	"github.com/dugout-dev/dugout/pkg/log"
)

// Opener parses a page template into a renderable document.
type Opener func(r io.Reader) (ports.Document, error)

// RunnerConfig tunes page runs.
type RunnerConfig struct {
	// FetchTimeout bounds each group. Zero means no limit: a hung fetch
	// holds its group until the process stops.
	FetchTimeout time.Duration
}

// Runner renders whole pages: it loads the template, starts every group of
// the page at once, waits for all of them and stores the result.
type Runner struct {
	fetcher ports.Fetcher
	site    ports.Site
	open    Opener
	logger  log.Logger
	config  RunnerConfig
}

// NewRunner creates a Runner.
func NewRunner(fetcher ports.Fetcher, site ports.Site, open Opener, logger log.Logger, config RunnerConfig) *Runner {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &Runner{
		fetcher: fetcher,
		site:    site,
		open:    open,
		logger:  logger,
		config:  config,
	}
}

// Run renders one page. Pipeline failures never fail the run; they are
// listed in the Report. The returned error covers template and output I/O.
func (r *Runner) Run(ctx context.Context, pg layout.Page) (*Report, error) {
	runID := uuid.NewString()
	logger := log.With(r.logger, log.String("run_id", runID), log.String("page", pg.Name))
	start := time.Now()

	tmpl, err := r.template(pg)
	if err != nil {
		return nil, err
	}
	doc, err := r.open(bytes.NewReader(tmpl))
	if err != nil {
		return nil, fmt.Errorf("open page %s: %w", pg.Name, err)
	}

	p := NewPipeline(r.fetcher, doc, logger)

	var wg sync.WaitGroup
	for _, g := range pg.Groups {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.runGroup(ctx, p, g) // recorded in the Report
		}()
	}
	wg.Wait()

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		return nil, fmt.Errorf("render page %s: %w", pg.Name, err)
	}
	out := pg.OutputPath()
	if err := r.site.WriteFile(out, buf.Bytes()); err != nil {
		return nil, err
	}

	rep := p.Report()
	rep.RunID = runID
	rep.Page = pg.Name
	rep.Output = out

	logger.Info("page rendered",
		log.String("output", out),
		log.Int("containers", len(rep.Rendered)),
		log.Int("errors", len(rep.Errors)),
		log.Duration("elapsed", time.Since(start)),
	)
	return rep, nil
}

// RunAll renders pages one after another. An I/O failure on one page does
// not stop the others; all such failures are combined in the error.
func (r *Runner) RunAll(ctx context.Context, pages []layout.Page) ([]*Report, error) {
	var (
		reports []*Report
		errs    error
	)
	for _, pg := range pages {
		if err := ctx.Err(); err != nil {
			return reports, multierr.Append(errs, err)
		}
		rep, err := r.Run(ctx, pg)
		if err != nil {
			r.logger.Error("page failed", log.String("page", pg.Name), log.Err(err))
			errs = multierr.Append(errs, err)
			continue
		}
		reports = append(reports, rep)
	}
	return reports, errs
}

func (r *Runner) template(pg layout.Page) ([]byte, error) {
	if pg.Template == "" {
		return layout.DefaultTemplate(pg.Name)
	}
	data, err := r.site.ReadFile(pg.Template)
	if err != nil {
		return nil, fmt.Errorf("load template for page %s: %w", pg.Name, err)
	}
	return data, nil
}

// runGroup runs one group. Every error it returns has been recorded by p,
// including malformed groups of pages that skipped layout validation.
func (r *Runner) runGroup(ctx context.Context, p *Pipeline, g layout.Group) error {
	if r.config.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.FetchTimeout)
		defer cancel()
	}

	descriptors := g.DescriptorList()
	switch g.Mode {
	case layout.ModeBatch:
		settle, err := ParseSettle(g.Settle)
		if err != nil {
			return p.fail(fmt.Errorf("group %s: %w", g.Name, err))
		}
		return p.RenderBatch(ctx, descriptors, g.Table(), settle)
	case layout.ModeMerge:
		return p.RenderMerged(ctx, descriptors, g.Target)
	case layout.ModeCollect:
		return p.RenderCollected(ctx, descriptors, g.Target)
	case layout.ModeSchedule:
		if len(descriptors) != 1 {
			return p.fail(fmt.Errorf("%w: schedule group %s: want one descriptor, got %d",
				domain.ErrInvalidConfig, g.Name, len(descriptors)))
		}
		return p.ProjectSchedule(ctx, descriptors[0], g.Target)
	default:
		return p.fail(fmt.Errorf("%w: group %s: unknown mode %q", domain.ErrInvalidConfig, g.Name, g.Mode))
	}
}
