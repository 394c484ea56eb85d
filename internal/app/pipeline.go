package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/dugout-dev/dugout/internal/domain"
	"github.com/dugout-dev/dugout/internal/ports"
	"github.com/dugout-dev/dugout/pkg/log"
	"github.com/dugout-dev/dugout/pkg/payload"
	"github.com/dugout-dev/dugout/pkg/routing"
)

// Settle selects how a batch reacts to a failed descriptor.
type Settle string

const (
	// SettleEach isolates failures: every descriptor renders or fails on its own.
	SettleEach Settle = "each"

	// SettleAll aborts the batch on the first fetch or parse failure; no
	// container of the batch is written.
	SettleAll Settle = "all"
)

// ParseSettle parses a settle mode. The empty string means SettleEach.
func ParseSettle(s string) (Settle, error) {
	switch Settle(s) {
	case "", SettleEach:
		return SettleEach, nil
	case SettleAll:
		return SettleAll, nil
	default:
		return "", fmt.Errorf("%w: settle mode %q", domain.ErrInvalidConfig, s)
	}
}

// Pipeline fetches descriptors, routes them to containers and renders them
// into one page. Fetches run concurrently; writes to the page are serialized.
// No method ever fails the page: errors are logged, shown on the page's error
// surface and recorded for the Report, and also returned to the caller.
type Pipeline struct {
	fetcher ports.Fetcher
	page    ports.Page
	logger  log.Logger

	mu  sync.Mutex
	rec recorder
}

// NewPipeline creates a pipeline rendering into page.
func NewPipeline(fetcher ports.Fetcher, page ports.Page, logger log.Logger) *Pipeline {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &Pipeline{
		fetcher: fetcher,
		page:    page,
		logger:  logger,
	}
}

// Report returns the containers written and the failures reported so far.
func (p *Pipeline) Report() *Report {
	rep := &Report{}
	p.rec.fill(rep)
	return rep
}

// RenderBatch fetches every descriptor and renders each payload into the
// container its routing rule names.
func (p *Pipeline) RenderBatch(ctx context.Context, descriptors []domain.Descriptor, table routing.Table, settle Settle) error {
	if settle == SettleAll {
		values, err := p.loadAll(ctx, descriptors, nil)
		if err != nil {
			return p.fail(err)
		}
		var errs error
		for i, d := range descriptors {
			errs = multierr.Append(errs, p.route(d, table, values[i]))
		}
		return errs
	}

	errs := make([]error, len(descriptors))
	var wg sync.WaitGroup
	for i, d := range descriptors {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := p.load(ctx, d)
			if err != nil {
				errs[i] = p.fail(err)
				return
			}
			errs[i] = p.route(d, table, v)
		}()
	}
	wg.Wait()
	return multierr.Combine(errs...)
}

// RenderMerged fetches every descriptor, folds the objects with payload.Merge
// and renders the result into target. Any fetch or parse failure aborts the
// whole merge and nothing is written.
func (p *Pipeline) RenderMerged(ctx context.Context, descriptors []domain.Descriptor, target string) error {
	values, err := p.loadAll(ctx, descriptors, requireObject)
	if err != nil {
		return p.fail(err)
	}
	merged, err := payload.Merge(values...)
	if err != nil {
		return p.fail(&domain.ParseError{Descriptor: groupDescriptor("merge", target), Err: err})
	}
	return p.write(groupDescriptor("merge", target), target, merged)
}

// RenderCollected fetches every descriptor and renders the array of payloads,
// in descriptor order, into target. Failure handling is as in RenderMerged.
func (p *Pipeline) RenderCollected(ctx context.Context, descriptors []domain.Descriptor, target string) error {
	values, err := p.loadAll(ctx, descriptors, nil)
	if err != nil {
		return p.fail(err)
	}
	return p.write(groupDescriptor("collect", target), target, values)
}

// ProjectSchedule fetches an array of game records and appends four nodes per
// record to container. A fetch or parse failure halts the projection before
// anything is appended.
func (p *Pipeline) ProjectSchedule(ctx context.Context, d domain.Descriptor, container string) error {
	v, err := p.load(ctx, d)
	if err != nil {
		return p.fail(err)
	}
	records, ok := v.([]any)
	if !ok {
		return p.fail(&domain.ParseError{
			Descriptor: d,
			Err:        fmt.Errorf("expected an array of game records, got %s", payload.Kind(v)),
		})
	}

	nodes := make([]domain.Node, 0, 4*len(records))
	for _, r := range records {
		nodes = append(nodes, ScheduleNodes(r)...)
	}

	p.mu.Lock()
	err = p.page.Append(container, nodes...)
	p.mu.Unlock()
	if err != nil {
		return p.fail(p.renderError(d, container, err))
	}

	p.rec.wrote(container)
	p.logger.Debug("schedule rendered",
		log.String("descriptor", d.String()),
		log.String("container", container),
		log.Int("games", len(records)),
	)
	return nil
}

// load fetches and decodes one descriptor.
func (p *Pipeline) load(ctx context.Context, d domain.Descriptor) (payload.Value, error) {
	body, err := p.fetcher.Fetch(ctx, d)
	if err != nil {
		var re *domain.ResolutionError
		if !errors.As(err, &re) {
			err = &domain.ResolutionError{Descriptor: d, Err: err}
		}
		return nil, err
	}
	v, err := payload.Decode(body)
	if err != nil {
		return nil, &domain.ParseError{Descriptor: d, Err: err}
	}
	return v, nil
}

// loadAll fetches all descriptors concurrently. The first failure cancels the
// remaining fetches and is the only error returned. check, when set, runs on
// each decoded payload.
func (p *Pipeline) loadAll(ctx context.Context, descriptors []domain.Descriptor, check func(domain.Descriptor, payload.Value) error) ([]payload.Value, error) {
	values := make([]payload.Value, len(descriptors))
	g, gctx := errgroup.WithContext(ctx)
	for i, d := range descriptors {
		g.Go(func() error {
			v, err := p.load(gctx, d)
			if err != nil {
				return err
			}
			if check != nil {
				if err := check(d, v); err != nil {
					return err
				}
			}
			values[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return values, nil
}

func requireObject(d domain.Descriptor, v payload.Value) error {
	if _, ok := v.(*payload.Object); !ok {
		return &domain.ParseError{
			Descriptor: d,
			Err:        fmt.Errorf("%w: got %s", payload.ErrNotObject, payload.Kind(v)),
		}
	}
	return nil
}

func (p *Pipeline) route(d domain.Descriptor, table routing.Table, v payload.Value) error {
	container, ok := table.Resolve(d.String())
	if !ok {
		return p.fail(&domain.RoutingMiss{Descriptor: d})
	}
	return p.write(d, container, v)
}

// write formats v and replaces the container's content with it.
func (p *Pipeline) write(d domain.Descriptor, container string, v payload.Value) error {
	text, err := payload.Format(v)
	if err != nil {
		return p.fail(&domain.ParseError{Descriptor: d, Err: err})
	}

	p.mu.Lock()
	err = p.page.Write(container, text)
	p.mu.Unlock()
	if err != nil {
		return p.fail(p.renderError(d, container, err))
	}

	p.rec.wrote(container)
	p.logger.Debug("rendered",
		log.String("descriptor", d.String()),
		log.String("container", container),
	)
	return nil
}

func (p *Pipeline) renderError(d domain.Descriptor, container string, err error) error {
	switch {
	case errors.Is(err, domain.ErrContainerNotFound):
		return &domain.RoutingMiss{Descriptor: d, Container: container}
	case errors.Is(err, domain.ErrRenderTargetNotFound):
		return &domain.RenderTargetMissing{Descriptor: d, Container: container}
	default:
		return fmt.Errorf("render %s into %s: %w", d, container, err)
	}
}

// fail logs err, shows it on the error surface and records it.
func (p *Pipeline) fail(err error) error {
	d := descriptorOf(err)
	p.logger.Warn("render failed",
		log.String("descriptor", d.String()),
		log.Err(err),
	)

	p.mu.Lock()
	shown := p.page.Report(surfaceLine(d, err))
	p.mu.Unlock()
	if !shown {
		p.logger.Debug("page has no error surface", log.String("descriptor", d.String()))
	}

	p.rec.failed(err)
	return err
}

// surfaceLine prefixes err with its descriptor unless the message already
// names it.
func surfaceLine(d domain.Descriptor, err error) string {
	msg := err.Error()
	if d == "" || strings.Contains(msg, string(d)) {
		return msg
	}
	return fmt.Sprintf("%s: %s", d, msg)
}

// groupDescriptor names a multi-descriptor render in errors and logs.
func groupDescriptor(mode, target string) domain.Descriptor {
	return domain.Descriptor(mode + ":" + target)
}

func descriptorOf(err error) domain.Descriptor {
	var (
		re *domain.ResolutionError
		pe *domain.ParseError
		rm *domain.RoutingMiss
		tm *domain.RenderTargetMissing
	)
	switch {
	case errors.As(err, &re):
		return re.Descriptor
	case errors.As(err, &pe):
		return pe.Descriptor
	case errors.As(err, &rm):
		return rm.Descriptor
	case errors.As(err, &tm):
		return tm.Descriptor
	default:
		return ""
	}
}
