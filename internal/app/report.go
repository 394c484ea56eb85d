package app

import (
	"sync"

	"go.uber.org/multierr"
)

// Report is the outcome of one page render.
type Report struct {
	RunID  string
	Page   string
	Output string

	// Rendered lists the containers written, in completion order.
	Rendered []string

	// Errors lists every failure reported by the pipeline.
	Errors []error
}

// Err combines all reported failures, or returns nil when there were none.
func (r *Report) Err() error {
	return multierr.Combine(r.Errors...)
}

// OK reports whether the run finished without pipeline failures.
func (r *Report) OK() bool {
	return len(r.Errors) == 0
}

// recorder accumulates report entries from concurrent groups.
type recorder struct {
	mu       sync.Mutex
	rendered []string
	errs     []error
}

func (r *recorder) wrote(container string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rendered = append(r.rendered, container)
}

func (r *recorder) failed(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recorder) fill(rep *Report) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep.Rendered = append([]string(nil), r.rendered...)
	rep.Errors = append([]error(nil), r.errs...)
}
