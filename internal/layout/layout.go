// Package layout describes pages as data: which descriptors each page
// fetches, how they are grouped into pipeline invocations and where their
// payloads are routed. Built-in pages reproduce the stock dashboard; files in
// TOML or YAML can replace or extend them.
package layout

import (
	"fmt"
	"strings"

	"github.com/dugout-dev/dugout/internal/domain"
	"github.com/dugout-dev/dugout/pkg/routing"
)

// Mode is the pipeline mode of a group.
type Mode string

const (
	ModeBatch    Mode = "batch"
	ModeMerge    Mode = "merge"
	ModeCollect  Mode = "collect"
	ModeSchedule Mode = "schedule"
)

// Route sends descriptors to a container. A route matches when any of its
// Contains substrings, its Suffix or its Glob matches the descriptor.
type Route struct {
	Name      string   `toml:"name" yaml:"name"`
	Contains  []string `toml:"contains,omitempty" yaml:"contains,omitempty"`
	Suffix    string   `toml:"suffix,omitempty" yaml:"suffix,omitempty"`
	Glob      string   `toml:"glob,omitempty" yaml:"glob,omitempty"`
	Container string   `toml:"container" yaml:"container"`
}

// Group is one pipeline invocation.
type Group struct {
	Name        string   `toml:"name" yaml:"name"`
	Mode        Mode     `toml:"mode" yaml:"mode"`
	Settle      string   `toml:"settle,omitempty" yaml:"settle,omitempty"`
	Descriptors []string `toml:"descriptors" yaml:"descriptors"`

	// Routes apply to batch groups.
	Routes []Route `toml:"routes,omitempty" yaml:"routes,omitempty"`

	// Target is the container of merge, collect and schedule groups.
	Target string `toml:"target,omitempty" yaml:"target,omitempty"`
}

// Page is a template plus the groups rendered into it.
type Page struct {
	Name string `toml:"name" yaml:"name"`

	// Template is a path under the site root. Empty selects the built-in
	// template of the same name.
	Template string `toml:"template,omitempty" yaml:"template,omitempty"`

	// Output is the rendered page path under the site root, "<name>.html"
	// when empty.
	Output string  `toml:"output,omitempty" yaml:"output,omitempty"`
	Groups []Group `toml:"groups" yaml:"groups"`
}

// OutputPath returns the path the rendered page is written to.
func (p Page) OutputPath() string {
	if p.Output != "" {
		return p.Output
	}
	return p.Name + ".html"
}

// Table converts the group's routes into a routing table, in order.
func (g Group) Table() routing.Table {
	t := make(routing.Table, 0, len(g.Routes))
	for _, r := range g.Routes {
		t = append(t, routing.Rule{
			Name:      r.Name,
			Match:     r.predicate(),
			Container: r.Container,
		})
	}
	return t
}

// DescriptorList returns the group's descriptors.
func (g Group) DescriptorList() []domain.Descriptor {
	return domain.Descriptors(g.Descriptors...)
}

func (r Route) predicate() routing.Predicate {
	var preds []routing.Predicate
	for _, s := range r.Contains {
		preds = append(preds, routing.Contains(s))
	}
	if r.Suffix != "" {
		preds = append(preds, routing.HasSuffix(r.Suffix))
	}
	if r.Glob != "" {
		preds = append(preds, routing.Glob(r.Glob))
	}
	return routing.Any(preds...)
}

// Validate checks a page for structural errors.
func (p Page) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: page without a name", domain.ErrInvalidConfig)
	}
	if len(p.Groups) == 0 {
		return fmt.Errorf("%w: page %s has no groups", domain.ErrInvalidConfig, p.Name)
	}
	for i, g := range p.Groups {
		if err := g.validate(); err != nil {
			return fmt.Errorf("page %s group %d: %w", p.Name, i, err)
		}
	}
	return nil
}

func (g Group) validate() error {
	if len(g.Descriptors) == 0 {
		return fmt.Errorf("%w: no descriptors", domain.ErrInvalidConfig)
	}
	switch g.Mode {
	case ModeBatch:
		if len(g.Routes) == 0 {
			return fmt.Errorf("%w: batch group needs routes", domain.ErrInvalidConfig)
		}
		switch g.Settle {
		case "", "each", "all":
		default:
			return fmt.Errorf("%w: settle mode %q", domain.ErrInvalidConfig, g.Settle)
		}
		for _, r := range g.Routes {
			if err := r.validate(); err != nil {
				return err
			}
		}
	case ModeMerge, ModeCollect:
		if g.Target == "" {
			return fmt.Errorf("%w: %s group needs a target", domain.ErrInvalidConfig, g.Mode)
		}
	case ModeSchedule:
		if g.Target == "" {
			return fmt.Errorf("%w: schedule group needs a target", domain.ErrInvalidConfig)
		}
		if len(g.Descriptors) != 1 {
			return fmt.Errorf("%w: schedule group takes one descriptor, got %d", domain.ErrInvalidConfig, len(g.Descriptors))
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidConfig, g.Mode)
	}
	return nil
}

func (r Route) validate() error {
	if r.Container == "" {
		return fmt.Errorf("%w: route %q has no container", domain.ErrInvalidConfig, r.Name)
	}
	if len(r.Contains) == 0 && r.Suffix == "" && r.Glob == "" {
		return fmt.Errorf("%w: route %q matches nothing", domain.ErrInvalidConfig, r.Name)
	}
	if r.Glob != "" {
		if err := routing.ValidateGlob(r.Glob); err != nil {
			return fmt.Errorf("%w: route %q: %v", domain.ErrInvalidConfig, r.Name, err)
		}
	}
	return nil
}
