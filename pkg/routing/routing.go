// Package routing maps descriptor text to destination containers.
//
// A [Table] is an ordered list of rules. Resolve walks it front to back and
// returns the container of the first rule whose predicate matches, so
// precedence is the order of the table and nothing else. For example, a table
// that must send "hourly_14_day.json" to the hourly container lists the
// hourly rule before the 14_day rule.
package routing

import (
	"fmt"
	"path"
	"strings"
)

// Predicate reports whether a descriptor belongs to a rule.
type Predicate func(descriptor string) bool

// Contains matches descriptors whose text contains sub.
func Contains(sub string) Predicate {
	return func(d string) bool { return strings.Contains(d, sub) }
}

// HasSuffix matches descriptors ending in suffix.
func HasSuffix(suffix string) Predicate {
	return func(d string) bool { return strings.HasSuffix(d, suffix) }
}

// Glob matches the base name of a descriptor against a path.Match pattern.
// A malformed pattern never matches; use ValidateGlob to reject it up front.
func Glob(pattern string) Predicate {
	return func(d string) bool {
		ok, err := path.Match(pattern, path.Base(d))
		return err == nil && ok
	}
}

// Any matches when at least one of the predicates matches.
func Any(preds ...Predicate) Predicate {
	return func(d string) bool {
		for _, p := range preds {
			if p(d) {
				return true
			}
		}
		return false
	}
}

// ValidateGlob checks that pattern is a well-formed path.Match pattern.
func ValidateGlob(pattern string) error {
	if _, err := path.Match(pattern, ""); err != nil {
		return fmt.Errorf("glob %q: %w", pattern, err)
	}
	return nil
}

// Rule binds a predicate to a container id.
type Rule struct {
	// Name identifies the rule in logs, e.g. "hourly".
	Name      string
	Match     Predicate
	Container string
}

// Table is an ordered rule list evaluated in priority order.
type Table []Rule

// Resolve returns the container of the first matching rule.
// ok is false when no rule matches.
func (t Table) Resolve(descriptor string) (container string, ok bool) {
	rule, ok := t.Match(descriptor)
	if !ok {
		return "", false
	}
	return rule.Container, true
}

// Match returns the first rule whose predicate matches the descriptor.
func (t Table) Match(descriptor string) (Rule, bool) {
	for _, r := range t {
		if r.Match != nil && r.Match(descriptor) {
			return r, true
		}
	}
	return Rule{}, false
}
