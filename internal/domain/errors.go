package domain

import (
	"errors"
	"fmt"
)

// Sentinels for classifying pipeline failures with errors.Is.
var (
	// ErrResolution marks a resource that could not be fetched.
	ErrResolution = errors.New("dugout: resolution failed")

	// ErrParse marks a resource body that is not usable JSON.
	ErrParse = errors.New("dugout: invalid payload")

	// ErrRoutingMiss marks a descriptor with no destination container.
	ErrRoutingMiss = errors.New("dugout: no container")

	// ErrRenderTargetMissing marks a container without its content element.
	ErrRenderTargetMissing = errors.New("dugout: render target missing")

	// ErrContainerNotFound is returned by renderers when no element carries
	// the requested container id.
	ErrContainerNotFound = errors.New("container not found")

	// ErrRenderTargetNotFound is returned by renderers when the container
	// exists but has no content sub-element.
	ErrRenderTargetNotFound = errors.New("content element not found")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("dugout: invalid configuration")

	// ErrAlreadyRunning is returned when starting a session that is active.
	ErrAlreadyRunning = errors.New("dugout: already running")

	// ErrNotRunning is returned when stopping a session that is not active.
	ErrNotRunning = errors.New("dugout: not running")

	// ErrShutdownTimeout is returned when in-flight renders outlive the
	// shutdown grace period.
	ErrShutdownTimeout = errors.New("dugout: shutdown timed out")
)

// ResolutionError reports a descriptor that could not be fetched.
// Status is the HTTP-like status code, or 0 when no response was received.
type ResolutionError struct {
	Descriptor Descriptor
	Status     int
	Reason     string
	Err        error
}

func (e *ResolutionError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("HTTP error! Status: %d for file: %s", e.Status, e.Descriptor)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.Descriptor, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.Descriptor, e.Reason)
}

func (e *ResolutionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrResolution}
	}
	return []error{ErrResolution, e.Err}
}

// ParseError reports a resource body that is not valid JSON, or does not have
// the shape the mode requires.
type ParseError struct {
	Descriptor Descriptor
	Err        error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Descriptor, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

// RoutingMiss reports a descriptor whose routing key did not resolve.
// Container is empty when no rule matched, and set when the rule matched but
// the page has no such container.
type RoutingMiss struct {
	Descriptor Descriptor
	Container  string
}

func (e *RoutingMiss) Error() string {
	if e.Container == "" {
		return fmt.Sprintf("no routing rule matches %s", e.Descriptor)
	}
	return fmt.Sprintf("could not find a container for ID: %s (file: %s)", e.Container, e.Descriptor)
}

func (e *RoutingMiss) Unwrap() error {
	return ErrRoutingMiss
}

// RenderTargetMissing reports a container that exists but lacks the content
// element the rendered text goes into.
type RenderTargetMissing struct {
	Descriptor Descriptor
	Container  string
}

func (e *RenderTargetMissing) Error() string {
	return fmt.Sprintf("container %s has no content element (file: %s)", e.Container, e.Descriptor)
}

func (e *RenderTargetMissing) Unwrap() error {
	return ErrRenderTargetMissing
}
