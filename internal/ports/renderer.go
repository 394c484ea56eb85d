package ports

import (
	"io"

	"github.com/dugout-dev/dugout/internal/domain"
)

// Renderer writes text to a named sink.
type Renderer interface {
	// Write replaces the content of the container's content element with
	// text. It returns domain.ErrContainerNotFound when the container does
	// not exist and domain.ErrRenderTargetNotFound when it has no content
	// element.
	Write(container, text string) error
}

// Projector appends generated nodes to a container, in order.
type Projector interface {
	// Append returns domain.ErrContainerNotFound when the container does not exist.
	Append(container string, nodes ...domain.Node) error
}

// ErrorSurface accumulates failure descriptions for display.
type ErrorSurface interface {
	// Report records one message. It returns false when the surface has no
	// place to show it and the message was discarded.
	Report(message string) bool
}

// Page is the full capability set of a rendered page.
type Page interface {
	Renderer
	Projector
	ErrorSurface
}

// Document is a page that can be serialized after rendering.
type Document interface {
	Page
	Render(w io.Writer) error
}

// Site reads templates from and stores rendered pages under a site root.
// Names are slash-separated paths relative to the root.
type Site interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte) error
}
