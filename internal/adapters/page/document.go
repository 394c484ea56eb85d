// Package page implements the renderer ports over an HTML document tree.
//
// A Document is parsed from a page template. Containers are elements found by
// id; batch and merge output goes into the first <pre> below the container,
// projected nodes are appended to the container itself, and error lines are
// collected in the element with id "error-messages" when the page has one.
package page

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dugout-dev/dugout/internal/domain"
)

// ErrorMessagesID is the id of the error surface container.
const ErrorMessagesID = "error-messages"

// Document is a parsed page whose containers receive rendered output.
// All methods are safe for concurrent use; writes are serialized.
type Document struct {
	mu       sync.Mutex
	root     *html.Node
	messages []string
}

// Parse reads an HTML page.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return &Document{root: root}, nil
}

// Write replaces the text of the container's <pre> element.
func (d *Document) Write(container, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	el := findByID(d.root, container)
	if el == nil {
		return domain.ErrContainerNotFound
	}
	pre := findDescendant(el, atom.Pre)
	if pre == nil {
		return domain.ErrRenderTargetNotFound
	}
	setText(pre, text)
	return nil
}

// Append adds nodes as children of the container, in order.
func (d *Document) Append(container string, nodes ...domain.Node) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	el := findByID(d.root, container)
	if el == nil {
		return domain.ErrContainerNotFound
	}
	for _, n := range nodes {
		child := &html.Node{
			Type:     html.ElementNode,
			Data:     n.Tag,
			DataAtom: atom.Lookup([]byte(n.Tag)),
		}
		child.AppendChild(&html.Node{Type: html.TextNode, Data: n.Text})
		el.AppendChild(child)
	}
	return nil
}

// Report appends a line to the error surface. Lines accumulate for the life
// of the document and are shown newline-joined. It returns false when the
// page has no error surface.
func (d *Document) Report(message string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	el := findByID(d.root, ErrorMessagesID)
	if el == nil {
		return false
	}
	d.messages = append(d.messages, message)
	setText(el, strings.Join(d.messages, "\n"))
	return true
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return html.Render(w, d.root)
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && getAttr(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// findDescendant returns the first element below n (excluding n) with the given tag.
func findDescendant(n *html.Node, a atom.Atom) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			return c
		}
		if found := findDescendant(c, a); found != nil {
			return found
		}
	}
	return nil
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setText(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}
