package fs

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Site implements ports.Site over a directory.
type Site struct {
	root string
}

// NewSite creates a Site rooted at root.
func NewSite(root string) *Site {
	return &Site{root: root}
}

// Root returns the site directory.
func (s *Site) Root() string {
	return s.root
}

// Path resolves a slash-separated name below the root.
func (s *Site) Path(name string) string {
	clean := path.Clean("/" + strings.TrimPrefix(name, "./"))
	return filepath.Join(s.root, filepath.FromSlash(clean))
}

// ReadFile reads a file below the root.
func (s *Site) ReadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// WriteFile stores data below the root atomically.
func (s *Site) WriteFile(name string, data []byte) error {
	if err := WriteFileAtomic(s.Path(name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
