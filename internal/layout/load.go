package layout

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dugout-dev/dugout/internal/domain"
)

// File is the on-disk layout format.
//
// TOML:
//
//	[[pages]]
//	name = "weather"
//
//	[[pages.groups]]
//	name = "forecast"
//	mode = "batch"
//	descriptors = ["./JSON/hourly_weather.json"]
//
//	[[pages.groups.routes]]
//	name = "hourly"
//	contains = ["hourly"]
//	container = "hourly-weather"
type File struct {
	Pages []Page `toml:"pages" yaml:"pages"`
}

// LoadFile reads pages from a .toml, .yaml or .yml file and validates them.
func LoadFile(path string) ([]Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}

	var f File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("parse layout %s: %w", path, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("parse layout %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported layout format %q", domain.ErrInvalidConfig, ext)
	}

	for _, p := range f.Pages {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}
	return f.Pages, nil
}

// Merge returns base with every page of overrides replacing the base page of
// the same name. Pages not in base are appended in override order.
func Merge(base, overrides []Page) []Page {
	out := append([]Page(nil), base...)
	index := make(map[string]int, len(out))
	for i, p := range out {
		index[p.Name] = i
	}
	for _, p := range overrides {
		if i, ok := index[p.Name]; ok {
			out[i] = p
			continue
		}
		index[p.Name] = len(out)
		out = append(out, p)
	}
	return out
}

// Select returns the named pages in the order given. No names selects all.
func Select(pages []Page, names []string) ([]Page, error) {
	if len(names) == 0 {
		return pages, nil
	}
	byName := make(map[string]Page, len(pages))
	for _, p := range pages {
		byName[p.Name] = p
	}
	out := make([]Page, 0, len(names))
	for _, n := range names {
		p, ok := byName[n]
		if !ok {
			return nil, fmt.Errorf("%w: unknown page %q", domain.ErrInvalidConfig, n)
		}
		out = append(out, p)
	}
	return out, nil
}
