package domain

// Descriptor names a JSON resource, e.g. "./JSON/hourly_weather.json".
// It is a path-like string fixed at configuration time.
type Descriptor string

// String returns the descriptor text.
func (d Descriptor) String() string {
	return string(d)
}

// Descriptors converts a list of strings into descriptors, keeping order.
func Descriptors(paths ...string) []Descriptor {
	out := make([]Descriptor, len(paths))
	for i, p := range paths {
		out[i] = Descriptor(p)
	}
	return out
}

// Node is a single presentation node produced by record projection.
// Tag is the element name (h3, p, ...) and Text its only text content.
type Node struct {
	Tag  string
	Text string
}
