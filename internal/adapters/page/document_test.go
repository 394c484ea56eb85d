package page

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dugout-dev/dugout/internal/domain"
)

const testPage = `<!DOCTYPE html>
<html><head><title>t</title></head><body>
<section id="hourly-weather"><h2>Hourly</h2><pre>loading...</pre></section>
<section id="weather-content"><div>no pre here</div></section>
<ul id="games-list"></ul>
</body></html>`

func mustParse(t *testing.T, s string) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(s))
	require.NoError(t, err)
	return doc
}

func renderString(t *testing.T, d *Document) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, d.Render(&b))
	return b.String()
}

// textOf returns the text of a container's <pre>, or of the container itself
// when it has none.
func textOf(d *Document, container string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	el := findByID(d.root, container)
	if el == nil {
		return "", false
	}
	if pre := findDescendant(el, atom.Pre); pre != nil {
		el = pre
	}
	var b strings.Builder
	collectText(el, &b)
	return b.String(), true
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

func childrenOf(d *Document, container string) []domain.Node {
	d.mu.Lock()
	defer d.mu.Unlock()

	el := findByID(d.root, container)
	if el == nil {
		return nil
	}
	var out []domain.Node
	for c := el.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		var b strings.Builder
		collectText(c, &b)
		out = append(out, domain.Node{Tag: c.Data, Text: b.String()})
	}
	return out
}

func TestDocument_Write(t *testing.T) {
	doc := mustParse(t, testPage)

	require.NoError(t, doc.Write("hourly-weather", "{\n  \"a\": \"<b>\"\n}"))
	got, ok := textOf(doc, "hourly-weather")
	require.True(t, ok)
	assert.Equal(t, "{\n  \"a\": \"<b>\"\n}", got)

	// overwrite, not append
	require.NoError(t, doc.Write("hourly-weather", "second"))
	got, _ = textOf(doc, "hourly-weather")
	assert.Equal(t, "second", got)

	out := renderString(t, doc)
	assert.Contains(t, out, "<pre>second</pre>")
	assert.Contains(t, out, "<h2>Hourly</h2>")
}

func TestDocument_WriteEscapes(t *testing.T) {
	doc := mustParse(t, testPage)
	require.NoError(t, doc.Write("hourly-weather", `"<script>"`))

	out := renderString(t, doc)
	assert.Contains(t, out, "&lt;script&gt;")
	assert.NotContains(t, out, "<script>")
}

func TestDocument_WriteErrors(t *testing.T) {
	doc := mustParse(t, testPage)

	assert.ErrorIs(t, doc.Write("weekly-weather", "x"), domain.ErrContainerNotFound)
	assert.ErrorIs(t, doc.Write("weather-content", "x"), domain.ErrRenderTargetNotFound)
}

func TestDocument_Append(t *testing.T) {
	doc := mustParse(t, testPage)

	require.NoError(t, doc.Append("games-list",
		domain.Node{Tag: "h3", Text: "Chicago Cubs @ Milwaukee Brewers"},
		domain.Node{Tag: "p", Text: "Broadcast: FS1"},
	))
	require.NoError(t, doc.Append("games-list", domain.Node{Tag: "h3", Text: "second"}))

	assert.Equal(t, []domain.Node{
		{Tag: "h3", Text: "Chicago Cubs @ Milwaukee Brewers"},
		{Tag: "p", Text: "Broadcast: FS1"},
		{Tag: "h3", Text: "second"},
	}, childrenOf(doc, "games-list"))

	assert.ErrorIs(t, doc.Append("missing"), domain.ErrContainerNotFound)
}

func TestDocument_Report(t *testing.T) {
	withSurface := mustParse(t, `<div id="error-messages"></div>`)
	assert.True(t, withSurface.Report("a.json: HTTP error! Status: 404"))
	assert.True(t, withSurface.Report("b.json: parse failed"))

	got, ok := textOf(withSurface, ErrorMessagesID)
	require.True(t, ok)
	assert.Equal(t, "a.json: HTTP error! Status: 404\nb.json: parse failed", got)

	without := mustParse(t, testPage)
	assert.False(t, without.Report("dropped"))
}

func TestDocument_ConcurrentWrites(t *testing.T) {
	var b strings.Builder
	b.WriteString("<body>")
	for i := 0; i < 20; i++ {
		b.WriteString(`<div id="c` + string(rune('a'+i)) + `"><pre></pre></div>`)
	}
	b.WriteString(`<div id="error-messages"></div></body>`)
	doc := mustParse(t, b.String())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			assert.NoError(t, doc.Write(id, id))
			doc.Report(id)
		}("c" + string(rune('a'+i)))
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		id := "c" + string(rune('a'+i))
		got, _ := textOf(doc, id)
		assert.Equal(t, id, got)
	}
	surface, _ := textOf(doc, ErrorMessagesID)
	assert.Len(t, strings.Split(surface, "\n"), 20)
}
