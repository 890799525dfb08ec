package converter

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ginjaninja78/csv2html/internal/config"
	"github.com/ginjaninja78/csv2html/internal/types"
)

// logEntry is one captured log call.
type logEntry struct {
	level string
	msg   string
	args  []any
}

// recordingLogger captures log calls for assertions.
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) record(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, args: args})
}

func (l *recordingLogger) Debug(msg string, args ...any) { l.record("debug", msg, args) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args) }
func (l *recordingLogger) Error(msg string, args ...any) { l.record("error", msg, args) }

func (l *recordingLogger) byLevel(level string) []logEntry {
	var out []logEntry
	for _, e := range l.entries {
		if e.level == level {
			out = append(out, e)
		}
	}
	return out
}

// book builds a complete record.
func book(title, author, date, url, desc string) types.Record {
	return types.Record{
		Line: 2,
		Fields: map[string]string{
			"Title":            title,
			"Author(s)":        author,
			"Publication Date": date,
			"GoodReads URL":    url,
			"Description":      desc,
		},
	}
}

func newTestTransformer(mode string) *Transformer {
	cfg := config.Default()
	cfg.Description.Mode = mode
	return NewTransformer(cfg)
}

func TestTransform_EndToEndExample(t *testing.T) {
	tr := newTestTransformer(config.DescriptionRaw)

	got := tr.Transform(book("A & B", "X", "2020", "http://gr/1", "Good. http://gr/1 is the link."))

	require.True(t, got.OK())
	assert.Equal(t,
		`<p><strong><a href="http://gr/1">A &amp; B</a></strong> by X (<strong>2020</strong>) Good. <a href="http://gr/1">http://gr/1</a> is the link.</p>`,
		got.Fragment)
}

func TestTransform_EscapesFields(t *testing.T) {
	tr := newTestTransformer(config.DescriptionRaw)

	got := tr.Transform(book(
		`<b>"Tom" & 'Jerry'</b>`,
		`O'Brien <Ed.>`,
		`"1999" & after`,
		`http://gr/1?a=1&b="2"`,
		"plain",
	))
	require.True(t, got.OK())

	assert.Contains(t, got.Fragment, `<a href="http://gr/1?a=1&amp;b=&quot;2&quot;">`)
	assert.Contains(t, got.Fragment, `&lt;b&gt;&quot;Tom&quot; &amp; &#x27;Jerry&#x27;&lt;/b&gt;</a>`)
	assert.Contains(t, got.Fragment, ` by O&#x27;Brien &lt;Ed.&gt; (`)
	assert.Contains(t, got.Fragment, `<strong>&quot;1999&quot; &amp; after</strong>`)
}

func TestTransform_FragmentStructure(t *testing.T) {
	tr := newTestTransformer(config.DescriptionRaw)
	title := `<script>alert("x")</script> & Co`

	got := tr.Transform(book(title, "Ann", "2001", "https://gr/9", "See https://example.org/a now"))
	require.True(t, got.OK())

	nodes, err := html.ParseFragment(strings.NewReader(got.Fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	p := nodes[0]
	assert.Equal(t, atom.P, p.DataAtom)

	strong := p.FirstChild
	require.NotNil(t, strong)
	assert.Equal(t, atom.Strong, strong.DataAtom)

	anchor := strong.FirstChild
	require.NotNil(t, anchor)
	assert.Equal(t, atom.A, anchor.DataAtom)
	assert.Equal(t, "https://gr/9", attr(anchor, "href"))
	// The escaped title reads back as the original text, not as markup.
	assert.Equal(t, title, textOf(anchor))

	var hrefs []string
	walk(p, func(n *html.Node) {
		if n.DataAtom == atom.Script {
			t.Errorf("unexpected script element in fragment")
		}
		if n.DataAtom == atom.A {
			hrefs = append(hrefs, attr(n, "href"))
		}
	})
	assert.Equal(t, []string{"https://gr/9", "https://example.org/a"}, hrefs)
}

func TestTransform_DescriptionWithoutLinksUnchanged(t *testing.T) {
	tr := newTestTransformer(config.DescriptionRaw)
	desc := "A <em>raw</em> & unescaped description; ftp://not.linked www.example.com"

	got := tr.Transform(book("T", "A", "D", "http://u", desc))
	require.True(t, got.OK())
	assert.True(t, strings.HasSuffix(got.Fragment, ") "+desc+"</p>"))
}

func TestSubstituteLinks(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "single link",
			in:   "See http://example.com/x for details",
			want: `See <a href="http://example.com/x">http://example.com/x</a> for details`,
		},
		{
			name: "https and several links",
			in:   "https://a.io and http://b.io",
			want: `<a href="https://a.io">https://a.io</a> and <a href="http://b.io">http://b.io</a>`,
		},
		{
			name: "greedy up to whitespace",
			in:   "(see http://a.io/x).\nNext",
			want: "(see <a href=\"http://a.io/x).\">http://a.io/x).</a>\nNext",
		},
		{
			name: "unicode whitespace ends a link",
			in:   "http://a.io/x\u00a0after",
			want: "<a href=\"http://a.io/x\">http://a.io/x</a>\u00a0after",
		},
		{
			name: "verbatim ampersand",
			in:   "http://a.io/?q=1&r=2",
			want: `<a href="http://a.io/?q=1&r=2">http://a.io/?q=1&r=2</a>`,
		},
		{
			name: "adjacent schemes do not overlap",
			in:   "http://a.iohttp://b.io",
			want: `<a href="http://a.iohttp://b.io">http://a.iohttp://b.io</a>`,
		},
		{
			name: "scheme alone is not a link",
			in:   "http:// nothing",
			want: "http:// nothing",
		},
		{
			name: "uppercase scheme is not a link",
			in:   "HTTP://A.IO",
			want: "HTTP://A.IO",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SubstituteLinks(tt.in))
		})
	}
}

func TestTransform_DescriptionModes(t *testing.T) {
	t.Run("escape", func(t *testing.T) {
		got := newTestTransformer(config.DescriptionEscape).
			Transform(book("T", "A", "D", "http://u", "<b>x</b> & http://a/?q=1&r=2"))
		require.True(t, got.OK())
		assert.True(t, strings.HasSuffix(got.Fragment,
			`) &lt;b&gt;x&lt;/b&gt; &amp; <a href="http://a/?q=1&amp;r=2">http://a/?q=1&amp;r=2</a></p>`))
	})

	t.Run("inline", func(t *testing.T) {
		got := newTestTransformer(config.DescriptionInline).
			Transform(book("T", "A", "D", "http://u", `<b>bold</b><script>alert(1)</script> <a href="http://evil">x</a> http://a/b`))
		require.True(t, got.OK())
		assert.Contains(t, got.Fragment, "<b>bold</b>")
		assert.NotContains(t, got.Fragment, "<script")
		assert.NotContains(t, got.Fragment, "http://evil")
		assert.Contains(t, got.Fragment, `<a href="http://a/b">http://a/b</a>`)
	})

	t.Run("strip", func(t *testing.T) {
		got := newTestTransformer(config.DescriptionStrip).
			Transform(book("T", "A", "D", "http://u", "<i>Great</i> read"))
		require.True(t, got.OK())
		assert.True(t, strings.HasSuffix(got.Fragment, ") Great read</p>"))
	})
}

func TestTransform_MissingField(t *testing.T) {
	tr := newTestTransformer(config.DescriptionRaw)
	record := book("T", "A", "D", "http://u", "desc")
	delete(record.Fields, "Description")

	got := tr.Transform(record)
	require.False(t, got.OK())
	assert.Equal(t, "", got.String())

	var missing *MissingFieldError
	require.True(t, errors.As(got.Err, &missing))
	assert.Equal(t, "Description", missing.Column)
	assert.Equal(t, 2, got.Line)
}

func TestTransform_FirstMissingFieldReported(t *testing.T) {
	tr := newTestTransformer(config.DescriptionRaw)

	got := tr.Transform(types.Record{Fields: map[string]string{"Description": "d"}})

	var missing *MissingFieldError
	require.True(t, errors.As(got.Err, &missing))
	assert.Equal(t, "Title", missing.Column)
}

func TestTransform_ShortRowIsRowError(t *testing.T) {
	tr := newTestTransformer(config.DescriptionRaw)
	record := book("T", "A", "D", "http://u", "desc")
	delete(record.Fields, "GoodReads URL")
	delete(record.Fields, "Description")
	record.Unfilled = []string{"GoodReads URL", "Description"}

	got := tr.Transform(record)

	var rowErr *RowError
	require.True(t, errors.As(got.Err, &rowErr))
	assert.Contains(t, rowErr.Error(), `"GoodReads URL"`)

	var missing *MissingFieldError
	assert.False(t, errors.As(got.Err, &missing))
}

func TestTransform_RecoversFromPanic(t *testing.T) {
	tr := &Transformer{
		columns:     config.Default().Columns,
		description: func(string) string { panic("cleaner exploded") },
	}

	got := tr.Transform(book("T", "A", "D", "http://u", "desc"))

	var rowErr *RowError
	require.True(t, errors.As(got.Err, &rowErr))
	assert.Contains(t, rowErr.Error(), "cleaner exploded")
	assert.Equal(t, "", got.String())
}

func TestTransform_CustomColumns(t *testing.T) {
	cfg := config.Default()
	cfg.Columns.URL = "Link"

	got := NewTransformer(cfg).Transform(types.Record{Fields: map[string]string{
		"Title":            "T",
		"Author(s)":        "A",
		"Publication Date": "D",
		"Link":             "http://l",
		"Description":      "x",
	}})

	require.True(t, got.OK())
	assert.Contains(t, got.Fragment, `<a href="http://l">T</a>`)
}

func TestRender(t *testing.T) {
	tr := newTestTransformer(config.DescriptionRaw)
	log := &recordingLogger{}

	ok := tr.Render(book("T", "A", "D", "http://u", "d"), log)
	assert.NotEmpty(t, ok)
	assert.Empty(t, log.entries)

	record := book("T", "A", "D", "http://u", "d")
	delete(record.Fields, "Description")
	assert.Equal(t, "", tr.Render(record, log))

	errs := log.byLevel("error")
	require.Len(t, errs, 1)
	assert.Equal(t, "missing column in CSV", errs[0].msg)
	assert.Equal(t, []any{"column", "Description", "line", 2}, errs[0].args)

	record.Unfilled = []string{"Description"}
	assert.Equal(t, "", tr.Render(record, log))
	errs = log.byLevel("error")
	require.Len(t, errs, 2)
	assert.Equal(t, "error while processing row", errs[1].msg)
}

func TestEscapeHTML(t *testing.T) {
	assert.Equal(t, "&amp;&lt;&gt;&quot;&#x27;", EscapeHTML(`&<>"'`))
	assert.Equal(t, "&amp;amp;", EscapeHTML("&amp;"))
	assert.Equal(t, "plain text", EscapeHTML("plain text"))
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	})
	return sb.String()
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func ExampleSubstituteLinks() {
	fmt.Println(SubstituteLinks("Read more at https://example.com/books today."))
	// Output: Read more at <a href="https://example.com/books">https://example.com/books</a> today.
}
