package markdown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/doccollect/internal/foundation/errors"
	"git.home.luguber.info/inful/doccollect/internal/metrics"
)

type renderRecorder struct {
	metrics.NoopRecorder
	neutralized int
	renders     int
}

func (r *renderRecorder) IncNeutralized(n int)                { r.neutralized += n }
func (r *renderRecorder) ObserveRenderDuration(time.Duration) { r.renders++ }

func TestRender(t *testing.T) {
	t.Run("should neutralize custom elements", func(t *testing.T) {
		assert.Equal(t, "<p><tt>&lt;angular/&gt;</tt></p>", Render("<angular/>"))
	})

	t.Run("should be idempotent", func(t *testing.T) {
		once := Render("<angular/>")
		assert.Equal(t, once, Render(once))
	})

	t.Run("should keep pre blocks", func(t *testing.T) {
		assert.Equal(t, "<pre>abc</pre>", Render("<pre>abc</pre>"))
	})

	t.Run("should not remove {{}}", func(t *testing.T) {
		assert.Equal(t, "<p>text {{ abc }}</p>", Render("text {{ abc }}"))
	})

	t.Run("renders markdown", func(t *testing.T) {
		assert.Equal(t, "<p>some <em>emphasis</em> and <strong>bold</strong></p>", Render("some *emphasis* and **bold**"))
	})

	t.Run("code span is escaped by the engine, not neutralized", func(t *testing.T) {
		assert.Equal(t, "<p>Use <code>&lt;my-tag&gt;</code> here</p>", Render("Use `<my-tag>` here"))
	})

	t.Run("fenced code", func(t *testing.T) {
		assert.Equal(t, "<pre><code>&lt;my-tag&gt;\n</code></pre>", Render("```\n<my-tag>\n```"))
	})

	t.Run("custom block element stays in its paragraph", func(t *testing.T) {
		got := Render("<my-directive>\ncontent\n</my-directive>")
		assert.Equal(t, "<p><tt>&lt;my-directive&gt;</tt>\ncontent\n<tt>&lt;/my-directive&gt;</tt></p>", got)
	})

	t.Run("text that is not a tag does not hide later tags", func(t *testing.T) {
		assert.Equal(t, "<p>if a&lt;b then <tt>&lt;ng-view&gt;</tt> is used</p>", Render("if a<b then <ng-view> is used"))
	})

	t.Run("unclosed inline element ends with its paragraph", func(t *testing.T) {
		assert.Equal(t, "<p>inline <code>x and</p>\n<p>later <tt>&lt;angular/&gt;</tt></p>", Render("inline <code>x and\n\nlater <angular/>"))
	})

	t.Run("inline script does not disable neutralization", func(t *testing.T) {
		assert.Equal(t, "<p>Use <script> then <tt>&lt;angular/&gt;</tt></p>", Render("Use <script> then <angular/>"))
	})

	t.Run("pre block content is kept", func(t *testing.T) {
		assert.Equal(t, "<pre>\n<angular/>\n</pre>", Render("<pre>\n<angular/>\n</pre>"))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Render(""))
	})
}

func TestNewRendererOptions(t *testing.T) {
	t.Run("hard wraps", func(t *testing.T) {
		r, err := NewRenderer(Options{HardWraps: true})
		require.NoError(t, err)
		assert.Equal(t, "<p>a<br>\nb</p>", r.Render("a\nb"))
	})

	t.Run("table extension", func(t *testing.T) {
		r, err := NewRenderer(Options{Extensions: []string{"Table", "table"}})
		require.NoError(t, err)
		assert.Contains(t, r.Render("| a |\n|---|\n| b |"), "<table>")
	})

	t.Run("plain commonmark by default", func(t *testing.T) {
		r, err := NewRenderer(Options{})
		require.NoError(t, err)
		assert.Equal(t, "<p>| a |\n|---|\n| b |</p>", r.Render("| a |\n|---|\n| b |"))
	})

	t.Run("unknown extension", func(t *testing.T) {
		_, err := NewRenderer(Options{Extensions: []string{"mermaid"}})
		require.Error(t, err)
		assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
	})

	t.Run("deny list", func(t *testing.T) {
		r, err := NewRenderer(Options{Neutralize: NeutralizeOptions{Deny: []string{"script"}}})
		require.NoError(t, err)
		assert.Equal(t, "<p><tt>&lt;script&gt;</tt>x<tt>&lt;/script&gt;</tt></p>", r.Render("<script>x</script>"))
	})
}

func TestRendererRecordsMetrics(t *testing.T) {
	rec := &renderRecorder{}
	r, err := NewRenderer(Options{}, WithRecorder(rec))
	require.NoError(t, err)

	r.Render("<a-b></a-b> and <c-d/>")
	r.Render("plain")

	assert.Equal(t, 3, rec.neutralized)
	assert.Equal(t, 2, rec.renders)
}

func TestExtensionNames(t *testing.T) {
	names := ExtensionNames()
	assert.Contains(t, names, "gfm")
	assert.IsIncreasing(t, names)
}
