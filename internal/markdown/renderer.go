package markdown

import (
	"bytes"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/doccollect/internal/foundation/errors"
	"git.home.luguber.info/inful/doccollect/internal/logfields"
	"git.home.luguber.info/inful/doccollect/internal/metrics"
)

// Options controls how prose is rendered to HTML.
type Options struct {
	// Extensions names goldmark extensions to enable. Empty means plain CommonMark.
	Extensions []string          `yaml:"extensions" json:"extensions,omitempty"`
	HardWraps  bool              `yaml:"hard_wraps" json:"hard_wraps,omitempty"`
	Neutralize NeutralizeOptions `yaml:"neutralize" json:"neutralize"`
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

// ExtensionNames returns the accepted extension names, sorted.
func ExtensionNames() []string {
	names := make([]string, 0, len(extensionRegistry))
	for name := range extensionRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectExtensions(names []string) ([]goldmark.Extender, error) {
	var extenders []goldmark.Extender
	seen := map[string]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			return nil, errors.ValidationError("unknown markdown extension").
				WithContext("extension", name).
				WithContext("valid", ExtensionNames()).
				Build()
		}
		seen[key] = struct{}{}
		extenders = append(extenders, ext)
	}
	return extenders, nil
}

// Renderer converts markdown prose to HTML. Custom-element tags are
// neutralized before the markdown engine sees the text; raw HTML such as
// <pre> passes through unchanged.
//
// A Renderer is safe for concurrent use.
type Renderer struct {
	engine      goldmark.Markdown
	neutralizer *Neutralizer
	recorder    metrics.Recorder
	logger      *slog.Logger
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithRecorder sets the metrics recorder for render timings and neutralized tag counts.
func WithRecorder(r metrics.Recorder) RendererOption {
	return func(rd *Renderer) { rd.recorder = metrics.OrNoop(r) }
}

// WithLogger sets the logger used for render diagnostics.
func WithLogger(l *slog.Logger) RendererOption {
	return func(rd *Renderer) {
		if l != nil {
			rd.logger = l
		}
	}
}

// NewRenderer builds a Renderer. It fails only for unknown extension names.
func NewRenderer(opts Options, ropts ...RendererOption) (*Renderer, error) {
	exts, err := collectExtensions(opts.Extensions)
	if err != nil {
		return nil, err
	}

	rendererOptions := []renderer.Option{html.WithUnsafe()}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}

	engineOptions := []goldmark.Option{goldmark.WithRendererOptions(rendererOptions...)}
	if len(exts) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(exts...))
	}

	r := &Renderer{
		engine:      goldmark.New(engineOptions...),
		neutralizer: NewNeutralizer(opts.Neutralize),
		recorder:    metrics.NoopRecorder{},
		logger:      slog.Default(),
	}
	for _, o := range ropts {
		o(r)
	}
	return r, nil
}

// Render converts text to HTML with the trailing newline removed. Render
// never fails; if the engine reports an error the escaped text is returned
// inside a paragraph.
func (r *Renderer) Render(text string) string {
	start := time.Now()
	defer func() { r.recorder.ObserveRenderDuration(time.Since(start)) }()

	neutralized, n := r.neutralizer.Neutralize(text)
	if n > 0 {
		r.recorder.IncNeutralized(n)
		r.logger.Debug("Neutralized custom tags", logfields.Count(n))
	}

	var buf bytes.Buffer
	if err := r.engine.Convert([]byte(neutralized), &buf); err != nil {
		r.logger.Warn("Markdown conversion failed", logfields.Error(err))
		return "<p>" + teletypeEscaper.Replace(text) + "</p>"
	}
	return strings.TrimRight(buf.String(), "\n")
}

var (
	defaultOnce     sync.Once
	defaultRenderer *Renderer
)

// Render renders text with the default options.
func Render(text string) string {
	defaultOnce.Do(func() {
		defaultRenderer, _ = NewRenderer(Options{})
	})
	return defaultRenderer.Render(text)
}
