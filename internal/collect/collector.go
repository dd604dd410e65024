// Package collect turns source files into documentation records: comment
// blocks are scanned, their tags dispatched through a tag registry and the
// prose fields optionally rendered to HTML.
package collect

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/doccollect/internal/comment"
	"git.home.luguber.info/inful/doccollect/internal/docrecord"
	"git.home.luguber.info/inful/doccollect/internal/foundation/errors"
	"git.home.luguber.info/inful/doccollect/internal/logfields"
	"git.home.luguber.info/inful/doccollect/internal/markdown"
	"git.home.luguber.info/inful/doccollect/internal/metrics"
	"git.home.luguber.info/inful/doccollect/internal/observability"
	"git.home.luguber.info/inful/doccollect/internal/tags"
)

// Collector wires the comment scanner, the tag registry and the renderer.
type Collector struct {
	registry    *tags.Registry
	renderer    *markdown.Renderer
	logger      *slog.Logger
	recorder    metrics.Recorder
	concurrency int
}

// Option configures a Collector.
type Option func(*Collector)

// WithRegistry sets the tag registry. The default is tags.DefaultRegistry.
func WithRegistry(r *tags.Registry) Option {
	return func(c *Collector) {
		if r != nil {
			c.registry = r
		}
	}
}

// WithRenderer enables rendering of prose fields into Record.Rendered.
func WithRenderer(r *markdown.Renderer) Option {
	return func(c *Collector) { c.renderer = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Collector) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Collector) { c.recorder = metrics.OrNoop(r) }
}

// WithConcurrency bounds the number of files processed in parallel.
// Values below 1 mean GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(c *Collector) { c.concurrency = n }
}

// New creates a Collector.
func New(opts ...Option) *Collector {
	c := &Collector{
		registry: tags.DefaultRegistry(),
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.concurrency < 1 {
		c.concurrency = runtime.GOMAXPROCS(0)
	}
	return c
}

// CollectBlock builds the record for one comment block. Free text before the
// first tag is dispatched as an implicit description, so an explicit
// @description still takes precedence.
func (c *Collector) CollectBlock(ctx context.Context, path string, b comment.Block) *docrecord.Record {
	ctx = observability.WithBlockLine(ctx, b.Line)
	rec := docrecord.New()

	if b.Lead != "" {
		c.registry.DispatchContext(ctx, rec, tags.TagDescription, b.Lead)
	}
	for _, tag := range b.Tags {
		c.registry.DispatchContext(observability.WithBlockLine(ctx, tag.Line), rec, tag.Name, tag.Text)
	}

	rec.Source = &docrecord.Source{File: path, Line: b.Line}
	rec.UID = RecordUID(path, rec)
	if c.renderer != nil {
		rec.Rendered = c.render(rec)
	}

	for _, d := range rec.Diagnostics {
		observability.WarnContext(ctx, c.logger, "Partial tag parse",
			logfields.Tag(d.Tag), slog.String("message", d.Message))
	}
	return rec
}

// render fills the HTML of the prose fields. Example is never rendered.
func (c *Collector) render(rec *docrecord.Record) *docrecord.Rendered {
	out := &docrecord.Rendered{}
	if rec.Description != "" {
		out.Description = c.renderer.Render(rec.Description)
	}
	if len(rec.Param) > 0 {
		out.Param = make([]string, len(rec.Param))
		for i, p := range rec.Param {
			if p.Description != "" {
				out.Param[i] = c.renderer.Render(p.Description)
			}
		}
	}
	if rec.Returns != nil && rec.Returns.Description != "" {
		out.Returns = c.renderer.Render(rec.Returns.Description)
	}
	return out
}

// CollectSource returns the records of every documentation comment in src.
// Blocks without text or tags yield no record.
func (c *Collector) CollectSource(ctx context.Context, path string, src []byte) []*docrecord.Record {
	ctx = observability.WithFile(ctx, path)

	blocks := comment.Scan(src)
	records := make([]*docrecord.Record, 0, len(blocks))
	for _, b := range blocks {
		if b.Lead == "" && len(b.Tags) == 0 {
			continue
		}
		records = append(records, c.CollectBlock(ctx, path, b))
	}
	c.recorder.IncBlocks(len(records))
	observability.DebugContext(ctx, c.logger, "Collected source", logfields.Count(len(records)))
	return records
}

// FileResult holds the records of one file, or the error that prevented reading it.
type FileResult struct {
	Path    string
	Records []*docrecord.Record
	Err     error
}

// CollectFiles reads and collects paths in parallel. Results are in the order
// of paths; a file that cannot be read is reported in its FileResult and does
// not stop the others. The returned error is non-nil only when ctx is done.
func (c *Collector) CollectFiles(ctx context.Context, paths []string) ([]FileResult, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	start := time.Now()
	results := make([]FileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(c.concurrency, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			src, err := os.ReadFile(path)
			if err != nil {
				c.recorder.IncFileResult(false)
				results[i] = FileResult{
					Path: path,
					Err: errors.WrapError(err, errors.CategoryFileSystem, "failed to read source").
						WithContext("path", path).
						Build(),
				}
				return nil
			}

			c.recorder.IncFileResult(true)
			results[i] = FileResult{Path: path, Records: c.CollectSource(gctx, path, src)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.Info("Collected files",
		logfields.Count(len(paths)),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return results, nil
}

// RecordUID derives a stable identifier from the file path and the record
// name, falling back to the block line for unnamed records.
func RecordUID(path string, rec *docrecord.Record) string {
	key := rec.Name
	if key == "" && rec.Source != nil {
		key = "L" + strconv.Itoa(rec.Source.Line)
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(path+"#"+key)).String()
}

// Records flattens results into one list, skipping failed files.
func Records(results []FileResult) []*docrecord.Record {
	var out []*docrecord.Record
	for _, r := range results {
		out = append(out, r.Records...)
	}
	return out
}
