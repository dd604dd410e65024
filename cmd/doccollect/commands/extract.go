package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/doccollect/internal/collect"
	"git.home.luguber.info/inful/doccollect/internal/config"
	"git.home.luguber.info/inful/doccollect/internal/docrecord"
	"git.home.luguber.info/inful/doccollect/internal/foundation/errors"
	"git.home.luguber.info/inful/doccollect/internal/logfields"
	"git.home.luguber.info/inful/doccollect/internal/markdown"
	"git.home.luguber.info/inful/doccollect/internal/metrics"
	"git.home.luguber.info/inful/doccollect/internal/pages"
	"git.home.luguber.info/inful/doccollect/internal/tags"
	"git.home.luguber.info/inful/doccollect/internal/watch"
)

// ExtractCmd implements the 'extract' command.
type ExtractCmd struct {
	Files    []string `arg:"" name:"file" help:"Source files to scan for doc comments" type:"existingfile"`
	Format   string   `short:"f" help:"Output format: yaml, json or pages (overrides config)"`
	Render   bool     `help:"Render prose fields to HTML (overrides config)" xor:"render"`
	NoRender bool     `name:"no-render" help:"Do not render prose fields (overrides config)" xor:"render"`
	OutDir   string   `name:"out-dir" short:"d" help:"Directory for pages output (overrides config)"`
	Output   string   `short:"o" help:"Write yaml/json output to this file instead of stdout"`
	Watch    bool     `short:"w" help:"Re-collect whenever a source file changes"`
}

func (e *ExtractCmd) Run(g *Global, _ *CLI) error {
	cfg := g.Config()
	if err := e.applyOverrides(cfg); err != nil {
		return err
	}

	recorder := metrics.NewPrometheusRecorder(prometheus.NewRegistry())
	collector, err := newCollector(cfg, g.Logger, recorder)
	if err != nil {
		return err
	}

	if !e.Watch {
		return e.runOnce(context.Background(), g, cfg, collector, recorder)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := e.runOnce(ctx, g, cfg, collector, recorder); err != nil {
		g.Logger.Warn("Initial collection incomplete", logfields.Error(err))
	}

	w, err := watch.New(e.Files, cfg.Collect.WatchDebounceDuration(), func(ctx context.Context, changed []string) {
		g.Logger.Info("Source files changed, collecting", logfields.Count(len(changed)))
		if err := e.runOnce(ctx, g, cfg, collector, recorder); err != nil {
			g.Logger.Warn("Collection incomplete", logfields.Error(err))
		}
	}, g.Logger)
	if err != nil {
		return err
	}
	return w.Run(ctx)
}

func (e *ExtractCmd) applyOverrides(cfg *config.Config) error {
	if e.Format != "" {
		f, err := config.ParseOutputFormat(e.Format)
		if err != nil {
			return errors.WrapError(err, errors.CategoryValidation, "invalid output format").
				WithContext("format", e.Format).
				Build()
		}
		cfg.Output.Format = f
	}
	switch {
	case e.Render:
		cfg.Output.Render = true
	case e.NoRender:
		cfg.Output.Render = false
	}
	if e.OutDir != "" {
		cfg.Output.Dir = e.OutDir
	}
	return config.OutputDefaultApplier{}.ApplyDefaults(cfg)
}

func newCollector(cfg *config.Config, logger *slog.Logger, recorder metrics.Recorder) (*collect.Collector, error) {
	registry := tags.NewStandardRegistry(tags.WithLogger(logger), tags.WithRecorder(recorder))

	opts := []collect.Option{
		collect.WithRegistry(registry),
		collect.WithLogger(logger),
		collect.WithRecorder(recorder),
		collect.WithConcurrency(cfg.Collect.Concurrency),
	}
	if cfg.Output.Render {
		renderer, err := markdown.NewRenderer(cfg.Markdown,
			markdown.WithLogger(logger),
			markdown.WithRecorder(recorder))
		if err != nil {
			return nil, err
		}
		opts = append(opts, collect.WithRenderer(renderer))
	}
	return collect.New(opts...), nil
}

func (e *ExtractCmd) runOnce(ctx context.Context, g *Global, cfg *config.Config, c *collect.Collector, recorder *metrics.PrometheusRecorder) error {
	results, err := c.CollectFiles(ctx, e.Files)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			g.Logger.Error("Failed to collect file", logfields.Path(r.Path), logfields.Error(r.Err))
		}
	}

	records := collect.Records(results)
	if err := e.write(g, cfg, records); err != nil {
		return err
	}

	if cfg.Metrics.Textfile != "" {
		if err := recorder.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			g.Logger.Warn("Failed to write metrics textfile",
				logfields.Path(cfg.Metrics.Textfile),
				logfields.Error(err))
		}
	}

	if failed > 0 {
		return errors.FileSystemError("some source files could not be read").
			WithContext("failed", failed).
			WithContext("total", len(results)).
			Build()
	}
	return nil
}

func (e *ExtractCmd) write(g *Global, cfg *config.Config, records []*docrecord.Record) error {
	if cfg.Output.Format == config.OutputFormatPages {
		return writePages(g, cfg.Output.Dir, records)
	}

	data, err := encodeRecords(cfg.Output.Format, records)
	if err != nil {
		return err
	}

	if e.Output == "" {
		if _, err := g.Out.Write(data); err != nil {
			return errors.WrapError(err, errors.CategoryOutput, "failed to write output").Build()
		}
		return nil
	}
	if err := os.WriteFile(e.Output, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryOutput, "failed to write output").
			WithContext("path", e.Output).
			Build()
	}
	g.Logger.Info("Wrote records", logfields.Path(e.Output), logfields.Count(len(records)))
	return nil
}

func encodeRecords(format config.OutputFormat, records []*docrecord.Record) ([]byte, error) {
	if records == nil {
		records = []*docrecord.Record{}
	}

	switch format {
	case config.OutputFormatJSON:
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryOutput, "failed to encode records as JSON").Build()
		}
		return append(data, '\n'), nil
	default:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return nil, errors.WrapError(err, errors.CategoryOutput, "failed to encode records as YAML").Build()
		}
		if err := enc.Close(); err != nil {
			return nil, errors.WrapError(err, errors.CategoryOutput, "failed to encode records as YAML").Build()
		}
		return buf.Bytes(), nil
	}
}

func writePages(g *Global, dir string, records []*docrecord.Record) error {
	results, err := pages.WriteAll(dir, records)
	if err != nil {
		return err
	}
	written, unchanged := 0, 0
	for _, r := range results {
		if r.Changed {
			written++
			g.Logger.Debug("Wrote page", logfields.Path(r.Path))
		} else {
			unchanged++
		}
	}
	printf(g.Out, "Wrote %d page(s) to %s (%d unchanged)\n", written, dir, unchanged)
	return nil
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
