package commands

import (
	"io"
	"os"

	"git.home.luguber.info/inful/doccollect/internal/foundation/errors"
	"git.home.luguber.info/inful/doccollect/internal/markdown"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	File string   `arg:"" optional:"" help:"Markdown file to render; stdin when omitted or '-'"`
	Ext  []string `name:"ext" short:"e" help:"Additional goldmark extensions (see 'doccollect tags --extensions')"`
}

func (r *RenderCmd) Run(g *Global, _ *CLI) error {
	opts := g.Config().Markdown
	opts.Extensions = append(append([]string(nil), opts.Extensions...), r.Ext...)

	renderer, err := markdown.NewRenderer(opts, markdown.WithLogger(g.Logger))
	if err != nil {
		return err
	}

	src, err := r.read(g.In)
	if err != nil {
		return err
	}

	printf(g.Out, "%s\n", renderer.Render(string(src)))
	return nil
}

func (r *RenderCmd) read(stdin io.Reader) ([]byte, error) {
	if r.File == "" || r.File == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read stdin").Build()
		}
		return data, nil
	}
	data, err := os.ReadFile(r.File)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read markdown file").
			WithContext("path", r.File).
			Build()
	}
	return data, nil
}
