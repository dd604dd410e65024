package commands

import (
	"git.home.luguber.info/inful/doccollect/internal/markdown"
	"git.home.luguber.info/inful/doccollect/internal/tags"
)

// TagsCmd implements the 'tags' command.
type TagsCmd struct {
	Extensions bool `help:"List the markdown extension names instead"`
}

func (t *TagsCmd) Run(g *Global, _ *CLI) error {
	names := tags.NewStandardRegistry(tags.WithLogger(g.Logger)).Names()
	if t.Extensions {
		names = markdown.ExtensionNames()
	}
	for _, name := range names {
		printf(g.Out, "%s\n", name)
	}
	return nil
}
