package commands

import (
	"path/filepath"

	"git.home.luguber.info/inful/doccollect/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Output string `short:"o" name:"output" help:"Output directory for generated config file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	path := root.Config
	if i.Output != "" {
		path = filepath.Join(i.Output, config.DefaultConfigFile)
	}
	if path == "" {
		path = config.DefaultConfigFile
	}

	printf(g.Out, "Writing configuration to %s\n", path)
	if err := config.Init(path, i.Force); err != nil {
		printf(g.Out, "Initialization failed\n")
		return err
	}
	printf(g.Out, "initialized successfully\n")
	return nil
}
