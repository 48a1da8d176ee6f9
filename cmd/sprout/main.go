package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/sprout/internal/cli/depscmd"
	"github.com/nightconcept/sprout/internal/cli/initcmd"
	"github.com/nightconcept/sprout/internal/cli/install"
	"github.com/nightconcept/sprout/internal/cli/list"
	"github.com/nightconcept/sprout/internal/cli/self"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "v0.1.0"

func main() {
	app := &cli.App{
		Name:    "sprout",
		Usage:   "Generates and maintains Feathers service projects",
		Version: version,
		Action: func(c *cli.Context) error {
			// Default action if no command is specified
			_ = cli.ShowAppHelp(c)
			return nil
		},
		Commands: []*cli.Command{
			initcmd.GetInitCommand(),
			depscmd.NewDepsCommand(),
			install.NewInstallCommand(),
			list.ListCmd,
			self.NewSelfCommand(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
