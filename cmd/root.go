package cmd

import (
	"context"

	"github.com/leom731/pbxpatch/pkg/version"
	"github.com/urfave/cli/v3"
)

var Version = version.String()

func Execute(ctx context.Context, args []string) error {
	app := &cli.Command{
		Name:  "pbxpatch",
		Usage: "Register source files with an Xcode project manifest",
		Commands: []*cli.Command{
			{
				Name:   "version",
				Usage:  "print version",
				Action: runVersion,
			},
			addCmd(),
		},
	}

	return app.Run(ctx, args)
}
