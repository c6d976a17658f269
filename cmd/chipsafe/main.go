package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version     kong.VersionFlag `short:"v" help:"Show version"`
	Run         RunCmd           `cmd:"" help:"Run a simulation batch and verify chip conservation"`
	Compare     CompareCmd       `cmd:"" help:"Compare snapshot directories from two runs"`
	CheckConfig CheckConfigCmd   `cmd:"check-config" help:"Parse and validate a configuration file"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("chipsafe"),
		kong.Description("Multi-table poker engine with provable chip conservation"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
