package main

import (
	"github.com/alecthomas/kong"

	"github.com/atterbury/sitepress/cmd/sitepress/commands"
	"github.com/atterbury/sitepress/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("sitepress"),
		kong.Description("Render a directory of content files into a static site."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)

	err := ctx.Run(&commands.Global{}, cli)
	ctx.FatalIfErrorf(err)
}
