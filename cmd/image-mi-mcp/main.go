package main

import (
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/ironsheep/image-mi-mcp/internal/cli"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cli.Version = Version
	cli.BuildTime = BuildTime
	cli.GitCommit = GitCommit

	// stdout carries the MCP protocol, so logs go to stderr.
	log := hclog.New(&hclog.LoggerOptions{
		Name:   "image-mi-mcp",
		Level:  hclog.Info,
		Output: os.Stderr,
		Color:  hclog.AutoColor,

		ColorHeaderAndFields: true,
	})

	c, err := cli.NewCLI(log, os.Args[1:])
	if err != nil {
		log.Error("error creating CLI", "error", err)
		os.Exit(1)
		return
	}

	code, err := c.Run()
	if err != nil {
		log.Error("error running CLI", "error", err)
		os.Exit(1)
	}

	os.Exit(code)
}
