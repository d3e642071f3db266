package main

import (
	"github.com/urfave/cli/v2"

	"github.com/driftdetect/deadwood/internal/mcpserver"
)

var mcpCmd = &cli.Command{
	Name:  "mcp",
	Usage: "Serve the analyzer over the Model Context Protocol (stdio)",
	Action: func(c *cli.Context) error {
		srv := mcpserver.NewServer(version)
		if err := srv.Run(c.Context); err != nil {
			return cli.Exit(err.Error(), exitIO)
		}
		return nil
	},
}
