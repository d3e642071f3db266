package main

import (
	"path/filepath"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/driftdetect/deadwood/pkg/config"
)

var initCmd = &cli.Command{
	Name:      "init",
	Usage:     "Write a starter .deadcode config file",
	ArgsUsage: "[PATH]",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "toml", Usage: "Write TOML instead of YAML"},
	},
	Action: func(c *cli.Context) error {
		root := "."
		if c.Args().Len() > 0 {
			root = c.Args().First()
		}
		name := ".deadcode.yml"
		if c.Bool("toml") {
			name = ".deadcode.toml"
		}
		path := filepath.Join(root, name)
		if err := config.WriteStarter(path, c.Bool("toml")); err != nil {
			return cli.Exit(err.Error(), exitUsage)
		}
		color.Green("Wrote %s", path)
		return nil
	},
}
