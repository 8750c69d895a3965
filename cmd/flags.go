package cmd

import (
	"newswire/config"

	"github.com/urfave/cli/v2"
)

func databaseFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "database",
		Aliases: []string{"d"},
		Value:   "newswire.db",
		Usage:   "SQLite database file location",
		EnvVars: []string{"NEWSWIRE_DATABASE"},
	}
}

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to the TOML configuration file",
		EnvVars: []string{"NEWSWIRE_CONFIG"},
	}
}

// loadOptionalConfig returns the parsed configuration file, or an empty
// configuration when no --config was given.
func loadOptionalConfig(ctx *cli.Context) (*config.TomlConfig, error) {
	path := ctx.String("config")
	if path == "" {
		return &config.TomlConfig{}, nil
	}
	return config.LoadConfig(path)
}
