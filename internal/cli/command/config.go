package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/zfs-tool/internal/cli/config"
	"github.com/yndnr/zfs-tool/internal/cli/output"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the merged configuration",
				Action: configShow,
			},
			{
				Name:   "path",
				Usage:  "Show the default config file path",
				Action: configPath,
			},
			{
				Name:      "validate",
				Usage:     "Validate a configuration file",
				ArgsUsage: "[FILE]",
				Action:    configValidate,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}

	format := output.FormatYAML
	if output.Format(rt.Config.Output.Format) == output.FormatJSON {
		format = output.FormatJSON
	}
	return output.NewFormatter(format, !rt.Config.Output.Headers).Format(rt.stdout, rt.Config)
}

func configPath(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(rt.stdout, config.DefaultConfigPath())
	return err
}

func configValidate(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}

	path := c.Args().First()
	if path == "" {
		path = ParseGlobalFlags(c).Config
	}
	if path == "" {
		path = config.DefaultConfigPath()
	}

	if _, err := config.Load(path, nil); err != nil {
		return fmt.Errorf("validate %s: %w", path, err)
	}
	_, err = fmt.Fprintf(rt.stdout, "configuration is valid: %s\n", path)
	return err
}
