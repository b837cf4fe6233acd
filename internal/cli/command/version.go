package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/zfs-tool/internal/cli/output"
	"github.com/yndnr/zfs-tool/internal/infra/buildinfo"
)

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Show build information",
		Action: version,
	}
}

func version(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}

	info := buildinfo.Get()
	format, err := output.ParseFormat(rt.Config.Output.Format)
	if err != nil {
		return err
	}
	switch format {
	case output.FormatJSON, output.FormatYAML:
		return output.NewFormatter(format, !rt.Config.Output.Headers).Format(rt.stdout, info)
	case output.FormatTable, output.FormatWide:
		return output.NewFormatter(format, !rt.Config.Output.Headers).Format(rt.stdout, map[string]string{
			"version":    info.Version,
			"commit":     info.Commit,
			"build_time": info.BuildTime,
			"go_version": info.GoVersion,
			"platform":   info.Platform,
		})
	default:
		_, err = fmt.Fprintf(rt.stdout, "zfs-tool %s\n  commit:  %s\n  built:   %s\n  go:      %s %s\n",
			info.Version, info.Commit, info.BuildTime, info.GoVersion, info.Platform)
		return err
	}
}
