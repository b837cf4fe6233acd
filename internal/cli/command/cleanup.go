package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/zfs-tool/internal/cli/output"
	"github.com/yndnr/zfs-tool/internal/core/domain"
	"github.com/yndnr/zfs-tool/internal/core/service"
)

// CleanupCommand returns the cleanup command. It prints destroy commands
// for old snapshots and never destroys anything itself.
func CleanupCommand() *cli.Command {
	return &cli.Command{
		Name:  "cleanup",
		Usage: "Print destroy commands for snapshots older than the keep duration",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "keep",
				Usage: "Keep snapshots younger than this (e.g. 14d)",
				Value: "14d",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Line template for text output",
				Value: output.DefaultCleanupTemplate,
			},
			&cli.StringFlag{
				Name:  "contains",
				Usage: "Only include snapshots whose name contains this text",
			},
			&cli.StringFlag{
				Name:  "matches",
				Usage: "Only include snapshots whose name matches this regular expression",
			},
			&cli.StringFlag{
				Name:  "order-by",
				Usage: "Comma separated sort keys, prefix with - for descending",
				Value: service.DefaultCleanupOrder,
			},
		},
		Action: cleanup,
	}
}

func cleanup(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}

	keep, err := parseDuration("keep", c.String("keep"))
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(rt.Config.Output.Format)
	if err != nil {
		return domain.ErrInvalidArgument.WithCause(err)
	}

	opts := service.DefaultCleanupOptions()
	opts.Keep = keep
	opts.Contains = c.String("contains")
	opts.Matches = c.String("matches")
	opts.OrderBy = service.ParseOrderBy(c.String("order-by"))

	sel, err := rt.Service().Cleanup(rt.Context(), opts)
	rt.Record(c.Command.Name, sel, err)
	if err != nil {
		return err
	}

	if len(sel.Snapshots) == 0 {
		fmt.Fprintln(rt.stderr, noMatchesMessage)
		return nil
	}
	return render(rt.stdout, rt.Config.Output, format, c.String("format"), sel)
}
