package command

import (
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/zfs-tool/internal/cli/config"
	"github.com/yndnr/zfs-tool/internal/cli/output"
	"github.com/yndnr/zfs-tool/internal/core/domain"
	"github.com/yndnr/zfs-tool/internal/core/service"
	"github.com/yndnr/zfs-tool/pkg/units"
)

const noMatchesMessage = "no matching snapshots to process"

// ListSnapshotsCommand returns the list-snapshots command.
func ListSnapshotsCommand() *cli.Command {
	return &cli.Command{
		Name:    "list-snapshots",
		Aliases: []string{"ls"},
		Usage:   "List snapshots, optionally with the space deleting them would reclaim",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "keep-time",
				Usage: "Only list snapshots older than this (e.g. 30d, 12h, 2d6h)",
				Value: "30d",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Line template for text output",
				Value: output.DefaultListTemplate,
			},
			&cli.StringFlag{
				Name:  "contains",
				Usage: "Only list snapshots whose full name contains this text",
			},
			&cli.StringFlag{
				Name:  "matches",
				Usage: "Only list snapshots whose name matches this regular expression",
			},
			&cli.StringFlag{
				Name:  "order-by",
				Usage: "Comma separated sort keys, prefix with - for descending",
				Value: service.DefaultListOrder,
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum snapshots per dataset, 0 for no limit",
			},
			&cli.StringFlag{
				Name:  "required-space",
				Usage: "Select the oldest snapshots that free at least this much (e.g. 50G)",
			},
			&cli.StringSliceFlag{
				Name:  "extra-properties",
				Usage: "Extra properties to load: reclaim, reclaimsum, all, none",
			},
		},
		Action: listSnapshots,
	}
}

func listSnapshots(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}

	opts, err := listOptions(c)
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(rt.Config.Output.Format)
	if err != nil {
		return domain.ErrInvalidArgument.WithCause(err)
	}

	var progress *output.ProgressBar
	var loaderOpts []service.LoaderOption
	if ParseGlobalFlags(c).Progress {
		progress = output.NewProgressBar(rt.stderr, "dry runs")
		loaderOpts = append(loaderOpts, service.WithProgress(progress.Update))
	}

	sel, err := rt.Service(loaderOpts...).List(rt.Context(), opts)
	if progress != nil {
		progress.Finish()
	}
	rt.Record(c.Command.Name, sel, err)
	if err != nil {
		return err
	}

	rt.Logger.Debug("snapshots selected",
		"listed", len(sel.Listed),
		"selected", len(sel.Snapshots),
		"dry_runs", sel.Reclaim.Calls,
		"dry_run_failures", sel.Reclaim.Failures,
	)
	if len(sel.Snapshots) == 0 {
		fmt.Fprintln(rt.stderr, noMatchesMessage)
		return nil
	}

	text := c.String("format")
	if !c.IsSet("format") {
		switch {
		case opts.RequiredSpace > 0:
			text = output.DefaultRequiredSpaceTemplate
		case sel.Properties.Any():
			text = output.DefaultReclaimTemplate
		}
	}
	return render(rt.stdout, rt.Config.Output, format, text, sel)
}

func listOptions(c *cli.Context) (service.ListOptions, error) {
	opts := service.DefaultListOptions()

	keep, err := parseDuration("keep-time", c.String("keep-time"))
	if err != nil {
		return opts, err
	}
	opts.Keep = keep

	if v := c.String("required-space"); v != "" {
		size, err := units.ParseSize(v)
		if err != nil {
			return opts, domain.ErrInvalidSize.WithDetails("--required-space " + v).WithCause(err)
		}
		if size == 0 {
			return opts, domain.ErrInvalidSize.WithDetails("--required-space must be greater than zero, got " + v)
		}
		opts.RequiredSpace = size
	}

	props, err := domain.ParseExtraProperties(c.StringSlice("extra-properties")...)
	if err != nil {
		return opts, err
	}
	opts.Properties = props

	if c.Int("limit") < 0 {
		return opts, domain.ErrInvalidArgument.WithDetails(fmt.Sprintf("--limit must not be negative, got %d", c.Int("limit")))
	}
	opts.Limit = c.Int("limit")
	opts.Contains = c.String("contains")
	opts.Matches = c.String("matches")
	opts.OrderBy = service.ParseOrderBy(c.String("order-by"))
	return opts, nil
}

func parseDuration(flag, value string) (d time.Duration, err error) {
	d, err = units.ParseDuration(value)
	if err != nil {
		return 0, domain.ErrInvalidDuration.WithDetails("--" + flag + " " + value).WithCause(err)
	}
	return d, nil
}

// render writes the selection in the configured output format. Text output
// pads columns over every listed snapshot.
func render(w io.Writer, cfg config.OutputConfig, format output.Format, text string, sel *service.Selection) error {
	if format != output.FormatText {
		return output.NewFormatter(format, !cfg.Headers).Format(w, sel.Snapshots)
	}
	f, err := output.NewTemplateFormatter(text, sel.Listed)
	if err != nil {
		return err
	}
	return f.Format(w, sel.Snapshots)
}
