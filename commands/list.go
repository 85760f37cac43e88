package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"gitlab.com/gitlab-org/expand-archive/archive"
	"gitlab.com/gitlab-org/expand-archive/archive/filter"
	"gitlab.com/gitlab-org/expand-archive/common"
	"gitlab.com/gitlab-org/expand-archive/helpers/meter"
)

type ListCommand struct {
	configOptions
	passwordOptions
	sourceOptions

	Archive string   `long:"archive" description:"Path of the archive, relative to the working directory"`
	Filters []string `long:"filter" description:"Glob selecting the entries to list, can be repeated (* stays within a path segment, ** crosses segments)"`

	out io.Writer
}

func (c *ListCommand) prepare(cliCtx *cli.Context) error {
	if err := c.loadConfig(); err != nil {
		return err
	}

	c.sourceOptions.applyConfig(isSetOn(cliCtx), &c.config.Expand)

	var args []string
	if cliCtx != nil {
		args = cliCtx.Args()
	}

	if c.remote() {
		return assignArgs(args)
	}
	return assignArgs(args, &c.Archive)
}

func (c *ListCommand) run(ctx context.Context) error {
	var entryFilter *filter.Filter
	if len(c.Filters) > 0 {
		var err error
		if entryFilter, err = filter.New(c.Filters); err != nil {
			return err
		}
	}

	password, err := c.resolvePassword()
	if err != nil {
		return err
	}

	archivePath := c.Archive
	if archivePath != "" {
		if archivePath, err = filepath.Abs(archivePath); err != nil {
			return err
		}
	}

	src, err := c.open(ctx, archivePath, os.TempDir())
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	format, err := archive.Detect(ctx, src.file, src.size)
	if err != nil {
		return fmt.Errorf("%s: %w", src.name, err)
	}

	lister, err := archive.NewExtractor(format, src.file, src.size, "", archive.Options{Password: password})
	if err != nil {
		return err
	}

	entries, err := lister.Entries(ctx)
	if err != nil {
		return fmt.Errorf("listing %s: %w", src.name, err)
	}

	shown := entries
	footer := fmt.Sprintf("%d entries", len(entries))
	if entryFilter != nil {
		selection := entryFilter.Select(archive.Names(entries))
		for _, pm := range selection.Patterns {
			logrus.Infoln("Filter files by", pm.Pattern)
		}

		if selection.Empty() {
			logrus.Infoln(noFilesFound)
			return nil
		}

		selected := lo.Keyify(selection.Entries)
		shown = lo.Filter(entries, func(e archive.Entry, _ int) bool {
			_, ok := selected[e.Name]
			return ok
		})
		footer = fmt.Sprintf("%d/%d entries", len(shown), len(entries))
	}

	c.render(shown, footer)

	return nil
}

func (c *ListCommand) render(entries []archive.Entry, footer string) {
	out := c.out
	if out == nil {
		out = os.Stdout
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(table.Row{"Name", "Size", "Modified"})
	t.AppendRows(lo.Map(entries, func(e archive.Entry, _ int) table.Row {
		size := meter.FormatBytes(uint64(max(e.Size, 0)))
		if e.IsDir() {
			size = "-"
		}

		return table.Row{e.Name, size, e.ModTime.UTC().Format(time.RFC3339)}
	}))
	t.AppendFooter(table.Row{"", "", footer})
	t.Render()
}

func (c *ListCommand) Execute(cliCtx *cli.Context) {
	if err := c.prepare(cliCtx); err != nil {
		logrus.Fatalln(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := c.run(ctx); err != nil {
		logrus.Fatalln(err)
	}
}

func init() {
	common.RegisterCommand("list", "list the entries of an archive (list [options] <archive>)", &ListCommand{})
}
