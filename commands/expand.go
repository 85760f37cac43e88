package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"gitlab.com/gitlab-org/expand-archive/archive"
	"gitlab.com/gitlab-org/expand-archive/archive/filter"
	"gitlab.com/gitlab-org/expand-archive/common"
	"gitlab.com/gitlab-org/expand-archive/helpers/meter"
)

const noFilesFound = "No files found in archive by given filter."

type ExpandCommand struct {
	configOptions
	passwordOptions
	sourceOptions
	progressOptions

	Archive     string   `long:"archive" description:"Path of the archive, relative to the working directory"`
	Target      string   `long:"target" description:"Directory to extract into, created when missing"`
	Filters     []string `long:"filter" description:"Glob selecting the entries to extract, can be repeated (* stays within a path segment, ** crosses segments)"`
	Concurrency int      `long:"concurrency" env:"EXPAND_ARCHIVE_CONCURRENCY" description:"Number of entries extracted concurrently, for formats that allow it"`
	MetricsFile string   `long:"metrics-file" description:"Write Prometheus metrics of the run to this file"`

	progress io.Writer
}

func (c *ExpandCommand) prepare(cliCtx *cli.Context) error {
	if err := c.loadConfig(); err != nil {
		return err
	}

	isSet := isSetOn(cliCtx)
	c.sourceOptions.applyConfig(isSet, &c.config.Expand)
	c.progressOptions.applyConfig(isSet, &c.config.Expand)
	applyInt(isSet, "concurrency", &c.Concurrency, c.config.Expand.GetConcurrency())

	var args []string
	if cliCtx != nil {
		args = cliCtx.Args()
	}

	if c.remote() {
		return assignArgs(args, &c.Target)
	}
	return assignArgs(args, &c.Archive, &c.Target)
}

func (c *ExpandCommand) run(ctx context.Context) (err error) {
	metrics := newExtractionMetrics()
	defer func() {
		if c.MetricsFile == "" {
			return
		}

		metrics.finish(err)
		if writeErr := metrics.write(c.MetricsFile); writeErr != nil {
			logrus.WithError(writeErr).Warningln("Failed to write metrics file")
		}
	}()

	if c.Target == "" {
		return errMissingTarget
	}

	// patterns are validated before anything is downloaded or created
	var entryFilter *filter.Filter
	if len(c.Filters) > 0 {
		entryFilter, err = filter.New(c.Filters)
		if err != nil {
			return err
		}
	}

	password, err := c.resolvePassword()
	if err != nil {
		return err
	}

	target, err := filepath.Abs(c.Target)
	if err != nil {
		return err
	}

	archivePath := c.Archive
	if archivePath != "" {
		if archivePath, err = filepath.Abs(archivePath); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(target, 0o777); err != nil {
		return fmt.Errorf("creating target directory: %w", err)
	}

	src, err := c.open(ctx, archivePath, tmpDirFor(target))
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	metrics.archiveSize.Set(float64(src.size))

	logrus.Infoln("Extracting archive", src.name)

	format, err := archive.Detect(ctx, src.file, src.size)
	if err != nil {
		return fmt.Errorf("%s: %w", src.name, err)
	}
	logrus.WithField("format", format).Debugln("Detected archive format")

	var selected []string
	if entryFilter != nil {
		selected, err = c.selectEntries(ctx, entryFilter, format, src, password, metrics)
		if err != nil {
			return err
		}

		if len(selected) == 0 {
			logrus.Infoln(noFilesFound)
			logrus.Infoln("Extraction finished")
			return nil
		}
	}

	return c.extract(ctx, format, src, target, password, selected, metrics)
}

func (c *ExpandCommand) selectEntries(
	ctx context.Context,
	entryFilter *filter.Filter,
	format archive.Format,
	src *archiveSource,
	password string,
	metrics *extractionMetrics,
) ([]string, error) {
	lister, err := archive.NewExtractor(format, src.file, src.size, "", archive.Options{Password: password})
	if err != nil {
		return nil, err
	}

	entries, err := lister.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", src.name, err)
	}

	selection := entryFilter.Select(archive.Names(entries))
	for _, pm := range selection.Patterns {
		logrus.Infoln("Filter files by", pm.Pattern)
		logrus.Debugf("%s: found %d matching entries", pm.Pattern, pm.Count)
	}

	metrics.entriesTotal.Set(float64(len(entries)))
	metrics.entriesSelected.Set(float64(len(selection.Entries)))

	return selection.Entries, nil
}

func (c *ExpandCommand) extract(
	ctx context.Context,
	format archive.Format,
	src *archiveSource,
	target string,
	password string,
	selected []string,
	metrics *extractionMetrics,
) error {
	out := c.progress
	if out == nil {
		out = os.Stderr
	}

	r := meter.NewReaderAt(src.file, c.frequency(), meter.LabelledPercentFormat(out, "Extracting", src.size))
	defer func() { _ = r.Close() }()

	var started int64
	opts := archive.Options{
		Password:    password,
		Concurrency: c.Concurrency,
		OnEntry: func(name string) {
			atomic.AddInt64(&started, 1)
			logrus.Debugln("Extracting file", name)
		},
	}

	extractor, err := archive.NewExtractor(format, r, src.size, target, opts)
	if err != nil {
		return err
	}

	err = extractor.Extract(ctx, selected)
	_ = r.Close()
	if err != nil {
		return fmt.Errorf("extracting %s: %w", src.name, err)
	}

	if selected == nil {
		metrics.entriesTotal.Set(float64(atomic.LoadInt64(&started)))
		metrics.entriesSelected.Set(float64(atomic.LoadInt64(&started)))
	}

	logrus.Infoln("Extraction finished")

	return nil
}

func (c *ExpandCommand) Execute(cliCtx *cli.Context) {
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
	common.RegisterCommand("expand", "extract an archive into a directory (expand [options] <archive> <target>)", &ExpandCommand{})
}
