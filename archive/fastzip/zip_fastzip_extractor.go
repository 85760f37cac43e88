package fastzip

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/klauspost/compress/zip"
	"github.com/saracen/fastzip"
	"github.com/sirupsen/logrus"

	"gitlab.com/gitlab-org/expand-archive/archive"
	"gitlab.com/gitlab-org/expand-archive/helpers/archives"
)

const (
	extractorConcurrency = "FASTZIP_EXTRACTOR_CONCURRENCY"
)

// extractor is a zip extractor.
type extractor struct {
	r    io.ReaderAt
	size int64
	dir  string
	opts archive.Options
}

// NewExtractor returns a new Zip Extractor.
func NewExtractor(r io.ReaderAt, size int64, dir string, opts archive.Options) (archive.Extractor, error) {
	if opts.Password != "" {
		logrus.Warningln("Encrypted zip archives are not supported, the password is ignored")
	}

	return &extractor{r: r, size: size, dir: dir, opts: opts}, nil
}

// Entries lists the zip central directory.
func (e *extractor) Entries(ctx context.Context) ([]archive.Entry, error) {
	zr, err := zip.NewReader(e.r, e.size)
	if err != nil {
		return nil, err
	}

	entries := make([]archive.Entry, 0, len(zr.File))
	for _, file := range zr.File {
		entries = append(entries, archive.Entry{
			Name:    file.Name,
			Size:    int64(file.UncompressedSize64),
			ModTime: file.Modified,
			Mode:    file.Mode(),
		})
	}

	return entries, nil
}

// Extract extracts files from the reader to the directory passed to
// NewExtractor. Whole archives are extracted concurrently by fastzip;
// selections are extracted entry by entry.
func (e *extractor) Extract(ctx context.Context, names []string) error {
	if names == nil {
		return e.extractAll(ctx)
	}

	return e.extractSelected(ctx, archive.NewNameSet(names))
}

func (e *extractor) extractAll(ctx context.Context) error {
	opts, err := e.extractorOptions()
	if err != nil {
		return err
	}

	if e.opts.OnEntry != nil {
		entries, err := e.Entries(ctx)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			e.opts.EntryStarted(entry.Name)
		}
	}

	extractor, err := fastzip.NewExtractorFromReader(e.r, e.size, e.dir, opts...)
	if err != nil {
		return err
	}
	defer extractor.Close()

	return extractor.Extract(ctx)
}

func (e *extractor) extractSelected(ctx context.Context, names archive.NameSet) error {
	zr, err := zip.NewReader(e.r, e.size)
	if err != nil {
		return err
	}

	w := archives.NewEntryWriter(e.dir)
	for _, file := range zr.File {
		if !names.Contains(file.Name) {
			continue
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		e.opts.EntryStarted(file.Name)

		hdr := archives.Header{
			Name:    file.Name,
			Mode:    file.Mode(),
			ModTime: file.Modified,
		}
		if err := w.Write(hdr, file.Open); err != nil {
			return fmt.Errorf("extracting %s: %w", file.Name, err)
		}
	}

	return w.Finish()
}

func (e *extractor) extractorOptions() ([]fastzip.ExtractorOption, error) {
	var opts []fastzip.ExtractorOption

	concurrency := e.opts.Concurrency
	if val := os.Getenv(extractorConcurrency); val != "" && concurrency == 0 {
		parsed, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("fastzip extractor concurrency: %w", err)
		}
		concurrency = int(parsed)
	}

	if concurrency > 0 {
		opts = append(opts, fastzip.WithExtractorConcurrency(concurrency))
	}

	return opts, nil
}
