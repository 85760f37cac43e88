// Package generic extracts every archive format github.com/mholt/archives
// can read. It is registered for the formats that have no dedicated
// extractor.
package generic

import (
	"context"
	"fmt"
	"io"
	"io/fs"

	"github.com/mholt/archives"

	"gitlab.com/gitlab-org/expand-archive/archive"
	helperarchives "gitlab.com/gitlab-org/expand-archive/helpers/archives"
)

func init() {
	for _, format := range []archive.Format{
		archive.SevenZip,
		archive.Rar,
		archive.TarBzip2,
		archive.TarXz,
		archive.TarLz4,
		archive.TarBrotli,
		archive.TarS2,
		archive.TarLzip,
	} {
		archive.Register(format, NewExtractor)
	}
}

// extractor drives a mholt/archives extraction.
type extractor struct {
	r    io.ReaderAt
	size int64
	dir  string
	opts archive.Options
}

// NewExtractor returns a new generic Extractor.
func NewExtractor(r io.ReaderAt, size int64, dir string, opts archive.Options) (archive.Extractor, error) {
	return &extractor{r: r, size: size, dir: dir, opts: opts}, nil
}

func (e *extractor) identify(ctx context.Context) (archives.Extractor, error) {
	format, _, err := archives.Identify(ctx, "", io.NewSectionReader(e.r, 0, e.size))
	if err != nil {
		return nil, err
	}

	switch f := format.(type) {
	case archives.SevenZip:
		f.Password = e.opts.Password
		format = f
	case archives.Rar:
		f.Password = e.opts.Password
		format = f
	}

	ex, ok := format.(archives.Extractor)
	if !ok {
		return nil, fmt.Errorf("%q: %w", format.Extension(), archive.ErrUnsupportedArchiveFormat)
	}

	return ex, nil
}

func (e *extractor) walk(ctx context.Context, fn archives.FileHandler) error {
	ex, err := e.identify(ctx)
	if err != nil {
		return err
	}

	// 7z and zip need random access, so hand over a fresh section reader
	// rather than the stream returned by Identify
	return ex.Extract(ctx, io.NewSectionReader(e.r, 0, e.size), fn)
}

// Entries lists the archive contents.
func (e *extractor) Entries(ctx context.Context) ([]archive.Entry, error) {
	var entries []archive.Entry

	err := e.walk(ctx, func(_ context.Context, f archives.FileInfo) error {
		entries = append(entries, archive.Entry{
			Name:    f.NameInArchive,
			Size:    f.Size(),
			ModTime: f.ModTime(),
			Mode:    f.Mode(),
		})
		return nil
	})

	return entries, err
}

// Extract extracts files to the directory passed to NewExtractor.
func (e *extractor) Extract(ctx context.Context, names []string) error {
	selected := archive.NewNameSet(names)
	w := helperarchives.NewEntryWriter(e.dir)

	err := e.walk(ctx, func(_ context.Context, f archives.FileInfo) error {
		if !selected.Contains(f.NameInArchive) {
			return nil
		}

		e.opts.EntryStarted(f.NameInArchive)

		hdr := helperarchives.Header{
			Name:     f.NameInArchive,
			Mode:     f.Mode(),
			ModTime:  f.ModTime(),
			Linkname: f.LinkTarget,
			HardLink: f.LinkTarget != "" && f.Mode()&fs.ModeSymlink == 0,
		}

		err := w.Write(hdr, func() (io.ReadCloser, error) {
			file, err := f.Open()
			if err != nil {
				return nil, err
			}
			return file, nil
		})
		if err != nil {
			return fmt.Errorf("extracting %s: %w", f.NameInArchive, err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	return w.Finish()
}
