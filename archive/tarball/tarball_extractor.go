package tarball

import (
	"archive/tar"
	"context"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"

	"gitlab.com/gitlab-org/expand-archive/archive"
	"gitlab.com/gitlab-org/expand-archive/helpers/archives"
)

func init() {
	archive.Register(archive.Tar, NewExtractor(plain))
	archive.Register(archive.TarGzip, NewExtractor(gzipped))
	archive.Register(archive.TarZstd, NewExtractor(zstdCompressed))
}

// Decompressor wraps the raw archive stream with a decompressing reader.
type Decompressor func(r io.Reader) (io.ReadCloser, error)

func plain(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

func gzipped(r io.Reader) (io.ReadCloser, error) {
	return pgzip.NewReader(r)
}

func zstdCompressed(r io.Reader) (io.ReadCloser, error) {
	zr, err := zstd.NewReader(r, zstd.WithDecoderLowmem(true))
	if err != nil {
		return nil, err
	}

	return zr.IOReadCloser(), nil
}

// extractor is a tar stream extractor.
type extractor struct {
	r          io.ReaderAt
	size       int64
	dir        string
	opts       archive.Options
	decompress Decompressor
}

// NewExtractor returns a constructor for tar extractors reading through the
// given decompressor.
func NewExtractor(decompress Decompressor) archive.NewExtractorFunc {
	return func(r io.ReaderAt, size int64, dir string, opts archive.Options) (archive.Extractor, error) {
		return &extractor{r: r, size: size, dir: dir, opts: opts, decompress: decompress}, nil
	}
}

func (e *extractor) walk(ctx context.Context, fn func(hdr *tar.Header, tr *tar.Reader) error) error {
	dr, err := e.decompress(io.NewSectionReader(e.r, 0, e.size))
	if err != nil {
		return err
	}
	defer func() { _ = dr.Close() }()

	tr := tar.NewReader(dr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		// pax global headers carry no entry of their own
		if hdr.Typeflag == tar.TypeXGlobalHeader {
			continue
		}

		if err := fn(hdr, tr); err != nil {
			return err
		}
	}
}

// Entries streams the tar headers.
func (e *extractor) Entries(ctx context.Context) ([]archive.Entry, error) {
	var entries []archive.Entry

	err := e.walk(ctx, func(hdr *tar.Header, _ *tar.Reader) error {
		fi := hdr.FileInfo()
		entries = append(entries, archive.Entry{
			Name:    hdr.Name,
			Size:    hdr.Size,
			ModTime: hdr.ModTime,
			Mode:    fi.Mode(),
		})
		return nil
	})

	return entries, err
}

// Extract extracts files from the reader to the directory passed to
// NewExtractor.
func (e *extractor) Extract(ctx context.Context, names []string) error {
	selected := archive.NewNameSet(names)
	w := archives.NewEntryWriter(e.dir)

	err := e.walk(ctx, func(hdr *tar.Header, tr *tar.Reader) error {
		if !selected.Contains(hdr.Name) {
			return nil
		}

		e.opts.EntryStarted(hdr.Name)

		entry := archives.Header{
			Name:     hdr.Name,
			Mode:     hdr.FileInfo().Mode(),
			ModTime:  hdr.ModTime,
			Linkname: hdr.Linkname,
			HardLink: hdr.Typeflag == tar.TypeLink,
		}

		err := w.Write(entry, func() (io.ReadCloser, error) {
			return io.NopCloser(tr), nil
		})
		if err != nil {
			return fmt.Errorf("extracting %s: %w", hdr.Name, err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	return w.Finish()
}
