package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/mholt/archives"
)

var (
	// ErrUnsupportedArchiveFormat is returned if an extractor for the format
	// requested has not been registered, or the data is not an archive.
	ErrUnsupportedArchiveFormat = errors.New("unsupported archive format")
)

// Format type for specifying format.
type Format string

// Formats the extractors know about. The values match the extensions
// reported by format detection, without the leading dot.
const (
	Zip       Format = "zip"
	Tar       Format = "tar"
	TarGzip   Format = "tar.gz"
	TarZstd   Format = "tar.zst"
	TarBzip2  Format = "tar.bz2"
	TarXz     Format = "tar.xz"
	TarLz4    Format = "tar.lz4"
	TarBrotli Format = "tar.br"
	TarS2     Format = "tar.sz"
	TarLzip   Format = "tar.lz"
	SevenZip  Format = "7z"
	Rar       Format = "rar"
)

var extractors = make(map[Format]NewExtractorFunc)

// Entry describes a single item stored in an archive.
type Entry struct {
	Name    string
	Size    int64
	ModTime time.Time
	Mode    fs.FileMode
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Mode.IsDir()
}

// Names returns the names of entries, in archive order.
func Names(entries []Entry) []string {
	names := make([]string, len(entries))
	for i, entry := range entries {
		names[i] = entry.Name
	}

	return names
}

// Options tune an extractor.
type Options struct {
	// Password is used by formats that support encryption.
	Password string
	// Concurrency limits the number of entries extracted in parallel by
	// extractors that support it. Zero leaves the extractor default.
	Concurrency int
	// OnEntry, if set, is called once per extracted entry before it is
	// written. Extractors that write concurrently report every entry up
	// front, before the first one is written.
	OnEntry func(name string)
}

// EntryStarted notifies the OnEntry callback, if any.
func (o Options) EntryStarted(name string) {
	if o.OnEntry != nil {
		o.OnEntry(name)
	}
}

// Extractor lists and extracts archive entries.
type Extractor interface {
	// Entries lists the archive contents in archive order.
	Entries(ctx context.Context) ([]Entry, error)
	// Extract writes entries to the directory passed to NewExtractor. A nil
	// names slice extracts everything, otherwise exactly the named entries
	// are extracted.
	Extract(ctx context.Context, names []string) error
}

// NewExtractorFunc is a function that can be registered (with Register()) and
// used to instantiate a new extractor (with NewExtractor()).
type NewExtractorFunc func(r io.ReaderAt, size int64, dir string, opts Options) (Extractor, error)

// Register registers a new extractor, overriding the extractor for the
// format provided.
func Register(format Format, extractor NewExtractorFunc) (prevExtractor NewExtractorFunc) {
	if extractor != nil {
		prevExtractor = extractors[format]
		extractors[format] = extractor
	}
	return
}

// NewExtractor returns a new Extractor of the specified format.
//
// The extractor will extract files to the directory provided.
func NewExtractor(format Format, r io.ReaderAt, size int64, dir string, opts Options) (Extractor, error) {
	fn := extractors[format]
	if fn == nil {
		return nil, fmt.Errorf("%q format: %w", format, ErrUnsupportedArchiveFormat)
	}

	return fn(r, size, dir, opts)
}

// Detect identifies the archive format by inspecting the data.
func Detect(ctx context.Context, r io.ReaderAt, size int64) (Format, error) {
	format, _, err := archives.Identify(ctx, "", io.NewSectionReader(r, 0, size))
	if errors.Is(err, archives.NoMatch) {
		return "", fmt.Errorf("no archive signature found: %w", ErrUnsupportedArchiveFormat)
	}
	if err != nil {
		return "", fmt.Errorf("identifying archive format: %w", err)
	}

	if _, ok := format.(archives.Extractor); !ok {
		return "", fmt.Errorf("%q is not an archive: %w", format.Extension(), ErrUnsupportedArchiveFormat)
	}

	detected := Format(strings.TrimPrefix(format.Extension(), "."))
	if extractors[detected] == nil {
		return "", fmt.Errorf("%q format: %w", detected, ErrUnsupportedArchiveFormat)
	}

	return detected, nil
}

// NameSet is the set of entry names an extractor was asked for. A nil
// NameSet contains every name.
type NameSet map[string]struct{}

// NewNameSet returns the set of names, or nil if names is nil.
func NewNameSet(names []string) NameSet {
	if names == nil {
		return nil
	}

	set := make(NameSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}

	return set
}

// Contains reports whether name should be extracted.
func (s NameSet) Contains(name string) bool {
	if s == nil {
		return true
	}

	_, ok := s[name]
	return ok
}
