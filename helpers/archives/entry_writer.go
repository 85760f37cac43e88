package archives

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

const irregularModes = os.ModeNamedPipe | os.ModeSocket | os.ModeDevice | os.ModeCharDevice | os.ModeIrregular

// Header describes an entry to be written by an EntryWriter.
type Header struct {
	Name     string
	Mode     fs.FileMode
	ModTime  time.Time
	Linkname string
	// HardLink marks Linkname as another entry of the archive rather than a
	// symlink target.
	HardLink bool
}

// OpenFunc opens the content of an entry.
type OpenFunc func() (io.ReadCloser, error)

// pathErrorTracker reports each kind of path error once.
type pathErrorTracker struct {
	seen map[string]struct{}
}

func newPathErrorTracker() *pathErrorTracker {
	return &pathErrorTracker{seen: make(map[string]struct{})}
}

// actionable returns true the first time an error of a given kind is seen.
func (t *pathErrorTracker) actionable(err error) bool {
	if err == nil {
		return false
	}

	key := err.Error()
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		key = pathErr.Op + ": " + pathErr.Err.Error()
	}

	if _, ok := t.seen[key]; ok {
		return false
	}
	t.seen[key] = struct{}{}

	return true
}

type deferredEntry struct {
	path string
	hdr  Header
}

// EntryWriter writes archive entries below a directory. Symlinks and
// directory metadata are applied by Finish, after all regular files exist.
type EntryWriter struct {
	dir      string
	tracker  *pathErrorTracker
	deferred []deferredEntry
}

// NewEntryWriter returns an EntryWriter rooted at dir.
func NewEntryWriter(dir string) *EntryWriter {
	return &EntryWriter{
		dir:     dir,
		tracker: newPathErrorTracker(),
	}
}

// Write writes a single entry. For symlinks without a Linkname the link
// target is read from the entry content, as zip archives store it.
func (w *EntryWriter) Write(hdr Header, open OpenFunc) error {
	if hdr.Mode&irregularModes != 0 {
		logrus.Warningf("File ignored: %q", hdr.Name)
		return nil
	}

	if err := errorIfGitDirectory(filepath.FromSlash(hdr.Name)); w.tracker.actionable(err) {
		printGitArchiveWarning()
	}

	path, err := ChrootPath(w.dir, hdr.Name)
	if err != nil {
		return err
	}

	// Create all parents to extract the file
	if err := os.MkdirAll(filepath.Dir(path), 0o777); err != nil {
		return err
	}

	switch {
	case hdr.HardLink:
		if _, err := ChrootPath(w.dir, hdr.Linkname); err != nil {
			return err
		}
		w.deferred = append(w.deferred, deferredEntry{path: path, hdr: hdr})
		return nil

	case hdr.Mode&os.ModeSymlink != 0:
		if hdr.Linkname == "" {
			target, err := readLinkTarget(open)
			if err != nil {
				return err
			}
			hdr.Linkname = target
		}
		w.deferred = append(w.deferred, deferredEntry{path: path, hdr: hdr})
		return nil

	case hdr.Mode.IsDir():
		w.deferred = append(w.deferred, deferredEntry{path: path, hdr: hdr})

		err := os.Mkdir(path, 0o777)
		// The error that directory does exists is not a error for us
		if err != nil && !os.IsExist(err) {
			return err
		}
		return nil

	default:
		if err := writeFile(path, open); err != nil {
			return err
		}

		w.updateMetadata(path, hdr)
		return nil
	}
}

// Finish creates deferred symlinks and applies directory metadata.
func (w *EntryWriter) Finish() error {
	for _, entry := range w.deferred {
		if entry.hdr.HardLink {
			target, _ := ChrootPath(w.dir, entry.hdr.Linkname)
			if _, err := os.Lstat(target); os.IsNotExist(err) {
				logrus.Warningf("%s: hard link target %q was not extracted", entry.hdr.Name, entry.hdr.Linkname)
				continue
			}

			_ = os.Remove(entry.path)
			if err := os.Link(target, entry.path); err != nil {
				return err
			}
			continue
		}

		if entry.hdr.Mode&os.ModeSymlink != 0 {
			// Remove symlink before creating a new one, otherwise we can error that file does exist
			_ = os.Remove(entry.path)
			if err := os.Symlink(entry.hdr.Linkname, entry.path); err != nil {
				return err
			}
		}

		w.updateMetadata(entry.path, entry.hdr)
	}
	w.deferred = nil

	return nil
}

func (w *EntryWriter) updateMetadata(path string, hdr Header) {
	if err := lchmod(path, hdr.Mode); w.tracker.actionable(err) {
		logrus.Warningf("%s: %s (suppressing repeats)", hdr.Name, err)
	}

	if hdr.ModTime.IsZero() {
		return
	}

	if err := lchtimes(path, time.Now(), hdr.ModTime); w.tracker.actionable(err) {
		logrus.Warningf("%s: %s (suppressing repeats)", hdr.Name, err)
	}
}

func readLinkTarget(open OpenFunc) (string, error) {
	in, err := open()
	if err != nil {
		return "", err
	}
	defer func() { _ = in.Close() }()

	data, err := io.ReadAll(in)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

func writeFile(path string, open OpenFunc) error {
	in, err := open()
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	// Remove file before creating a new one, otherwise we can error that file does exist
	_ = os.Remove(path)
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o666)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}

	return out.Close()
}
