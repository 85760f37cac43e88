// Package archivetest builds archives for tests.
package archivetest

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

// ModTime is the modification time of every generated entry.
var ModTime = time.Date(2021, 6, 7, 8, 9, 10, 0, time.UTC)

// File is a single archive entry.
type File struct {
	Name     string
	Body     string
	Mode     os.FileMode
	Linkname string
}

// Fixture is the default set of entries used across tests.
func Fixture() []File {
	return []File{
		{Name: "a.txt", Body: "file a", Mode: 0o644},
		{Name: "b/", Mode: os.ModeDir | 0o755},
		{Name: "b/c.txt", Body: "file c", Mode: 0o644},
		{Name: "b/d.log", Body: "file d", Mode: 0o600},
		{Name: "e/f/g.txt", Body: "file g", Mode: 0o644},
	}
}

// Compressor wraps w with a compressing writer.
type Compressor func(w io.Writer) (io.WriteCloser, error)

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// Uncompressed writes a plain tar.
func Uncompressed(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{w}, nil
}

// Gzip compresses with pgzip.
func Gzip(w io.Writer) (io.WriteCloser, error) {
	return pgzip.NewWriter(w), nil
}

// Zstd compresses with zstd.
func Zstd(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w)
}

// Xz compresses with xz.
func Xz(w io.Writer) (io.WriteCloser, error) {
	return xz.NewWriter(w)
}

// Zip returns a zip archive of files.
func Zip(t *testing.T, files []File) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, file := range files {
		hdr := &zip.FileHeader{
			Name:     file.Name,
			Method:   zip.Deflate,
			Modified: ModTime,
		}
		hdr.SetMode(file.Mode)
		if file.Mode.IsDir() {
			hdr.Method = zip.Store
		}

		w, err := zw.CreateHeader(hdr)
		require.NoError(t, err)

		body := file.Body
		if file.Mode&os.ModeSymlink != 0 {
			body = file.Linkname
		}
		_, err = io.WriteString(w, body)
		require.NoError(t, err)
	}

	require.NoError(t, zw.Close())

	return buf.Bytes()
}

// Tar returns a tar archive of files, compressed with compress.
func Tar(t *testing.T, compress Compressor, files []File) []byte {
	t.Helper()

	var buf bytes.Buffer
	cw, err := compress(&buf)
	require.NoError(t, err)

	tw := tar.NewWriter(cw)
	for _, file := range files {
		hdr := &tar.Header{
			Name:    file.Name,
			Mode:    int64(file.Mode.Perm()),
			ModTime: ModTime,
			Size:    int64(len(file.Body)),
		}

		switch {
		case file.Mode.IsDir():
			hdr.Typeflag = tar.TypeDir
			hdr.Size = 0
		case file.Mode&os.ModeSymlink != 0:
			hdr.Typeflag = tar.TypeSymlink
			hdr.Linkname = file.Linkname
			hdr.Size = 0
		case file.Linkname != "":
			hdr.Typeflag = tar.TypeLink
			hdr.Linkname = file.Linkname
			hdr.Size = 0
		default:
			hdr.Typeflag = tar.TypeReg
		}

		require.NoError(t, tw.WriteHeader(hdr))
		if hdr.Size > 0 {
			_, err := io.WriteString(tw, file.Body)
			require.NoError(t, err)
		}
	}

	require.NoError(t, tw.Close())
	require.NoError(t, cw.Close())

	return buf.Bytes()
}

// WriteFile writes data to name inside dir and returns the full path.
func WriteFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

// AssertExtracted checks the regular files of files exist below dir with
// the expected content, and that nothing else was written.
func AssertExtracted(t *testing.T, dir string, files []File) {
	t.Helper()

	expected := map[string]string{}
	for _, file := range files {
		if file.Mode.IsRegular() && file.Linkname == "" {
			expected[filepath.FromSlash(file.Name)] = file.Body
		}
	}

	actual := map[string]string{}
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || !info.Mode().IsRegular() {
			return err
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		actual[rel] = string(data)
		return nil
	})
	require.NoError(t, err)

	require.Equal(t, expected, actual)
}

// Select returns the files whose names are listed.
func Select(files []File, names ...string) []File {
	var selected []File
	for _, file := range files {
		for _, name := range names {
			if file.Name == name {
				selected = append(selected, file)
			}
		}
	}
	return selected
}
