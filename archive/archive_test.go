//go:build !integration

package archive_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/gitlab-org/expand-archive/archive"
	"gitlab.com/gitlab-org/expand-archive/archive/archivetest"
	"gitlab.com/gitlab-org/expand-archive/archive/fastzip"
	_ "gitlab.com/gitlab-org/expand-archive/archive/generic"
	_ "gitlab.com/gitlab-org/expand-archive/archive/tarball"
)

func TestDefaultRegistration(t *testing.T) {
	tests := map[archive.Format]bool{
		archive.Tar:             true,
		archive.TarGzip:         true,
		archive.TarZstd:         true,
		archive.TarXz:           true,
		archive.SevenZip:        true,
		archive.Rar:             true,
		archive.Format("tar.Z"): false,
		archive.Format("gz"):    false,
		archive.Format("bogus"): false,
	}

	for tn, hasExtractor := range tests {
		t.Run(string(tn), func(t *testing.T) {
			_, err := archive.NewExtractor(tn, nil, 0, "", archive.Options{})

			if hasExtractor {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, archive.ErrUnsupportedArchiveFormat)
			}
		})
	}
}

func TestRegisterOverride(t *testing.T) {
	format := archive.Format("new-format")

	prev := archive.Register(format, fastzip.NewExtractor)
	assert.Nil(t, prev)

	extractor, err := archive.NewExtractor(format, nil, 0, "", archive.Options{})
	require.NoError(t, err)
	assert.NotNil(t, extractor)

	prev = archive.Register(format, fastzip.NewExtractor)
	assert.NotNil(t, prev)

	assert.Nil(t, archive.Register(format, nil), "nil extractors are not registered")
}

func TestDetect(t *testing.T) {
	archive.Register(archive.Zip, fastzip.NewExtractor)

	var plainGzip bytes.Buffer
	gw := gzip.NewWriter(&plainGzip)
	_, err := io.WriteString(gw, "not an archive")
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	files := archivetest.Fixture()

	tests := map[string]struct {
		data        []byte
		expected    archive.Format
		expectedErr error
	}{
		"zip": {
			data:     archivetest.Zip(t, files),
			expected: archive.Zip,
		},
		"tar": {
			data:     archivetest.Tar(t, archivetest.Uncompressed, files),
			expected: archive.Tar,
		},
		"tar.gz": {
			data:     archivetest.Tar(t, archivetest.Gzip, files),
			expected: archive.TarGzip,
		},
		"tar.zst": {
			data:     archivetest.Tar(t, archivetest.Zstd, files),
			expected: archive.TarZstd,
		},
		"tar.xz": {
			data:     archivetest.Tar(t, archivetest.Xz, files),
			expected: archive.TarXz,
		},
		"compressed file without archive": {
			data:        plainGzip.Bytes(),
			expectedErr: archive.ErrUnsupportedArchiveFormat,
		},
		"random data": {
			data:        []byte("this is just some text and not an archive"),
			expectedErr: archive.ErrUnsupportedArchiveFormat,
		},
	}

	for tn, tc := range tests {
		t.Run(tn, func(t *testing.T) {
			format, err := archive.Detect(context.Background(), bytes.NewReader(tc.data), int64(len(tc.data)))
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, format)
		})
	}
}

func TestNameSet(t *testing.T) {
	var all archive.NameSet
	assert.True(t, all.Contains("anything"))
	assert.Nil(t, archive.NewNameSet(nil))

	some := archive.NewNameSet([]string{"a", "b/c"})
	assert.True(t, some.Contains("a"))
	assert.True(t, some.Contains("b/c"))
	assert.False(t, some.Contains("b"))

	none := archive.NewNameSet([]string{})
	assert.False(t, none.Contains("a"))
}

func TestNames(t *testing.T) {
	entries := []archive.Entry{{Name: "b"}, {Name: "a"}}
	assert.Equal(t, []string{"b", "a"}, archive.Names(entries))
}

func TestOptionsEntryStarted(t *testing.T) {
	archive.Options{}.EntryStarted("no callback set")

	var started []string
	opts := archive.Options{OnEntry: func(name string) { started = append(started, name) }}
	opts.EntryStarted("a")
	opts.EntryStarted("b")

	assert.Equal(t, []string{"a", "b"}, started)
}
