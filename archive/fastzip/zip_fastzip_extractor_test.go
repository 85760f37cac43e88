//go:build !integration

package fastzip

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/gitlab-org/expand-archive/archive"
	"gitlab.com/gitlab-org/expand-archive/archive/archivetest"
	"gitlab.com/gitlab-org/expand-archive/log/test"
)

func newTestExtractor(t *testing.T, files []archivetest.File, opts archive.Options) (archive.Extractor, string) {
	data := archivetest.Zip(t, files)
	dir := t.TempDir()

	extractor, err := NewExtractor(bytes.NewReader(data), int64(len(data)), dir, opts)
	require.NoError(t, err)

	return extractor, dir
}

func TestEntries(t *testing.T) {
	extractor, _ := newTestExtractor(t, archivetest.Fixture(), archive.Options{})

	entries, err := extractor.Entries(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt", "b/", "b/c.txt", "b/d.log", "e/f/g.txt"}, archive.Names(entries))
	assert.True(t, entries[1].IsDir())
	assert.Equal(t, int64(len("file a")), entries[0].Size)
	assert.True(t, entries[0].ModTime.Equal(archivetest.ModTime))
}

func TestExtractAll(t *testing.T) {
	files := archivetest.Fixture()

	var started []string
	extractor, dir := newTestExtractor(t, files, archive.Options{
		Concurrency: 2,
		OnEntry:     func(name string) { started = append(started, name) },
	})

	require.NoError(t, extractor.Extract(context.Background(), nil))

	archivetest.AssertExtracted(t, dir, files)
	assert.Len(t, started, len(files))
}

func TestExtractSelected(t *testing.T) {
	files := archivetest.Fixture()

	var started []string
	extractor, dir := newTestExtractor(t, files, archive.Options{
		OnEntry: func(name string) { started = append(started, name) },
	})

	require.NoError(t, extractor.Extract(context.Background(), []string{"e/f/g.txt", "a.txt"}))

	archivetest.AssertExtracted(t, dir, archivetest.Select(files, "a.txt", "e/f/g.txt"))
	assert.Equal(t, []string{"a.txt", "e/f/g.txt"}, started)

	if runtime.GOOS != "windows" {
		fi, err := os.Stat(filepath.Join(dir, "a.txt"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o644), fi.Mode().Perm())
	}
}

func TestExtractSelectedSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require elevated privileges on windows")
	}

	files := []archivetest.File{
		{Name: "target.txt", Body: "target", Mode: 0o644},
		{Name: "link", Mode: os.ModeSymlink | 0o777, Linkname: "target.txt"},
	}
	extractor, dir := newTestExtractor(t, files, archive.Options{})

	require.NoError(t, extractor.Extract(context.Background(), []string{"target.txt", "link"}))

	target, err := os.Readlink(filepath.Join(dir, "link"))
	require.NoError(t, err)
	assert.Equal(t, "target.txt", target)
}

func TestExtractSelectedRejectsTraversal(t *testing.T) {
	files := []archivetest.File{
		{Name: "../escape.txt", Body: "escape", Mode: 0o644},
	}
	extractor, dir := newTestExtractor(t, files, archive.Options{})

	err := extractor.Extract(context.Background(), []string{"../escape.txt"})
	assert.Error(t, err)

	_, err = os.Stat(filepath.Join(filepath.Dir(dir), "escape.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestExtractCancelled(t *testing.T) {
	extractor, _ := newTestExtractor(t, archivetest.Fixture(), archive.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := extractor.Extract(ctx, []string{"a.txt"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPasswordIsIgnored(t *testing.T) {
	hook, cleanup := test.NewHook()
	defer cleanup()

	_, _ = newTestExtractor(t, archivetest.Fixture(), archive.Options{Password: "secret"})

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "password is ignored")
}

func TestExtractorOptionsFromEnvironment(t *testing.T) {
	tests := map[string]struct {
		env         string
		concurrency int
		expectedLen int
		expectedErr bool
	}{
		"nothing set": {},
		"environment": {
			env:         "4",
			expectedLen: 1,
		},
		"option wins over environment": {
			env:         "invalid",
			concurrency: 2,
			expectedLen: 1,
		},
		"invalid environment": {
			env:         "invalid",
			expectedErr: true,
		},
	}

	for tn, tc := range tests {
		t.Run(tn, func(t *testing.T) {
			t.Setenv(extractorConcurrency, tc.env)

			e := &extractor{opts: archive.Options{Concurrency: tc.concurrency}}
			opts, err := e.extractorOptions()
			if tc.expectedErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Len(t, opts, tc.expectedLen)
		})
	}
}
