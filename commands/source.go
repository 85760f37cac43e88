package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/azureblob" // Needed to register the Azure driver
	_ "gocloud.dev/blob/gcsblob"   // Needed to register the GCS driver
	_ "gocloud.dev/blob/s3blob"    // Needed to register the AWS S3 driver
	"gocloud.dev/gcerrors"

	"gitlab.com/gitlab-org/expand-archive/common"
	"gitlab.com/gitlab-org/expand-archive/helpers/retry"
	url_helpers "gitlab.com/gitlab-org/expand-archive/helpers/url"
)

var (
	errArchiveNotFound  = errors.New("archive not found")
	errMissingArchive   = errors.New("missing archive: pass a path, --archive, --url or --gocloud-url")
	errAmbiguousArchive = errors.New("only one of --archive, --url and --gocloud-url can be used")
)

type sourceOptions struct {
	URL        string        `long:"url" description:"Download the archive from an HTTP(S) URL (e.g. a pre-signed URL)"`
	GoCloudURL string        `long:"gocloud-url" description:"Download the archive from a Go Cloud bucket URL (s3://, gs://, azblob://); requires credentials"`
	Retry      int           `long:"retry" description:"How many times to retry a failed download"`
	RetryTime  time.Duration `long:"retry-time" description:"How long to wait between download retries"`
	Timeout    int           `long:"timeout" description:"Overall timeout for the download request (in minutes)"`

	client *http.Client
	mux    *blob.URLMux
}

// retryableErr indicates that a download can be retried.
type retryableErr struct {
	err error
}

func (e retryableErr) Error() string {
	return e.err.Error()
}

func (e retryableErr) Unwrap() error {
	return e.err
}

func isRetryable(_ int, err error) bool {
	var r retryableErr
	return errors.As(err, &r)
}

// archiveSource is an opened archive. Downloaded archives live in a
// temporary file removed by Close.
type archiveSource struct {
	file    *os.File
	size    int64
	name    string
	cleanup func()
}

func (s *archiveSource) Close() error {
	err := s.file.Close()
	if s.cleanup != nil {
		s.cleanup()
	}
	return err
}

func (s *sourceOptions) remote() bool {
	return s.URL != "" || s.GoCloudURL != ""
}

func (s *sourceOptions) getClient() *http.Client {
	if s.client != nil {
		return s.client
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = common.DefaultDownloadTimeout
	}

	s.client = &http.Client{
		Timeout: time.Duration(timeout) * time.Minute,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 10 * time.Second,
			ResponseHeaderTimeout: 30 * time.Second,
			DisableCompression:    true,
		},
	}

	return s.client
}

// open returns the archive at path, or downloads it into tmpDir when a
// remote source is configured.
func (s *sourceOptions) open(ctx context.Context, path, tmpDir string) (*archiveSource, error) {
	switch {
	case s.URL != "" && s.GoCloudURL != "", s.remote() && path != "":
		return nil, errAmbiguousArchive
	case s.URL != "":
		return s.downloadTo(tmpDir, url_helpers.CleanURL(s.URL), func(w io.WriteSeeker) error {
			return s.downloadHTTP(ctx, w)
		})
	case s.GoCloudURL != "":
		return s.downloadTo(tmpDir, url_helpers.CleanURL(s.GoCloudURL), func(w io.WriteSeeker) error {
			return s.downloadGoCloud(ctx, w)
		})
	case path == "":
		return nil, errMissingArchive
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	fi, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if fi.IsDir() {
		_ = file.Close()
		return nil, fmt.Errorf("%s is a directory", path)
	}

	return &archiveSource{file: file, size: fi.Size(), name: path}, nil
}

func (s *sourceOptions) downloadTo(tmpDir, name string, download func(w io.WriteSeeker) error) (*archiveSource, error) {
	if err := os.MkdirAll(tmpDir, 0o700); err != nil {
		return nil, err
	}

	file, err := os.CreateTemp(tmpDir, "archive_")
	if err != nil {
		return nil, err
	}
	cleanup := func() { _ = os.Remove(file.Name()) }

	logrus.Debugln("Temporary file:", file.Name())

	if err := download(file); err != nil {
		_ = file.Close()
		cleanup()
		return nil, err
	}

	fi, err := file.Stat()
	if err != nil {
		_ = file.Close()
		cleanup()
		return nil, err
	}

	return &archiveSource{file: file, size: fi.Size(), name: name, cleanup: cleanup}, nil
}

func rewind(w io.WriteSeeker) error {
	if _, err := w.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if t, ok := w.(interface{ Truncate(int64) error }); ok {
		return t.Truncate(0)
	}
	return nil
}

func (s *sourceOptions) downloadHTTP(ctx context.Context, w io.WriteSeeker) error {
	cleanURL := url_helpers.CleanURL(s.URL)
	logrus.Infoln("Downloading archive from", cleanURL)

	return retry.New(func() error {
		if err := rewind(w); err != nil {
			return err
		}
		return s.get(ctx, w)
	}).
		WithCheck(isRetryable).
		WithMaxTries(s.Retry+1).
		WithBackoff(s.RetryTime, s.RetryTime).
		WithContext(ctx).
		WithLogrus(logrus.WithField("url", cleanURL)).
		Run()
}

func (s *sourceOptions) get(ctx context.Context, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", common.AppVersion.UserAgent())

	resp, err := s.getClient().Do(req)
	if err != nil {
		return retryableErr{err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", url_helpers.CleanURL(s.URL), errArchiveNotFound)
	case resp.StatusCode/100 == 5:
		return retryableErr{err: fmt.Errorf("received: %s", resp.Status)}
	case resp.StatusCode/100 != 2:
		return fmt.Errorf("received: %s", resp.Status)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return retryableErr{err: err}
	}

	return nil
}

func (s *sourceOptions) downloadGoCloud(ctx context.Context, w io.Writer) error {
	cleanURL := url_helpers.CleanURL(s.GoCloudURL)
	logrus.Infoln("Downloading archive from", cleanURL)

	if s.mux == nil {
		s.mux = blob.DefaultURLMux()
	}

	u, err := url.Parse(s.GoCloudURL)
	if err != nil {
		return err
	}

	objectName := strings.TrimLeft(u.Path, "/")
	if objectName == "" {
		return fmt.Errorf("no object name provided")
	}

	b, err := s.mux.OpenBucket(ctx, s.GoCloudURL)
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()

	r, err := b.NewReader(ctx, objectName, nil)
	if gcerrors.Code(err) == gcerrors.NotFound {
		return fmt.Errorf("%s: %w", cleanURL, errArchiveNotFound)
	} else if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	_, err = io.Copy(w, r)
	return err
}

// tmpDirFor keeps downloads next to the target, on the same filesystem.
func tmpDirFor(target string) string {
	return filepath.Dir(filepath.Clean(target))
}
