package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/EmundoT/rebase-helper/internal/version"
	"github.com/EmundoT/rebase-helper/pkg/logger"
)

// Downloader fetches remote sources.
//
//go:generate mockgen -source=downloader.go -destination=downloader_mock_test.go -package=core
type Downloader interface {
	// Download stores url at dest. An existing complete file is kept.
	Download(ctx context.Context, url, dest string) error
}

// HTTPDownloader implements Downloader over HTTP(S). Interrupted downloads
// leave a .part file that the next attempt resumes with a Range request.
type HTTPDownloader struct {
	httpClient *http.Client
	timeout    time.Duration
	attempts   int
	backoff    time.Duration
	log        *logger.Logger
}

// NewHTTPDownloader creates a downloader. timeout bounds a single download.
func NewHTTPDownloader(httpClient *http.Client, timeout time.Duration, log *logger.Logger) *HTTPDownloader {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = logger.Discard()
	}
	return &HTTPDownloader{
		httpClient: httpClient,
		timeout:    timeout,
		attempts:   3,
		backoff:    time.Second,
		log:        log.WithComponent("download"),
	}
}

var _ Downloader = (*HTTPDownloader)(nil)

// errRetryable marks failures worth another attempt.
type errRetryable struct{ err error }

func (e errRetryable) Error() string { return e.err.Error() }
func (e errRetryable) Unwrap() error { return e.err }

// Download fetches url into dest, retrying network errors and 5xx
// responses with exponential backoff.
func (d *HTTPDownloader) Download(ctx context.Context, url, dest string) error {
	if info, err := os.Stat(dest); err == nil && info.Size() > 0 {
		d.log.Debug("already downloaded", "file", dest)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt < d.attempts; attempt++ {
		if attempt > 0 {
			// 1s, 2s, 4s ...
			wait := d.backoff * time.Duration(1<<uint(attempt-1))
			d.log.Info("retrying download", "url", url, "attempt", attempt+1, "wait", wait)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		err := d.fetch(ctx, url, dest)
		if err == nil {
			return nil
		}
		lastErr = err
		var retry errRetryable
		if !errors.As(err, &retry) || ctx.Err() != nil {
			break
		}
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return lastErr
}

func (d *HTTPDownloader) fetch(ctx context.Context, url, dest string) error {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	part := dest + ".part"
	var offset int64
	if info, err := os.Stat(part); err == nil {
		offset = info.Size()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", version.UserAgent())
	if offset > 0 {
		req.Header.Set("Range", "bytes="+strconv.FormatInt(offset, 10)+"-")
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return errRetryable{fmt.Errorf("GET %s: %w", url, err)}
	}
	defer func() { _ = resp.Body.Close() }()

	flags := os.O_CREATE | os.O_WRONLY
	switch {
	case resp.StatusCode == http.StatusPartialContent && offset > 0:
		flags |= os.O_APPEND
		d.log.Debug("resuming download", "url", url, "offset", offset)
	case resp.StatusCode == http.StatusOK:
		flags |= os.O_TRUNC
	case resp.StatusCode >= 500:
		return errRetryable{fmt.Errorf("GET %s: %s", url, resp.Status)}
	default:
		return fmt.Errorf("GET %s: %s", url, resp.Status)
	}

	out, err := os.OpenFile(part, flags, 0644)
	if err != nil {
		return err
	}
	n, err := io.Copy(out, resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return errRetryable{fmt.Errorf("GET %s: %w", url, err)}
	}
	d.log.Log(ctx, logger.LevelVerbose, "downloaded", "url", url, "bytes", n)
	return os.Rename(part, dest)
}
