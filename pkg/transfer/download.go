package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"

	"github.com/hashicorp-forge/wikicli/pkg/client"
)

// tempCounter disambiguates temp files created in the same nanosecond.
var tempCounter atomic.Uint64

// Download describes one file to fetch.
type Download struct {
	// URL is the absolute source URL.
	URL string

	// Dest is the final destination path.
	Dest string

	// Label is used in log lines, usually the attachment title.
	Label string
}

// Downloaded is the outcome of one successful Download.
type Downloaded struct {
	Dest  string
	Bytes int64
}

// Downloader streams remote files to disk. A destination is only ever
// replaced by a complete file.
type Downloader struct {
	client *client.Client
	fs     afero.Fs
	log    hclog.Logger
}

// NewDownloader creates a Downloader writing through fs.
func NewDownloader(c *client.Client, fs afero.Fs) *Downloader {
	return &Downloader{
		client: c,
		fs:     fs,
		log:    c.Logger().Named("download"),
	}
}

// Download fetches d.URL into d.Dest. Every attempt issues a fresh request
// and writes a fresh temp file next to the destination. The temp file is
// removed on any failure and renamed over the destination on success.
func (d *Downloader) Download(ctx context.Context, dl Download) (Downloaded, error) {
	if err := d.fs.MkdirAll(filepath.Dir(dl.Dest), 0o755); err != nil {
		return Downloaded{}, client.LocalError("create directory", filepath.Dir(dl.Dest), err)
	}

	var n int64
	err := d.client.Retry(ctx, func(attempt int) error {
		written, err := d.attempt(ctx, dl)
		if err != nil {
			return err
		}
		n = written
		return nil
	})
	if err != nil {
		return Downloaded{}, fmt.Errorf("error downloading %s: %w", labelOf(dl), err)
	}

	d.log.Debug("downloaded", "label", labelOf(dl), "dest", dl.Dest, "bytes", n)
	return Downloaded{Dest: dl.Dest, Bytes: n}, nil
}

// DownloadAll runs many downloads with bounded concurrency. The first failure
// cancels the rest.
func (d *Downloader) DownloadAll(ctx context.Context, downloads []Download, concurrency int) ([]Downloaded, error) {
	tasks := make([]Task[Downloaded], 0, len(downloads))
	for _, dl := range downloads {
		tasks = append(tasks, func(ctx context.Context) (Downloaded, error) {
			return d.Download(ctx, dl)
		})
	}
	results, err := Run(ctx, concurrency, tasks)
	if err != nil {
		return nil, err
	}
	return Values(results), nil
}

func (d *Downloader) attempt(ctx context.Context, dl Download) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, dl.URL, nil)
	if err != nil {
		return 0, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "*/*")

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	tmp := tempPath(dl.Dest)
	f, err := d.fs.Create(tmp)
	if err != nil {
		return 0, client.LocalError("create", tmp, err)
	}

	body := &readTracker{r: resp.Body}
	n, copyErr := io.Copy(f, body)
	closeErr := f.Close()

	if copyErr != nil || closeErr != nil {
		_ = d.fs.Remove(tmp)
		if copyErr != nil && body.err != nil {
			// The connection broke mid-stream; a fresh request may succeed.
			return 0, &client.Error{
				Kind:   client.KindTransient,
				Method: req.Method,
				URL:    dl.URL,
				Err:    fmt.Errorf("reading response body: %w", body.err),
			}
		}
		if copyErr != nil {
			return 0, client.LocalError("write", tmp, copyErr)
		}
		return 0, client.LocalError("close", tmp, closeErr)
	}

	if err := d.fs.Remove(dl.Dest); err != nil && !errors.Is(err, os.ErrNotExist) {
		_ = d.fs.Remove(tmp)
		return 0, client.LocalError("replace", dl.Dest, err)
	}
	if err := d.fs.Rename(tmp, dl.Dest); err != nil {
		_ = d.fs.Remove(tmp)
		return 0, client.LocalError("rename", tmp, err)
	}
	return n, nil
}

// tempPath returns a hidden sibling of dest that no concurrent download in
// this or another process will pick.
func tempPath(dest string) string {
	name := fmt.Sprintf(".%s.%d-%d-%d.part",
		filepath.Base(dest), time.Now().UnixNano(), os.Getpid(), tempCounter.Add(1))
	return filepath.Join(filepath.Dir(dest), name)
}

func labelOf(dl Download) string {
	if dl.Label != "" {
		return dl.Label
	}
	return filepath.Base(dl.Dest)
}

// readTracker remembers the last read error so a broken connection can be
// told apart from a failing disk.
type readTracker struct {
	r   io.Reader
	err error
}

func (t *readTracker) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && err != io.EOF {
		t.err = err
	}
	return n, err
}
