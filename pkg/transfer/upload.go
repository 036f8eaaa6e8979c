package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"

	"github.com/hashicorp-forge/wikicli/pkg/client"
	"github.com/hashicorp-forge/wikicli/pkg/models"
)

// LargeUploadThreshold is the size above which an upload needs confirmation.
const LargeUploadThreshold = 5 * 1024 * 1024

// Confirmer asks a yes/no question. It is usually backed by the terminal.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(prompt string) (bool, error) { return f(prompt) }

// Uploader attaches local files to pages.
type Uploader struct {
	client  *client.Client
	fs      afero.Fs
	confirm Confirmer
	log     hclog.Logger
}

// NewUploader creates an Uploader reading through fs. confirm may be nil, in
// which case large files are refused unless approval is forced.
func NewUploader(c *client.Client, fs afero.Fs, confirm Confirmer) *Uploader {
	return &Uploader{
		client:  c,
		fs:      fs,
		confirm: confirm,
		log:     c.Logger().Named("upload"),
	}
}

// Approve checks every path exists and asks before including files above
// LargeUploadThreshold. With force set nothing is asked.
func (u *Uploader) Approve(paths []string, force bool) (approved, skipped []string, err error) {
	for _, p := range paths {
		info, err := u.fs.Stat(p)
		if err != nil {
			return nil, nil, client.LocalError("stat", p, err)
		}
		if info.IsDir() {
			return nil, nil, fmt.Errorf("%s is a directory", p)
		}
		if info.Size() <= LargeUploadThreshold || force {
			approved = append(approved, p)
			continue
		}
		if u.confirm == nil {
			skipped = append(skipped, p)
			continue
		}
		ok, err := u.confirm.Confirm(fmt.Sprintf("Upload %s (%s)?", p, humanize.Bytes(uint64(info.Size()))))
		if err != nil {
			return nil, nil, err
		}
		if ok {
			approved = append(approved, p)
		} else {
			skipped = append(skipped, p)
		}
	}
	return approved, skipped, nil
}

// Upload attaches one file to a page. The file is reopened and the multipart
// body rebuilt on every attempt.
func (u *Uploader) Upload(ctx context.Context, pageID, path, comment string) (models.UploadResult, error) {
	endpoint := u.client.Endpoints().V1(fmt.Sprintf("/content/%s/child/attachment", url.PathEscape(pageID)))

	var result models.UploadResult
	err := u.client.Retry(ctx, func(attempt int) error {
		r, err := u.attempt(ctx, endpoint, path, comment)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return models.UploadResult{}, fmt.Errorf("error uploading %s: %w", path, err)
	}
	u.log.Debug("uploaded", "path", path, "page", pageID, "id", result.ID)
	return result, nil
}

// UploadAll uploads files concurrently. The first failure cancels the rest
// and results come back in the order of paths.
func (u *Uploader) UploadAll(ctx context.Context, pageID string, paths []string, comment string, concurrency int) ([]models.UploadResult, error) {
	tasks := make([]Task[models.UploadResult], 0, len(paths))
	for _, p := range paths {
		tasks = append(tasks, func(ctx context.Context) (models.UploadResult, error) {
			return u.Upload(ctx, pageID, p, comment)
		})
	}
	results, err := Run(ctx, concurrency, tasks)
	if err != nil {
		return nil, fmt.Errorf("attachment upload failed: %w", err)
	}
	return Values(results), nil
}

func (u *Uploader) attempt(ctx context.Context, endpoint, path, comment string) (models.UploadResult, error) {
	f, err := u.fs.Open(path)
	if err != nil {
		return models.UploadResult{}, client.LocalError("open", path, err)
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		defer f.Close()
		pw.CloseWithError(writeForm(mw, f, filepath.Base(path), comment))
	}()
	defer pr.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		return models.UploadResult{}, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Atlassian-Token", "no-check")

	resp, err := u.client.Do(req)
	if err != nil {
		return models.UploadResult{}, err
	}
	defer resp.Body.Close()

	var body map[string]any
	if err := decodeJSON(resp.Body, &body); err != nil {
		return models.UploadResult{}, err
	}

	// The response is a list wrapper around the created attachment.
	item := body
	if results, ok := body["results"].([]any); ok && len(results) > 0 {
		if first, ok := results[0].(map[string]any); ok {
			item = first
		}
	}
	var result models.UploadResult
	if err := client.Decode(item, &result); err != nil {
		return models.UploadResult{}, err
	}
	return result, nil
}

func writeForm(mw *multipart.Writer, r io.Reader, name, comment string) error {
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, r); err != nil {
		return err
	}
	if comment != "" {
		if err := mw.WriteField("comment", comment); err != nil {
			return err
		}
	}
	return mw.Close()
}

func decodeJSON(r io.Reader, out any) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("error decoding upload response: %w", err)
	}
	return nil
}
