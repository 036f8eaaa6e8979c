package transfer

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/spf13/afero"

	"github.com/hashicorp-forge/wikicli/pkg/auth"
)

// maxUniqueSuffix is the highest " (n)" suffix UniquePath will try.
const maxUniqueSuffix = 9999

// AttachmentDownloadURL turns an attachment download link into an absolute
// URL. Links starting with "/" are relative to the site path (for example
// /wiki) and get that prefix unless they already carry it. Absolute links are
// returned unchanged.
func AttachmentDownloadURL(e auth.Endpoints, link string) (string, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", fmt.Errorf("attachment has no download link")
	}
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		if _, err := url.Parse(link); err != nil {
			return "", fmt.Errorf("invalid attachment download URL: %w", err)
		}
		return link, nil
	}

	site, err := url.Parse(e.SiteURL)
	if err != nil {
		return "", fmt.Errorf("invalid site URL: %w", err)
	}
	origin := site.Scheme + "://" + site.Host
	prefix := strings.TrimRight(site.Path, "/")

	var joined string
	switch {
	case strings.HasPrefix(link, "/") && prefix != "" && !strings.HasPrefix(link, prefix+"/"):
		joined = origin + prefix + link
	case strings.HasPrefix(link, "/"):
		joined = origin + link
	default:
		joined = origin + prefix + "/" + link
	}
	if _, err := url.Parse(joined); err != nil {
		return "", fmt.Errorf("invalid attachment download link %q: %w", link, err)
	}
	return joined, nil
}

// SanitizeFilename removes control characters and path separators and trims
// surrounding whitespace. An empty result becomes fallback.
func SanitizeFilename(name, fallback string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsControl(r) || r == '/' || r == '\\' {
			continue
		}
		b.WriteRune(r)
	}
	out := strings.TrimSpace(b.String())
	if out == "" || out == "." || out == ".." {
		return fallback
	}
	return out
}

// UniquePath returns path if nothing exists there, otherwise the first free
// "stem (n).ext" sibling.
func UniquePath(fs afero.Fs, path string) (string, error) {
	return UniquePathFunc(path, func(p string) (bool, error) {
		return afero.Exists(fs, p)
	})
}

// UniquePathFunc is UniquePath with a caller supplied existence check, for
// batches that reserve names before any file is written.
func UniquePathFunc(path string, taken func(string) (bool, error)) (string, error) {
	exists, err := taken(path)
	if err != nil {
		return "", err
	}
	if !exists {
		return path, nil
	}

	dir := filepath.Dir(path)
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	for i := 1; i <= maxUniqueSuffix; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
		exists, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free file name for %s", path)
}
