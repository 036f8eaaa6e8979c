package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// storage renders markdown as XHTML, which the storage format requires.
// Raw HTML in the source is dropped.
var storage = goldmark.New(
	goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.Linkify),
	goldmark.WithRendererOptions(html.WithXHTML()),
)

// ToStorage renders markdown into storage-format XHTML.
func ToStorage(src string) (string, error) {
	var buf bytes.Buffer
	if err := storage.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
