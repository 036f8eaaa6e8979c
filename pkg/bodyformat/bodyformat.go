// Package bodyformat enumerates the page body formats the CLI can fetch and
// write.
package bodyformat

import (
	"fmt"
	"strings"
)

// Format is a closed set of page body formats.
type Format int

const (
	// Markdown is the rendered view converted to markdown locally.
	Markdown Format = iota + 1
	// View is the rendered HTML.
	View
	// Storage is the storage-format XHTML that round-trips through the API.
	Storage
	// ADF is the Atlassian document format JSON.
	ADF
)

// All lists the formats in display order.
var All = []Format{Markdown, View, Storage, ADF}

// UnsupportedError is returned by Parse for unknown names, and by
// ParseWritable for formats a page cannot be written in.
type UnsupportedError struct {
	Name  string
	Write bool
}

func (e *UnsupportedError) Error() string {
	if e.Write {
		return fmt.Sprintf("unsupported body format %q for writing (expected one of: storage, adf)", e.Name)
	}
	return fmt.Sprintf("unsupported body format %q (expected one of: markdown, view, storage, adf)", e.Name)
}

// Parse maps a user supplied name to a Format.
func Parse(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "md", "markdown":
		return Markdown, nil
	case "view", "html":
		return View, nil
	case "storage":
		return Storage, nil
	case "adf", "atlas_doc_format":
		return ADF, nil
	default:
		return 0, &UnsupportedError{Name: name}
	}
}

// ParseWritable is Parse restricted to the formats a page body can be
// written in.
func ParseWritable(name string) (Format, error) {
	f, err := Parse(name)
	if err != nil {
		return 0, err
	}
	if !f.Writable() {
		return 0, &UnsupportedError{Name: name, Write: true}
	}
	return f, nil
}

// Writable reports whether the API accepts page bodies in f.
func (f Format) Writable() bool {
	return f == Storage || f == ADF
}

func (f Format) String() string {
	switch f {
	case Markdown:
		return "markdown"
	case View:
		return "view"
	case Storage:
		return "storage"
	case ADF:
		return "adf"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// APIValue is the body-format query value to request from the API. Markdown
// is produced from the view representation.
func (f Format) APIValue() string {
	switch f {
	case Markdown, View:
		return "view"
	case Storage:
		return "storage"
	case ADF:
		return "atlas_doc_format"
	default:
		return ""
	}
}

// FileName is the name of the exported content file.
func (f Format) FileName() string {
	switch f {
	case Markdown:
		return "page.md"
	case View:
		return "page.view.html"
	case Storage:
		return "page.storage.html"
	case ADF:
		return "page.adf.json"
	default:
		return "page.txt"
	}
}

// Set implements flag.Value so a Format can be bound to a flag directly.
func (f *Format) Set(s string) error {
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}
