// Package markdown converts rendered page HTML into markdown.
package markdown

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/hashicorp/go-hclog"
)

// Options tune the conversion.
type Options struct {
	// KeepEmptyListItems keeps list items that have no text.
	KeepEmptyListItems bool
}

// Converter turns page HTML into markdown.
type Converter struct {
	logger hclog.Logger
	opts   Options
}

// NewConverter creates a Converter.
func NewConverter(logger hclog.Logger, opts Options) *Converter {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Converter{logger: logger.Named("markdown"), opts: opts}
}

// Convert converts HTML to markdown. baseURL is the site URL and is used to
// make site-relative links absolute. If the converter fails or produces
// nothing from non-empty input, the tag-stripped text is returned instead.
func (c *Converter) Convert(input, baseURL string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", nil
	}

	root := strings.TrimSuffix(strings.TrimRight(baseURL, "/"), "/wiki")
	cleaned := preprocess(input, root)

	conv := md.NewConverter(root, true, nil)
	conv.Use(plugin.GitHubFlavored())

	converted, err := conv.ConvertString(cleaned)
	if err != nil {
		c.logger.Warn("HTML to markdown conversion failed, using stripped text", "error", err)
		return StripTags(input), nil
	}

	out := strings.TrimSpace(postprocess(converted, c.opts))
	if out == "" {
		c.logger.Debug("HTML to markdown conversion produced empty output, using stripped text",
			"html_length", len(input))
		return StripTags(input), nil
	}
	return out, nil
}

// Convert is a convenience wrapper using default options.
func Convert(input, baseURL string) (string, error) {
	return NewConverter(nil, Options{}).Convert(input, baseURL)
}

var (
	styleRE  = regexp.MustCompile(`(?s)<style[^>]*>.*?</style>`)
	panelRE  = regexp.MustCompile(`(?s)<div class="panel[^"]*"[^>]*>\s*<div class="panelContent[^"]*"[^>]*>(.*?)</div>\s*</div>`)
	statusRE = regexp.MustCompile(`(?s)<span[^>]*class="[^"]*status-macro[^"]*"[^>]*>(.*?)</span>`)
	hrefRE   = regexp.MustCompile(`href="(/wiki[^"]*)"`)
	srcRE    = regexp.MustCompile(`src="(/wiki[^"]*)"`)
	imgRE    = regexp.MustCompile(`<img([^>]*?)(/?)>`)
	aliasRE  = regexp.MustCompile(`data-linked-resource-default-alias="([^"]+)"`)
	imgSrcRE = regexp.MustCompile(`(?:data-image-src|src)="([^"]+)"`)
	escapeRE = regexp.MustCompile(`\\u([0-9a-fA-F]{4})(?:\\u([0-9a-fA-F]{4}))?`)
	tagRE    = regexp.MustCompile(`<[^>]*>`)
	spaceRE  = regexp.MustCompile(`\s+`)
)

func preprocess(content, root string) string {
	content = styleRE.ReplaceAllString(content, "")
	content = panelRE.ReplaceAllString(content, "<blockquote>$1</blockquote>")
	content = statusRE.ReplaceAllString(content, "[$1]")
	if root != "" {
		content = hrefRE.ReplaceAllString(content, `href="`+root+`$1"`)
		content = srcRE.ReplaceAllString(content, `src="`+root+`$1"`)
	}
	content = addImageAltText(content)
	return DecodeUnicodeEscapes(content)
}

// addImageAltText gives images without alt text one taken from the attachment
// alias or the file name, so the markdown is readable.
func addImageAltText(content string) string {
	return imgRE.ReplaceAllStringFunc(content, func(tag string) string {
		m := imgRE.FindStringSubmatch(tag)
		attrs, closing := m[1], m[2]
		if strings.Contains(attrs, " alt=") {
			return tag
		}

		var alt string
		if a := aliasRE.FindStringSubmatch(attrs); a != nil {
			alt = a[1]
		} else if s := imgSrcRE.FindStringSubmatch(attrs); s != nil {
			alt = fileName(s[1])
		}
		if alt == "" {
			return tag
		}
		return fmt.Sprintf(`<img%s alt="%s"%s>`, attrs, strings.ReplaceAll(alt, `"`, "&quot;"), closing)
	})
}

func fileName(value string) string {
	value, _, _ = strings.Cut(value, "?")
	if i := strings.LastIndex(value, "/"); i >= 0 {
		return value[i+1:]
	}
	return value
}

// DecodeUnicodeEscapes replaces literal \uXXXX sequences, including surrogate
// pairs, with the characters they encode.
func DecodeUnicodeEscapes(s string) string {
	return escapeRE.ReplaceAllStringFunc(s, func(seq string) string {
		m := escapeRE.FindStringSubmatch(seq)
		hi, _ := strconv.ParseUint(m[1], 16, 16)
		if m[2] != "" {
			lo, _ := strconv.ParseUint(m[2], 16, 16)
			if utf16.IsSurrogate(rune(hi)) {
				if r := utf16.DecodeRune(rune(hi), rune(lo)); r != unicode.ReplacementChar {
					return string(r)
				}
			}
			return decodeSingle(rune(hi)) + decodeSingle(rune(lo))
		}
		return decodeSingle(rune(hi))
	})
}

func decodeSingle(r rune) string {
	if utf16.IsSurrogate(r) {
		return fmt.Sprintf(`\u%04X`, r)
	}
	return string(r)
}

// StripTags removes HTML tags, collapses whitespace and decodes entities.
func StripTags(s string) string {
	s = tagRE.ReplaceAllString(s, "")
	s = spaceRE.ReplaceAllString(s, " ")
	return strings.TrimSpace(html.UnescapeString(s))
}
