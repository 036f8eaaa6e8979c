package comment

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
	"github.com/hashicorp-forge/wikicli/pkg/client"
	"github.com/hashicorp-forge/wikicli/pkg/markdown"
	"github.com/hashicorp-forge/wikicli/pkg/models"
)

type AddCommand struct {
	*base.Command

	flagBody       string
	flagBodyFile   string
	flagBodyFormat string
	flagParent     string
	flagLocation   string
	flagInline     string
	flagDryRun     bool

	stdin io.Reader
}

func (c *AddCommand) Synopsis() string {
	return "Add a comment to a page"
}

func (c *AddCommand) Help() string {
	return `Usage: wikicli comment add [options] <page>

  Adds a comment to a page, or a reply when -parent is given. Markdown bodies
  are converted to the storage format before they are sent.

      $ wikicli comment add -body "Looks good" 12345
      $ wikicli comment add -body-format markdown -body-file notes.md ENG:Runbook` + c.Flags().Help()
}

func (c *AddCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("comment add")

	f.StringVar(&c.flagBody, "body", "", "Comment body.")
	f.StringVar(&c.flagBodyFile, "body-file", "", "Read the body from a file, or '-' for standard input.")
	f.StringVar(&c.flagBodyFormat, "body-format", "storage", "Body format: storage, html or markdown.")
	f.StringVar(&c.flagParent, "parent", "", "Reply to this comment id.")
	f.StringVar(&c.flagLocation, "location", "", "Comment location, e.g. footer or inline.")
	f.StringVar(&c.flagInline, "inline-properties", "", "Inline comment properties as JSON. Implies -location inline.")
	f.BoolVar(&c.flagDryRun, "dry-run", false, "Print what would be added.")

	return f
}

func (c *AddCommand) Run(args []string) int {
	f := c.Flags()
	if err := c.ParseFlags(f, args); err != nil {
		return c.FlagError(err)
	}
	if f.NArg() != 1 {
		c.UI.Error("expected exactly one page id or URL")
		return 1
	}

	s, err := c.Session()
	if err != nil {
		return c.Fail(err)
	}
	pageID, err := s.Resolver.ResolvePage(c.Context(), f.Arg(0))
	if err != nil {
		return c.Fail(err)
	}
	if c.flagDryRun {
		c.UI.Output("Would add comment on page " + pageID)
		return 0
	}

	payload, err := c.payload(pageID)
	if err != nil {
		return c.Fail(err)
	}

	var raw map[string]any
	if err := s.Client.PostJSON(c.Context(), s.Client.Endpoints().V1("/content"), payload, &raw); err != nil {
		return c.Fail(err)
	}
	var created models.Comment
	if err := client.Decode(raw, &created); err != nil {
		return c.Fail(err)
	}
	if c.JSON() {
		return c.PrintJSON(created)
	}
	c.PrintKV([][2]string{
		{"ID", created.ID},
		{"Status", created.Status},
	})
	return 0
}

func (c *AddCommand) payload(pageID string) (*models.CommentCreate, error) {
	body, err := c.body()
	if err != nil {
		return nil, err
	}

	p := &models.CommentCreate{
		Type:      "comment",
		Container: models.ContentRef{ID: pageID, Type: "page"},
		Body:      models.StorageBody{Storage: models.BodyValue{Representation: "storage", Value: body}},
	}
	if c.flagParent != "" {
		p.Ancestors = []models.ContentRef{{ID: c.flagParent}}
	}

	ext := map[string]any{}
	if loc := strings.TrimSpace(c.flagLocation); loc != "" {
		ext["location"] = loc
	}
	if c.flagInline != "" {
		var props any
		if err := json.Unmarshal([]byte(c.flagInline), &props); err != nil {
			return nil, fmt.Errorf("invalid -inline-properties JSON: %w", err)
		}
		ext["inlineProperties"] = props
		if _, ok := ext["location"]; !ok {
			ext["location"] = "inline"
		}
	}
	if len(ext) > 0 {
		p.Extensions = ext
	}
	return p, nil
}

// body reads the comment text and converts it to storage format.
func (c *AddCommand) body() (string, error) {
	text, err := base.ReadBody(c.Fs, c.stdin, c.flagBody, c.flagBodyFile)
	if err != nil {
		return "", err
	}

	switch strings.ToLower(strings.TrimSpace(c.flagBodyFormat)) {
	case "storage", "html":
		return text, nil
	case "markdown", "md":
		return markdown.ToStorage(text)
	default:
		return "", fmt.Errorf("invalid body format %q, use storage, html or markdown", c.flagBodyFormat)
	}
}
