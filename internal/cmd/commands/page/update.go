package page

import (
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
	"github.com/hashicorp-forge/wikicli/pkg/bodyformat"
	"github.com/hashicorp-forge/wikicli/pkg/client"
	"github.com/hashicorp-forge/wikicli/pkg/models"
)

type UpdateCommand struct {
	*base.Command

	flagTitle      string
	flagParent     string
	flagStatus     string
	flagBody       string
	flagBodyFile   string
	flagBodyFormat string
	bodyFormat     bodyformat.Format
	flagMessage    string
	flagDryRun     bool

	stdin io.Reader
}

func (c *UpdateCommand) Synopsis() string {
	return "Update a page"
}

func (c *UpdateCommand) Help() string {
	return `Usage: wikicli page update [options] <page>

  Publishes a new version of a page. Fields that are not given keep their
  current value. If someone else published a version in the meantime the
  update fails with a conflict and nothing is changed.` + c.Flags().Help()
}

func (c *UpdateCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("page update")

	f.StringVar(&c.flagTitle, "title", "", "New title.")
	f.StringVar(&c.flagParent, "parent", "", "Move the page below this page id or URL.")
	f.StringVar(&c.flagStatus, "status", "", "New status.")
	f.StringVar(&c.flagBody, "body", "", "New body.")
	f.StringVar(&c.flagBodyFile, "body-file", "", "Read the new body from a file, or '-' for standard input.")
	f.StringVar(&c.flagBodyFormat, "body-format", "storage", "Representation of the body: storage or adf.")
	f.StringVar(&c.flagMessage, "message", "", "Version message.")
	f.BoolVar(&c.flagDryRun, "dry-run", false, "Print the version that would be published.")

	return f
}

func (c *UpdateCommand) nothingToUpdate() bool {
	return c.flagTitle == "" && c.flagParent == "" && c.flagStatus == "" &&
		c.flagBody == "" && c.flagBodyFile == "" && c.flagMessage == ""
}

func (c *UpdateCommand) Run(args []string) int {
	f := c.Flags()
	if err := c.ParseFlags(f, args); err != nil {
		return c.FlagError(err)
	}
	if f.NArg() != 1 {
		c.UI.Error("expected exactly one page id or URL")
		return 1
	}
	format, err := bodyformat.ParseWritable(c.flagBodyFormat)
	if err != nil {
		return c.Fail(err)
	}
	c.bodyFormat = format
	if c.nothingToUpdate() {
		return c.Fail(errors.New("Nothing to update. Provide at least one of -title, -parent, -status, -body/-body-file, or -message."))
	}

	s, err := c.Session()
	if err != nil {
		return c.Fail(err)
	}
	id, err := s.Resolver.ResolvePage(c.Context(), f.Arg(0))
	if err != nil {
		return c.Fail(err)
	}

	var current models.Page
	getURL := s.Client.Endpoints().V2(pagePath(id) + "?body-format=" + url.QueryEscape(c.bodyFormat.APIValue()))
	if err := s.Client.GetJSON(c.Context(), getURL, &current); err != nil {
		return c.Fail(err)
	}
	if current.Version == nil {
		return c.Fail(fmt.Errorf("page %s has no version number", id))
	}
	next := current.VersionNumber() + 1

	if c.flagDryRun {
		c.UI.Output(fmt.Sprintf("Would update page %s to version %d", id, next))
		return 0
	}

	payload := models.PageUpdate{
		ID:      id,
		Title:   current.Title,
		Status:  current.Status,
		Version: models.Version{Number: next, Message: c.flagMessage},
	}
	if c.flagTitle != "" {
		payload.Title = c.flagTitle
	}
	if payload.Title == "" {
		return c.Fail(errors.New("title is required"))
	}
	if c.flagStatus != "" {
		payload.Status = c.flagStatus
	}
	if payload.Status == "" {
		payload.Status = "current"
	}

	body := current.BodyValue(c.bodyFormat.APIValue())
	if c.flagBody != "" || c.flagBodyFile != "" {
		if body, err = base.ReadBody(c.Fs, c.stdin, c.flagBody, c.flagBodyFile); err != nil {
			return c.Fail(err)
		}
	} else if current.Body == nil {
		return c.Fail(errors.New("missing body content for update"))
	}
	payload.Body = models.BodyRepresents{Representation: c.bodyFormat.APIValue(), Value: body}

	if c.flagParent != "" {
		if payload.ParentID, err = s.Resolver.ResolvePage(c.Context(), c.flagParent); err != nil {
			return c.Fail(err)
		}
	}

	var updated models.Page
	if err := s.Client.PutJSON(c.Context(), s.Client.Endpoints().V2(pagePath(id)), payload, &updated); err != nil {
		if client.IsConflict(err) {
			return c.Fail(fmt.Errorf("page %s changed since version %d was read, fetch it again and retry: %w",
				id, current.VersionNumber(), err))
		}
		return c.Fail(err)
	}
	if c.JSON() {
		return c.PrintJSON(updated)
	}
	c.PrintKV([][2]string{
		{"ID", updated.ID},
		{"Title", updated.Title},
		{"Status", updated.Status},
		{"Version", fmt.Sprint(updated.VersionNumber())},
		{"URL", updated.WebURL(s.Client.Endpoints().SiteURL)},
	})
	return 0
}
