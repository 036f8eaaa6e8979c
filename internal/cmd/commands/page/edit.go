package page

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/afero"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
	"github.com/hashicorp-forge/wikicli/pkg/bodyformat"
	"github.com/hashicorp-forge/wikicli/pkg/client"
	"github.com/hashicorp-forge/wikicli/pkg/models"
)

type EditCommand struct {
	*base.Command

	flagFormat string
	flagDiff   bool
	flagYes    bool

	// edit opens path in an editor and returns once it exits.
	edit func(path string) error
}

func (c *EditCommand) Synopsis() string {
	return "Edit a page body in $EDITOR"
}

func (c *EditCommand) Help() string {
	return `Usage: wikicli page edit [options] <page>

  Opens the page body in $EDITOR (then $VISUAL, then vi) and publishes the
  result as a new version. Nothing is published when the body is unchanged,
  or when someone else published a version while the editor was open.` + c.Flags().Help()
}

func (c *EditCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("page edit")

	f.StringVar(&c.flagFormat, "format", "storage", "Body format to edit: storage or adf.")
	f.BoolVar(&c.flagDiff, "diff", false, "Show a unified diff before saving.")
	f.BoolVar(&c.flagYes, "yes", false, "Save without asking for confirmation.")

	return f
}

func (c *EditCommand) Run(args []string) int {
	f := c.Flags()
	if err := c.ParseFlags(f, args); err != nil {
		return c.FlagError(err)
	}
	if f.NArg() != 1 {
		c.UI.Error("expected exactly one page id or URL")
		return 1
	}
	format, err := bodyformat.ParseWritable(c.flagFormat)
	if err != nil {
		return c.Fail(err)
	}
	representation := format.APIValue()

	s, err := c.Session()
	if err != nil {
		return c.Fail(err)
	}
	id, err := s.Resolver.ResolvePage(c.Context(), f.Arg(0))
	if err != nil {
		return c.Fail(err)
	}

	var current models.Page
	getURL := s.Client.Endpoints().V2(pagePath(id) + "?body-format=" + url.QueryEscape(representation))
	if err := s.Client.GetJSON(c.Context(), getURL, &current); err != nil {
		return c.Fail(err)
	}
	if current.Version == nil {
		return c.Fail(fmt.Errorf("page %s has no version number", id))
	}

	original := current.BodyValue(representation)
	ext := "html"
	if format == bodyformat.ADF {
		original, ext = prettyJSON(original), "json"
	}

	edited, err := c.editText(id, ext, original)
	if err != nil {
		return c.Fail(err)
	}
	if edited == original {
		c.UI.Output("No changes.")
		return 0
	}

	if c.flagDiff {
		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(original),
			B:        difflib.SplitLines(edited),
			FromFile: "page " + id + " (current)",
			ToFile:   "page " + id + " (edited)",
			Context:  3,
		})
		if err != nil {
			return c.Fail(err)
		}
		c.UI.Output(strings.TrimRight(diff, "\n"))
	}
	if !c.flagYes {
		ok, err := c.Confirmer().Confirm("Save changes?")
		if err != nil {
			return c.Failf("%v. Use -yes to skip confirmation in non-interactive shells", err)
		}
		if !ok {
			c.UI.Output("Cancelled.")
			return 0
		}
	}

	// The editor may have been open for a while.
	var latest models.Page
	if err := s.Client.GetJSON(c.Context(), s.Client.Endpoints().V2(pagePath(id)), &latest); err != nil {
		return c.Fail(err)
	}
	if latest.VersionNumber() != current.VersionNumber() {
		return c.Fail(fmt.Errorf("page %s is now at version %d (was %d), run 'wikicli page edit' again",
			id, latest.VersionNumber(), current.VersionNumber()))
	}

	value := edited
	if format == bodyformat.ADF {
		value = compactJSON(edited)
	}
	status := current.Status
	if status == "" {
		status = "current"
	}
	payload := models.PageUpdate{
		ID:      id,
		Title:   current.Title,
		Status:  status,
		Body:    models.BodyRepresents{Representation: representation, Value: value},
		Version: models.Version{Number: current.VersionNumber() + 1},
	}

	var updated models.Page
	if err := s.Client.PutJSON(c.Context(), s.Client.Endpoints().V2(pagePath(id)), payload, &updated); err != nil {
		if client.IsConflict(err) {
			return c.Fail(fmt.Errorf("page %s changed since version %d was read, run 'wikicli page edit' again: %w",
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
		{"Version", fmt.Sprint(updated.VersionNumber())},
		{"URL", updated.WebURL(s.Client.Endpoints().SiteURL)},
	})
	return 0
}

// editText writes text to a temporary file, runs the editor on it and
// returns the saved content. The file is removed afterwards.
func (c *EditCommand) editText(id, ext, text string) (string, error) {
	tmp, err := afero.TempFile(c.Fs, "", "wikicli-edit-"+id+"-*."+ext)
	if err != nil {
		return "", client.LocalError("create", "temporary file", err)
	}
	path := tmp.Name()
	defer func() { _ = c.Fs.Remove(path) }()

	if _, err := tmp.WriteString(text); err != nil {
		_ = tmp.Close()
		return "", client.LocalError("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", client.LocalError("write", path, err)
	}

	edit := c.edit
	if edit == nil {
		edit = runEditor
	}
	if err := edit(path); err != nil {
		return "", err
	}

	out, err := afero.ReadFile(c.Fs, path)
	if err != nil {
		return "", client.LocalError("read", path, err)
	}
	return string(out), nil
}

// runEditor runs $EDITOR, then $VISUAL, then vi on path. The variable may
// carry arguments, e.g. "code --wait".
func runEditor(path string) error {
	editor := "vi"
	for _, name := range []string{"EDITOR", "VISUAL"} {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			editor = v
			break
		}
	}
	words, err := shellquote.Split(editor)
	if err != nil {
		return fmt.Errorf("unable to parse editor command %q: %w", editor, err)
	}
	if len(words) == 0 {
		return errors.New("empty editor command")
	}

	cmd := exec.Command(words[0], append(words[1:], path)...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %s failed: %w", words[0], err)
	}
	return nil
}

func prettyJSON(s string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(s), "", "  "); err != nil {
		return s
	}
	return buf.String()
}

func compactJSON(s string) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(s)); err != nil {
		return s
	}
	return buf.String()
}
