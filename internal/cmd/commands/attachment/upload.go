package attachment

import (
	"fmt"
	"strings"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
	"github.com/hashicorp-forge/wikicli/pkg/transfer"
)

type UploadCommand struct {
	*base.Command

	flagComment     string
	flagConcurrency int
	flagYes         bool
}

func (c *UploadCommand) Synopsis() string {
	return "Attach files to a page"
}

func (c *UploadCommand) Help() string {
	return `Usage: wikicli attachment upload [options] <page> <file>...

  Uploads one or more files as attachments of a page. Files larger than 5 MB
  are only uploaded after confirmation, or with -yes.` + c.Flags().Help()
}

func (c *UploadCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("attachment upload")

	f.StringVar(&c.flagComment, "comment", "", "Comment stored with each attachment.")
	f.IntVar(&c.flagConcurrency, "concurrency", 4, "Number of parallel uploads.")
	f.BoolVar(&c.flagYes, "yes", false, "Upload large files without asking.")

	return f
}

func (c *UploadCommand) Run(args []string) int {
	f := c.Flags()
	if err := c.ParseFlags(f, args); err != nil {
		return c.FlagError(err)
	}
	if f.NArg() < 2 {
		c.UI.Error("expected a page id or URL followed by at least one file")
		return 1
	}

	s, err := c.Session()
	if err != nil {
		return c.Fail(err)
	}
	id, err := s.Resolver.ResolvePage(c.Context(), f.Arg(0))
	if err != nil {
		return c.Fail(err)
	}

	up := transfer.NewUploader(s.Client, c.Fs, c.Confirmer())
	approved, skipped, err := up.Approve(f.Args()[1:], c.flagYes)
	if err != nil {
		return c.Fail(err)
	}
	if len(skipped) > 0 {
		c.UI.Warn("Skipped: " + strings.Join(skipped, ", "))
	}
	if len(approved) == 0 {
		c.Info("Nothing to upload.")
		return 0
	}

	results, err := up.UploadAll(c.Context(), id, approved, c.flagComment, max(c.flagConcurrency, 1))
	if err != nil {
		return c.Fail(err)
	}
	if c.JSON() {
		return c.PrintJSON(results)
	}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{r.ID, r.Title})
	}
	c.PrintTable([]string{"ID", "Title"}, rows)
	c.Info(fmt.Sprintf("Uploaded %d file(s) to page %s", len(results), id))
	return 0
}
