package attachment

import (
	"net/url"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
	"github.com/hashicorp-forge/wikicli/pkg/models"
	"github.com/hashicorp-forge/wikicli/pkg/transfer"
)

type GetCommand struct {
	*base.Command
}

func (c *GetCommand) Synopsis() string {
	return "Show attachment metadata"
}

func (c *GetCommand) Help() string {
	return `Usage: wikicli attachment get [options] <attachment-id>

  Shows the metadata of one attachment.` + c.Flags().Help()
}

func (c *GetCommand) Flags() *base.FlagSet {
	return c.NewFlagSet("attachment get")
}

func (c *GetCommand) Run(args []string) int {
	f := c.Flags()
	if err := c.ParseFlags(f, args); err != nil {
		return c.FlagError(err)
	}
	if f.NArg() != 1 {
		c.UI.Error("expected exactly one attachment id")
		return 1
	}

	cl, err := c.Client()
	if err != nil {
		return c.Fail(err)
	}
	var a models.Attachment
	if err := cl.GetJSON(c.Context(), cl.Endpoints().V2("/attachments/"+url.PathEscape(f.Arg(0))), &a); err != nil {
		return c.Fail(err)
	}
	if c.JSON() {
		return c.PrintJSON(a)
	}

	download, _ := transfer.AttachmentDownloadURL(cl.Endpoints(), a.DownloadPath())
	c.PrintKV([][2]string{
		{"ID", a.ID},
		{"Title", a.Title},
		{"Type", a.MediaType},
		{"Size", a.HumanSize()},
		{"Page", a.PageID},
		{"Created", base.FormatTime(a.Created())},
		{"Download", download},
	})
	return 0
}
