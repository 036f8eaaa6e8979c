package attachment

import (
	"fmt"
	"regexp"

	"github.com/dustin/go-humanize"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
	"github.com/hashicorp-forge/wikicli/pkg/transfer"
	"github.com/hashicorp-forge/wikicli/pkg/tree"
)

type DownloadCommand struct {
	*base.Command

	flagDest        string
	flagPattern     string
	flagConcurrency int
}

func (c *DownloadCommand) Synopsis() string {
	return "Download the attachments of a page"
}

func (c *DownloadCommand) Help() string {
	return `Usage: wikicli attachment download [options] <page>

  Downloads the attachments of a page into a directory. Existing files are
  kept; a download whose name is taken is saved as "name (1).ext" and so on.
  A file only appears once it has been received completely.` + c.Flags().Help()
}

func (c *DownloadCommand) Flags() *base.FlagSet {
	f := c.NewFlagSet("attachment download")

	f.StringVar(&c.flagDest, "dest", ".", "Directory to write to.")
	f.StringVar(&c.flagPattern, "pattern", "", "Only download attachments whose title matches this glob.")
	f.IntVar(&c.flagConcurrency, "concurrency", 4, "Number of parallel downloads.")

	return f
}

func (c *DownloadCommand) Run(args []string) int {
	f := c.Flags()
	if err := c.ParseFlags(f, args); err != nil {
		return c.FlagError(err)
	}
	if f.NArg() != 1 {
		c.UI.Error("expected exactly one page id or URL")
		return 1
	}

	var filter *regexp.Regexp
	if c.flagPattern != "" {
		re, err := tree.CompileGlob(c.flagPattern)
		if err != nil {
			return c.Fail(err)
		}
		filter = re
	}

	s, err := c.Session()
	if err != nil {
		return c.Fail(err)
	}
	id, err := s.Resolver.ResolvePage(c.Context(), f.Arg(0))
	if err != nil {
		return c.Fail(err)
	}

	items, err := tree.ListAttachments(c.Context(), s.Client, id)
	if err != nil {
		return c.Fail(err)
	}
	downloads, err := tree.PlanDownloads(s.Client.Endpoints(), c.Fs, items, c.flagDest, filter)
	if err != nil {
		return c.Fail(err)
	}
	if len(downloads) == 0 {
		c.Info("No attachments to download.")
		return 0
	}

	done, err := transfer.NewDownloader(s.Client, c.Fs).DownloadAll(c.Context(), downloads, max(c.flagConcurrency, 1))
	if err != nil {
		return c.Fail(err)
	}
	if c.JSON() {
		return c.PrintJSON(done)
	}
	rows := make([][]string, 0, len(done))
	for _, d := range done {
		rows = append(rows, []string{d.Dest, humanize.Bytes(uint64(d.Bytes))})
	}
	c.PrintTable([]string{"File", "Size"}, rows)
	c.Info(fmt.Sprintf("Downloaded %d attachment(s) to %s", len(done), c.flagDest))
	return 0
}
