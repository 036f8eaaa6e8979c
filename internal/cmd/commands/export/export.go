package export

import (
	"fmt"
	"strings"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
	"github.com/hashicorp-forge/wikicli/pkg/bodyformat"
	"github.com/hashicorp-forge/wikicli/pkg/tree"
)

type Command struct {
	*base.Command

	flagDest            string
	flagFormat          bodyformat.Format
	flagSkipAttachments bool
	flagPattern         string
	flagRecursive       bool
	flagMaxDepth        int
	flagConcurrency     int
}

func (c *Command) Synopsis() string {
	return "Export a page to disk"
}

func (c *Command) Help() string {
	return `Usage: wikicli export [options] <page>

  Writes a page into <dest>/<title>--<id>/ with a meta.json file, the body in
  the chosen format and an attachments/ folder. With -recursive every
  descendant is written into a folder nested below its parent.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := c.NewFlagSet("export")

	c.flagFormat = bodyformat.Markdown
	f.StringVar(&c.flagDest, "dest", ".", "Directory to export into.")
	f.Var(&c.flagFormat, "format", "Body format: markdown, view, storage or adf.")
	f.BoolVar(&c.flagSkipAttachments, "skip-attachments", false, "Do not download attachments.")
	f.StringVar(&c.flagPattern, "pattern", "", "Only download attachments whose title matches this glob.")
	f.BoolVar(&c.flagRecursive, "recursive", false, "Export descendants too.")
	f.IntVar(&c.flagMaxDepth, "max-depth", 0, "With -recursive, stop descending at this depth. 0 means unlimited.")
	f.IntVar(&c.flagConcurrency, "concurrency", tree.DefaultConcurrency, "Number of parallel requests.")

	return f
}

func (c *Command) Run(args []string) int {
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
	id, err := s.Resolver.ResolvePage(c.Context(), f.Arg(0))
	if err != nil {
		return c.Fail(err)
	}

	exported, err := tree.NewExporter(s.Client, s.Resolver, c.Fs).Export(c.Context(), tree.ExportOptions{
		PageID:          id,
		Dest:            c.flagDest,
		Format:          c.flagFormat,
		SkipAttachments: c.flagSkipAttachments,
		Attachments:     c.flagPattern,
		Recursive:       c.flagRecursive,
		MaxDepth:        c.flagMaxDepth,
		Concurrency:     max(c.flagConcurrency, 1),
	})
	if err != nil {
		return c.Fail(err)
	}
	if c.JSON() {
		return c.PrintJSON(exported)
	}

	if len(exported) == 1 {
		e := exported[0]
		c.PrintKV([][2]string{
			{"Dir", e.Dir},
			{"Content", e.Content},
			{"Attachments", fmt.Sprint(len(e.Attachments))},
		})
		return 0
	}
	rows := make([][]string, 0, len(exported))
	for _, e := range exported {
		rows = append(rows, []string{e.ID, e.Title, e.Dir, fmt.Sprint(len(e.Attachments))})
	}
	c.PrintTable([]string{"ID", "Title", "Dir", "Attachments"}, rows)
	c.Info(fmt.Sprintf("Exported %d page(s) to %s", len(exported), strings.TrimRight(c.flagDest, "/")))
	return 0
}
