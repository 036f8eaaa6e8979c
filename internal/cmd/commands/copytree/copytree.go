package copytree

import (
	"fmt"
	"time"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
	"github.com/hashicorp-forge/wikicli/pkg/tree"
)

type Command struct {
	*base.Command

	flagTitle       string
	flagSuffix      string
	flagExclude     string
	flagMaxDepth    int
	flagDelay       time.Duration
	flagConcurrency int
	flagDryRun      bool
}

func (c *Command) Synopsis() string {
	return "Copy a page and its descendants"
}

func (c *Command) Help() string {
	return `Usage: wikicli copy-tree [options] <source> <target-parent> [title]

  Copies the source page and everything below it under target-parent. The
  copies are created parent first, so each copy lands under the copy of its
  original parent. Pages matching -exclude are skipped together with their
  descendants.

  If a create fails the command stops and lists the pages created so far.

      $ wikicli copy-tree -exclude 'draft*' -dry-run 12345 67890` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := c.NewFlagSet("copy-tree")

	f.StringVar(&c.flagTitle, "title", "", "Title of the root copy.")
	f.StringVar(&c.flagSuffix, "suffix", tree.DefaultCopySuffix, "Appended to every copied title.")
	f.StringVar(&c.flagExclude, "exclude", "", "Skip pages whose title matches this glob, and their descendants.")
	f.IntVar(&c.flagMaxDepth, "max-depth", 0, "Stop descending at this depth. 0 means unlimited.")
	f.DurationVar(&c.flagDelay, "delay", 0, "Pause after each page create, e.g. 200ms.")
	f.IntVar(&c.flagConcurrency, "concurrency", tree.DefaultConcurrency, "Number of parallel body fetches.")
	f.BoolVar(&c.flagDryRun, "dry-run", false, "Print the pages that would be created.")

	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := c.ParseFlags(f, args); err != nil {
		return c.FlagError(err)
	}
	if f.NArg() < 2 || f.NArg() > 3 {
		c.UI.Error("expected a source page, a target parent page and an optional title")
		return 1
	}
	title := c.flagTitle
	if f.NArg() == 3 {
		if title != "" {
			c.UI.Error("give the title either as -title or as an argument, not both")
			return 1
		}
		title = f.Arg(2)
	}

	s, err := c.Session()
	if err != nil {
		return c.Fail(err)
	}
	sourceID, err := s.Resolver.ResolvePage(c.Context(), f.Arg(0))
	if err != nil {
		return c.Fail(err)
	}
	targetID, err := s.Resolver.ResolvePage(c.Context(), f.Arg(1))
	if err != nil {
		return c.Fail(err)
	}

	res, err := tree.NewReplicator(s.Client).Copy(c.Context(), tree.CopyOptions{
		SourceID:       sourceID,
		TargetParentID: targetID,
		Title:          title,
		Suffix:         c.flagSuffix,
		Exclude:        c.flagExclude,
		MaxDepth:       c.flagMaxDepth,
		Concurrency:    max(c.flagConcurrency, 1),
		Delay:          c.flagDelay,
		DryRun:         c.flagDryRun,
	})
	if err != nil {
		if res != nil && len(res.Created) > 0 {
			c.UI.Warn(fmt.Sprintf("Created %d page(s) before the failure:", len(res.Created)))
			for _, cp := range res.Created {
				c.UI.Warn(fmt.Sprintf("  %s -> %s (%s)", cp.SourceID, cp.Page.ID, cp.Page.Title))
			}
		}
		return c.Fail(err)
	}

	if c.flagDryRun {
		if c.JSON() {
			return c.PrintJSON(res.Plan)
		}
		for _, p := range res.Plan {
			c.UI.Output(p.String())
		}
		if res.Excluded > 0 {
			c.Info(fmt.Sprintf("Excluded %d page(s)", res.Excluded))
		}
		return 0
	}

	if c.JSON() {
		return c.PrintJSON(res)
	}
	rootCopy := res.Mapping[sourceID]
	c.PrintKV([][2]string{
		{"Source", sourceID},
		{"TargetParent", targetID},
		{"RootCopy", rootCopy},
		{"Created", fmt.Sprint(len(res.Created))},
		{"Excluded", fmt.Sprint(res.Excluded)},
	})
	return 0
}
