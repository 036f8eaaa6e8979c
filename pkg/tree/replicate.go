package tree

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/wikicli/pkg/client"
	"github.com/hashicorp-forge/wikicli/pkg/models"
	"github.com/hashicorp-forge/wikicli/pkg/transfer"
)

const (
	// DefaultCopySuffix is appended to every copied title.
	DefaultCopySuffix = " (Copy)"

	// DefaultConcurrency bounds concurrent body fetches.
	DefaultConcurrency = 8
)

// CopyOptions configure a tree copy.
type CopyOptions struct {
	SourceID       string
	TargetParentID string

	// Title overrides the title of the root copy.
	Title string

	// Suffix is appended to copied titles. The root only gets it when Title
	// is empty.
	Suffix string

	// Exclude is a glob matched against descendant titles. Matching pages
	// and everything below them are skipped.
	Exclude string

	MaxDepth    int
	Concurrency int

	// Delay is the pause after each page create.
	Delay time.Duration

	DryRun bool
}

// Planned is one page a dry run would have created.
type Planned struct {
	SourceID string `json:"sourceId"`
	Title    string `json:"title"`

	// Parent is the target parent id, or "(copy of <id>)" for pages whose
	// parent is itself a copy.
	Parent string `json:"parent"`
}

func (p Planned) String() string {
	return fmt.Sprintf("Would create '%s' under %s", p.Title, p.Parent)
}

// Copied pairs a source page id with the page created from it.
type Copied struct {
	SourceID string      `json:"sourceId"`
	Page     models.Page `json:"page"`
}

// CopyResult reports a tree copy. On failure it holds whatever was created
// before the error.
type CopyResult struct {
	SourceID       string            `json:"sourceId"`
	TargetParentID string            `json:"targetParentId"`
	Mapping        map[string]string `json:"mapping"`
	Created        []Copied          `json:"created"`
	Plan           []Planned         `json:"plan,omitempty"`
	Excluded       int               `json:"excluded"`
}

// Replicator copies a page and its descendants under another page.
type Replicator struct {
	client *client.Client
	log    hclog.Logger
}

// NewReplicator creates a Replicator.
func NewReplicator(c *client.Client) *Replicator {
	return &Replicator{client: c, log: c.Logger().Named("replicate")}
}

// Copy discovers the source tree, fetches bodies concurrently and then
// creates copies strictly parent before child. In dry-run mode nothing is
// written and the returned Plan lists the creates in the order they would
// have happened.
func (r *Replicator) Copy(ctx context.Context, opts CopyOptions) (*CopyResult, error) {
	if opts.SourceID == "" || opts.TargetParentID == "" {
		return nil, errors.New("source and target parent page ids are required")
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}

	var exclude *regexp.Regexp
	if opts.Exclude != "" {
		re, err := CompileGlob(opts.Exclude)
		if err != nil {
			return nil, err
		}
		exclude = re
	}

	target, err := FetchPage(ctx, r.client, opts.TargetParentID, "")
	if err != nil {
		return nil, err
	}
	if target.SpaceID == "" {
		return nil, fmt.Errorf("target parent %s has no space id", opts.TargetParentID)
	}

	root, err := FetchPage(ctx, r.client, opts.SourceID, "storage")
	if err != nil {
		return nil, err
	}

	nodes, err := Discover(ctx, r.client, opts.SourceID, DiscoverOptions{MaxDepth: opts.MaxDepth})
	if err != nil {
		return nil, err
	}
	blocked := Blocked(nodes, exclude)

	bodies, err := r.prefetch(ctx, nodes, blocked, opts.Concurrency)
	if err != nil {
		return nil, err
	}
	bodies[opts.SourceID] = root.BodyValue("storage")

	r.log.Debug("copying tree", "source", opts.SourceID, "target", opts.TargetParentID,
		"pages", len(nodes)+1-len(blocked), "excluded", len(blocked), "dry_run", opts.DryRun)

	result := &CopyResult{
		SourceID:       opts.SourceID,
		TargetParentID: opts.TargetParentID,
		Mapping:        make(map[string]string),
		Created:        []Copied{},
		Excluded:       len(blocked),
	}

	children := ChildrenMap(nodes, blocked)
	stack := []Node{{ID: opts.SourceID, Title: root.Title}}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		title := n.Title + opts.Suffix
		parent := opts.TargetParentID
		if n.Depth == 0 {
			if opts.Title != "" {
				title = opts.Title
			}
		} else {
			mapped, ok := result.Mapping[n.ParentID]
			if !ok {
				return result, fmt.Errorf("no copy recorded for parent %s of page %s", n.ParentID, n.ID)
			}
			parent = mapped
		}

		if opts.DryRun {
			plan := Planned{SourceID: n.ID, Title: title, Parent: parent}
			if n.Depth > 0 {
				plan.Parent = fmt.Sprintf("(copy of %s)", n.ParentID)
			}
			result.Plan = append(result.Plan, plan)
			result.Mapping[n.ID] = "<dry-run:" + n.ID + ">"
		} else {
			created, err := r.create(ctx, models.PageCreate{
				SpaceID:  target.SpaceID,
				Status:   "current",
				Title:    title,
				ParentID: parent,
				Body:     models.BodyRepresents{Representation: "storage", Value: bodies[n.ID]},
			})
			if err != nil {
				return result, fmt.Errorf("error creating copy of page %s: %w", n.ID, err)
			}
			result.Mapping[n.ID] = created.ID
			result.Created = append(result.Created, Copied{SourceID: n.ID, Page: created})
			r.log.Debug("created page", "source", n.ID, "id", created.ID, "title", title)
			if err := pause(ctx, opts.Delay); err != nil {
				return result, err
			}
		}

		kids := children[n.ID]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	return result, nil
}

// prefetch fetches the storage body of every copied descendant.
func (r *Replicator) prefetch(ctx context.Context, nodes []Node, blocked map[string]bool, concurrency int) (map[string]string, error) {
	var ids []string
	var tasks []transfer.Task[string]
	for _, n := range nodes {
		if blocked[n.ID] {
			continue
		}
		ids = append(ids, n.ID)
		tasks = append(tasks, func(ctx context.Context) (string, error) {
			page, err := FetchPage(ctx, r.client, n.ID, "storage")
			if err != nil {
				return "", err
			}
			return page.BodyValue("storage"), nil
		})
	}

	results, err := transfer.Run(ctx, concurrency, tasks)
	if err != nil {
		return nil, err
	}
	bodies := make(map[string]string, len(results)+1)
	for _, res := range results {
		bodies[ids[res.Index]] = res.Value
	}
	return bodies, nil
}

// pause waits d or until ctx is done.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (r *Replicator) create(ctx context.Context, payload models.PageCreate) (models.Page, error) {
	var page models.Page
	if err := r.client.PostJSON(ctx, r.client.Endpoints().V2("/pages"), payload, &page); err != nil {
		return models.Page{}, err
	}
	if page.ID == "" {
		return models.Page{}, fmt.Errorf("create response for '%s' has no page id", payload.Title)
	}
	return page, nil
}
