package cmd

import (
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/wikicli/internal/cmd/base"
	"github.com/hashicorp-forge/wikicli/internal/cmd/commands/attachment"
	"github.com/hashicorp-forge/wikicli/internal/cmd/commands/auth"
	"github.com/hashicorp-forge/wikicli/internal/cmd/commands/comment"
	"github.com/hashicorp-forge/wikicli/internal/cmd/commands/copytree"
	"github.com/hashicorp-forge/wikicli/internal/cmd/commands/export"
	"github.com/hashicorp-forge/wikicli/internal/cmd/commands/label"
	"github.com/hashicorp-forge/wikicli/internal/cmd/commands/page"
	"github.com/hashicorp-forge/wikicli/internal/cmd/commands/search"
	"github.com/hashicorp-forge/wikicli/internal/cmd/commands/space"
	"github.com/hashicorp-forge/wikicli/internal/cmd/commands/version"
)

// Commands is the mapping of all available commands.
var Commands map[string]cli.CommandFactory

func initCommands(b *base.Command) {
	Commands = map[string]cli.CommandFactory{
		"auth": func() (cli.Command, error) {
			return &auth.Command{Command: b}, nil
		},
		"auth login": func() (cli.Command, error) {
			return &auth.LoginCommand{Command: b}, nil
		},
		"auth status": func() (cli.Command, error) {
			return &auth.StatusCommand{Command: b}, nil
		},
		"auth logout": func() (cli.Command, error) {
			return &auth.LogoutCommand{Command: b}, nil
		},

		"space": func() (cli.Command, error) {
			return &space.Command{Command: b}, nil
		},
		"space list": func() (cli.Command, error) {
			return &space.ListCommand{Command: b}, nil
		},
		"space get": func() (cli.Command, error) {
			return &space.GetCommand{Command: b}, nil
		},
		"space pages": func() (cli.Command, error) {
			return &space.PagesCommand{Command: b}, nil
		},
		"space create": func() (cli.Command, error) {
			return &space.CreateCommand{Command: b}, nil
		},
		"space delete": func() (cli.Command, error) {
			return &space.DeleteCommand{Command: b}, nil
		},

		"page": func() (cli.Command, error) {
			return &page.Command{Command: b}, nil
		},
		"page get": func() (cli.Command, error) {
			return &page.GetCommand{Command: b}, nil
		},
		"page list": func() (cli.Command, error) {
			return &page.ListCommand{Command: b}, nil
		},
		"page children": func() (cli.Command, error) {
			return &page.ChildrenCommand{Command: b}, nil
		},
		"page tree": func() (cli.Command, error) {
			return &page.TreeCommand{Command: b}, nil
		},
		"page body": func() (cli.Command, error) {
			return &page.BodyCommand{Command: b}, nil
		},
		"page open": func() (cli.Command, error) {
			return &page.OpenCommand{Command: b}, nil
		},
		"page create": func() (cli.Command, error) {
			return &page.CreateCommand{Command: b}, nil
		},
		"page update": func() (cli.Command, error) {
			return &page.UpdateCommand{Command: b}, nil
		},
		"page edit": func() (cli.Command, error) {
			return &page.EditCommand{Command: b}, nil
		},
		"page history": func() (cli.Command, error) {
			return &page.HistoryCommand{Command: b}, nil
		},
		"page delete": func() (cli.Command, error) {
			return &page.DeleteCommand{Command: b}, nil
		},

		"attachment": func() (cli.Command, error) {
			return &attachment.Command{Command: b}, nil
		},
		"attachment list": func() (cli.Command, error) {
			return &attachment.ListCommand{Command: b}, nil
		},
		"attachment get": func() (cli.Command, error) {
			return &attachment.GetCommand{Command: b}, nil
		},
		"attachment download": func() (cli.Command, error) {
			return &attachment.DownloadCommand{Command: b}, nil
		},
		"attachment upload": func() (cli.Command, error) {
			return &attachment.UploadCommand{Command: b}, nil
		},
		"attachment delete": func() (cli.Command, error) {
			return &attachment.DeleteCommand{Command: b}, nil
		},

		"comment": func() (cli.Command, error) {
			return &comment.Command{Command: b}, nil
		},
		"comment list": func() (cli.Command, error) {
			return &comment.ListCommand{Command: b}, nil
		},
		"comment add": func() (cli.Command, error) {
			return &comment.AddCommand{Command: b}, nil
		},
		"comment delete": func() (cli.Command, error) {
			return &comment.DeleteCommand{Command: b}, nil
		},

		"label": func() (cli.Command, error) {
			return &label.Command{Command: b}, nil
		},
		"label list": func() (cli.Command, error) {
			return &label.ListCommand{Command: b}, nil
		},
		"label add": func() (cli.Command, error) {
			return &label.AddCommand{Command: b}, nil
		},
		"label remove": func() (cli.Command, error) {
			return &label.RemoveCommand{Command: b}, nil
		},
		"label pages": func() (cli.Command, error) {
			return &label.PagesCommand{Command: b}, nil
		},

		"search": func() (cli.Command, error) {
			return &search.Command{Command: b}, nil
		},
		"export": func() (cli.Command, error) {
			return &export.Command{Command: b}, nil
		},
		"copy-tree": func() (cli.Command, error) {
			return &copytree.Command{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: b}, nil
		},
	}
}
