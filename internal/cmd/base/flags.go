package base

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/mitchellh/cli"
)

// FlagSet wraps flag.FlagSet with help rendering.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet wraps f.
func NewFlagSet(f *flag.FlagSet) *FlagSet {
	return &FlagSet{FlagSet: f}
}

// Help renders the flags for a command's help text.
func (f *FlagSet) Help() string {
	var buf bytes.Buffer
	buf.WriteString("\n\nOptions:\n\n")
	f.VisitAll(func(fl *flag.Flag) {
		name, usage := flag.UnquoteUsage(fl)
		fmt.Fprintf(&buf, "  -%s", fl.Name)
		if name != "" {
			fmt.Fprintf(&buf, "=<%s>", name)
		}
		buf.WriteString("\n")
		fmt.Fprintf(&buf, "    %s", strings.ReplaceAll(usage, "\n", "\n    "))
		if fl.DefValue != "" && fl.DefValue != "false" && fl.DefValue != "0" {
			fmt.Fprintf(&buf, " (default: %s)", fl.DefValue)
		}
		buf.WriteString("\n\n")
	})
	return strings.TrimRight(buf.String(), "\n")
}

// NewFlagSet returns a FlagSet for name with the flags every command
// accepts already registered. Parse errors are returned, not printed.
func (c *Command) NewFlagSet(name string) *FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := NewFlagSet(fs)

	f.IntVar(&c.flagVerbose, "verbose", 0,
		"Log detail: 1 shows requests and retries, 2 adds status, latency and request ids.")
	f.BoolVar(&c.flagQuiet, "quiet", false, "Only print errors and requested data.")
	f.BoolVar(&c.flagJSON, "json", false, "Print machine readable JSON.")
	return f
}

// ParseFlags parses args and applies the logging flags.
func (c *Command) ParseFlags(f *FlagSet, args []string) error {
	if err := f.Parse(args); err != nil {
		return err
	}
	if c.flagVerbose < 0 {
		return errors.New("-verbose must not be negative")
	}
	c.applyLogLevel()
	return nil
}

// FlagError reports a parse error. -h and -help show the command help.
func (c *Command) FlagError(err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return cli.RunResultHelp
	}
	c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
	return 1
}
