package base

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mitchellh/cli"
)

// PrintJSON writes v as indented JSON and returns the exit code.
func (c *Command) PrintJSON(v any) int {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return c.Failf("error encoding output: %w", err)
	}
	c.UI.Output(string(out))
	return 0
}

// PrintTable writes rows under headers in aligned columns. A row count
// follows unless -quiet was given.
func (c *Command) PrintTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		c.Info("No results.")
		return
	}
	c.UI.Output(formatColumns(append([][]string{headers}, rows...)))
	c.Info(fmt.Sprintf("\n%d result(s)", len(rows)))
}

// PrintKV writes label/value pairs.
func (c *Command) PrintKV(rows [][2]string) {
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		table = append(table, []string{r[0] + ":", r[1]})
	}
	c.UI.Output(formatColumns(table))
}

// FormatTime renders a parsed timestamp for tables. Parse failures and the
// zero time render as "".
func FormatTime(t time.Time, err error) string {
	if err != nil || t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

func formatColumns(rows [][]string) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = strings.ReplaceAll(cell, "\t", " ")
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	_ = w.Flush()
	return strings.TrimRight(buf.String(), "\n")
}

// UIConfirmer asks yes/no questions through a cli.Ui.
type UIConfirmer struct {
	UI cli.Ui
}

// Confirm asks prompt and reports whether the answer was yes.
func (u UIConfirmer) Confirm(prompt string) (bool, error) {
	answer, err := u.UI.Ask(prompt + " [y/N]")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Confirmer returns a confirmer that prompts on the command UI.
func (c *Command) Confirmer() UIConfirmer {
	return UIConfirmer{UI: c.UI}
}
