package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/xlab/treeprint"
	"gopkg.in/yaml.v3"

	"github.com/goto/jobtrail/internal/utils"
)

type Format string

const (
	FormatTable Format = "table"
	FormatTree  Format = "tree"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

var formats = []string{string(FormatTable), string(FormatTree), string(FormatJSON), string(FormatYAML)}

func FormatFrom(raw string) (Format, error) {
	format := strings.ToLower(strings.TrimSpace(raw))
	if !utils.ContainsString(formats, format) {
		return "", fmt.Errorf("unknown output format %q, use one of %s", raw, strings.Join(formats, ", "))
	}
	return Format(format), nil
}

// Table is implemented by views printable as rows
type Table interface {
	Header() []string
	Rows() [][]string
}

// Tree is implemented by views with a nested shape, others fall back to a table
type Tree interface {
	Tree() treeprint.Tree
}

func Print(w io.Writer, format Format, view any) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(view)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(view); err != nil {
			return err
		}
		return encoder.Close()
	case FormatTree:
		if tree, ok := view.(Tree); ok {
			_, err := io.WriteString(w, tree.Tree().String())
			return err
		}
	}

	table, ok := view.(Table)
	if !ok {
		return fmt.Errorf("output format %s is not supported for this command", format)
	}
	writeTable(w, table)
	return nil
}

func writeTable(w io.Writer, view Table) {
	table := tablewriter.NewWriter(w)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetHeader(view.Header())
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk(view.Rows())
	table.Render()
}

var (
	failed    = color.New(color.FgRed).SprintFunc()
	succeeded = color.New(color.FgGreen).SprintFunc()
	running   = color.New(color.FgYellow).SprintFunc()
	muted     = color.New(color.Faint).SprintFunc()
)

// Status colours a status label by outcome
func Status(text string) string {
	switch strings.ToLower(text) {
	case "failed", "ended unexpectedly":
		return failed(text)
	case "succeeded", "completed":
		return succeeded(text)
	case "in progress", "running", "pending", "created", "retry":
		return running(text)
	case "not run", "canceled", "stopping":
		return muted(text)
	default:
		return text
	}
}

// Trend marks durations that deviate from the average
func Trend(trend, diff string) string {
	switch trend {
	case "slower":
		return failed("▲ " + diff)
	case "faster":
		return succeeded("▼ " + diff)
	default:
		return ""
	}
}
