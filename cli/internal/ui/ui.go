package ui

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

var (
	// Colors
	PrimaryColor   = lipgloss.Color("#00D9FF")
	SuccessColor   = lipgloss.Color("#00FF88")
	WarningColor   = lipgloss.Color("#FFB800")
	ErrorColor     = lipgloss.Color("#FF4444")
	SecondaryColor = lipgloss.Color("#6C757D")

	// Styles
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	SecondaryStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)
)

// Out is where everything but errors is written
var Out io.Writer = os.Stdout

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	fmt.Fprintln(Out, SuccessStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	fmt.Fprintln(Out, WarningStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// PrintInfo prints an info message in the secondary color
func PrintInfo(format string, args ...interface{}) {
	fmt.Fprintln(Out, SecondaryStyle.Render(fmt.Sprintf(format, args...)))
}

// PrintTable prints rows with pterm. headers may be nil.
func PrintTable(headers []string, rows [][]string) error {
	var data pterm.TableData
	if len(headers) > 0 {
		data = append(data, headers)
	}
	data = append(data, rows...)
	if len(data) == 0 {
		return nil
	}
	return pterm.DefaultTable.
		WithHasHeader(len(headers) > 0).
		WithData(data).
		WithWriter(Out).
		Render()
}

// PrintList prints a bulleted list
func PrintList(items []string) {
	for _, item := range items {
		fmt.Fprintf(Out, "  • %s\n", item)
	}
}

// PrintSQL renders a statement and its bound values as markdown
func PrintSQL(sql string, args []interface{}) error {
	md := "```sql\n" + sql + "\n```\n"
	if len(args) > 0 {
		md += "\n| # | value |\n|---|---|\n"
		for i, a := range args {
			md += fmt.Sprintf("| %d | `%s` |\n", i+1, FormatValue(a))
		}
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return err
	}
	fmt.Fprint(Out, out)
	return nil
}

// PrintSpinner creates a spinner and returns it
func PrintSpinner(message string) (*pterm.SpinnerPrinter, error) {
	return pterm.DefaultSpinner.WithWriter(Out).Start(message)
}

// FormatValue renders a column value for display
func FormatValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return "0x" + hex.EncodeToString(x)
	case time.Time:
		return x.Format(time.RFC3339)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// Highlight prints a label and value with fatih/color
func Highlight(label, value string) {
	color.New(color.FgCyan, color.Bold).Fprintf(Out, "%s ", label)
	fmt.Fprintln(Out, value)
}
