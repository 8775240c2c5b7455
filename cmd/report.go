package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/leom731/pbxpatch/pkg/pbx"
	"github.com/mattn/go-isatty"
)

type reportStyle int

const (
	reportPlain reportStyle = iota
	reportRich
)

type reporter struct {
	style reportStyle
	out   io.Writer

	headerStyle lipgloss.Style
	nameStyle   lipgloss.Style
}

func newReporter(out io.Writer) *reporter {
	p := &reporter{
		style: reportPlain,
		out:   out,
	}

	colorEnabled := false
	if f, ok := out.(*os.File); ok {
		colorEnabled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	if !colorEnabled {
		return p
	}

	p.style = reportRich
	p.headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1")) // green
	p.nameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#cdd6f4"))   // text
	return p
}

func (p *reporter) Print(result *pbx.Result, dryRun bool) {
	header := formatReportHeader(len(result.Entries), dryRun)
	if p.style == reportRich {
		header = p.headerStyle.Render(header)
	}
	fmt.Fprintln(p.out, header)

	for _, e := range result.Entries {
		line := formatReportLine(e)
		if p.style == reportRich {
			line = p.nameStyle.Render(line)
		}
		fmt.Fprintln(p.out, line)
	}
}

func formatReportHeader(n int, dryRun bool) string {
	if dryRun {
		return fmt.Sprintf("Would add %d files to the Xcode project:", n)
	}
	return fmt.Sprintf("Successfully added %d files to the Xcode project:", n)
}

func formatReportLine(e pbx.Entry) string {
	return fmt.Sprintf("  - %s", e.Name)
}
