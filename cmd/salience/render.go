package main

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// palette styles analysis output and markup spans for one writer.
type palette struct {
	header   lipgloss.Style
	positive lipgloss.Style
	negative lipgloss.Style
	neutral  lipgloss.Style
	entity   lipgloss.Style
	tag      lipgloss.Style
}

func newPalette(out io.Writer, color bool) palette {
	r := lipgloss.NewRenderer(out)
	if color {
		r.SetColorProfile(termenv.TrueColor)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return palette{
		header: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")),
		positive: r.NewStyle().Foreground(lipgloss.Color("#90EE90")),
		negative: r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		neutral:  r.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		entity:   r.NewStyle().Foreground(lipgloss.Color("#98FB98")).Bold(true),
		tag:      r.NewStyle().Foreground(lipgloss.Color("#666666")),
	}
}

// span matches one innermost [TAG]text[/TAG] run.
var span = regexp.MustCompile(`\[([A-Za-z0-9_$.:-]+)\]([^\[]*)\[/([A-Za-z0-9_$.:-]+)\]`)

// colorize styles the text inside innermost markup spans and dims their
// tags. Runs whose closing tag does not match are left alone.
func (p palette) colorize(s string) string {
	return span.ReplaceAllStringFunc(s, func(m string) string {
		g := span.FindStringSubmatch(m)
		if g[1] != g[3] {
			return m
		}
		return p.tag.Render("["+g[1]+"]") + p.styleFor(g[1]).Render(g[2]) + p.tag.Render("[/"+g[3]+"]")
	})
}

func (p palette) styleFor(tag string) lipgloss.Style {
	t := strings.ToUpper(tag)
	switch {
	case strings.Contains(t, "NEGATIVE"):
		return p.negative
	case strings.Contains(t, "POSITIVE"):
		return p.positive
	case strings.Contains(t, "NEUTRAL"), strings.Contains(t, "SENTENCE"):
		return p.neutral
	default:
		return p.entity
	}
}

// wantColor resolves the --color flag. "auto" defers to the config file,
// then to whether out is a terminal.
func wantColor(flag string, fromFile *bool, out io.Writer) (bool, error) {
	switch flag {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto", "":
		if fromFile != nil {
			return *fromFile, nil
		}
		f, ok := out.(*os.File)
		return ok && term.IsTerminal(int(f.Fd())), nil
	default:
		return false, fmt.Errorf("invalid --color %q: want auto, always or never", flag)
	}
}
