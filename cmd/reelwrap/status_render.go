package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"reelwrap/internal/preflight"
)

// checkState is the outcome shown next to each line of `reelwrap status`.
type checkState int

const (
	checkPassed checkState = iota
	checkFailed
	checkBusy
	checkSkipped
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
	ansiDim    = "\x1b[2m"
)

const checkLabelWidth = 18

var checkStates = map[checkState]struct {
	label string
	color string
}{
	checkPassed:  {"ok", ansiGreen},
	checkFailed:  {"failed", ansiRed},
	checkBusy:    {"busy", ansiYellow},
	checkSkipped: {"skipped", ansiDim},
}

// statusPrinter writes aligned check lines grouped under section headings.
type statusPrinter struct {
	out      io.Writer
	colorize bool
}

func newStatusPrinter(out io.Writer) *statusPrinter {
	return &statusPrinter{out: out, colorize: shouldColorize(out)}
}

func (p *statusPrinter) section(title string, first bool) {
	if !first {
		fmt.Fprintln(p.out)
	}
	for _, line := range renderSectionHeader(title, p.colorize) {
		fmt.Fprintln(p.out, line)
	}
}

func (p *statusPrinter) check(label string, state checkState, detail string) {
	fmt.Fprintln(p.out, formatCheckLine(label, state, detail, p.colorize))
}

func (p *statusPrinter) result(r preflight.Result) {
	state := checkFailed
	if r.Passed {
		state = checkPassed
	}
	p.check(r.Name, state, r.Detail)
}

func formatCheckLine(label string, state checkState, detail string, colorize bool) string {
	meta := checkStates[state]
	tag := fmt.Sprintf("%-7s", meta.label)
	if colorize {
		tag = meta.color + tag + ansiReset
	}
	line := fmt.Sprintf("  %-*s %s", checkLabelWidth, label, tag)
	if detail = strings.TrimSpace(detail); detail != "" {
		line += "  " + detail
	}
	return strings.TrimRight(line, " ")
}

func renderSectionHeader(title string, colorize bool) []string {
	line := strings.TrimSpace(title)
	rule := strings.Repeat("─", len([]rune(line)))
	if colorize {
		line = ansiCyan + line + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
