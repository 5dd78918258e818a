package diff

import (
	"fmt"
	"strings"
)

// NoNewlineMarker follows any rendered line that had no trailing newline in its source text.
const NoNewlineMarker = `\ No newline at end of file`

// RenderUnifiedDiff returns a unified diff. If color, the diff will include ANSI color markers; the plain text is identical otherwise.
//
// contextSize is the number of unchanged lines shown before and after each change. Changes separated by at most 2*contextSize unchanged lines share one @@ hunk.
// Hunk headers follow the GNU convention: when a range is empty, its start is the line before the change (so a diff against empty old text starts "@@ -0,0").
//
// If d has no changes, only the two file header lines are returned. The result has no trailing newline.
func (d Diff) RenderUnifiedDiff(color bool, fromFilename string, toFilename string, contextSize int) string {
	// Colors (ANSI). Applied only if color==true.
	const (
		reset    = "\x1b[0m"
		red      = "\x1b[31m"
		green    = "\x1b[32m"
		magenta  = "\x1b[35m"
		cyanBold = "\x1b[1;36m"
	)

	if contextSize < 0 {
		contextSize = 0
	}

	colorize := func(s, code string) string {
		if !color {
			return s
		}
		return code + s + reset
	}

	countLines := func(text string) int {
		return len(splitPreserveEOL(text, defaultEOL))
	}

	type outLine struct {
		tag       byte   // ' ', '+', '-'
		text      string // line content without EOL
		noNewline bool   // source line had no EOL
	}

	toOutLine := func(tag byte, ln string) outLine {
		core, hadEOL := trimEOL(ln, defaultEOL)
		return outLine{tag: tag, text: core, noNewline: !hadEOL}
	}

	var out []string

	// File headers
	out = append(out, colorize("--- "+fromFilename, cyanBold))
	out = append(out, colorize("+++ "+toFilename, cyanBold))

	// Current 1-based line numbers in old and new files at the start of the next hunk.
	oldPos := 1
	newPos := 1

	i := 0
	for i < len(d.Hunks) {
		h := d.Hunks[i]
		if h.Op == OpEqual {
			n := countLines(h.OldText)
			oldPos += n
			newPos += n
			i++
			continue
		}

		// Assemble one unified hunk covering one or more change hunks and possibly small equal separators between them.
		var lines []outLine

		// Pre-context from previous equal hunk tail. oldPos/newPos already point past it.
		preK := 0
		if i-1 >= 0 && d.Hunks[i-1].Op == OpEqual && contextSize > 0 {
			prevEqLines := splitPreserveEOL(d.Hunks[i-1].OldText, defaultEOL)
			preK = min(contextSize, len(prevEqLines))
			for _, ln := range prevEqLines[len(prevEqLines)-preK:] {
				lines = append(lines, toOutLine(' ', ln))
			}
		}
		oldStart := oldPos - preK
		newStart := newPos - preK

		appendChange := func(hk DiffHunk) {
			for _, ln := range hk.Lines {
				switch ln.Op {
				case OpDelete:
					lines = append(lines, toOutLine('-', ln.Text))
				case OpInsert:
					lines = append(lines, toOutLine('+', ln.Text))
				}
			}
			oldPos += countLines(hk.OldText)
			newPos += countLines(hk.NewText)
		}

		appendChange(h)

		j := i + 1
		for j < len(d.Hunks) {
			if d.Hunks[j].Op != OpEqual {
				appendChange(d.Hunks[j])
				j++
				continue
			}
			// Next is equal. Merge with the following change if the gap is small enough.
			eqLines := splitPreserveEOL(d.Hunks[j].OldText, defaultEOL)
			if j+1 < len(d.Hunks) && d.Hunks[j+1].Op != OpEqual && len(eqLines) <= 2*contextSize {
				for _, ln := range eqLines {
					lines = append(lines, toOutLine(' ', ln))
				}
				oldPos += len(eqLines)
				newPos += len(eqLines)
				j++
				appendChange(d.Hunks[j])
				j++
				continue
			}

			// Otherwise, include only post-context from the head of this equal and stop. The main loop resumes at this equal hunk and advances
			// positions by its full length.
			postK := min(contextSize, len(eqLines))
			for _, ln := range eqLines[:postK] {
				lines = append(lines, toOutLine(' ', ln))
			}
			break
		}
		i = j

		oldCount := 0
		newCount := 0
		for _, ol := range lines {
			switch ol.tag {
			case ' ':
				oldCount++
				newCount++
			case '-':
				oldCount++
			case '+':
				newCount++
			}
		}
		if oldCount == 0 {
			oldStart--
		}
		if newCount == 0 {
			newStart--
		}

		header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", oldStart, oldCount, newStart, newCount)
		out = append(out, colorize(header, magenta))
		for _, ol := range lines {
			line := string(ol.tag) + ol.text
			switch ol.tag {
			case '+':
				out = append(out, colorize(line, green))
			case '-':
				out = append(out, colorize(line, red))
			default:
				out = append(out, line)
			}
			if ol.noNewline {
				out = append(out, NoNewlineMarker)
			}
		}
	}

	return strings.Join(out, defaultEOL)
}
