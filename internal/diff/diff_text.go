package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffText diffs oldText to newText line by line, returning a Diff.
//
// Lines are hashed to runes and diffed with diffmatchpatch (Myers' algorithm), so a change anywhere in a line makes the whole line a change. A final line without
// a trailing '\n' is a distinct line from the same text with one. Inputs with more than about 1.1M distinct lines fall back to a single hunk replacing
// everything.
func DiffText(oldText, newText string) Diff {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0 // Never trade minimality for speed.

	rOld, rNew, lineArray, ok := linesToRunes(oldText, newText)
	if !ok {
		return wholeTextDiff(oldText, newText)
	}
	lineDiffs := dmp.DiffMainRunes(rOld, rNew, false)
	lineDiffs = dmp.DiffCleanupMerge(lineDiffs)

	// Decode rune-string back to slice of original lines using the lineArray mapping.
	decode := func(s string) []string {
		if s == "" {
			return nil
		}
		out := make([]string, 0, len(s))
		for _, r := range s {
			idx := runeToIndex(r)
			if idx >= 0 && idx < len(lineArray) {
				out = append(out, lineArray[idx])
			}
		}
		return out
	}

	var hunks []DiffHunk
	var dels []string
	var ins []string

	flush := func() {
		if len(dels) == 0 && len(ins) == 0 {
			return
		}
		var op Op
		switch {
		case len(dels) > 0 && len(ins) > 0:
			op = OpReplace
		case len(dels) > 0:
			op = OpDelete
		default:
			op = OpInsert
		}
		hunks = append(hunks, DiffHunk{
			Op:      op,
			OldText: strings.Join(dels, ""),
			NewText: strings.Join(ins, ""),
			Lines:   buildDiffLines(dels, ins),
		})
		dels = nil
		ins = nil
	}

	for _, d := range lineDiffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			eqLines := decode(d.Text)
			if len(eqLines) == 0 {
				continue
			}
			text := strings.Join(eqLines, "")
			hunks = append(hunks, DiffHunk{Op: OpEqual, OldText: text, NewText: text})
		case diffmatchpatch.DiffDelete:
			dels = append(dels, decode(d.Text)...)
		case diffmatchpatch.DiffInsert:
			ins = append(ins, decode(d.Text)...)
		}
	}
	flush()

	diff := Diff{OldText: oldText, NewText: newText, Hunks: hunks}

	if err := diff.validate(); err != nil {
		panic(fmt.Errorf("DiffText: validate failed with %v", err))
	}

	return diff
}

// Each distinct line is numbered and the number encoded as a rune. Numbers that would land in the UTF-16 surrogate range (which does not survive a round trip
// through string) are shifted above it.
const (
	surrogateMin  = 0xD800
	surrogateSpan = 0x800
	maxLineRune   = 0x10FFFF
)

func indexToRune(i int) rune {
	if i >= surrogateMin {
		i += surrogateSpan
	}
	return rune(i)
}

func runeToIndex(r rune) int {
	i := int(r)
	if i >= surrogateMin+surrogateSpan {
		i -= surrogateSpan
	}
	return i
}

// linesToRunes encodes both texts as one rune per line, sharing one table of distinct lines. ok is false if there are more distinct lines than runes.
func linesToRunes(oldText, newText string) (rOld []rune, rNew []rune, lineArray []string, ok bool) {
	lineIndex := make(map[string]int)
	encode := func(text string) ([]rune, bool) {
		lines := splitPreserveEOL(text, defaultEOL)
		runes := make([]rune, 0, len(lines))
		for _, ln := range lines {
			idx, seen := lineIndex[ln]
			if !seen {
				idx = len(lineArray)
				if indexToRune(idx) > maxLineRune {
					return nil, false
				}
				lineIndex[ln] = idx
				lineArray = append(lineArray, ln)
			}
			runes = append(runes, indexToRune(idx))
		}
		return runes, true
	}

	if rOld, ok = encode(oldText); !ok {
		return nil, nil, nil, false
	}
	if rNew, ok = encode(newText); !ok {
		return nil, nil, nil, false
	}
	return rOld, rNew, lineArray, true
}

// wholeTextDiff is the fallback for inputs with too many distinct lines to diff: every old line is deleted and every new line inserted.
func wholeTextDiff(oldText, newText string) Diff {
	d := Diff{OldText: oldText, NewText: newText}
	dels := splitPreserveEOL(oldText, defaultEOL)
	ins := splitPreserveEOL(newText, defaultEOL)
	var op Op
	switch {
	case oldText == newText:
		if oldText != "" {
			d.Hunks = []DiffHunk{{Op: OpEqual, OldText: oldText, NewText: newText}}
		}
		return d
	case len(dels) > 0 && len(ins) > 0:
		op = OpReplace
	case len(dels) > 0:
		op = OpDelete
	default:
		op = OpInsert
	}
	d.Hunks = []DiffHunk{{Op: op, OldText: oldText, NewText: newText, Lines: buildDiffLines(dels, ins)}}
	return d
}

// buildDiffLines lists every deleted line, then every inserted line.
func buildDiffLines(deleteLines, insertLines []string) []DiffLine {
	lines := make([]DiffLine, 0, len(deleteLines)+len(insertLines))
	for _, ln := range deleteLines {
		lines = append(lines, DiffLine{Op: OpDelete, Text: ln})
	}
	for _, ln := range insertLines {
		lines = append(lines, DiffLine{Op: OpInsert, Text: ln})
	}
	return lines
}

// splitPreserveEOL splits text by eol and preserves the eol on each line, except possibly the last.
func splitPreserveEOL(text, eol string) []string {
	if text == "" {
		return nil
	}
	if eol == "" {
		eol = defaultEOL
	}
	var lines []string
	for {
		idx := strings.Index(text, eol)
		if idx == -1 {
			if text != "" {
				lines = append(lines, text)
			}
			break
		}
		lines = append(lines, text[:idx+len(eol)])
		text = text[idx+len(eol):]
		if text == "" {
			break
		}
	}
	return lines
}

// trimEOL removes a trailing eol from a line if present.
func trimEOL(line, eol string) (string, bool) {
	if eol != "" && strings.HasSuffix(line, eol) {
		return line[:len(line)-len(eol)], true
	}
	return line, false
}
