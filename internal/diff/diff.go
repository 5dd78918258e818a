package diff

import "github.com/oxidecomputer/expectorate/internal/q/eol"

// Op is an operation from old text to new text.
type Op int

// Operations from old text to new text.
const (
	OpEqual Op = iota
	OpInsert
	OpDelete
	OpReplace
)

func (op Op) String() string {
	switch op {
	case OpEqual:
		return "equal"
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	case OpReplace:
		return "replace"
	}
	return "unknown"
}

// Diff is a diff from old text to new text.
//
// As an illustration: imagine a reference file where two separate paragraphs change. This will produce:
//   - Hunks[0] will be OpEqual (the prefix of the file).
//   - Hunks[1] will contain the first change: a group of contiguous lines that were changed. OpReplace.
//   - Hunks[2] will be OpEqual (the lines between the edits).
//   - Hunks[3] will contain the second change. Imagine some lines were strictly inserted. OpInsert.
//   - Hunks[last] will be OpEqual (the suffix of the file).
type Diff struct {
	OldText string     // Entire original text.
	NewText string     // Entire revised text.
	Hunks   []DiffHunk // Ordered hunks that cover the whole diff and reconstruct OldText/NewText.
}

// DiffHunk represents a contiguous group of lines. The \n character is part of the hunk and line.
//
// Operations:
//   - OpEqual: OldText == NewText
//   - OpInsert: OldText=="" && NewText!=""
//   - OpDelete: OldText!="" && NewText==""
//   - OpReplace: OldText != "" and NewText != ""
type DiffHunk struct {
	Op      Op         // Operation for this hunk.
	OldText string     // Concatenation of old lines in this hunk; empty for inserts.
	NewText string     // Concatenation of new lines in this hunk; empty for deletes.
	Lines   []DiffLine // Deleted lines followed by inserted lines when Op != OpEqual; nil when OpEqual.
}

// DiffLine is a single deleted or inserted line, including its trailing \n if it has one.
type DiffLine struct {
	Op   Op // OpDelete or OpInsert.
	Text string
}

// Stats counts deleted and inserted lines across all hunks.
func (d Diff) Stats() (deleted int, inserted int) {
	for _, h := range d.Hunks {
		for _, ln := range h.Lines {
			switch ln.Op {
			case OpDelete:
				deleted++
			case OpInsert:
				inserted++
			}
		}
	}
	return deleted, inserted
}

const defaultEOL = eol.LF
