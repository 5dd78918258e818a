package diff

import (
	"fmt"
	"strings"
)

// validate checks the Diff invariants and returns an error on the first violation.
func (d Diff) validate() error {
	var oldConcat, newConcat strings.Builder
	for hi, h := range d.Hunks {
		switch h.Op {
		case OpEqual:
			if h.OldText != h.NewText {
				return fmt.Errorf("hunk[%d]: OpEqual requires OldText==NewText", hi)
			}
			if h.Lines != nil {
				return fmt.Errorf("hunk[%d]: OpEqual requires Lines==nil", hi)
			}
		case OpInsert:
			if h.OldText != "" || h.NewText == "" {
				return fmt.Errorf("hunk[%d]: OpInsert requires OldText==\"\" and NewText!=\"\"", hi)
			}
		case OpDelete:
			if h.OldText == "" || h.NewText != "" {
				return fmt.Errorf("hunk[%d]: OpDelete requires OldText!=\"\" and NewText==\"\"", hi)
			}
		case OpReplace:
			if h.OldText == "" || h.NewText == "" {
				return fmt.Errorf("hunk[%d]: OpReplace requires OldText!=\"\" and NewText!=\"\"", hi)
			}
		default:
			return fmt.Errorf("hunk[%d]: unknown op %d", hi, h.Op)
		}

		oldConcat.WriteString(h.OldText)
		newConcat.WriteString(h.NewText)

		if h.Op == OpEqual {
			continue
		}

		var oldLinesConcat, newLinesConcat strings.Builder
		seenInsert := false
		for li, ln := range h.Lines {
			if ln.Text == "" {
				return fmt.Errorf("hunk[%d].line[%d]: empty line text", hi, li)
			}
			if i := strings.Index(ln.Text, defaultEOL); i >= 0 && i != len(ln.Text)-len(defaultEOL) {
				return fmt.Errorf("hunk[%d].line[%d]: EOL in the middle of a line", hi, li)
			}
			switch ln.Op {
			case OpDelete:
				if seenInsert {
					return fmt.Errorf("hunk[%d].line[%d]: delete after insert", hi, li)
				}
				oldLinesConcat.WriteString(ln.Text)
			case OpInsert:
				seenInsert = true
				newLinesConcat.WriteString(ln.Text)
			default:
				return fmt.Errorf("hunk[%d].line[%d]: line op must be OpDelete or OpInsert, got %v", hi, li, ln.Op)
			}
		}

		if h.OldText != oldLinesConcat.String() {
			return fmt.Errorf("hunk[%d]: lines do not reconstruct OldText", hi)
		}
		if h.NewText != newLinesConcat.String() {
			return fmt.Errorf("hunk[%d]: lines do not reconstruct NewText", hi)
		}
	}

	if d.OldText != oldConcat.String() {
		return fmt.Errorf("diff: hunks do not reconstruct OldText")
	}
	if d.NewText != newConcat.String() {
		return fmt.Errorf("diff: hunks do not reconstruct NewText")
	}
	return nil
}
