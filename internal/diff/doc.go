// Package diff computes line-level diffs between an "old" and a "new" string and renders them as unified diffs.
//
// Representation: A Diff holds the complete OldText/NewText and an ordered slice of hunks that, when concatenated, reconstruct both sides. Each hunk has an Op:
//   - OpEqual: unchanged region (OldText == NewText)
//   - OpInsert: text present only in the new side (OldText == "")
//   - OpDelete: text present only in the old side (NewText == "")
//   - OpReplace: text changed on both sides
//
// For non-equal hunks, Lines holds the per-line changes: every deleted line first, then every inserted line. Lines include the trailing '\n' if it was present in
// the input.
//
// Invariants:
//   - concat(hunks.OldText) == Diff.OldText
//   - concat(hunks.NewText) == Diff.NewText
//   - If hunk.Op == OpEqual, hunk.Lines is nil; otherwise, concatenating the deleted line texts equals hunk.OldText and concatenating the inserted line texts
//     equals hunk.NewText.
//
// Usage:
//
//	d := diff.DiffText(oldText, newText)
//	fmt.Println(d.RenderUnifiedDiff(false, "old.txt", "new.txt", 5))
//
// Newlines: '\n' is the only line separator. Callers with CRLF input should normalize first. The last line may not end with '\n'; RenderUnifiedDiff flags such
// lines with a "\ No newline at end of file" marker.
package diff
