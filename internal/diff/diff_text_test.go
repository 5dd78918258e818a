package diff

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oxidecomputer/expectorate/internal/q/eol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffText_OneLineBecomesTwo(t *testing.T) {
	a := "No one hits like Gaston\n"
	b := "In a testing match nobody tests like Gaston\nMatches wits like Gaston\n"

	diff := DiffText(a, b)
	require.NoError(t, diff.validate())

	require.Len(t, diff.Hunks, 1)
	hunk := diff.Hunks[0]
	require.Equal(t, OpReplace, hunk.Op)
	require.Equal(t, []DiffLine{
		{Op: OpDelete, Text: "No one hits like Gaston\n"},
		{Op: OpInsert, Text: "In a testing match nobody tests like Gaston\n"},
		{Op: OpInsert, Text: "Matches wits like Gaston\n"},
	}, hunk.Lines)
}

func TestDiffText_Hunks(t *testing.T) {
	type hunkExpectation struct {
		op  Op
		old string
		new string
	}

	tests := []struct {
		name string
		old  string
		new  string
		want []hunkExpectation
	}{
		{
			name: "both empty",
			old:  "",
			new:  "",
			want: []hunkExpectation{},
		},
		{
			name: "add whole file",
			old:  "",
			new:  "a\nb\n",
			want: []hunkExpectation{{op: OpInsert, old: "", new: "a\nb\n"}},
		},
		{
			name: "delete whole file",
			old:  "a\nb\n",
			new:  "",
			want: []hunkExpectation{{op: OpDelete, old: "a\nb\n", new: ""}},
		},
		{
			name: "no newlines - equal",
			old:  "hello",
			new:  "hello",
			want: []hunkExpectation{{op: OpEqual, old: "hello", new: "hello"}},
		},
		{
			name: "no newlines - replace words",
			old:  "hello world",
			new:  "hello there",
			want: []hunkExpectation{{op: OpReplace, old: "hello world", new: "hello there"}},
		},
		{
			name: "trailing newline added",
			old:  "a\nb",
			new:  "a\nb\n",
			want: []hunkExpectation{
				{op: OpEqual, old: "a\n", new: "a\n"},
				{op: OpReplace, old: "b", new: "b\n"},
			},
		},
		{
			name: "equal whole text",
			old:  "a\nb\n",
			new:  "a\nb\n",
			want: []hunkExpectation{{op: OpEqual, old: "a\nb\n", new: "a\nb\n"}},
		},
		{
			name: "insert at end",
			old:  "a\nb\n",
			new:  "a\nb\nc\n",
			want: []hunkExpectation{
				{op: OpEqual, old: "a\nb\n", new: "a\nb\n"},
				{op: OpInsert, old: "", new: "c\n"},
			},
		},
		{
			name: "delete at end",
			old:  "a\nb\nc\n",
			new:  "a\nb\n",
			want: []hunkExpectation{
				{op: OpEqual, old: "a\nb\n", new: "a\nb\n"},
				{op: OpDelete, old: "c\n", new: ""},
			},
		},
		{
			name: "replace middle line",
			old:  "a\nb\nc\n",
			new:  "a\nX\nc\n",
			want: []hunkExpectation{
				{op: OpEqual, old: "a\n", new: "a\n"},
				{op: OpReplace, old: "b\n", new: "X\n"},
				{op: OpEqual, old: "c\n", new: "c\n"},
			},
		},
		{
			name: "no trailing newline replace",
			old:  "a\nb",
			new:  "a\nbc",
			want: []hunkExpectation{
				{op: OpEqual, old: "a\n", new: "a\n"},
				{op: OpReplace, old: "b", new: "bc"},
			},
		},
		{
			name: "multiple edits",
			old:  "a\nb\nc\nd\ne\n",
			new:  "a\nz\nc\ny\ne\n",
			want: []hunkExpectation{
				{op: OpEqual, old: "a\n", new: "a\n"},
				{op: OpReplace, old: "b\n", new: "z\n"},
				{op: OpEqual, old: "c\n", new: "c\n"},
				{op: OpReplace, old: "d\n", new: "y\n"},
				{op: OpEqual, old: "e\n", new: "e\n"},
			},
		},
		{
			name: "insert and delete",
			old:  "a\nb\nc\nd\ne\n",
			new:  "a\nb\nz\nc\ne\n",
			want: []hunkExpectation{
				{op: OpEqual, old: "a\nb\n", new: "a\nb\n"},
				{op: OpInsert, old: "", new: "z\n"},
				{op: OpEqual, old: "c\n", new: "c\n"},
				{op: OpDelete, old: "d\n", new: ""},
				{op: OpEqual, old: "e\n", new: "e\n"},
			},
		},
		{
			name: "multiple inserted lines are coalesced into a single hunk",
			old:  "a\nb\nc\nd\ne\n",
			new:  "a\nb\nz\ny\nx\nd\ne\n",
			want: []hunkExpectation{
				{op: OpEqual, old: "a\nb\n", new: "a\nb\n"},
				{op: OpReplace, old: "c\n", new: "z\ny\nx\n"},
				{op: OpEqual, old: "d\ne\n", new: "d\ne\n"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := DiffText(tc.old, tc.new)

			if err := d.validate(); err != nil {
				require.Fail(t, fmt.Sprintf("%s: validate produced err=%v", tc.name, err))
			}

			got := make([]hunkExpectation, 0, len(d.Hunks))
			for _, h := range d.Hunks {
				got = append(got, hunkExpectation{op: h.Op, old: h.OldText, new: h.NewText})
			}
			require.Equal(t, tc.want, got)
		})
	}
}

func TestDiff_Stats(t *testing.T) {
	d := DiffText("a\nb\nc\n", "a\nX\nY\nc\nd\n")
	deleted, inserted := d.Stats()
	assert.Equal(t, 1, deleted)
	assert.Equal(t, 3, inserted)

	same := DiffText("a\n", "a\n")
	deleted, inserted = same.Stats()
	assert.Zero(t, deleted)
	assert.Zero(t, inserted)
}

func TestValidate_RejectsBrokenDiffs(t *testing.T) {
	bad := Diff{
		OldText: "a\n",
		NewText: "b\n",
		Hunks: []DiffHunk{{
			Op:      OpReplace,
			OldText: "a\n",
			NewText: "b\n",
			Lines:   []DiffLine{{Op: OpInsert, Text: "b\n"}, {Op: OpDelete, Text: "a\n"}},
		}},
	}
	assert.Error(t, bad.validate())

	missing := Diff{OldText: "a\n", NewText: "a\n"}
	assert.Error(t, missing.validate())
}

func TestDiffText_ManyDistinctLines(t *testing.T) {
	// Enough distinct lines that line numbers run through and past the UTF-16 surrogate range.
	const n = 60000
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	old := b.String()
	updated := old + "extra\n"

	d := DiffText(old, updated)
	require.NoError(t, d.validate())

	require.Len(t, d.Hunks, 2)
	assert.Equal(t, OpEqual, d.Hunks[0].Op)
	assert.Equal(t, old, d.Hunks[0].OldText)
	assert.Equal(t, OpInsert, d.Hunks[1].Op)
	assert.Equal(t, []DiffLine{{Op: OpInsert, Text: "extra\n"}}, d.Hunks[1].Lines)

	deleted, inserted := d.Stats()
	assert.Zero(t, deleted)
	assert.Equal(t, 1, inserted)
}

func TestDiffText_ChangeInsideSurrogateRange(t *testing.T) {
	const n = 0xE100
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("row %d\n", i)
	}
	old := strings.Join(lines, "")
	lines[0xD900] = "changed\n"
	updated := strings.Join(lines, "")

	d := DiffText(old, updated)
	require.NoError(t, d.validate())

	deleted, inserted := d.Stats()
	assert.Equal(t, 1, deleted)
	assert.Equal(t, 1, inserted)

	var changed []DiffLine
	for _, h := range d.Hunks {
		changed = append(changed, h.Lines...)
	}
	assert.Equal(t, []DiffLine{
		{Op: OpDelete, Text: fmt.Sprintf("row %d\n", 0xD900)},
		{Op: OpInsert, Text: "changed\n"},
	}, changed)
}

func TestLineRunes_SkipSurrogates(t *testing.T) {
	for _, i := range []int{0, 1, 0xD7FF, 0xD800, 0xDFFF, 0xE000, 0x10F7FF} {
		r := indexToRune(i)
		assert.False(t, r >= 0xD800 && r <= 0xDFFF, "index %d encoded as surrogate %U", i, r)
		assert.LessOrEqual(t, r, rune(maxLineRune))
		assert.Equal(t, i, runeToIndex(r))
		assert.Equal(t, []rune{r}, []rune(string(r)))
	}
}

func TestWholeTextDiff(t *testing.T) {
	d := wholeTextDiff("a\nb\n", "c\n")
	require.NoError(t, d.validate())
	require.Len(t, d.Hunks, 1)
	assert.Equal(t, OpReplace, d.Hunks[0].Op)
	assert.Equal(t, []DiffLine{
		{Op: OpDelete, Text: "a\n"},
		{Op: OpDelete, Text: "b\n"},
		{Op: OpInsert, Text: "c\n"},
	}, d.Hunks[0].Lines)

	same := wholeTextDiff("a\n", "a\n")
	require.NoError(t, same.validate())
	require.Len(t, same.Hunks, 1)
	assert.Equal(t, OpEqual, same.Hunks[0].Op)

	empty := wholeTextDiff("", "")
	require.NoError(t, empty.validate())
	assert.Empty(t, empty.Hunks)
}

func TestDiffText_Fixtures(t *testing.T) {
	readFixture := func(name string) string {
		t.Helper()
		b, err := os.ReadFile(filepath.Join("..", "..", "testdata", name))
		require.NoError(t, err)
		return string(b)
	}

	t.Run("one word changed", func(t *testing.T) {
		d := DiffText(readFixture("data_a.txt"), readFixture("data_a2.txt"))
		require.NoError(t, d.validate())
		require.Len(t, d.Hunks, 3)
		assert.Equal(t, "The quick brown fox\njumps over\n", d.Hunks[0].OldText)
		assert.Equal(t, []DiffLine{
			{Op: OpDelete, Text: "the lazy dog.\n"},
			{Op: OpInsert, Text: "the lazy cat.\n"},
		}, d.Hunks[1].Lines)
		assert.Equal(t, "Pack my box\nwith five dozen\nliquor jugs.\n", d.Hunks[2].OldText)
	})

	t.Run("unrelated files", func(t *testing.T) {
		d := DiffText(readFixture("data_a.txt"), readFixture("data_b.txt"))
		require.NoError(t, d.validate())
		deleted, inserted := d.Stats()
		assert.Equal(t, 6, deleted)
		assert.Equal(t, 2, inserted)
	})

	t.Run("lyrics first line replaced", func(t *testing.T) {
		actual := "In a testing match nobody tests like Gaston\nI'm especially good at expectorating\n"
		d := DiffText(readFixture("lyrics.txt"), actual)
		require.NoError(t, d.validate())
		require.Len(t, d.Hunks, 2)
		assert.Equal(t, []DiffLine{
			{Op: OpDelete, Text: "No one hits like Gaston\n"},
			{Op: OpInsert, Text: "In a testing match nobody tests like Gaston\n"},
		}, d.Hunks[0].Lines)
		assert.Equal(t, OpEqual, d.Hunks[1].Op)
	})

	t.Run("normalized CRLF matches LF", func(t *testing.T) {
		crlf := strings.ReplaceAll(readFixture("data_a.txt"), "\n", "\r\n")
		d := DiffText(eol.Normalize(crlf), readFixture("data_a.txt"))
		require.NoError(t, d.validate())
		require.Len(t, d.Hunks, 1)
		assert.Equal(t, OpEqual, d.Hunks[0].Op)
	})

	t.Run("normalized CRLF with one line changed", func(t *testing.T) {
		crlf := strings.ReplaceAll(readFixture("data_a.txt"), "\n", "\r\n")
		d := DiffText(eol.Normalize(crlf), readFixture("data_a2.txt"))
		require.NoError(t, d.validate())
		deleted, inserted := d.Stats()
		assert.Equal(t, 1, deleted)
		assert.Equal(t, 1, inserted)
		for _, h := range d.Hunks {
			assert.NotContains(t, h.OldText, "\r")
		}
	})
}
