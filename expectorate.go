package expectorate

import (
	"errors"
	"fmt"

	"github.com/oxidecomputer/expectorate/internal/diff"
	"github.com/oxidecomputer/expectorate/internal/q/atomicfile"
	"github.com/oxidecomputer/expectorate/internal/q/eol"
	"github.com/oxidecomputer/expectorate/internal/simplelogger"
)

// DiffContext is the number of unchanged lines shown around each change in a mismatch report.
const DiffContext = 5

// ErrInvalidText is wrapped by errors for reference files that are not valid UTF-8.
var ErrInvalidText = errors.New("not valid UTF-8 text")

// ErrCreateForbidden is wrapped by overwrite-mode errors when Config.NoCreate is set and the reference file does not exist.
var ErrCreateForbidden = atomicfile.ErrCreateForbidden

// Outcome is the terminal state of one Compare call.
type Outcome int

const (
	OutcomeUnknown   Outcome = iota // Compare failed with an error; nothing was decided.
	OutcomeMatch                    // Check mode: actual equals the reference.
	OutcomeMismatch                 // Check mode: actual differs; see Result.Report.
	OutcomeUnchanged                // Overwrite mode: reference already held actual; nothing written.
	OutcomeCreated                  // Overwrite mode: reference did not exist and was created.
	OutcomeReplaced                 // Overwrite mode: reference was atomically replaced.
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnknown:
		return "unknown"
	case OutcomeMatch:
		return "match"
	case OutcomeMismatch:
		return "mismatch"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeCreated:
		return "created"
	case OutcomeReplaced:
		return "replaced"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Result is the outcome of comparing one actual value against one reference file.
type Result struct {
	Path    string
	Outcome Outcome

	diff diff.Diff // Set only for OutcomeMismatch.
}

// OK reports whether the assertion passed. OutcomeMismatch fails, and so does the zero Result returned alongside an error.
func (r Result) OK() bool {
	switch r.Outcome {
	case OutcomeMatch, OutcomeUnchanged, OutcomeCreated, OutcomeReplaced:
		return true
	}
	return false
}

// Report renders the mismatch as a unified diff from the reference file (-) to the actual value (+). It returns "" unless r.Outcome is OutcomeMismatch.
func (r Result) Report(color bool) string {
	if r.Outcome != OutcomeMismatch {
		return ""
	}
	return r.diff.RenderUnifiedDiff(color, r.Path, r.Path+" (actual)", DiffContext)
}

// Err returns a *MismatchError for OutcomeMismatch and nil otherwise.
func (r Result) Err() error {
	if r.Outcome != OutcomeMismatch {
		return nil
	}
	deleted, inserted := r.diff.Stats()
	return &MismatchError{Path: r.Path, Deleted: deleted, Inserted: inserted}
}

// MismatchError is the failure for an actual value that differs from its reference file in check mode.
type MismatchError struct {
	Path     string
	Deleted  int // Lines only in the reference file.
	Inserted int // Lines only in the actual value.
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("assertion failed: string doesn't match the contents of file: %q see diff above\nset %s=%s if these changes are intentional", e.Path, EnvVar, OverwriteValue)
}

// IsMismatch reports whether err is (or wraps) a *MismatchError.
func IsMismatch(err error) bool {
	var me *MismatchError
	return errors.As(err, &me)
}

// Compare checks actual against the reference file at path, or in overwrite mode makes the file hold actual.
//
// Line endings in both actual and the reference are normalized to "\n" first. A missing reference file behaves as an empty one. In overwrite mode, the file is
// written atomically and only if its bytes differ from normalized actual, so unchanged output never touches its modification time.
//
// A mismatch is not an error: it is reported as OutcomeMismatch. The error return is for I/O problems (unreadable file, invalid UTF-8, failed write, or a forbidden
// create under cfg.NoCreate), all of which name path. With an error, the Result's Outcome is OutcomeUnknown and OK reports false.
func Compare(path string, actual string, cfg Config) (Result, error) {
	actual = eol.Normalize(actual)

	expected, err := resolveExpected(path)
	if err != nil {
		return Result{Path: path}, err
	}

	if cfg.Mode == ModeOverwrite {
		return overwrite(path, expected, actual, cfg)
	}

	want := eol.Normalize(expected.text())
	if want == actual {
		return Result{Path: path, Outcome: OutcomeMatch}, nil
	}

	d := diff.DiffText(want, actual)
	deleted, inserted := d.Stats()
	simplelogger.Log("expectorate: %s: mismatch (-%d +%d lines)", path, deleted, inserted)
	return Result{Path: path, Outcome: OutcomeMismatch, diff: d}, nil
}

func overwrite(path string, expected expectedState, actual string, cfg Config) (Result, error) {
	prior := atomicfile.Prior{Exists: expected.present, Content: []byte(expected.content)}
	decision, err := atomicfile.Write(path, prior, []byte(actual), atomicfile.Options{NoCreate: cfg.NoCreate})
	if err != nil {
		if errors.Is(err, atomicfile.ErrCreateForbidden) {
			return Result{Path: path}, err
		}
		return Result{Path: path}, fmt.Errorf("unable to write to %s: %w", path, err)
	}
	simplelogger.Log("expectorate: %s: overwrite %v", path, decision)

	var outcome Outcome
	switch decision {
	case atomicfile.DecisionSkip:
		outcome = OutcomeUnchanged
	case atomicfile.DecisionCreate:
		outcome = OutcomeCreated
	default:
		outcome = OutcomeReplaced
	}
	return Result{Path: path, Outcome: outcome}, nil
}
