package expectorate

import "fmt"

// TB is the part of testing.TB that AssertContents uses. *testing.T and *testing.B satisfy it.
type TB interface {
	Helper()
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)
}

// AssertContents fails t unless actual matches the contents of the file at path. Set EXPECTORATE=overwrite to write actual to path instead.
//
// On a mismatch, a unified diff is printed to stdout and t.Errorf is called, so the test keeps running. I/O errors call t.Fatalf.
func AssertContents(t TB, path string, actual string) {
	t.Helper()
	AssertContentsWith(t, path, actual, ConfigFromEnv())
}

// AssertContentsWith is AssertContents with an explicit Config instead of one read from the environment.
func AssertContentsWith(t TB, path string, actual string, cfg Config) {
	t.Helper()
	res, err := Compare(path, actual, cfg)
	if err != nil {
		t.Fatalf("%v", err)
		return
	}
	if res.OK() {
		return
	}
	fmt.Fprintln(cfg.out(), res.Report(cfg.useColor()))
	t.Errorf("%v", res.Err())
}
