package expectorate

import (
	"fmt"

	"github.com/stretchr/testify/assert"
)

// FilePredicate is a reusable check that a string equals the contents of a reference file. Unless built with WithConfig, it reads EXPECTORATE on every evaluation, like AssertContents.
type FilePredicate struct {
	path   string
	panics bool
	cfg    *Config // nil means ConfigFromEnv at each Eval.
}

// EqFile returns a predicate that reports a mismatch by printing the diff and returning false.
func EqFile(path string) *FilePredicate {
	return &FilePredicate{path: path}
}

// EqFileOrPanic returns a predicate that panics on a mismatch instead of returning false.
func EqFileOrPanic(path string) *FilePredicate {
	return &FilePredicate{path: path, panics: true}
}

// WithConfig returns a copy of p that uses cfg instead of reading the environment.
func (p *FilePredicate) WithConfig(cfg Config) *FilePredicate {
	cp := *p
	cp.cfg = &cfg
	return &cp
}

func (p *FilePredicate) String() string {
	return fmt.Sprintf("%s %t", p.path, p.panics)
}

// Eval reports whether actual matches the reference file. In overwrite mode it writes the file and returns true.
//
// I/O errors always panic, since no comparison happened. Mismatches panic only for predicates made with EqFileOrPanic.
func (p *FilePredicate) Eval(actual string) bool {
	cfg := ConfigFromEnv()
	if p.cfg != nil {
		cfg = *p.cfg
	}

	res, err := Compare(p.path, actual, cfg)
	if err != nil {
		panic(fmt.Sprintf("assertion failed: %v", err))
	}
	if res.OK() {
		return true
	}

	fmt.Fprintln(cfg.out(), res.Report(cfg.useColor()))
	if p.panics {
		panic(fmt.Sprintf("%v", res.Err()))
	}
	fmt.Fprintln(cfg.out(), res.Err())
	return false
}

// Comparison adapts p to testify, for use with assert.Condition:
//
//	assert.Condition(t, expectorate.EqFile("testdata/out.txt").Comparison(got))
func (p *FilePredicate) Comparison(actual string) assert.Comparison {
	return func() bool {
		return p.Eval(actual)
	}
}
