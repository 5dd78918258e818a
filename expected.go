package expectorate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"unicode/utf8"
)

// expectedState is the reference file as last read. An absent file compares like an empty one.
type expectedState struct {
	present bool
	content string
}

func (s expectedState) text() string {
	if !s.present {
		return ""
	}
	return s.content
}

// resolveExpected reads the reference file at path. A missing file is not an error; anything else that stops us from reading valid UTF-8 text is.
func resolveExpected(path string) (expectedState, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expectedState{}, nil
		}
		return expectedState{}, fmt.Errorf("unable to read contents of %s: %w", path, err)
	}
	if !utf8.Valid(b) {
		return expectedState{}, fmt.Errorf("unable to read contents of %s: %w", path, ErrInvalidText)
	}
	return expectedState{present: true, content: string(b)}, nil
}
