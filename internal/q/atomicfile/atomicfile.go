// Package atomicfile replaces file contents so that readers only ever see the old bytes or the new bytes.
//
// Write skips the filesystem entirely when the caller's previously observed contents already equal the new contents. This keeps modification times stable
// across repeated runs that produce identical output.
//
// Concurrent writers to the same path are not coordinated: each rename is atomic, and whichever lands last wins.
package atomicfile

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Decision is what Write did (or would do) for a path.
type Decision int

const (
	DecisionSkip    Decision = iota // Contents already matched; nothing was written.
	DecisionCreate                  // The path did not exist and was created.
	DecisionReplace                 // An existing file was replaced.
)

func (d Decision) String() string {
	switch d {
	case DecisionSkip:
		return "skip"
	case DecisionCreate:
		return "create"
	case DecisionReplace:
		return "replace"
	}
	return fmt.Sprintf("Decision(%d)", int(d))
}

// ErrCreateForbidden is returned by Write when Options.NoCreate is set and the prior state says the file does not exist.
var ErrCreateForbidden = errors.New("refusing to create file that did not previously exist")

// Prior is the caller's last observation of the file at a path.
type Prior struct {
	Exists  bool
	Content []byte // Meaningful only if Exists.
}

// Options control Write.
type Options struct {
	// NoCreate forbids the create form of the write. Use it to avoid materializing files at mistyped paths.
	NoCreate bool
}

// defaultPerm is the mode of created files. Replaced files keep their current mode.
const defaultPerm fs.FileMode = 0o644

// renameFile is swapped in tests to simulate a failing final step.
var renameFile = os.Rename

// Decide returns the decision Write would make for prior and data, without touching the filesystem.
func Decide(prior Prior, data []byte) Decision {
	switch {
	case prior.Exists && bytes.Equal(prior.Content, data):
		return DecisionSkip
	case prior.Exists:
		return DecisionReplace
	default:
		return DecisionCreate
	}
}

// Write makes the file at path contain exactly data.
//
// If prior says the file exists with identical content, Write returns DecisionSkip without any filesystem access. Otherwise data is written to a temporary
// file in the same directory, synced, and renamed over path. On any error the temporary file is removed and the previous file (if any) is left intact.
//
// If path is a symlink, the file it resolves to is replaced and the link itself is kept. A dangling symlink is an error.
func Write(path string, prior Prior, data []byte, opts Options) (Decision, error) {
	decision := Decide(prior, data)
	switch decision {
	case DecisionSkip:
		return decision, nil
	case DecisionCreate:
		if opts.NoCreate {
			return decision, fmt.Errorf("%s: %w", path, ErrCreateForbidden)
		}
	}

	path, err := resolveLink(path)
	if err != nil {
		return decision, err
	}

	perm := defaultPerm
	dir := filepath.Dir(path)

	if info, err := os.Stat(path); err == nil {
		if !info.Mode().IsRegular() {
			return decision, fmt.Errorf("%s: not a regular file", path)
		}
		perm = info.Mode().Perm()
	} else if errors.Is(err, fs.ErrNotExist) {
		if decision == DecisionCreate {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return decision, err
			}
		}
	} else {
		return decision, err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return decision, err
	}
	tmpName := tmp.Name()
	renamed := false
	defer func() {
		_ = tmp.Close()
		if !renamed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return decision, err
	}
	if err := tmp.Sync(); err != nil {
		return decision, err
	}
	if err := tmp.Chmod(perm); err != nil {
		return decision, err
	}
	if err := tmp.Close(); err != nil {
		return decision, err
	}

	if err := renameFile(tmpName, path); err != nil {
		return decision, err
	}
	renamed = true
	return decision, nil
}

// resolveLink returns the file path refers to, following symlinks. Paths that are not symlinks (including ones that do not exist) are returned unchanged.
func resolveLink(path string) (string, error) {
	info, err := os.Lstat(path)
	if err != nil || info.Mode()&fs.ModeSymlink == 0 {
		return path, nil
	}
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return path, fmt.Errorf("resolving symlink %s: %w", path, err)
	}
	return target, nil
}
