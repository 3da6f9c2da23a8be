// Package fsutil provides file system helpers shared by the file-level entry
// points: reading with typed not-found errors, atomic writes and input
// globbing.
package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

var (
	// ErrNotFound is returned when an input file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrDecode is returned when a file exists but its content cannot be
	// decoded (malformed JSON).
	ErrDecode = errors.New("decode error")
)

const (
	// FilePerm is the mode for files written by su2cfg.
	FilePerm fs.FileMode = 0o644

	// DirPerm is the mode for directories created by su2cfg.
	DirPerm fs.FileMode = 0o755
)

// Open opens path for reading. A missing file yields an error matching
// ErrNotFound.
func Open(path string) (*os.File, error) {
	//nolint:gosec // paths are supplied by the user on purpose
	f, err := os.Open(path)
	if err != nil {
		return nil, notFound(err, path)
	}

	return f, nil
}

// ReadFile reads the whole file at path. A missing file yields an error
// matching ErrNotFound.
func ReadFile(path string) ([]byte, error) {
	//nolint:gosec // paths are supplied by the user on purpose
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, notFound(err, path)
	}

	return data, nil
}

func notFound(err error, path string) error {
	if errors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(ErrNotFound, "%s", path)
	}

	return errors.Wrapf(err, "reading %s", path)
}

// WriteFileAtomic writes data to a temporary file next to path and renames
// it into place, creating parent directories as needed.
func WriteFileAtomic(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return errors.Wrapf(err, "creating directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "creating temporary file")
	}

	tmpName := tmp.Name()

	defer func() {
		// no-op once the rename succeeded
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()

		return errors.Wrapf(err, "writing %s", path)
	}

	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()

		return errors.Wrapf(err, "setting mode on %s", path)
	}

	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", path)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrapf(err, "renaming into %s", path)
	}

	return nil
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}
