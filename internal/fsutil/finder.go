package fsutil

import (
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
)

// ExpandInputs expands glob patterns (including "**") into a sorted,
// de-duplicated list of paths. A pattern without glob characters is kept
// as is, so a missing file is reported later as ErrNotFound rather than
// silently dropped.
func ExpandInputs(patterns []string) ([]string, error) {
	var paths []string

	for _, pattern := range patterns {
		if !hasMeta(pattern) {
			paths = append(paths, pattern)

			continue
		}

		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "expanding %q", pattern)
		}

		if len(matches) == 0 {
			return nil, errors.Wrapf(ErrNotFound, "no files match %q", pattern)
		}

		paths = append(paths, matches...)
	}

	slices.Sort(paths)

	return slices.Compact(paths), nil
}

func hasMeta(pattern string) bool {
	for _, r := range pattern {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}

	return false
}
