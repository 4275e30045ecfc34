package fs

import (
	"fmt"
	iofs "io/fs"
	"path"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Transcripts returns the transcript files in fsys matching pattern, in
// lexical order. Supports ** for recursive matching. Only files with the
// [Ext] extension are returned.
func Transcripts(fsys iofs.FS, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("fs: invalid glob pattern: %s", pattern)
	}
	var matches []string
	err := doublestar.GlobWalk(fsys, pattern, func(p string, d iofs.DirEntry) error {
		if d.IsDir() || path.Ext(p) != Ext {
			return nil
		}
		matches = append(matches, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fs: %w", err)
	}
	sort.Strings(matches)
	return matches, nil
}
