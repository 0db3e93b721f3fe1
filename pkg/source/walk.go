package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultIgnoreDirs are directories that never hold project sources.
var DefaultIgnoreDirs = []string{
	"node_modules", ".git", ".next", ".vercel", ".turbo",
	"dist", "build", "out", "coverage",
	".idea", ".vscode",
}

// WalkOptions configures directory traversal.
type WalkOptions struct {
	IgnoreDirs    []string // directories to skip (default: DefaultIgnoreDirs)
	IncludeHidden bool     // include dot files and dot directories
	MaxFileBytes  int64    // skip larger files; 0 means no limit
}

// FromDir walks root and returns a handle per regular file, sorted by
// project-relative path.
func FromDir(root string, opts WalkOptions) ([]Handle, error) {
	ignoreDirs := opts.IgnoreDirs
	if len(ignoreDirs) == 0 {
		ignoreDirs = DefaultIgnoreDirs
	}
	ignored := make(map[string]bool, len(ignoreDirs))
	for _, d := range ignoreDirs {
		ignored[d] = true
	}

	var handles []Handle
	err := filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}

		name := info.Name()
		if info.IsDir() {
			if ignored[name] || (!opts.IncludeHidden && strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		if !opts.IncludeHidden && strings.HasPrefix(name, ".") {
			return nil
		}
		if opts.MaxFileBytes > 0 && info.Size() > opts.MaxFileBytes {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		handles = append(handles, NewFileHandle(filepath.ToSlash(rel), p))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Slice(handles, func(i, j int) bool { return handles[i].Path() < handles[j].Path() })
	return handles, nil
}
