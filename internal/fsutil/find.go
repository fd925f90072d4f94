// Package fsutil locates project files for the audit parsers.
package fsutil

import (
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// SkipDirs are directory names never descended into: version control,
// dependency caches, bytecode caches, build output.
var SkipDirs = map[string]bool{
	".git":         true,
	".venv":        true,
	"venv":         true,
	"node_modules": true,
	"__pycache__":  true,
	"dist":         true,
	"build":        true,
	".next":        true,
}

// FindFiles walks root and returns the deduplicated, sorted list of absolute
// paths matching any of the glob patterns. Patterns are slash-separated;
// "**" matches any number of path segments and "*" matches within a segment.
// A missing or unreadable root simply yields no files.
func FindFiles(root string, patterns []string) []string {
	seen := map[string]bool{}
	var result []string

	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if p != root && SkipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		for _, pattern := range patterns {
			if MatchPattern(pattern, rel) {
				abs, err := filepath.Abs(p)
				if err != nil {
					abs = p
				}
				if !seen[abs] {
					seen[abs] = true
					result = append(result, abs)
				}
				break
			}
		}
		return nil
	})

	sort.Strings(result)
	return result
}

// MatchPattern reports whether the slash-separated relative path matches the
// pattern. "**" spans zero or more segments.
func MatchPattern(pattern, rel string) bool {
	return matchSegments(strings.Split(pattern, "/"), strings.Split(rel, "/"))
}

func matchSegments(pat, segs []string) bool {
	if len(pat) == 0 {
		return len(segs) == 0
	}
	if pat[0] == "**" {
		for i := 0; i <= len(segs); i++ {
			if matchSegments(pat[1:], segs[i:]) {
				return true
			}
		}
		return false
	}
	if len(segs) == 0 {
		return false
	}
	ok, err := path.Match(pat[0], segs[0])
	if err != nil || !ok {
		return false
	}
	return matchSegments(pat[1:], segs[1:])
}
