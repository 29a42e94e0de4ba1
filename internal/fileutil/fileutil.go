package fileutil

import (
	"path/filepath"
	"strings"
)

// Stem returns the base name of path with its extension removed. A name that
// is nothing but an extension (".bashrc") is returned unchanged.
func Stem(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		return base
	}
	return stem
}

// OutputName derives the output file name for an input path: the input stem
// plus ext. Files that share a stem therefore map to the same output name;
// the later conversion overwrites the earlier one.
func OutputName(inputPath, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return Stem(inputPath) + ext
}

// Dedupe returns paths with duplicates removed, preserving first-seen order.
func Dedupe(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, path := range paths {
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}
	return out
}
