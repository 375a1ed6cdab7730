package api

import (
	"path/filepath"
	"strings"
)

// ContainsPathTraversal checks if a path contains ".." components that could
// be used for directory traversal attacks.
//
// This checks the raw path before any normalization, catching attempts like:
// - ".."
// - "../foo"
// - "foo/../bar"
// - "foo/.."
func ContainsPathTraversal(path string) bool {
	// Normalize path separators for cross-platform checking
	normalizedPath := filepath.ToSlash(path)

	for _, part := range strings.Split(normalizedPath, "/") {
		if part == ".." {
			return true
		}
	}
	return false
}

// IsContainedIn reports whether path is container itself or lies beneath it.
// Paths are resolved to absolute before comparison.
func IsContainedIn(path, container string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absContainer, err := filepath.Abs(container)
	if err != nil {
		return false
	}

	if absPath == absContainer {
		return true
	}

	// If the relative path starts with "..", it's outside the container
	relPath, err := filepath.Rel(absContainer, absPath)
	if err != nil {
		return false
	}
	return relPath != ".." && !strings.HasPrefix(relPath, ".."+string(filepath.Separator))
}
