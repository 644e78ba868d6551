package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SourceExt is the conventional extension of DummyC source files.
const SourceExt = ".dc"

// ResolveSource turns a command-line path into an absolute path and the
// module name a backend should use for it (the base name without extension).
// The path must name an existing regular file.
func ResolveSource(relPath string) (fullPath string, module string, err error) {
	// Convert to absolute path (resolves ../../ and cleans the path)
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		return "", "", err
	}
	if !info.Mode().IsRegular() {
		return "", "", fmt.Errorf("%s is not a regular file", relPath)
	}

	base := filepath.Base(fullPath)
	module = strings.TrimSuffix(base, filepath.Ext(base))
	return fullPath, module, nil
}
