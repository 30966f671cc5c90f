package platform

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
)

// ErrNoRoot is returned by FindRoot when no ancestor is a site root.
var ErrNoRoot = errors.New("no hrpc site root found")

// rootMarkers are the entries that make a directory a site root.
var rootMarkers = []string{ConfigFile, ".hrpc"}

// FindRoot returns the nearest directory at or above startDir that holds
// one of the root markers.
func FindRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		if slices.ContainsFunc(rootMarkers, func(name string) bool { return exists(filepath.Join(dir, name)) }) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoRoot
		}
		dir = parent
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
