package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// IsDevRun checks if the current process is running via `go run` or `go test`.
// It relies on the fact that these commands build binaries in temporary directories.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}
	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(os.TempDir())) {
		return true
	}
	return strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe")
}

// ResolveDataPath determines the directory used by the fs adapter.
// When forceTemp is set, paths outside the temp dir are re-rooted under
// <tmp>/hrpc-dev so dev runs never overwrite real content.
func ResolveDataPath(userPath string, forceTemp bool) string {
	if !forceTemp {
		if userPath == "" {
			return "data"
		}
		return userPath
	}

	clean := filepath.Clean(userPath)
	// Already inside the temp dir (e.g. t.TempDir()): trust it.
	if rel, err := filepath.Rel(os.TempDir(), clean); err == nil && !strings.HasPrefix(rel, "..") && userPath != "" {
		return clean
	}

	sub := filepath.Base(userPath)
	if userPath == "" || sub == "." || sub == string(os.PathSeparator) {
		sub = "default"
	}
	return filepath.Join(os.TempDir(), "hrpc-dev", sub)
}
