package main

import (
	"os"
	"path/filepath"
	"runtime"
)

// LocatePreloadLib resolves the shared library injected into benchmark
// processes via LD_PRELOAD. The library ships alongside the harness binary,
// so the search is anchored at the executable's installation layout.
// Safe to call once per run and reuse across all commands.
func LocatePreloadLib() (string, error) {
	switch runtime.GOOS {
	case "linux", "darwin", "freebsd":
	default:
		return "", &LocateError{Platform: runtime.GOOS}
	}

	exe, err := os.Executable()
	if err != nil {
		return "", &LocateError{Searched: []string{"<unknown executable path>"}}
	}
	dir := filepath.Dir(exe)

	searched := make([]string, 0, 3)
	for _, candidate := range []string{
		filepath.Join(dir, PreloadLibName),
		filepath.Join(dir, "..", "lib", IntegrationName, PreloadLibName),
		filepath.Join("/usr/local/lib", IntegrationName, PreloadLibName),
	} {
		if isRegularFile(candidate) {
			return candidate, nil
		}
		searched = append(searched, candidate)
	}
	return "", &LocateError{Searched: searched}
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
