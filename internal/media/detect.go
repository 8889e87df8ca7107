// Package media knows which files the player can decode.
package media

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Extensions lists the playable formats in display order.
var Extensions = []string{".mp3", ".wav", ".flac", ".ogg"}

// IsSupportedExt returns true if the extension is a supported playable media format.
func IsSupportedExt(ext string) bool {
	return slices.Contains(Extensions, strings.ToLower(ext))
}

// SupportedExtsList returns a human-readable list of supported playable media formats.
func SupportedExtsList() string {
	return strings.Join(Extensions, ", ")
}

// ScanDir returns the names of playable files in dir, sorted
// case-insensitively. Directories are skipped.
func ScanDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !IsSupportedExt(filepath.Ext(e.Name())) {
			continue
		}
		names = append(names, e.Name())
	}
	slices.SortFunc(names, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return names, nil
}
