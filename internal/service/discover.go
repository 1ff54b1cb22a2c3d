package service

import (
	"fmt"
	"os"
	"path/filepath"
)

var photoExtensions = map[string]bool{
	".jpg":  true,
	".JPG":  true,
	".jpeg": true,
	".JPEG": true,
}

// DiscoverPhotos lists the JPEG files directly inside dir, sorted by name.
func DiscoverPhotos(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read photo directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !photoExtensions[filepath.Ext(entry.Name())] {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}
