// Package mapscanner discovers level files in a data directory.
package mapscanner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MapEntry represents a discoverable level in the data directory
type MapEntry struct {
	Name   string // Display name from the file, or the file name without extension
	Path   string // Path to the map file
	Width  int
	Height int
}

// header is the part of a map file needed to list it.
type header struct {
	Name   string     `json:"name"`
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Tiles  [][]string `json:"tiles"`
}

// ScanDataDirectory returns every map in dataPath and its immediate
// subdirectories, sorted by path. Atlas descriptions and files that do not
// parse as maps are skipped.
func ScanDataDirectory(dataPath string) ([]MapEntry, error) {
	entries, err := os.ReadDir(dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	var maps []MapEntry
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if entry.IsDir() {
			// Skip directories that can't be read
			sub, err := scanDir(filepath.Join(dataPath, name))
			if err == nil {
				maps = append(maps, sub...)
			}
			continue
		}
		if m, ok := readEntry(filepath.Join(dataPath, name)); ok {
			maps = append(maps, m)
		}
	}

	sort.Slice(maps, func(i, j int) bool { return maps[i].Path < maps[j].Path })
	return maps, nil
}

func scanDir(dir string) ([]MapEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var maps []MapEntry
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if m, ok := readEntry(filepath.Join(dir, entry.Name())); ok {
			maps = append(maps, m)
		}
	}
	return maps, nil
}

// readEntry reports whether path is a JSON file with a tile layout. Atlas
// descriptions also carry "tiles", as objects, and fail to decode here.
func readEntry(path string) (MapEntry, bool) {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return MapEntry{}, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return MapEntry{}, false
	}
	var h header
	if err := json.Unmarshal(data, &h); err != nil || len(h.Tiles) == 0 {
		return MapEntry{}, false
	}
	if h.Name == "" {
		h.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return MapEntry{Name: h.Name, Path: path, Width: h.Width, Height: h.Height}, true
}

// Find returns the entry whose name matches, ignoring case.
func Find(maps []MapEntry, name string) (MapEntry, bool) {
	for _, m := range maps {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return MapEntry{}, false
}
