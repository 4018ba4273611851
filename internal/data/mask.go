package data

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
)

// LoadMask reads the greyscale occlusion mask of a location: raw bytes,
// width*height, row-major. A missing file is not an error; it returns nil and
// the room is treated as fully visible.
func LoadMask(dir string, location, width, height int) ([]byte, error) {
	path := filepath.Join(dir, strconv.Itoa(location)+".msk")
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read mask %s: %w", path, err)
	}
	if len(raw) != width*height {
		return nil, fmt.Errorf("mask %s: %d bytes, want %dx%d", path, len(raw), width, height)
	}
	return raw, nil
}
