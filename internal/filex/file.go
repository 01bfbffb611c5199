// Package filex holds the small filesystem helpers shared by the server's
// SQLite storage and the client's photo upload.
package filex

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MaxPhotoBytes caps what ReadPhoto loads into memory.
const MaxPhotoBytes = 8 << 20

// EnsureParentDir creates the directory holding path. In-memory SQLite
// names and URIs are left alone.
func EnsureParentDir(path string) error {
	if path == "" || path == ":memory:" || strings.HasPrefix(path, "file:") {
		return nil
	}

	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// ReadPhoto loads a photo file and sniffs its content type.
func ReadPhoto(path string) (data []byte, contentType string, err error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, "", fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return nil, "", fmt.Errorf("%s is a directory", path)
	}
	if fi.Size() > MaxPhotoBytes {
		return nil, "", fmt.Errorf("%s is %d bytes, limit is %d", path, fi.Size(), MaxPhotoBytes)
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	return data, http.DetectContentType(data), nil
}
