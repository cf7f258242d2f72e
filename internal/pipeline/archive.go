package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Archiver keeps a copy of every uploaded file on local disk.
type Archiver struct {
	dir string
}

// NewArchiver creates dir if needed. An empty dir returns nil, which
// disables archiving.
func NewArchiver(dir string) (*Archiver, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Archiver{dir: dir}, nil
}

// Save writes the upload as <uploadID>_<original name> and returns the path.
// Only the base of the client-supplied name is used.
func (a *Archiver) Save(uploadID string, up Upload) (string, error) {
	name := filepath.Base(strings.ReplaceAll(up.Filename, `\`, "/"))
	if name == "." || name == "/" || name == "" {
		name = "upload"
	}
	path := filepath.Join(a.dir, uploadID+"_"+name)
	if err := os.WriteFile(path, up.Data, 0o640); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return path, nil
}
