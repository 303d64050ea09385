package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// LocalStore writes attachment content to a directory on the local disk.
// Stored names carry a millisecond timestamp plus a random component so two
// uploads of the same file name never collide, even within the same
// millisecond.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save persists the content and returns the path the file was stored under,
// relative to the process working directory.
func (s *LocalStore) Save(ctx context.Context, fileName string, content io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stored := fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), uuid.NewString()[:8], filepath.Base(fileName))
	path := filepath.Join(s.dir, stored)

	// O_EXCL refuses to overwrite an existing file of the same name.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create file %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write file %s: %w", path, err)
	}

	return path, nil
}

// Dir returns the root directory uploads are served from.
func (s *LocalStore) Dir() string {
	return s.dir
}
