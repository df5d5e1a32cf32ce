// Package blob holds the upload stores selected by BLOB_DRIVER.
package blob

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// PublicPrefix is the URL path local uploads are served under.
const PublicPrefix = "/uploads"

var errBadName = errors.New("blob: invalid object name")

// LocalStore writes uploads below a directory on disk.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("blob: create upload dir: %w", err)
	}
	return &LocalStore{root: root}, nil
}

// Root is the directory served at PublicPrefix.
func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) Store(ctx context.Context, data []byte, suggestedName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name, err := cleanName(suggestedName)
	if err != nil {
		return "", err
	}

	dst := filepath.Join(s.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("blob: create dir: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", fmt.Errorf("blob: write %s: %w", name, err)
	}
	return PublicPrefix + "/" + name, nil
}

// cleanName rejects names that would escape the store root.
func cleanName(name string) (string, error) {
	name = path.Clean("/" + strings.ReplaceAll(name, "\\", "/"))
	name = strings.TrimPrefix(name, "/")
	if name == "" || name == "." {
		return "", errBadName
	}
	return name, nil
}
