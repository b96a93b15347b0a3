package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Storage keeps each tenant's uploads under its own subdirectory. Keys
// are sanitized upstream so a key can never escape the tenant prefix.
type Storage struct {
	basePath string
}

func New(basePath string) (*Storage, error) {
	if basePath == "" {
		basePath = "./data/storage"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Storage{basePath: basePath}, nil
}

func (s *Storage) Save(_ context.Context, tenantID, key string, data io.Reader) (int64, error) {
	dir := filepath.Join(s.basePath, tenantID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create tenant dir: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, key))
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, data)
	if err != nil {
		return 0, fmt.Errorf("write file: %w", err)
	}
	return written, nil
}

func (s *Storage) Open(_ context.Context, tenantID, key string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.basePath, tenantID, key))
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

func (s *Storage) Locate(_ context.Context, tenantID, key string) (string, error) {
	path := filepath.Join(s.basePath, tenantID, key)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("stat file: %w", err)
	}
	return path, nil
}

func (s *Storage) Remove(_ context.Context, tenantID, key string) error {
	if err := os.Remove(filepath.Join(s.basePath, tenantID, key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}
