package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"rental-backend/internal/models"
)

// LocalReceiptStore writes receipts into a directory on disk.
type LocalReceiptStore struct {
	dir string
}

func NewLocalReceiptStore(dir string) (*LocalReceiptStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create receipts dir: %w", err)
	}
	log.Printf("[Receipts] Storing receipts in %s", dir)
	return &LocalReceiptStore{dir: dir}, nil
}

func (s *LocalReceiptStore) path(id string) string {
	return filepath.Join(s.dir, id+".pdf")
}

func (s *LocalReceiptStore) Save(ctx context.Context, data []byte) (string, error) {
	if err := checkSize(data); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := newReceiptID()
	if err := os.WriteFile(s.path(id), data, 0o644); err != nil {
		return "", models.Unavailable(err, "failed to store receipt")
	}
	return id, nil
}

func (s *LocalReceiptStore) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	if err := ValidateReceiptID(id); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, models.NotFound("receipt %s not found", id)
		}
		return nil, models.Unavailable(err, "failed to open receipt")
	}
	return f, nil
}
