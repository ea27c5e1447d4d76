package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"rental-backend/internal/config"
	"rental-backend/internal/models"

	"github.com/google/uuid"
)

const (
	// MaxReceiptSize caps a stored receipt PDF.
	MaxReceiptSize = 5 << 20
	receiptIDLen   = 12
	maxReceiptID   = 20
)

// ReceiptStore keeps generated receipt PDFs behind short opaque ids.
type ReceiptStore interface {
	Save(ctx context.Context, data []byte) (string, error)
	Open(ctx context.Context, id string) (io.ReadCloser, error)
}

// New picks the backend named by receipts.backend.
func New(ctx context.Context, cfg *config.Config) (ReceiptStore, error) {
	switch cfg.Receipts.Backend {
	case "s3", "r2":
		return NewS3ReceiptStore(ctx, cfg)
	case "", "local":
		return NewLocalReceiptStore(cfg.Receipts.Dir)
	default:
		return nil, fmt.Errorf("unknown receipts backend %q", cfg.Receipts.Backend)
	}
}

func newReceiptID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:receiptIDLen]
}

// ValidateReceiptID rejects anything that is not a short alphanumeric id so
// ids can never escape the storage prefix.
func ValidateReceiptID(id string) error {
	if id == "" || len(id) > maxReceiptID {
		return models.Validation("invalid receipt id")
	}
	for _, c := range id {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			return models.Validation("invalid receipt id")
		}
	}
	return nil
}

func checkSize(data []byte) error {
	if len(data) == 0 {
		return models.Validation("receipt is empty")
	}
	if len(data) > MaxReceiptSize {
		return models.Validation("receipt exceeds %d bytes", MaxReceiptSize)
	}
	return nil
}
