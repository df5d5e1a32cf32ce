package ports

import (
	"context"

	"github.com/papyrus/bookstore-api/internal/core/domain"
)

// BlobStore persists uploaded files and returns a path or URL clients can
// fetch them from. suggestedName may carry a directory prefix.
type BlobStore interface {
	Store(ctx context.Context, data []byte, suggestedName string) (string, error)
}

// Notifier delivers single-use tokens to principals.
type Notifier interface {
	Send(ctx context.Context, n domain.Notification) error
}
