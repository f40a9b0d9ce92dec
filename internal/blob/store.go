package blob

import (
	"context"
	"errors"
)

var (
	ErrNotFound           = errors.New("blob: object not found")
	ErrInvalidKey         = errors.New("blob: invalid object key")
	ErrPresignUnsupported = errors.New("blob: presigned URLs are not supported by this store")
)

// Store represents a blob storage interface
type Store interface {
	PutObject(ctx context.Context, key string, data []byte, contentType string) (int64, error)
	GetObject(ctx context.Context, key string) ([]byte, error)
	PresignGet(ctx context.Context, key string, ttlSeconds int) (string, error)
	DeleteObject(ctx context.Context, key string) error
}
