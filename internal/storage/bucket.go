package storage

import (
	"context"
	"net/url"
	"strings"

	"hospital-admin-go/internal/domain/shared"
)

// Bucket binds a bucket and key prefix so domain services can upload without
// knowing where their files live.
type Bucket struct {
	store  *SupabaseStorage
	name   string
	prefix string
}

func (s *SupabaseStorage) Bucket(name, prefix string) *Bucket {
	return &Bucket{store: s, name: name, prefix: prefix}
}

func (b *Bucket) Upload(ctx context.Context, file shared.File) (string, error) {
	object, err := b.store.Upload(ctx, b.name, b.prefix, file.Name, file.ContentType, file.Body)
	if err != nil {
		return "", err
	}
	return object.PublicURL, nil
}

// Remove deletes the object behind a public URL issued by this bucket. URLs
// pointing anywhere else are left alone.
func (b *Bucket) Remove(ctx context.Context, publicURL string) error {
	objectPath, ok := strings.CutPrefix(publicURL, b.store.PublicURL(b.name, ""))
	if !ok || objectPath == "" {
		return nil
	}
	unescaped, err := url.PathUnescape(objectPath)
	if err != nil {
		return nil
	}
	return b.store.Remove(ctx, b.name, unescaped)
}
