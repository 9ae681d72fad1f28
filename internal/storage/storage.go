package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

const (
	avatarPrefix       = "avatars/"
	avatarFetchTimeout = 10 * time.Second
	maxAvatarBytes     = 5 << 20
)

// AvatarStore caches user profile photos in object storage. Photos are
// downloaded from the URL Google reports and served from the bucket, so
// the frontend never hot-links Google's CDN.
type AvatarStore struct {
	backend    ObjectStorage
	httpClient *http.Client
}

// NewAvatarStore constructs an AvatarStore over the provided backend.
func NewAvatarStore(backend ObjectStorage) *AvatarStore {
	return &AvatarStore{
		backend: backend,
		httpClient: &http.Client{
			Timeout: avatarFetchTimeout,
		},
	}
}

// EnsureBucket ensures the avatar bucket exists.
func (s *AvatarStore) EnsureBucket(ctx context.Context) error {
	return s.backend.EnsureBucket(ctx)
}

// CacheFromURL downloads the photo at url and stores it under a fresh
// object key, which it returns.
func (s *AvatarStore) CacheFromURL(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching avatar failed: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAvatarBytes+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > maxAvatarBytes {
		return "", errors.New("avatar too large")
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	key := avatarPrefix + uuid.NewString()
	if err := s.backend.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", err
	}
	return key, nil
}

// Open returns a reader for a cached avatar.
func (s *AvatarStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.backend.Get(ctx, key)
}

// Delete removes a cached avatar.
func (s *AvatarStore) Delete(ctx context.Context, key string) error {
	return s.backend.Delete(ctx, key)
}
