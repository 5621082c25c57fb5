package storage

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	exportapp "github.com/prodtrack/backend/internal/application/export"
)

// MemoryObjectStorage keeps archives in process memory and hands out
// URLs under BaseURL. It backs local runs without an object store.
type MemoryObjectStorage struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	data        []byte
	contentType string
}

// NewMemoryObjectStorage creates an empty store
func NewMemoryObjectStorage(baseURL string) *MemoryObjectStorage {
	if baseURL == "" {
		baseURL = "http://localhost/archive"
	}
	return &MemoryObjectStorage{BaseURL: baseURL, objects: make(map[string]memoryObject)}
}

// Upload stores a copy of data
func (s *MemoryObjectStorage) Upload(_ context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	copied := make([]byte, len(data))
	copy(copied, data)
	s.mu.Lock()
	s.objects[key] = memoryObject{data: copied, contentType: contentType}
	s.mu.Unlock()
	return nil
}

// GenerateDownloadURL returns a URL for a stored key
func (s *MemoryObjectStorage) GenerateDownloadURL(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	s.mu.RLock()
	_, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return "", time.Time{}, errors.New("object not found: " + key)
	}
	if expiresIn <= 0 {
		expiresIn = defaultPresignTTL
	}
	expiresAt := time.Now().Add(expiresIn)
	u := s.BaseURL + "/" + url.PathEscape(key) + "?expires=" + url.QueryEscape(expiresAt.UTC().Format(time.RFC3339))
	return u, expiresAt, nil
}

// Object returns the stored bytes and content type of key
func (s *MemoryObjectStorage) Object(key string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj.data, obj.contentType, ok
}

var _ exportapp.ArchiveStorage = (*MemoryObjectStorage)(nil)
