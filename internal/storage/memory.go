package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

type MemoryObject struct {
	Data        []byte
	ContentType string
}

// MemoryStore keeps objects in process memory. Used for local runs and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	bucket  string
	objects map[string]MemoryObject
}

func NewMemoryStore(bucket string) *MemoryStore {
	return &MemoryStore{
		bucket:  bucket,
		objects: make(map[string]MemoryObject),
	}
}

func (s *MemoryStore) Upload(ctx context.Context, key string, data io.Reader, _ int64, contentType string) (Handle, error) {
	if key == "" {
		return Handle{}, errors.New("empty object key")
	}
	if err := ctx.Err(); err != nil {
		return Handle{}, err
	}

	b, err := io.ReadAll(data)
	if err != nil {
		return Handle{}, fmt.Errorf("read object %s: %w", key, err)
	}

	s.mu.Lock()
	s.objects[key] = MemoryObject{Data: b, ContentType: contentType}
	s.mu.Unlock()

	return Handle{Bucket: s.bucket, Key: key}, nil
}

func (s *MemoryStore) RetrievalURL(_ context.Context, h Handle) (string, error) {
	s.mu.RLock()
	_, ok := s.objects[h.Key]
	s.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("object %s not found", h.Key)
	}
	return publicURL("memory://"+h.Bucket, h.Key), nil
}

func (s *MemoryStore) Object(key string) (MemoryObject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj, ok
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
