package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps blobs in process memory. Used in development and tests.
type MemoryStore struct {
	mu      sync.Mutex
	base    string
	objects map[string][]byte

	// FailUpload / FailDelete force the next calls to fail.
	FailUpload error
	FailDelete error
}

// NewMemoryStore creates an empty store serving URLs under base.
func NewMemoryStore(base string) *MemoryStore {
	if base == "" {
		base = "memory://blobs"
	}
	return &MemoryStore{base: strings.TrimRight(base, "/"), objects: make(map[string][]byte)}
}

// Upload reads the body into memory.
func (m *MemoryStore) Upload(_ context.Context, in UploadInput) (*Object, error) {
	if m.FailUpload != nil {
		return nil, m.FailUpload
	}
	var buf bytes.Buffer
	if in.Body != nil {
		if _, err := io.Copy(&buf, in.Body); err != nil {
			return nil, err
		}
	}
	key := objectKey("", in.Folder, in.FileName, time.Now())

	m.mu.Lock()
	defer m.mu.Unlock()
	// millisecond keys can collide inside one test
	for {
		if _, taken := m.objects[key]; !taken {
			break
		}
		key += "_"
	}
	m.objects[key] = buf.Bytes()
	return &Object{ID: key, URL: m.base + "/" + key}, nil
}

// Delete removes the object if present.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	if m.FailDelete != nil {
		return m.FailDelete
	}
	m.mu.Lock()
	delete(m.objects, id)
	m.mu.Unlock()
	return nil
}

// Has reports whether id is stored.
func (m *MemoryStore) Has(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[id]
	return ok
}

// Len number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
