package photos

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/carnet/internal/common"
	"github.com/google/uuid"
)

const memScheme = "mem://"

type blob struct {
	data        []byte
	contentType string
}

// MemoryStorage keeps photos in process memory and resolves them to data: URLs.
type MemoryStorage struct {
	mu    sync.RWMutex
	blobs map[string]blob
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{blobs: make(map[string]blob)}
}

func (m *MemoryStorage) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty photo: %w", common.ErrorInvalidInput)
	}
	id := uuid.NewString()
	cp := make([]byte, len(data))
	copy(cp, data)

	m.mu.Lock()
	m.blobs[id] = blob{data: cp, contentType: contentType}
	m.mu.Unlock()

	return memScheme + id, nil
}

func (m *MemoryStorage) Resolve(ctx context.Context, ref string) (string, error) {
	if isHTTPURL(ref) {
		return ref, nil
	}
	id, ok := strings.CutPrefix(ref, memScheme)
	if !ok {
		return "", unsupportedRef(ref)
	}

	m.mu.RLock()
	b, found := m.blobs[id]
	m.mu.RUnlock()
	if !found {
		return "", fmt.Errorf("photo %s: %w", id, common.ErrorNotFound)
	}
	return "data:" + b.contentType + ";base64," + base64.StdEncoding.EncodeToString(b.data), nil
}

// Len reports the number of stored photos.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blobs)
}
