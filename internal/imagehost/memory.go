package imagehost

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
)

// MemoryHost is an in-process Host used in tests.
type MemoryHost struct {
	mu      sync.Mutex
	objects map[string][]byte
	Deleted []string
}

func NewMemoryHost() *MemoryHost {
	return &MemoryHost{objects: map[string][]byte{}}
}

func (h *MemoryHost) Upload(_ context.Context, file File) (string, error) {
	data, err := io.ReadAll(file.Body)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("memory://images/%s", uuid.NewString())

	h.mu.Lock()
	h.objects[url] = data
	h.mu.Unlock()

	return url, nil
}

func (h *MemoryHost) Delete(_ context.Context, url string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.objects[url]; !ok {
		return fmt.Errorf("object %q not found", url)
	}

	delete(h.objects, url)
	h.Deleted = append(h.Deleted, url)
	return nil
}

func (h *MemoryHost) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.objects)
}
