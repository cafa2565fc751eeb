package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"
)

// Memory keeps objects in process memory. It is safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

func (m *Memory) Open(_ context.Context, loc Location) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.blobs[loc.String()]
	if !ok {
		return nil, fmt.Errorf("%s: %w", loc, os.ErrNotExist)
	}
	return io.NopCloser(bytes.NewReader(slices.Clone(data))), nil
}

func (m *Memory) Create(_ context.Context, loc Location) (io.WriteCloser, error) {
	return &bufferedWriter{commit: func(data []byte) error {
		m.Put(loc, data)
		return nil
	}}, nil
}

func (m *Memory) Put(loc Location, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[loc.String()] = slices.Clone(data)
}

func (m *Memory) Get(loc Location) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.blobs[loc.String()]
	return slices.Clone(data), ok
}

// bufferedWriter collects everything written and hands it to commit on
// Close. Remote backends use it so that an upload either completes or leaves
// no object behind.
type bufferedWriter struct {
	buf    bytes.Buffer
	commit func([]byte) error
	closed bool
}

func (w *bufferedWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, os.ErrClosed
	}
	return w.buf.Write(p)
}

func (w *bufferedWriter) Close() error {
	if w.closed {
		return os.ErrClosed
	}
	w.closed = true
	return w.commit(w.buf.Bytes())
}
