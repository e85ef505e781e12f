package session

import (
	"context"
	"sync"
)

// MemoryFlags is a FlagStore that lives as long as the process.
type MemoryFlags struct {
	mu  sync.Mutex
	set bool
}

func (f *MemoryFlags) Get(ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.set, nil
}

func (f *MemoryFlags) Set(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.set = true
	return nil
}

func (f *MemoryFlags) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.set = false
	return nil
}
