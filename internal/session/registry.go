package session

import "sync"

// Registry hands out one Manager per user, created on first use.
type Registry struct {
	factory func(userID int64) *Manager

	mu       sync.Mutex
	managers map[int64]*Manager
}

func NewRegistry(factory func(userID int64) *Manager) *Registry {
	return &Registry{
		factory:  factory,
		managers: make(map[int64]*Manager),
	}
}

func (r *Registry) Get(userID int64) *Manager {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.managers[userID]; ok {
		return m
	}
	m := r.factory(userID)
	r.managers[userID] = m
	return m
}
