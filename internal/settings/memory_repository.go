package settings

import (
	"context"
	"sync"
)

// memoryPreferenceRepository is the fallback PreferenceRepository used when
// no Redis is configured, and the storage double in tests.
type memoryPreferenceRepository struct {
	mu    sync.RWMutex
	prefs map[string]Preferences
}

// NewMemoryPreferenceRepository creates an empty in-memory PreferenceRepository.
func NewMemoryPreferenceRepository() PreferenceRepository {
	return &memoryPreferenceRepository{prefs: make(map[string]Preferences)}
}

func (r *memoryPreferenceRepository) Get(_ context.Context, userID string) (Preferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if prefs, ok := r.prefs[userID]; ok {
		return prefs, nil
	}
	return DefaultPreferences(), nil
}

func (r *memoryPreferenceRepository) Put(_ context.Context, userID string, prefs Preferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs[userID] = prefs
	return nil
}
