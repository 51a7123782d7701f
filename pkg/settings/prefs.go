// Package settings persists the LOD coloration mode and palette in a small
// keyed preference store.
package settings

import "sync"

// Prefs is a keyed preference store. Getters return def when the key is
// missing or holds a value of another type. Writes are buffered until Save.
type Prefs interface {
	HasKey(key string) bool
	Int(key string, def int) int
	SetInt(key string, v int)
	String(key string, def string) string
	SetString(key string, v string)
	DeleteKey(key string)
	Save() error
}

// MemoryPrefs is an in-process Prefs. Save is a no-op.
type MemoryPrefs struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewMemoryPrefs creates an empty store.
func NewMemoryPrefs() *MemoryPrefs {
	return &MemoryPrefs{values: make(map[string]any)}
}

func (p *MemoryPrefs) HasKey(key string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.values[key]
	return ok
}

func (p *MemoryPrefs) Int(key string, def int) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key].(int); ok {
		return v
	}
	return def
}

func (p *MemoryPrefs) SetInt(key string, v int) {
	p.mu.Lock()
	p.values[key] = v
	p.mu.Unlock()
}

func (p *MemoryPrefs) String(key string, def string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key].(string); ok {
		return v
	}
	return def
}

func (p *MemoryPrefs) SetString(key string, v string) {
	p.mu.Lock()
	p.values[key] = v
	p.mu.Unlock()
}

func (p *MemoryPrefs) DeleteKey(key string) {
	p.mu.Lock()
	delete(p.values, key)
	p.mu.Unlock()
}

func (p *MemoryPrefs) Save() error { return nil }
