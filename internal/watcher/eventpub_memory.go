package watcher

import "sync"

// MemoryPublisher stores events in-memory for tests.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []PlugEvent
}

func NewMemoryPublisher() *MemoryPublisher { return &MemoryPublisher{} }

func (p *MemoryPublisher) Publish(e PlugEvent) {
	p.mu.Lock()
	p.events = append(p.events, e)
	p.mu.Unlock()
}

func (p *MemoryPublisher) Events() []PlugEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PlugEvent, len(p.events))
	copy(out, p.events)
	return out
}
