package watcher

import (
	"time"

	"plugd/pkg/acplug"
)

// PlugEvent is one observed adapter transition with its arrival time.
type PlugEvent struct {
	Event acplug.Event `json:"event"`
	At    time.Time    `json:"at"`
}

// Publisher receives events from the watcher. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type Publisher interface {
	Publish(PlugEvent)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(PlugEvent) {}
