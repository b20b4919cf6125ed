package acplug

import "encoding/json"

// Event is a single adapter transition: the AC adapter was physically
// plugged in or pulled out. Events carry no payload.
type Event int

const (
	Unplugged Event = iota
	Plugged
)

func (e Event) String() string {
	if e == Plugged {
		return "plugged"
	}
	return "unplugged"
}

// MarshalJSON encodes the event as its name, not its ordinal.
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

// PowerState is the adapter state a Stream currently believes to be true.
// It seeds and drives dedup: a line announcing the state already held
// produces no Event.
type PowerState int

const (
	StateUnplugged PowerState = iota
	StatePlugged
)

func (s PowerState) String() string {
	if s == StatePlugged {
		return "plugged"
	}
	return "unplugged"
}

// Plugged reports whether the state is StatePlugged.
func (s PowerState) Plugged() bool { return s == StatePlugged }
