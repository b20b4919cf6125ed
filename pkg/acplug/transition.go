package acplug

import "strings"

// adapterPrefix marks the acpid event class this package consumes. Lines for
// any other class (buttons, lid, thermal, ...) are skipped.
const adapterPrefix = "ac_adapter"

// Transition applies one raw acpid line to the current state. It returns the
// next state, the event to surface, and whether an event fired at all.
//
// The grammar is deliberately permissive, matching the producing daemon
// rather than an idealized format: the line (whitespace-trimmed) must start
// with "ac_adapter" and the last character decides polarity — '1' plugs,
// '0' unplugs. No tokenization happens in between, so a line such as
// "ac_adapter_extra_10" counts as an unplug announcement. Do not tighten
// this without evidence from acpid itself.
//
// Announcements that agree with the current state are dropped; only an
// actual change fires.
func Transition(state PowerState, line string) (PowerState, Event, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, adapterPrefix) {
		return state, 0, false
	}
	switch state {
	case StatePlugged:
		if strings.HasSuffix(line, "0") {
			return StateUnplugged, Unplugged, true
		}
	case StateUnplugged:
		if strings.HasSuffix(line, "1") {
			return StatePlugged, Plugged, true
		}
	}
	return state, 0, false
}
