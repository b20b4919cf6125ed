package acplug

import "testing"

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		name      string
		state     PowerState
		line      string
		wantState PowerState
		wantEvent Event
		wantFire  bool
	}{
		{"plug while unplugged", StateUnplugged, "ac_adapter PNP0C0A:00 00000080 00000001", StatePlugged, Plugged, true},
		{"unplug while plugged", StatePlugged, "ac_adapter PNP0C0A:00 00000080 00000000", StateUnplugged, Unplugged, true},
		{"redundant plug", StatePlugged, "ac_adapter PNP0C0A:00 00000080 00000001", StatePlugged, 0, false},
		{"redundant unplug", StateUnplugged, "ac_adapter PNP0C0A:00 00000080 00000000", StateUnplugged, 0, false},
		{"short plug line", StateUnplugged, "ac_adapter 1", StatePlugged, Plugged, true},
		{"short unplug line", StatePlugged, "ac_adapter 0", StateUnplugged, Unplugged, true},
		{"battery line ignored from unplugged", StateUnplugged, "battery BAT0 00000080 00000001", StateUnplugged, 0, false},
		{"battery line ignored from plugged", StatePlugged, "battery BAT0 00000080 00000000", StatePlugged, 0, false},
		{"button line ignored", StateUnplugged, "button/power PBTN 00000080 00000001", StateUnplugged, 0, false},
		{"empty line ignored", StatePlugged, "", StatePlugged, 0, false},
		{"surrounding whitespace trimmed", StateUnplugged, "  ac_adapter ACAD 00000080 00000001\r", StatePlugged, Plugged, true},
		{"non-digit suffix ignored", StateUnplugged, "ac_adapter PNP0C0A:00 resume", StateUnplugged, 0, false},
		{"digit other than 0/1 ignored", StateUnplugged, "ac_adapter PNP0C0A:00 00000002", StateUnplugged, 0, false},
	}
	for _, tc := range cases {
		got, ev, fired := Transition(tc.state, tc.line)
		if got != tc.wantState || fired != tc.wantFire {
			t.Fatalf("%s: Transition(%v, %q) = (%v, fired=%v), want (%v, fired=%v)",
				tc.name, tc.state, tc.line, got, fired, tc.wantState, tc.wantFire)
		}
		if fired && ev != tc.wantEvent {
			t.Fatalf("%s: event = %v, want %v", tc.name, ev, tc.wantEvent)
		}
	}
}

// The grammar is a prefix plus a last-character check, nothing stricter.
// acpid's format is fixed and external, so this stays permissive on purpose.
func TestTransitionPermissiveSuffix(t *testing.T) {
	state, ev, fired := Transition(StatePlugged, "ac_adapter_extra_10")
	if !fired || ev != Unplugged || state != StateUnplugged {
		t.Fatalf("expected permissive match to unplug, got state=%v ev=%v fired=%v", state, ev, fired)
	}
	// The same line while already unplugged agrees with the state: no event.
	state, _, fired = Transition(StateUnplugged, "ac_adapter_extra_10")
	if fired || state != StateUnplugged {
		t.Fatalf("redundant permissive match must not fire, got state=%v fired=%v", state, fired)
	}
}

func TestEventAndStateStrings(t *testing.T) {
	if Plugged.String() != "plugged" || Unplugged.String() != "unplugged" {
		t.Fatalf("unexpected event strings: %q %q", Plugged, Unplugged)
	}
	if !StatePlugged.Plugged() || StateUnplugged.Plugged() {
		t.Fatalf("PowerState.Plugged mismatch")
	}
}
