package acplug

import (
	"os"
	"path/filepath"
	"testing"
)

// writeStatus creates a fake sysfs status attribute and returns its path.
func writeStatus(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write status fixture: %v", err)
	}
	return p
}

func TestReadInitialStatePrimary(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		content string
		want    PowerState
	}{
		{"Discharging\n", StateUnplugged},
		{"Charging", StatePlugged},
		{"Full\n", StatePlugged},
		{"Not charging\n", StatePlugged},
		{"Unknown\n", StatePlugged},
	}
	for _, tc := range cases {
		p := writeStatus(t, dir, "status", tc.content)
		got, err := ReadInitialState(p, filepath.Join(dir, "missing"))
		if err != nil {
			t.Fatalf("ReadInitialState(%q): %v", tc.content, err)
		}
		if got != tc.want {
			t.Fatalf("ReadInitialState(%q) = %v, want %v", tc.content, got, tc.want)
		}
	}
}

func TestReadInitialStateFallsBackWhenPrimaryMissing(t *testing.T) {
	dir := t.TempDir()
	secondary := writeStatus(t, dir, "bat0", "Full\n")
	got, err := ReadInitialState(filepath.Join(dir, "bat1"), secondary)
	if err != nil {
		t.Fatalf("ReadInitialState: %v", err)
	}
	if got != StatePlugged {
		t.Fatalf("got %v, want StatePlugged", got)
	}
}

func TestReadInitialStateBothMissing(t *testing.T) {
	dir := t.TempDir()
	if _, err := ReadInitialState(filepath.Join(dir, "bat1"), filepath.Join(dir, "bat0")); err == nil {
		t.Fatalf("expected error when both attributes are absent")
	}
}

// Only a missing primary triggers the fallback. Any other read failure must
// propagate even when the secondary would have succeeded.
func TestReadInitialStateNonMissingErrorDoesNotFallBack(t *testing.T) {
	dir := t.TempDir()
	secondary := writeStatus(t, dir, "bat0", "Full\n")
	// A directory is present but unreadable as a file, which is exactly the
	// "present but failing" case the fallback must not mask.
	if _, err := ReadInitialState(dir, secondary); err == nil {
		t.Fatalf("expected primary read error to propagate")
	}
}
