package acplug

import (
	"errors"
	"io/fs"
	"os"
	"strings"
)

// Default sysfs battery status attributes, checked in this order.
const (
	DefaultPrimaryStatus   = "/sys/class/power_supply/BAT1/status"
	DefaultSecondaryStatus = "/sys/class/power_supply/BAT0/status"
)

// dischargingStatus is the only status string that means the adapter is out.
// Everything else the kernel reports ("Charging", "Full", "Not charging",
// "Unknown") implies external power. Comparison is case-sensitive.
const dischargingStatus = "Discharging"

// ReadInitialState resolves the adapter state once, from sysfs, before any
// socket traffic has been seen. The primary attribute is tried first; only
// when it does not exist is the secondary consulted. Any other failure on
// the primary (permission, I/O) is returned as-is, not retried and not
// masked by the fallback.
func ReadInitialState(primary, secondary string) (PowerState, error) {
	b, err := os.ReadFile(primary)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return StateUnplugged, err
		}
		b, err = os.ReadFile(secondary)
		if err != nil {
			return StateUnplugged, err
		}
	}
	if strings.TrimSpace(string(b)) == dischargingStatus {
		return StateUnplugged, nil
	}
	return StatePlugged, nil
}
