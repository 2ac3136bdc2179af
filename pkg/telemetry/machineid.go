package telemetry

import (
	"os"

	"github.com/denisbrodbeck/machineid"
)

// DeviceID retrieves the unique ID identifying the bridge instance.
// Falls back to the hostname when the machine ID is unavailable.
func DeviceID() string {
	id, err := machineid.ID()
	if err != nil {
		if host, herr := os.Hostname(); herr == nil {
			return host
		}
		return "unknown"
	}
	return id
}
