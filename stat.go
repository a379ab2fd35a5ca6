package proxypool

import (
	"encoding/json"
	"time"
)

// Stat is a snapshot of the manager state
type Stat struct {
	// Mode is the configured acquisition mode
	Mode Mode `json:"mode"`
	// Version identifies the initialization that built the pool
	Version uint64 `json:"version"`
	// Proxies is the pool size
	Proxies int `json:"proxies"`
	// Selections is the number of Next calls on the current pool
	Selections uint64 `json:"selections"`
	// Cursor is the index returned by the next selection
	Cursor int `json:"cursor"`
	// Initializing is true while an initialization is in flight
	Initializing bool `json:"initializing"`
	// InitializedAt is when the current pool was installed
	InitializedAt time.Time `json:"initializedAt"`
}

// MarshalJSON adds the derived "direct" flag, set when connections go out
// without a proxy.
func (s *Stat) MarshalJSON() ([]byte, error) {
	type Alias Stat

	return json.Marshal(&struct {
		Direct bool `json:"direct"`
		*Alias
	}{
		Direct: s.Proxies == 0,
		Alias:  (*Alias)(s),
	})
}
