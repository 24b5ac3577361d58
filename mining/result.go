package mining

import "github.com/btursunbayev/blocksim/attack"

// Result is everything a finished run exposes.
type Result struct {
	State   State
	Metrics Metrics
	// Attack carries the adversary's export, nil for honest runs.
	Attack attack.Metrics
}
