// Package checkpoint persists simulation state snapshots so an
// interrupted run can resume from its last report.
package checkpoint

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/btursunbayev/blocksim/common/types"
	"github.com/btursunbayev/blocksim/mining"
)

// Version is the snapshot format written by this package.
const Version = 1

// ErrFormat is wrapped by every load failure: unreadable file,
// undecodable bytes, unknown version or a state failing validation.
var ErrFormat = errors.New("invalid checkpoint")

// Snapshot is the on-disk checkpoint envelope.
type Snapshot struct {
	Version int          `cbor:"version"`
	RunID   uuid.UUID    `cbor:"run_id"`
	SavedAt float64      `cbor:"saved_at"`
	State   mining.State `cbor:"state"`
}

// New envelopes st for the given run id.
func New(run uuid.UUID, st mining.State) Snapshot {
	return Snapshot{
		Version: Version,
		RunID:   run,
		SavedAt: st.LastBlockTime,
		State:   st,
	}
}

// Save writes snap to path, replacing any previous snapshot.
func Save(path string, snap Snapshot) error {
	buf, err := types.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("write checkpoint %s: %w", path, err)
	}
	return nil
}

// Load reads and validates the snapshot at path.
func Load(path string) (Snapshot, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	var snap Snapshot
	if err := types.Unmarshal(buf, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: decode: %v", ErrFormat, err)
	}
	if snap.Version != Version {
		return Snapshot{}, fmt.Errorf("%w: version %d, want %d", ErrFormat, snap.Version, Version)
	}
	if err := snap.State.Validate(); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return snap, nil
}
