package checkpoint

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/btursunbayev/blocksim/mining"
)

func testState() mining.State {
	return mining.State{
		BlockCount:            7,
		LastBlockTime:         70.5,
		Difficulty:            3e6,
		LastAdjustmentTime:    10,
		BlocksSinceAdjustment: 7,
		Reward:                25,
		Halvings:              1,
		TotalCoins:            325,
		TotalTx:               210,
		PoolProcessed:         190,
		LastReportTime:        60,
		LastReportBlocks:      6,
		LastReportTx:          180,
		LastReportCoins:       300,
	}
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.ckpt")
	snap := New(uuid.New(), testState())
	require.Equal(t, Version, snap.Version)
	require.Equal(t, 70.5, snap.SavedAt)

	require.NoError(t, Save(path, snap))
	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, snap, got)
}

func TestSaveReplacesPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.ckpt")
	id := uuid.New()

	first := testState()
	require.NoError(t, Save(path, New(id, first)))

	second := first
	second.BlockCount = 14
	second.LastBlockTime = 140
	require.NoError(t, Save(path, New(id, second)))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 14, got.State.BlockCount)
	require.Equal(t, 140.0, got.SavedAt)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.ckpt"))
	require.ErrorIs(t, err, ErrFormat)
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.ckpt")
	require.NoError(t, os.WriteFile(path, []byte("not a checkpoint"), 0o644))
	_, err := Load(path)
	require.ErrorIs(t, err, ErrFormat)
}

func TestLoadUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.ckpt")
	snap := New(uuid.New(), testState())
	snap.Version = 99
	require.NoError(t, Save(path, snap))
	_, err := Load(path)
	require.ErrorIs(t, err, ErrFormat)
}

func TestLoadInvalidState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.ckpt")
	snap := New(uuid.New(), testState())
	snap.State.BlockCount = -1
	require.NoError(t, Save(path, snap))
	_, err := Load(path)
	require.ErrorIs(t, err, ErrFormat)
	require.ErrorIs(t, err, mining.ErrState)
}
