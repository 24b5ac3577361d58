package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/btursunbayev/blocksim/checkpoint"
	"github.com/btursunbayev/blocksim/config"
	"github.com/btursunbayev/blocksim/mining"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := rootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func TestRunAndResume(t *testing.T) {
	dir := t.TempDir()
	ckpt := filepath.Join(dir, "run.ckpt")
	metrics := filepath.Join(dir, "metrics.json")

	require.NoError(t, execute(t, "run",
		"--nodes", "3", "--neighbors", "2",
		"--producers", "2", "--block-time", "10",
		"--blocks", "5", "--seed", "42",
		"--report-every", "2",
		"--checkpoint", ckpt,
		"--metrics-out", metrics,
	))

	snap, err := checkpoint.Load(ckpt)
	require.NoError(t, err)
	require.Equal(t, 5, snap.State.BlockCount)
	firstRun := snap.RunID

	buf, err := os.ReadFile(metrics)
	require.NoError(t, err)
	var doc struct {
		Seed    int64          `json:"seed"`
		State   mining.State   `json:"state"`
		Metrics mining.Metrics `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(buf, &doc))
	require.Equal(t, int64(42), doc.Seed)
	require.Equal(t, 5, doc.Metrics.Blocks)
	require.Equal(t, snap.State, doc.State)

	require.NoError(t, execute(t, "resume",
		"--checkpoint", ckpt,
		"--nodes", "3", "--neighbors", "2",
		"--producers", "2", "--block-time", "10",
		"--blocks", "8", "--seed", "43",
	))

	snap, err = checkpoint.Load(ckpt)
	require.NoError(t, err)
	require.Equal(t, 8, snap.State.BlockCount)
	require.Equal(t, firstRun, snap.RunID, "resumed runs keep their id")
}

func TestRunEclipseExportsAttack(t *testing.T) {
	metrics := filepath.Join(t.TempDir(), "metrics.json")
	require.NoError(t, execute(t, "run",
		"--nodes", "3", "--neighbors", "2",
		"--producers", "2", "--block-time", "10",
		"--blocks", "4", "--seed", "7",
		"--attack", "eclipse", "--victims", "1",
		"--metrics-out", metrics,
	))

	buf, err := os.ReadFile(metrics)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf, &doc))
	section, ok := doc["attack"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, float64(1), section["victim_node_id"])
	require.Equal(t, false, section["is_eclipsed"], "run end releases the honest chain")
}

func TestRunRejectsInvalidOverride(t *testing.T) {
	err := execute(t, "run", "--nodes", "0")
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestRunRejectsUnknownPreset(t *testing.T) {
	err := execute(t, "run", "--preset", "dogecoin", "--blocks", "1")
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestResumeRequiresCheckpoint(t *testing.T) {
	require.Error(t, execute(t, "resume"))
}

func TestResumeRejectsMissingCheckpoint(t *testing.T) {
	err := execute(t, "resume", "--checkpoint", filepath.Join(t.TempDir(), "absent.ckpt"))
	require.ErrorIs(t, err, checkpoint.ErrFormat)
}

func TestPresetsCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"presets"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	require.Contains(t, out.String(), "bitcoin")
	require.Contains(t, out.String(), "litecoin")
}
