package attack

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/btursunbayev/blocksim/common/types"
)

func TestEclipseRejectsEmptyVictims(t *testing.T) {
	_, err := NewEclipse(nil)
	require.ErrorIs(t, err, ErrNoVictims)
}

func TestEclipseFilter(t *testing.T) {
	e, err := NewEclipse([]types.NodeID{3, 4})
	require.NoError(t, err)

	for _, tc := range []struct {
		node         types.NodeID
		fromAttacker bool
		want         bool
	}{
		{node: 0, fromAttacker: false, want: true},
		{node: 0, fromAttacker: true, want: true},
		{node: 3, fromAttacker: false, want: false},
		{node: 3, fromAttacker: true, want: true},
		{node: 4, fromAttacker: false, want: false},
	} {
		got := e.ShouldPropagateTo(tc.node, tc.fromAttacker)
		require.Equal(t, tc.want, got, "node %d fromAttacker %v", tc.node, tc.fromAttacker)
	}
	require.True(t, e.IsVictim(3))
	require.False(t, e.IsVictim(1))
}

func TestEclipseWithholdAndRelease(t *testing.T) {
	e, err := NewEclipse([]types.NodeID{0})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		e.OnBlock(false, 50)
	}
	e.OnBlock(true, 50)
	e.OnBlock(true, 50)

	m := e.Metrics().(EclipseMetrics)
	require.Equal(t, 3, m.BlocksWithheld)
	require.Equal(t, 3, m.DurationBlocks)
	require.Equal(t, 2, m.WastedVictim)
	require.Equal(t, 1, m.ChainDiff, "honest 3 vs victim 2")
	require.True(t, m.Eclipsed)

	orphaned := e.Release()
	require.Equal(t, 2, orphaned)

	m = e.Metrics().(EclipseMetrics)
	require.Zero(t, m.ChainDiff, "victim adopts the honest chain")
	require.Equal(t, 2, m.Orphaned)
	require.False(t, m.Eclipsed)
}

func TestEclipsePrimaryVictimIsLowestID(t *testing.T) {
	e, err := NewEclipse([]types.NodeID{5, 2, 9, 2})
	require.NoError(t, err)
	m := e.Metrics().(EclipseMetrics)
	require.Equal(t, types.NodeID(2), m.VictimNode)
	require.Equal(t, KindEclipse, m.Kind())
	require.Equal(t, KindEclipse, e.Kind())
}

func TestKindString(t *testing.T) {
	require.Equal(t, "selfish-mining", KindSelfish.String())
	require.Equal(t, "double-spend", KindDoubleSpend.String())
	require.Equal(t, "eclipse", KindEclipse.String())
	require.Equal(t, "unknown", Kind(7).String())
}
