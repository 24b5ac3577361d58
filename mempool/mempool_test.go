package mempool

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/btursunbayev/blocksim/common/types"
)

func TestFIFOOrder(t *testing.T) {
	pool := New()
	var want []Entry
	for i := 0; i < 20; i++ {
		e := Entry{Origin: types.WalletID(i % 3), EnqueuedAt: float64(i)}
		pool.Enqueue(e)
		want = append(want, e)
	}
	require.Equal(t, 20, pool.Len())

	got := pool.DequeueBatch(7)
	require.Equal(t, want[:7], got)
	require.Equal(t, 13, pool.Len())

	got = pool.DequeueBatch(13)
	require.Equal(t, want[7:], got)
	require.Zero(t, pool.Len())
}

func TestDequeueInterleavedWithEnqueue(t *testing.T) {
	pool := New()
	for i := 0; i < 5; i++ {
		pool.Enqueue(Entry{EnqueuedAt: float64(i)})
	}
	first := pool.DequeueBatch(3)
	require.Len(t, first, 3)
	require.Equal(t, 0.0, first[0].EnqueuedAt)

	pool.Enqueue(Entry{EnqueuedAt: 5})
	rest := pool.DequeueBatch(3)
	require.Len(t, rest, 3)
	require.Equal(t, 3.0, rest[0].EnqueuedAt)
	require.Equal(t, 5.0, rest[2].EnqueuedAt)
}

func TestDequeueBatchClamps(t *testing.T) {
	pool := New()
	pool.Enqueue(Entry{EnqueuedAt: 1})
	require.Len(t, pool.DequeueBatch(10), 1)
	require.Nil(t, pool.DequeueBatch(10))
	require.Nil(t, pool.DequeueBatch(0))
}
