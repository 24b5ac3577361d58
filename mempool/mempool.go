// Package mempool holds transactions awaiting inclusion in a block.
// Strictly FIFO: entries leave in exactly the order they arrived.
package mempool

import "github.com/btursunbayev/blocksim/common/types"

// Entry is a pending transaction stub.
type Entry struct {
	Origin     types.WalletID
	EnqueuedAt float64
}

// Pool is a FIFO queue of pending entries. The zero value is usable.
type Pool struct {
	entries []Entry
	head    int
}

// New returns an empty pool.
func New() *Pool {
	return &Pool{}
}

// Enqueue appends an entry in O(1).
func (p *Pool) Enqueue(e Entry) {
	p.entries = append(p.entries, e)
}

// Len returns the number of pending entries.
func (p *Pool) Len() int {
	return len(p.entries) - p.head
}

// DequeueBatch removes and returns the n oldest entries in enqueue
// order. Asking for more than Len returns everything pending.
func (p *Pool) DequeueBatch(n int) []Entry {
	if n > p.Len() {
		n = p.Len()
	}
	if n <= 0 {
		return nil
	}
	batch := make([]Entry, n)
	copy(batch, p.entries[p.head:p.head+n])
	p.head += n
	// reclaim the consumed prefix once it dominates the backing array
	if p.head > len(p.entries)/2 {
		p.entries = append(p.entries[:0], p.entries[p.head:]...)
		p.head = 0
	}
	return batch
}
