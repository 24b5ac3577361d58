// Package wallet generates the simulated transaction load. Every wallet
// emits one transaction per interval until its quota is spent, so the
// k-th tick of the shared interval carries one transaction from each
// wallet still active, ordered by wallet id.
package wallet

import (
	"github.com/btursunbayev/blocksim/common/types"
	"github.com/btursunbayev/blocksim/mempool"
)

// Generator lazily materializes the (time, wallet) transaction schedule.
// It keeps only a cursor, not the schedule itself, so arbitrarily large
// loads cost O(1) memory.
type Generator struct {
	wallets   int
	perWallet int
	interval  float64

	next int
}

// NewGenerator configures the schedule. Non-positive wallet or quota
// counts produce an exhausted generator, which disables generation.
func NewGenerator(wallets, perWallet int, interval float64) *Generator {
	if wallets < 0 {
		wallets = 0
	}
	if perWallet < 0 {
		perWallet = 0
	}
	return &Generator{wallets: wallets, perWallet: perWallet, interval: interval}
}

// Total returns the number of transactions the schedule will ever emit.
func (g *Generator) Total() int {
	return g.wallets * g.perWallet
}

// Emitted returns how many transactions have been released so far.
func (g *Generator) Emitted() int {
	return g.next
}

// Exhausted reports whether every scheduled transaction was released.
func (g *Generator) Exhausted() bool {
	return g.next >= g.Total()
}

// at returns the emission time of the n-th transaction overall. The
// first tick fires one interval after the start, never at time zero,
// unless the interval itself is zero.
func (g *Generator) at(n int) float64 {
	tick := n/g.wallets + 1
	return float64(tick) * g.interval
}

// PendingUpTo releases every transaction scheduled at or before now, in
// (time, wallet id) order. Subsequent calls continue where the previous
// one stopped.
func (g *Generator) PendingUpTo(now float64) []mempool.Entry {
	if g.wallets == 0 {
		return nil
	}
	total := g.Total()
	var out []mempool.Entry
	for g.next < total {
		at := g.at(g.next)
		if at > now {
			break
		}
		out = append(out, mempool.Entry{
			Origin:     types.WalletID(g.next % g.wallets),
			EnqueuedAt: at,
		})
		g.next++
	}
	return out
}
