package producer

import (
	"github.com/btursunbayev/blocksim/common/types"
)

// Miner is a proof-of-work producer. Its expected time to find a block
// alone is difficulty/hashrate.
type Miner struct {
	id       types.ProducerID
	hashrate float64
}

// NewMiner returns a proof-of-work producer with the given hashrate.
func NewMiner(id types.ProducerID, hashrate float64) *Miner {
	return &Miner{id: id, hashrate: hashrate}
}

func (m *Miner) ID() types.ProducerID { return m.id }

func (m *Miner) Weight() float64 { return m.hashrate }

func (m *Miner) Kind() Kind { return KindPoW }

// Attempt samples a mining duration from an exponential distribution
// with rate hashrate/difficulty and registers it with the round's race.
func (m *Miner) Attempt(r Round) {
	d := r.RNG.ExpFloat64() / (m.hashrate / r.Difficulty)
	r.Race.AddTimer(m.id, d)
}
