// Package producer defines the block producers competing in each round.
// Proof-of-work producers race sampled timers; proof-of-stake and
// proof-of-space producers are chosen up front by weighted selection and
// resolve the round immediately.
package producer

import (
	"errors"
	"math/rand"

	"github.com/btursunbayev/blocksim/common/types"
	"github.com/btursunbayev/blocksim/sim"
)

// ErrNoProducers is returned when a round starts with an empty producer set.
var ErrNoProducers = errors.New("empty producer set")

var kindNames = [...]string{"pow", "pos", "pospace"}

// Kind enumerates the closed set of producer variants.
type Kind uint8

const (
	// KindPoW races an exponential mining timer.
	KindPoW Kind = iota
	// KindPoS is selected by stake weight before the round.
	KindPoS
	// KindPoSpace is selected by committed-space weight before the round.
	KindPoSpace
)

func (k Kind) String() string {
	return kindNames[k]
}

// Round carries everything a producer needs to participate in one
// production race.
type Round struct {
	Difficulty float64
	Race       *sim.Race
	RNG        *rand.Rand
}

// Producer is a block producer. Weight is immutable for the run and
// must be positive.
type Producer interface {
	ID() types.ProducerID
	Weight() float64
	Kind() Kind
	Attempt(r Round)
}
