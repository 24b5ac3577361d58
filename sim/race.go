package sim

import (
	"errors"

	"github.com/btursunbayev/blocksim/common/types"
)

// ErrNoContenders is returned when a race resolves with no registered
// timers and no signal.
var ErrNoContenders = errors.New("race has no contenders")

type timer struct {
	id types.ProducerID
	d  float64
}

// Race resolves one production round. Producers register sampled
// durations with AddTimer, or an immediate win with Signal. A signal
// always beats every timer; among timers the smallest duration wins and
// ties resolve to the lowest producer id. Losing timers are dropped
// without side effects.
type Race struct {
	timers []timer
	signal *types.ProducerID
}

// NewRace returns an empty race.
func NewRace() *Race {
	return &Race{}
}

// AddTimer registers a sampled duration for the producer. Durations are
// relative to the clock at resolution time.
func (r *Race) AddTimer(id types.ProducerID, d float64) {
	if d < 0 {
		d = 0
	}
	r.timers = append(r.timers, timer{id: id, d: d})
}

// Signal registers an immediate resolution for the producer. When more
// than one producer signals, the lowest id wins.
func (r *Race) Signal(id types.ProducerID) {
	if r.signal == nil || id < *r.signal {
		r.signal = &id
	}
}

// Resolve picks the winner and advances the clock to the winning fire
// time. The elapsed return value is the simulated duration consumed by
// the round, zero for signalled wins.
func (r *Race) Resolve(c *Clock) (types.ProducerID, float64, error) {
	if r.signal != nil {
		return *r.signal, 0, nil
	}
	if len(r.timers) == 0 {
		return 0, 0, ErrNoContenders
	}
	winner := r.timers[0]
	for _, t := range r.timers[1:] {
		if t.d < winner.d || (t.d == winner.d && t.id < winner.id) {
			winner = t
		}
	}
	c.advance(winner.d)
	return winner.id, winner.d, nil
}
