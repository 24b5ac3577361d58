package producer

import (
	"github.com/btursunbayev/blocksim/common/types"
)

// Validator is a proof-of-stake producer. It does not race timers: when
// selected for a round it resolves the race immediately.
type Validator struct {
	id    types.ProducerID
	stake float64
}

// NewValidator returns a proof-of-stake producer with the given stake.
func NewValidator(id types.ProducerID, stake float64) *Validator {
	return &Validator{id: id, stake: stake}
}

func (v *Validator) ID() types.ProducerID { return v.id }

func (v *Validator) Weight() float64 { return v.stake }

func (v *Validator) Kind() Kind { return KindPoS }

// Attempt signals an immediate win. Selection already decided the round,
// so no simulated time passes.
func (v *Validator) Attempt(r Round) {
	r.Race.Signal(v.id)
}
