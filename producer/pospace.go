package producer

import (
	"github.com/btursunbayev/blocksim/common/types"
)

// Farmer is a proof-of-space producer. Selection works exactly like
// stake selection with committed space as the weight.
type Farmer struct {
	id    types.ProducerID
	space float64
}

// NewFarmer returns a proof-of-space producer with the given committed space.
func NewFarmer(id types.ProducerID, space float64) *Farmer {
	return &Farmer{id: id, space: space}
}

func (f *Farmer) ID() types.ProducerID { return f.id }

func (f *Farmer) Weight() float64 { return f.space }

func (f *Farmer) Kind() Kind { return KindPoSpace }

func (f *Farmer) Attempt(r Round) {
	r.Race.Signal(f.id)
}
