package attack

import (
	"errors"
	"sort"

	"go.uber.org/zap/zapcore"

	"github.com/btursunbayev/blocksim/common/types"
)

// ErrNoVictims is returned when an eclipse is constructed with an empty
// victim set.
var ErrNoVictims = errors.New("attack: eclipse needs at least one victim")

// Eclipse isolates victim nodes from the honest network. It produces no
// blocks; it filters propagation so victims only receive blocks from
// attacker-approved sources, while their own blocks pile up on a chain
// that gets orphaned when the honest chain is finally released.
type Eclipse struct {
	victims map[types.NodeID]struct{}
	primary types.NodeID

	victimChainLen int
	honestChainLen int
	eclipsed       bool

	withheld      int
	wastedVictim  int
	durationBlock int
	orphaned      int
}

// NewEclipse eclipses the given victims. The lowest id is reported as
// the primary victim in metrics.
func NewEclipse(victims []types.NodeID) (*Eclipse, error) {
	if len(victims) == 0 {
		return nil, ErrNoVictims
	}
	set := make(map[types.NodeID]struct{}, len(victims))
	for _, v := range victims {
		set[v] = struct{}{}
	}
	ids := make([]types.NodeID, 0, len(set))
	for v := range set {
		ids = append(ids, v)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return &Eclipse{
		victims:  set,
		primary:  ids[0],
		eclipsed: true,
	}, nil
}

func (e *Eclipse) Kind() Kind {
	return KindEclipse
}

// IsVictim reports whether the node is inside the eclipse bubble.
func (e *Eclipse) IsVictim(node types.NodeID) bool {
	_, ok := e.victims[node]
	return ok
}

// ShouldPropagateTo decides whether a block reaches the node.
// Non-victims receive everything; victims only receive blocks from
// attacker-approved sources.
func (e *Eclipse) ShouldPropagateTo(node types.NodeID, fromAttacker bool) bool {
	if !e.IsVictim(node) {
		return true
	}
	return fromAttacker
}

// OnBlock records one round outcome. attackerWon here means the block
// originated inside the eclipse bubble, so it counts as wasted victim
// work; honest blocks are withheld from the victims.
func (e *Eclipse) OnBlock(attackerWon bool, _ float64) {
	if attackerWon {
		e.victimChainLen++
		e.wastedVictim++
		return
	}
	e.honestChainLen++
	e.withheld++
	e.durationBlock++
}

// Release shows the honest chain to the victims, orphaning everything
// they mined during the eclipse. Returns the orphaned block count.
func (e *Eclipse) Release() int {
	orphaned := e.victimChainLen
	e.orphaned += orphaned
	e.victimChainLen = e.honestChainLen
	e.eclipsed = false
	return orphaned
}

func (e *Eclipse) Metrics() Metrics {
	return EclipseMetrics{
		VictimNode:     e.primary,
		Eclipsed:       e.eclipsed,
		BlocksWithheld: e.withheld,
		WastedVictim:   e.wastedVictim,
		DurationBlocks: e.durationBlock,
		ChainDiff:      e.honestChainLen - e.victimChainLen,
		Orphaned:       e.orphaned,
	}
}

// EclipseMetrics is the final export of an eclipse run.
type EclipseMetrics struct {
	VictimNode     types.NodeID `json:"victim_node_id"`
	Eclipsed       bool         `json:"is_eclipsed"`
	BlocksWithheld int          `json:"blocks_withheld"`
	WastedVictim   int          `json:"wasted_victim_blocks"`
	DurationBlocks int          `json:"eclipse_duration_blocks"`
	ChainDiff      int          `json:"chain_difference"`
	Orphaned       int          `json:"orphaned_victim_blocks"`
}

func (EclipseMetrics) Kind() Kind {
	return KindEclipse
}

func (m EclipseMetrics) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddInt("victim", int(m.VictimNode))
	encoder.AddBool("eclipsed", m.Eclipsed)
	encoder.AddInt("withheld", m.BlocksWithheld)
	encoder.AddInt("wasted_victim_blocks", m.WastedVictim)
	encoder.AddInt("duration_blocks", m.DurationBlocks)
	encoder.AddInt("chain_difference", m.ChainDiff)
	encoder.AddInt("orphaned", m.Orphaned)
	return nil
}
