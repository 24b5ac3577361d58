// Package attack implements chain-level adversary models. SelfishMining
// and DoubleSpend are strategies fed one round outcome at a time by the
// coordinator; Eclipse is a propagation filter that never produces
// blocks. Runtime transitions never fail, every input maps to a defined
// state change, so the only errors are constructor validation.
package attack

import "go.uber.org/zap/zapcore"

type Kind int

const (
	KindSelfish Kind = iota
	KindDoubleSpend
	KindEclipse
)

var kindNames = [...]string{"selfish-mining", "double-spend", "eclipse"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Strategy consumes round outcomes attributed to the attacker or the
// honest majority and accumulates attack economics. Attribution only:
// strategies never alter which block the chain accepts.
type Strategy interface {
	Kind() Kind
	// OnBlock applies one round outcome. attackerWon reports whether
	// the attacker produced the round's block, reward is the round's
	// block subsidy.
	OnBlock(attackerWon bool, reward float64)
	// Metrics snapshots the attack so far.
	Metrics() Metrics
}

// Metrics is the per-kind export. Concrete payloads are SelfishMetrics,
// DoubleSpendMetrics and EclipseMetrics; consumers type-switch on them
// instead of matching string tags.
type Metrics interface {
	zapcore.ObjectMarshaler
	Kind() Kind
}
