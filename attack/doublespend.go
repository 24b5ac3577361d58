package attack

import (
	"errors"

	"go.uber.org/zap/zapcore"
)

// ErrBadConfirmations is returned when a double spend is constructed
// with a non-positive confirmation target.
var ErrBadConfirmations = errors.New("attack: target confirmations must be positive")

// Phase of a double spend attempt.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseMiningPrivately
	PhaseSucceeded
	PhaseFailed
)

var phaseNames = [...]string{"not-started", "mining-privately", "succeeded", "failed"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// DoubleSpend models the majority-hashrate double spend: pay the victim
// on the public chain, mine a private chain without the payment, and
// release it once it is longer than the chain the victim trusted at the
// confirmation target. Attempts auto-restart after every resolution.
type DoubleSpend struct {
	confirmations int

	phase      Phase
	privateLen int
	honestLen  int

	attempts  int
	successes int
	failures  int

	attackerRewards float64
	honestRewards   float64
	doubleSpent     float64
}

// NewDoubleSpend starts the first attempt immediately.
func NewDoubleSpend(confirmations int) (*DoubleSpend, error) {
	if confirmations <= 0 {
		return nil, ErrBadConfirmations
	}
	d := &DoubleSpend{confirmations: confirmations}
	d.restart()
	return d, nil
}

func (d *DoubleSpend) restart() {
	d.attempts++
	d.phase = PhaseMiningPrivately
	d.privateLen = 0
	d.honestLen = 0
}

func (d *DoubleSpend) Kind() Kind {
	return KindDoubleSpend
}

// Phase returns the current attempt's phase.
func (d *DoubleSpend) Phase() Phase {
	return d.phase
}

func (d *DoubleSpend) OnBlock(attackerWon bool, reward float64) {
	if d.phase == PhaseNotStarted {
		d.restart()
	}
	if attackerWon {
		d.privateLen++
		d.attackerRewards += reward
		return
	}
	d.honestLen++
	d.honestRewards += reward
	switch {
	case d.honestLen > d.confirmations*2:
		// Honest chain ran away, the private chain can no longer
		// profitably catch up.
		d.phase = PhaseFailed
		d.failures++
		d.restart()
	case d.honestLen >= d.confirmations && d.privateLen > d.honestLen:
		// Victim accepted the payment and the private chain already
		// overtakes it: releasing orphans the paying transaction.
		d.phase = PhaseSucceeded
		d.successes++
		d.doubleSpent += reward * float64(d.confirmations)
		d.restart()
	}
}

func (d *DoubleSpend) Metrics() Metrics {
	rate := 0.0
	if d.attempts > 0 {
		rate = float64(d.successes) / float64(d.attempts)
	}
	return DoubleSpendMetrics{
		Attempts:        d.attempts,
		Successes:       d.successes,
		Failures:        d.failures,
		SuccessRate:     rate,
		DoubleSpent:     d.doubleSpent,
		AttackerRewards: d.attackerRewards,
		HonestRewards:   d.honestRewards,
		Confirmations:   d.confirmations,
	}
}

// DoubleSpendMetrics is the final export of a double spend run.
type DoubleSpendMetrics struct {
	Attempts        int     `json:"attack_attempts"`
	Successes       int     `json:"successful_attacks"`
	Failures        int     `json:"failed_attacks"`
	SuccessRate     float64 `json:"success_rate"`
	DoubleSpent     float64 `json:"double_spent_value"`
	AttackerRewards float64 `json:"attacker_rewards"`
	HonestRewards   float64 `json:"honest_rewards"`
	Confirmations   int     `json:"target_confirmations"`
}

func (DoubleSpendMetrics) Kind() Kind {
	return KindDoubleSpend
}

func (m DoubleSpendMetrics) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddInt("attempts", m.Attempts)
	encoder.AddInt("successes", m.Successes)
	encoder.AddInt("failures", m.Failures)
	encoder.AddFloat64("success_rate", m.SuccessRate)
	encoder.AddFloat64("double_spent_value", m.DoubleSpent)
	encoder.AddFloat64("attacker_rewards", m.AttackerRewards)
	encoder.AddFloat64("honest_rewards", m.HonestRewards)
	encoder.AddInt("target_confirmations", m.Confirmations)
	return nil
}
