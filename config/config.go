// Package config carries the full simulation configuration: defaults,
// built-in chain presets, YAML file loading with environment overrides,
// and the validation applied before any component is constructed.
package config

import (
	"errors"
	"fmt"

	"github.com/btursunbayev/blocksim/common/types"
)

// ErrInvalid is wrapped by every configuration failure.
var ErrInvalid = errors.New("invalid config")

// Producer kinds.
const (
	KindPoW     = "pow"
	KindPoS     = "pos"
	KindPoSpace = "pospace"
)

// Attack modes.
const (
	AttackNone        = "none"
	AttackSelfish     = "selfish"
	AttackDoubleSpend = "double-spend"
	AttackEclipse     = "eclipse"
)

// Network describes the peer graph.
type Network struct {
	Nodes     int `mapstructure:"nodes"`
	Neighbors int `mapstructure:"neighbors"`
}

// Mining describes the producer set and the difficulty control loop.
type Mining struct {
	Producers         int     `mapstructure:"producers"`
	WeightPerProducer float64 `mapstructure:"weight-per-producer"`
	Kind              string  `mapstructure:"kind"`
	TargetBlockTime   float64 `mapstructure:"target-block-time"`
	// Difficulty fixes the proof-of-work difficulty when positive;
	// zero derives it from the target block time and total weight and
	// keeps retargeting enabled.
	Difficulty       float64 `mapstructure:"difficulty"`
	BlockCapacity    int     `mapstructure:"block-capacity"`
	RetargetInterval int     `mapstructure:"retarget-interval"`
}

// Economics describes issuance and the halving schedule.
type Economics struct {
	InitialReward   float64 `mapstructure:"initial-reward"`
	HalvingInterval int     `mapstructure:"halving-interval"`
	// MaxHalvings caps halving events; negative means unbounded.
	MaxHalvings int `mapstructure:"max-halvings"`
}

// Transactions describes the generated load.
type Transactions struct {
	Wallets   int     `mapstructure:"wallets"`
	PerWallet int     `mapstructure:"per-wallet"`
	Interval  float64 `mapstructure:"interval"`
}

// Simulation describes run control and reporting.
type Simulation struct {
	BlockLimit int     `mapstructure:"block-limit"`
	Years      float64 `mapstructure:"years"`
	// Seed fixes the run's random stream; zero draws a seed from the
	// wall clock at startup.
	Seed        int64 `mapstructure:"seed"`
	ReportEvery int   `mapstructure:"report-every"`
}

// Attack selects and parameterizes the adversary model.
type Attack struct {
	Mode string `mapstructure:"mode"`
	// AttackerFraction is the attacker's share of total weight; zero
	// selects the mode default (0.30 selfish, 0.51 double-spend).
	AttackerFraction float64 `mapstructure:"attacker-fraction"`
	Confirmations    int     `mapstructure:"confirmations"`
	Victims          []int   `mapstructure:"victims"`
}

// Config is the complete simulation configuration.
type Config struct {
	Network      Network      `mapstructure:"network"`
	Mining       Mining       `mapstructure:"mining"`
	Economics    Economics    `mapstructure:"economics"`
	Transactions Transactions `mapstructure:"transactions"`
	Simulation   Simulation   `mapstructure:"simulation"`
	Attack       Attack       `mapstructure:"attack"`
}

// DefaultConfig is a small scenario that finishes in well under a
// second: ten nodes, three miners, a hundred blocks.
func DefaultConfig() Config {
	return Config{
		Network: Network{Nodes: 10, Neighbors: 3},
		Mining: Mining{
			Producers:         3,
			WeightPerProducer: 1000,
			Kind:              KindPoW,
			TargetBlockTime:   10,
			BlockCapacity:     100,
			RetargetInterval:  2016,
		},
		Economics: Economics{
			InitialReward:   50,
			HalvingInterval: 0,
			MaxHalvings:     -1,
		},
		Transactions: Transactions{Wallets: 10, PerWallet: 50, Interval: 1},
		Simulation:   Simulation{BlockLimit: 100, ReportEvery: 144},
		Attack:       Attack{Mode: AttackNone, Confirmations: 6, Victims: []int{0}},
	}
}

// TotalWeight is the combined weight of the configured producer set.
func (c *Config) TotalWeight() float64 {
	return float64(c.Mining.Producers) * c.Mining.WeightPerProducer
}

// TotalTransactions is the number of transactions the wallets will emit.
func (c *Config) TotalTransactions() int {
	return c.Transactions.Wallets * c.Transactions.PerWallet
}

// EffectiveBlockLimit resolves the run's block limit: an explicit limit
// wins, otherwise a positive years setting estimates one from the
// target block time; zero means unlimited.
func (c *Config) EffectiveBlockLimit() int {
	if c.Simulation.BlockLimit > 0 {
		return c.Simulation.BlockLimit
	}
	if c.Simulation.Years > 0 {
		return int(c.Simulation.Years * types.YearSeconds / c.Mining.TargetBlockTime)
	}
	return 0
}

// ExpectedBlocks estimates how many blocks absorb the whole transaction
// schedule at full capacity.
func (c *Config) ExpectedBlocks() int {
	total := c.TotalTransactions()
	if total == 0 || c.Mining.BlockCapacity <= 0 {
		return 0
	}
	return (total + c.Mining.BlockCapacity - 1) / c.Mining.BlockCapacity
}

// Warnings reports configurations that are valid but probably not what
// the operator wanted.
func (c *Config) Warnings() []string {
	var out []string
	if limit, need := c.EffectiveBlockLimit(), c.ExpectedBlocks(); limit > 0 && need > limit {
		out = append(out, fmt.Sprintf(
			"block limit %d cannot absorb %d scheduled transactions, %d blocks needed",
			limit, c.TotalTransactions(), need))
	}
	return out
}

// Validate rejects every configuration the coordinator or one of its
// collaborators would refuse at construction.
func (c *Config) Validate() error {
	if c.Network.Nodes <= 0 {
		return fmt.Errorf("%w: network needs at least one node, got %d", ErrInvalid, c.Network.Nodes)
	}
	if c.Network.Neighbors < 0 || c.Network.Neighbors >= c.Network.Nodes {
		return fmt.Errorf("%w: %d neighbors cannot be sampled from %d nodes", ErrInvalid, c.Network.Neighbors, c.Network.Nodes)
	}
	if c.Mining.Producers <= 0 {
		return fmt.Errorf("%w: empty producer set", ErrInvalid)
	}
	if c.Mining.WeightPerProducer <= 0 {
		return fmt.Errorf("%w: producer weight %v must be positive", ErrInvalid, c.Mining.WeightPerProducer)
	}
	switch c.Mining.Kind {
	case KindPoW, KindPoS, KindPoSpace:
	default:
		return fmt.Errorf("%w: unknown producer kind %q", ErrInvalid, c.Mining.Kind)
	}
	if c.Mining.TargetBlockTime <= 0 {
		return fmt.Errorf("%w: target block time %v must be positive", ErrInvalid, c.Mining.TargetBlockTime)
	}
	if c.Mining.Difficulty < 0 {
		return fmt.Errorf("%w: difficulty %v must not be negative", ErrInvalid, c.Mining.Difficulty)
	}
	if c.Mining.BlockCapacity <= 0 {
		return fmt.Errorf("%w: block capacity %d must be positive", ErrInvalid, c.Mining.BlockCapacity)
	}
	if c.Mining.RetargetInterval <= 0 {
		return fmt.Errorf("%w: retarget interval %d must be positive", ErrInvalid, c.Mining.RetargetInterval)
	}
	if c.Economics.InitialReward < 0 {
		return fmt.Errorf("%w: initial reward %v must not be negative", ErrInvalid, c.Economics.InitialReward)
	}
	if c.Economics.HalvingInterval < 0 {
		return fmt.Errorf("%w: halving interval %d must not be negative", ErrInvalid, c.Economics.HalvingInterval)
	}
	if c.Transactions.Wallets < 0 || c.Transactions.PerWallet < 0 {
		return fmt.Errorf("%w: negative transaction schedule", ErrInvalid)
	}
	if c.Transactions.Interval < 0 {
		return fmt.Errorf("%w: transaction interval %v must not be negative", ErrInvalid, c.Transactions.Interval)
	}
	if c.Simulation.BlockLimit < 0 {
		return fmt.Errorf("%w: block limit %d must not be negative", ErrInvalid, c.Simulation.BlockLimit)
	}
	if c.Simulation.Years < 0 {
		return fmt.Errorf("%w: years %v must not be negative", ErrInvalid, c.Simulation.Years)
	}
	if c.Simulation.ReportEvery <= 0 {
		return fmt.Errorf("%w: report interval %d must be positive", ErrInvalid, c.Simulation.ReportEvery)
	}
	return c.validateAttack()
}

func (c *Config) validateAttack() error {
	switch c.Attack.Mode {
	case AttackNone:
		return nil
	case AttackSelfish, AttackDoubleSpend:
		if c.Mining.Producers < 2 {
			return fmt.Errorf("%w: %s attack needs at least one honest producer", ErrInvalid, c.Attack.Mode)
		}
		if c.Attack.AttackerFraction < 0 || c.Attack.AttackerFraction >= 1 {
			return fmt.Errorf("%w: attacker fraction %v outside [0, 1)", ErrInvalid, c.Attack.AttackerFraction)
		}
		if c.Attack.Mode == AttackDoubleSpend && c.Attack.Confirmations <= 0 {
			return fmt.Errorf("%w: target confirmations %d must be positive", ErrInvalid, c.Attack.Confirmations)
		}
	case AttackEclipse:
		if len(c.Attack.Victims) == 0 {
			return fmt.Errorf("%w: eclipse needs at least one victim node", ErrInvalid)
		}
		for _, v := range c.Attack.Victims {
			if v < 0 || v >= c.Network.Nodes {
				return fmt.Errorf("%w: victim node %d outside 0..%d", ErrInvalid, v, c.Network.Nodes-1)
			}
		}
	default:
		return fmt.Errorf("%w: unknown attack mode %q", ErrInvalid, c.Attack.Mode)
	}
	return nil
}
