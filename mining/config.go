package mining

import (
	"errors"
	"fmt"
)

// ErrConfig is wrapped by every coordinator configuration failure.
var ErrConfig = errors.New("invalid mining config")

// Config carries the coordinator's tunables. A zero Difficulty selects
// automatic mode: the initial value is derived from the target block
// time and total producer weight, and retargeting stays enabled.
type Config struct {
	// TargetBlockTime is the desired average seconds between blocks.
	TargetBlockTime float64 `mapstructure:"target-block-time"`
	// Difficulty fixes the proof-of-work difficulty when positive and
	// disables retargeting.
	Difficulty float64 `mapstructure:"difficulty"`
	// BlockCapacity caps transactions per block, excluding the coinbase.
	BlockCapacity int `mapstructure:"block-capacity"`
	// RetargetInterval is the number of blocks between difficulty
	// recalculations in automatic mode.
	RetargetInterval int `mapstructure:"retarget-interval"`

	// InitialReward is the block subsidy before any halving.
	InitialReward float64 `mapstructure:"initial-reward"`
	// HalvingInterval halves the subsidy every N blocks, 0 disables.
	HalvingInterval int `mapstructure:"halving-interval"`
	// MaxHalvings caps halving events. Negative means unbounded; at the
	// cap the subsidy drops to zero.
	MaxHalvings int `mapstructure:"max-halvings"`

	// BlockLimit stops the run after N blocks, 0 means unlimited.
	BlockLimit int `mapstructure:"block-limit"`
	// ReportEvery emits a progress report every N blocks.
	ReportEvery int `mapstructure:"report-every"`
}

func DefaultConfig() Config {
	return Config{
		TargetBlockTime:  600,
		BlockCapacity:    4096,
		RetargetInterval: 2016,
		InitialReward:    50,
		HalvingInterval:  210000,
		MaxHalvings:      -1,
		ReportEvery:      144,
	}
}

func (c *Config) Validate() error {
	if c.TargetBlockTime <= 0 {
		return fmt.Errorf("%w: target block time %v must be positive", ErrConfig, c.TargetBlockTime)
	}
	if c.Difficulty < 0 {
		return fmt.Errorf("%w: difficulty %v must not be negative", ErrConfig, c.Difficulty)
	}
	if c.BlockCapacity <= 0 {
		return fmt.Errorf("%w: block capacity %d must be positive", ErrConfig, c.BlockCapacity)
	}
	if c.RetargetInterval <= 0 {
		return fmt.Errorf("%w: retarget interval %d must be positive", ErrConfig, c.RetargetInterval)
	}
	if c.InitialReward < 0 {
		return fmt.Errorf("%w: initial reward %v must not be negative", ErrConfig, c.InitialReward)
	}
	if c.HalvingInterval < 0 {
		return fmt.Errorf("%w: halving interval %d must not be negative", ErrConfig, c.HalvingInterval)
	}
	if c.BlockLimit < 0 {
		return fmt.Errorf("%w: block limit %d must not be negative", ErrConfig, c.BlockLimit)
	}
	if c.ReportEvery <= 0 {
		return fmt.Errorf("%w: report interval %d must be positive", ErrConfig, c.ReportEvery)
	}
	return nil
}

// auto reports whether difficulty is derived and retargeted.
func (c *Config) auto() bool {
	return c.Difficulty == 0
}

// unbounded reports whether halvings continue forever.
func (c *Config) unbounded() bool {
	return c.MaxHalvings < 0
}
