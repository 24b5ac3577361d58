package mining

import (
	"errors"
	"fmt"

	"go.uber.org/zap/zapcore"
)

// ErrState is wrapped when a restored state fails validation.
var ErrState = errors.New("invalid simulation state")

// State is the full mutable simulation state. It is the checkpoint
// payload: restoring it under the same configuration resumes rounds
// from where the snapshot was taken. Mempool contents and the random
// stream position are not part of the snapshot, so a resumed run
// diverges from the uninterrupted one past the restore point.
type State struct {
	BlockCount    int     `json:"block_count"`
	LastBlockTime float64 `json:"last_block_time"`

	Difficulty            float64 `json:"difficulty"`
	LastAdjustmentTime    float64 `json:"last_adjustment_time"`
	BlocksSinceAdjustment int     `json:"blocks_since_adjustment"`

	Reward     float64 `json:"reward"`
	Halvings   int     `json:"halvings"`
	TotalCoins float64 `json:"total_coins"`

	TotalTx       int `json:"total_tx"`
	PoolProcessed int `json:"pool_processed"`

	// Report markers move only when a progress report is emitted.
	LastReportTime   float64 `json:"last_report_time"`
	LastReportBlocks int     `json:"last_report_blocks"`
	LastReportTx     int     `json:"last_report_tx"`
	LastReportCoins  float64 `json:"last_report_coins"`
}

// NewState derives the initial state. Difficulty resolves to the
// configured value, or to targetBlockTime x totalWeight in automatic
// mode.
func NewState(cfg Config, totalWeight float64) State {
	difficulty := cfg.Difficulty
	if cfg.auto() {
		difficulty = cfg.TargetBlockTime * totalWeight
	}
	return State{
		Difficulty: difficulty,
		Reward:     cfg.InitialReward,
	}
}

func (s *State) Validate() error {
	if s.BlockCount < 0 {
		return fmt.Errorf("%w: negative block count %d", ErrState, s.BlockCount)
	}
	if s.LastBlockTime < 0 || s.LastAdjustmentTime < 0 {
		return fmt.Errorf("%w: negative timestamps", ErrState)
	}
	if s.Difficulty < 0 {
		return fmt.Errorf("%w: negative difficulty %v", ErrState, s.Difficulty)
	}
	if s.BlocksSinceAdjustment < 0 {
		return fmt.Errorf("%w: negative adjustment counter", ErrState)
	}
	if s.Reward < 0 || s.TotalCoins < 0 {
		return fmt.Errorf("%w: negative economics", ErrState)
	}
	if s.Halvings < 0 {
		return fmt.Errorf("%w: negative halvings %d", ErrState, s.Halvings)
	}
	if s.TotalTx < 0 || s.PoolProcessed < 0 {
		return fmt.Errorf("%w: negative transaction counters", ErrState)
	}
	if s.LastReportBlocks < 0 || s.LastReportBlocks > s.BlockCount {
		return fmt.Errorf("%w: report marker %d outside 0..%d", ErrState, s.LastReportBlocks, s.BlockCount)
	}
	if s.LastReportTx < 0 || s.LastReportTx > s.TotalTx {
		return fmt.Errorf("%w: tx marker %d outside 0..%d", ErrState, s.LastReportTx, s.TotalTx)
	}
	if s.LastReportCoins < 0 || s.LastReportCoins > s.TotalCoins {
		return fmt.Errorf("%w: coin marker %v outside 0..%v", ErrState, s.LastReportCoins, s.TotalCoins)
	}
	return nil
}

func (s State) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddInt("blocks", s.BlockCount)
	encoder.AddFloat64("last_block_time", s.LastBlockTime)
	encoder.AddFloat64("difficulty", s.Difficulty)
	encoder.AddFloat64("reward", s.Reward)
	encoder.AddInt("halvings", s.Halvings)
	encoder.AddFloat64("coins", s.TotalCoins)
	encoder.AddInt("tx", s.TotalTx)
	encoder.AddInt("pool_processed", s.PoolProcessed)
	return nil
}
