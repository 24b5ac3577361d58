package mining

import (
	"go.uber.org/zap/zapcore"

	"github.com/btursunbayev/blocksim/common/types"
)

// Metrics accumulates propagation counters during the run and derived
// rates once the run finishes. It is the network.Recorder handed to the
// replayer.
type Metrics struct {
	NetworkBytes int64 `json:"network_data_bytes"`
	IORequests   int64 `json:"io_requests"`

	SimulatedTime float64 `json:"simulated_time_seconds"`
	Blocks        int     `json:"total_blocks"`
	AvgBlockTime  float64 `json:"avg_block_time"`
	TPS           float64 `json:"tps"`
	Inflation     float64 `json:"inflation_rate_percent"`
}

func (m *Metrics) AddNetworkData(bytes int64) {
	m.NetworkBytes += bytes
}

func (m *Metrics) AddIORequests(n int64) {
	m.IORequests += n
}

// finalize computes the derived rates. Zero simulated time, zero blocks
// and zero baseline coins all resolve to 0-valued rates rather than
// NaN or infinity.
func (m *Metrics) finalize(totalTime float64, blocks, totalTx int, totalCoins, lastCoins, lastT float64) {
	m.SimulatedTime = totalTime
	m.Blocks = blocks

	if blocks > 0 {
		m.AvgBlockTime = totalTime / float64(blocks)
	}
	if totalTime > 0 {
		m.TPS = float64(totalTx) / totalTime
	}
	if blocks > 0 && totalTime > 0 && lastCoins > 0 {
		if period := totalTime - lastT; period > 0 {
			m.Inflation = (totalCoins - lastCoins) / lastCoins * (types.YearSeconds / period) * 100
		}
	}
}

func (m Metrics) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddInt64("network_bytes", m.NetworkBytes)
	encoder.AddInt64("io_requests", m.IORequests)
	encoder.AddFloat64("simulated_time", m.SimulatedTime)
	encoder.AddInt("blocks", m.Blocks)
	encoder.AddFloat64("avg_block_time", m.AvgBlockTime)
	encoder.AddFloat64("tps", m.TPS)
	encoder.AddFloat64("inflation_pct", m.Inflation)
	return nil
}
