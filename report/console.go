// Package report renders coordinator callbacks into structured log
// lines, pacing simulated time against the wall clock.
package report

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/mxmCherry/movavg"
	"go.uber.org/zap"

	"github.com/btursunbayev/blocksim/mining"
)

// defaultWindow is the number of progress reports smoothed by the
// moving average of block times.
const defaultWindow = 24

// Console logs every progress report and the final summary. It
// implements mining.Reporter.
type Console struct {
	log     *zap.Logger
	clock   clock.Clock
	runID   uuid.UUID
	window  int
	blockMA *movavg.SMA
	started time.Time
}

// Opt configures a Console.
type Opt func(*Console)

// WithClock substitutes the wall clock, for tests.
func WithClock(c clock.Clock) Opt {
	return func(con *Console) {
		con.clock = c
	}
}

// WithWindow sets the moving average window in progress reports.
func WithWindow(n int) Opt {
	return func(con *Console) {
		con.window = n
	}
}

// WithRunID tags every line with an externally chosen run id.
func WithRunID(id uuid.UUID) Opt {
	return func(con *Console) {
		con.runID = id
	}
}

// NewConsole returns a reporter logging through log. The wall clock
// starts counting at construction.
func NewConsole(log *zap.Logger, opts ...Opt) *Console {
	c := &Console{
		log:    log,
		clock:  clock.New(),
		runID:  uuid.New(),
		window: defaultWindow,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.blockMA = movavg.NewSMA(c.window)
	c.started = c.clock.Now()
	return c
}

// RunID is the id stamped on every line of this reporter.
func (c *Console) RunID() uuid.UUID {
	return c.runID
}

// Progress logs one periodic report.
func (c *Console) Progress(p mining.Progress) {
	c.blockMA.Add(p.AvgBlockTime)
	smoothed := c.blockMA.Avg()
	fields := []zap.Field{
		zap.String("run", c.runID.String()),
		zap.Int("blocks", p.Blocks),
		zap.Float64("time", p.Time),
		zap.Float64("avg_block_time", p.AvgBlockTime),
		zap.Float64("avg_block_time_sma", smoothed),
		zap.Float64("tps", p.TPS),
		zap.Float64("inflation", p.Inflation),
		zap.String("difficulty", Human(p.Difficulty)),
		zap.String("weight", Human(p.TotalWeight)),
		zap.Int("total_tx", p.TotalTx),
		zap.String("coins", Human(p.TotalCoins)),
		zap.Int("pool", p.PoolLen),
		zap.String("network", Human(float64(p.NetworkBytes))),
		zap.Int64("io", p.IORequests),
		zap.Float64("speed", c.speed(p.Time)),
	}
	if p.BlockLimit > 0 {
		fields = append(fields,
			zap.Float64("percent", p.Percent),
			zap.Float64("eta", p.ETA),
		)
	}
	c.log.Info("progress", fields...)
}

// Summary logs the final report of a run.
func (c *Console) Summary(s mining.Summary) {
	c.log.Info("summary",
		zap.String("run", c.runID.String()),
		zap.Int("blocks", s.Blocks),
		zap.Float64("time", s.Time),
		zap.Float64("avg_block_time", s.AvgBlockTime),
		zap.Float64("tps", s.TPS),
		zap.Float64("inflation", s.Inflation),
		zap.String("difficulty", Human(s.Difficulty)),
		zap.String("weight", Human(s.TotalWeight)),
		zap.Int("total_tx", s.TotalTx),
		zap.String("coins", Human(s.TotalCoins)),
		zap.Int("pool", s.PoolLen),
		zap.String("network", Human(float64(s.NetworkBytes))),
		zap.Int64("io", s.IORequests),
		zap.Float64("speed", c.speed(s.Time)),
	)
}

// speed is the ratio of simulated seconds to wall seconds since the
// reporter was constructed.
func (c *Console) speed(simulated float64) float64 {
	wall := c.clock.Now().Sub(c.started).Seconds()
	if wall <= 0 {
		return 0
	}
	return simulated / wall
}
