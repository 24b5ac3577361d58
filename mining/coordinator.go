// Package mining drives the simulation round loop: difficulty
// retargeting, the production race, transaction batching, coin
// issuance, attack routing, block propagation and progress reporting.
// The entire run mutates state from a single goroutine; determinism
// comes from one injected random source consumed in a fixed order.
package mining

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/btursunbayev/blocksim/attack"
	"github.com/btursunbayev/blocksim/common/types"
	"github.com/btursunbayev/blocksim/mempool"
	"github.com/btursunbayev/blocksim/network"
	"github.com/btursunbayev/blocksim/producer"
	"github.com/btursunbayev/blocksim/sim"
	"github.com/btursunbayev/blocksim/wallet"
)

// Coordinator owns one simulation run. Construct with New, drive with
// Run. Not safe for concurrent use.
type Coordinator struct {
	logger *zap.Logger
	cfg    Config

	clock    *sim.Clock
	rng      *rand.Rand
	topo     *network.Topology
	replayer *network.Replayer

	racers      []producer.Producer
	selectable  []producer.Producer
	totalWeight float64

	pool *mempool.Pool
	gen  *wallet.Generator

	state   State
	resumed bool
	metrics Metrics

	reporter Reporter

	strategy   attack.Strategy
	attackerID types.ProducerID
	eclipse    *attack.Eclipse
}

type Opt func(*Coordinator)

func WithLogger(logger *zap.Logger) Opt {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

func WithReporter(r Reporter) Opt {
	return func(c *Coordinator) {
		c.reporter = r
	}
}

// WithStrategy routes every round outcome into the attack state
// machine, attributing rounds won by the given producer to the
// attacker. Attribution only: the accepted chain is unchanged.
func WithStrategy(s attack.Strategy, attacker types.ProducerID) Opt {
	return func(c *Coordinator) {
		c.strategy = s
		c.attackerID = attacker
	}
}

// WithEclipse installs an eclipse attack as the propagation filter and
// feeds it per-round origin outcomes. The withheld chain is released to
// the victims when the run finishes.
func WithEclipse(e *attack.Eclipse) Opt {
	return func(c *Coordinator) {
		c.eclipse = e
	}
}

// WithRNG injects the run's single random source. Per round the
// stake/space selection draws first, then proof-of-work timers in
// ascending producer id, then the propagation origin, so equal seeds
// replay equal event sequences.
func WithRNG(rng *rand.Rand) Opt {
	return func(c *Coordinator) {
		c.rng = rng
	}
}

// WithState resumes from a checkpoint snapshot instead of starting
// fresh. The configuration must match the checkpointed run.
func WithState(s State) Opt {
	return func(c *Coordinator) {
		c.state = s
		c.resumed = true
	}
}

func New(cfg Config, topo *network.Topology, producers []producer.Producer, gen *wallet.Generator, opts ...Opt) (*Coordinator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if topo == nil || topo.Len() == 0 {
		return nil, fmt.Errorf("%w: network topology is required", ErrConfig)
	}
	if len(producers) == 0 {
		return nil, producer.ErrNoProducers
	}
	c := &Coordinator{
		logger: zap.NewNop(),
		cfg:    cfg,
		topo:   topo,
		pool:   mempool.New(),
		gen:    gen,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.gen == nil {
		c.gen = wallet.NewGenerator(0, 0, 0)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	racers := make([]producer.Producer, len(producers))
	copy(racers, producers)
	sort.Slice(racers, func(i, j int) bool { return racers[i].ID() < racers[j].ID() })
	pow := false
	for i, p := range racers {
		if p.Weight() < 0 {
			return nil, fmt.Errorf("%w: producer %d has negative weight %v", ErrConfig, p.ID(), p.Weight())
		}
		if i > 0 && racers[i-1].ID() == p.ID() {
			return nil, fmt.Errorf("%w: duplicate producer id %d", ErrConfig, p.ID())
		}
		c.totalWeight += p.Weight()
		switch p.Kind() {
		case producer.KindPoW:
			pow = true
		default:
			c.selectable = append(c.selectable, p)
		}
	}
	c.racers = racers

	if !c.resumed {
		c.state = NewState(cfg, c.totalWeight)
	}
	if err := c.state.Validate(); err != nil {
		return nil, err
	}
	if pow && c.state.Difficulty <= 0 {
		return nil, fmt.Errorf("%w: difficulty resolves to %v with proof-of-work producers present", ErrConfig, c.state.Difficulty)
	}

	c.clock = sim.NewClockAt(c.state.LastBlockTime)
	c.replayer = network.NewReplayer(topo)
	return c, nil
}

// State snapshots the simulation state, the checkpoint payload.
func (c *Coordinator) State() State {
	return c.state
}

// Run drives rounds until termination and returns the final result.
// A block limit takes precedence over transaction completion; with
// neither set the run continues until the context is canceled. On
// cancellation the partial result is returned together with the
// context's error.
func (c *Coordinator) Run(ctx context.Context) (*Result, error) {
	c.logger.Info("simulation starting",
		zap.Int("nodes", c.topo.Len()),
		zap.Int("producers", len(c.racers)),
		zap.Float64("weight", c.totalWeight),
		zap.Float64("difficulty", c.state.Difficulty),
		zap.Int("block_limit", c.cfg.BlockLimit),
		zap.Int("scheduled_tx", c.gen.Total()),
		zap.Bool("resumed", c.resumed),
	)
	for !c.done() {
		select {
		case <-ctx.Done():
			return c.finalize(), ctx.Err()
		default:
		}
		if err := c.step(); err != nil {
			return nil, err
		}
	}
	return c.finalize(), nil
}

func (c *Coordinator) done() bool {
	if c.cfg.BlockLimit > 0 {
		return c.state.BlockCount >= c.cfg.BlockLimit
	}
	total := c.gen.Total()
	return total > 0 && c.state.PoolProcessed >= total
}

func (c *Coordinator) step() error {
	c.maybeRetarget()

	winner, _, err := c.race()
	if err != nil {
		return err
	}

	now := c.clock.Now()
	interBlock := now - c.state.LastBlockTime
	c.state.LastBlockTime = now
	c.state.BlockCount++
	c.state.BlocksSinceAdjustment++

	for _, e := range c.gen.PendingUpTo(now) {
		c.pool.Enqueue(e)
	}
	txs := 1
	if c.gen.Total() > 0 {
		take := c.pool.Len()
		if take > c.cfg.BlockCapacity {
			take = c.cfg.BlockCapacity
		}
		c.pool.DequeueBatch(take)
		c.state.PoolProcessed += take
		txs = take + 1
	}
	block := types.NewBlock(types.BlockID(c.state.BlockCount), txs, interBlock, now)
	c.state.TotalTx += txs

	minted := c.applyIssuance()

	if c.strategy != nil {
		c.strategy.OnBlock(winner == c.attackerID, minted)
	}

	origin := types.NodeID(c.rng.Intn(c.topo.Len()))
	fromAttacker := false
	var filter network.Filter
	if c.eclipse != nil {
		fromAttacker = c.eclipse.IsVictim(origin)
		c.eclipse.OnBlock(fromAttacker, minted)
		filter = c.eclipse
	}
	c.replayer.Replay(block, origin, fromAttacker, &c.metrics, filter)

	c.logger.Debug("block produced",
		zap.Float64("t", now),
		zap.Int("block", int(block.ID)),
		zap.Int("producer", int(winner)),
		zap.Float64("dt", interBlock),
		zap.Int("txs", txs),
		zap.Float64("difficulty", c.state.Difficulty),
		zap.Int("pool", c.pool.Len()),
	)

	c.maybeReport()
	return nil
}

// race resolves one production round. The selection draw for stake and
// space producers comes first, then proof-of-work timers in ascending
// id order; unselected stake/space producers sit the round out.
func (c *Coordinator) race() (types.ProducerID, float64, error) {
	race := sim.NewRace()
	round := producer.Round{Difficulty: c.state.Difficulty, Race: race, RNG: c.rng}
	var chosen producer.Producer
	if len(c.selectable) > 0 {
		chosen = producer.Select(c.rng, c.selectable)
	}
	for _, p := range c.racers {
		if p.Kind() == producer.KindPoW || p == chosen {
			p.Attempt(round)
		}
	}
	return race.Resolve(c.clock)
}

func (c *Coordinator) maybeRetarget() {
	if !c.cfg.auto() || c.state.BlocksSinceAdjustment < c.cfg.RetargetInterval {
		return
	}
	elapsed := c.clock.Now() - c.state.LastAdjustmentTime
	actualAvg := c.cfg.TargetBlockTime
	if c.state.BlocksSinceAdjustment > 0 {
		actualAvg = elapsed / float64(c.state.BlocksSinceAdjustment)
	}
	factor := 1.0
	if actualAvg > 0 {
		factor = c.cfg.TargetBlockTime / actualAvg
	}
	c.state.Difficulty *= factor
	c.state.LastAdjustmentTime = c.clock.Now()
	c.state.BlocksSinceAdjustment = 0
	c.logger.Debug("difficulty retargeted",
		zap.Float64("t", c.clock.Now()),
		zap.Float64("difficulty", c.state.Difficulty),
		zap.Float64("factor", factor),
		zap.Float64("actual_avg", actualAvg),
	)
}

// applyIssuance mints the round subsidy and applies the halving
// schedule. Returns the amount minted for this block, zero once the
// halving cap has zeroed the subsidy.
func (c *Coordinator) applyIssuance() float64 {
	minted := 0.0
	capped := !c.cfg.unbounded() && c.state.Halvings >= c.cfg.MaxHalvings
	if !capped {
		minted = c.state.Reward
		c.state.TotalCoins += minted
	}
	if c.cfg.HalvingInterval > 0 && c.state.BlockCount%c.cfg.HalvingInterval == 0 && !capped {
		c.state.Halvings++
		if c.cfg.unbounded() || c.state.Halvings < c.cfg.MaxHalvings {
			c.state.Reward /= 2
		} else {
			c.state.Reward = 0
		}
	}
	return minted
}

func (c *Coordinator) maybeReport() {
	if c.state.BlockCount%c.cfg.ReportEvery != 0 {
		return
	}
	now := c.clock.Now()
	window := now - c.state.LastReportTime
	dblocks := c.state.BlockCount - c.state.LastReportBlocks
	dtx := c.state.TotalTx - c.state.LastReportTx
	dcoins := c.state.TotalCoins - c.state.LastReportCoins

	abt := 0.0
	if dblocks > 0 {
		abt = window / float64(dblocks)
	}
	tps := 0.0
	if window > 0 {
		tps = float64(dtx) / window
	}
	infl := 0.0
	if c.state.LastReportCoins > 0 && window > 0 {
		infl = dcoins / c.state.LastReportCoins * (types.YearSeconds / window) * 100
	}
	pct, eta := 0.0, 0.0
	if c.cfg.BlockLimit > 0 {
		pct = float64(c.state.BlockCount) / float64(c.cfg.BlockLimit) * 100
		eta = float64(c.cfg.BlockLimit-c.state.BlockCount) * abt
	}
	if c.reporter != nil {
		c.reporter.Progress(Progress{
			Time:         now,
			Blocks:       c.state.BlockCount,
			BlockLimit:   c.cfg.BlockLimit,
			Percent:      pct,
			AvgBlockTime: abt,
			TPS:          tps,
			Inflation:    infl,
			ETA:          eta,
			Difficulty:   c.state.Difficulty,
			TotalWeight:  c.totalWeight,
			TotalTx:      c.state.TotalTx,
			TotalCoins:   c.state.TotalCoins,
			PoolLen:      c.pool.Len(),
			NetworkBytes: c.metrics.NetworkBytes,
			IORequests:   c.metrics.IORequests,
		})
	}
	c.state.LastReportTime = now
	c.state.LastReportBlocks = c.state.BlockCount
	c.state.LastReportTx = c.state.TotalTx
	c.state.LastReportCoins = c.state.TotalCoins
}

func (c *Coordinator) finalize() *Result {
	now := c.clock.Now()
	c.metrics.finalize(now, c.state.BlockCount, c.state.TotalTx, c.state.TotalCoins,
		c.state.LastReportCoins, c.state.LastReportTime)

	if c.eclipse != nil {
		orphaned := c.eclipse.Release()
		c.logger.Info("eclipse released honest chain", zap.Int("orphaned", orphaned))
	}

	if c.reporter != nil {
		c.reporter.Summary(Summary{
			Time:         now,
			Blocks:       c.state.BlockCount,
			BlockLimit:   c.cfg.BlockLimit,
			AvgBlockTime: c.metrics.AvgBlockTime,
			TPS:          c.metrics.TPS,
			Inflation:    c.metrics.Inflation,
			Difficulty:   c.state.Difficulty,
			TotalWeight:  c.totalWeight,
			TotalTx:      c.state.TotalTx,
			TotalCoins:   c.state.TotalCoins,
			PoolLen:      c.pool.Len(),
			NetworkBytes: c.metrics.NetworkBytes,
			IORequests:   c.metrics.IORequests,
		})
	}

	result := &Result{State: c.state, Metrics: c.metrics}
	switch {
	case c.strategy != nil:
		result.Attack = c.strategy.Metrics()
	case c.eclipse != nil:
		result.Attack = c.eclipse.Metrics()
	}
	c.logger.Info("simulation finished",
		zap.Object("state", c.state),
		zap.Object("metrics", c.metrics),
	)
	return result
}
