package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/btursunbayev/blocksim/attack"
	"github.com/btursunbayev/blocksim/checkpoint"
	"github.com/btursunbayev/blocksim/common/types"
	"github.com/btursunbayev/blocksim/config"
	"github.com/btursunbayev/blocksim/mining"
	"github.com/btursunbayev/blocksim/network"
	"github.com/btursunbayev/blocksim/producer"
	"github.com/btursunbayev/blocksim/report"
	"github.com/btursunbayev/blocksim/wallet"
)

// Producer 0 is the attacker in every attribution-based attack.
const attackerID = types.ProducerID(0)

// artifacts are the output files a run may write.
type artifacts struct {
	checkpoint string
	metrics    string
}

// runSimulation wires the configured components together and drives the
// coordinator until termination or cancellation.
func runSimulation(ctx context.Context, log *zap.Logger, cfg config.Config, snap *checkpoint.Snapshot, out artifacts) error {
	for _, warning := range cfg.Warnings() {
		log.Warn(warning)
	}
	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	topo, err := network.NewTopology(cfg.Network.Nodes, cfg.Network.Neighbors, rng)
	if err != nil {
		return err
	}

	var consoleOpts []report.Opt
	var resume *mining.State
	if snap != nil {
		// A resumed run keeps its original id across restarts.
		consoleOpts = append(consoleOpts, report.WithRunID(snap.RunID))
		resume = &snap.State
	}
	console := report.NewConsole(log.Named("report"), consoleOpts...)

	opts := []mining.Opt{
		mining.WithLogger(log.Named("mining")),
		mining.WithRNG(rng),
	}
	var saver *checkpointingReporter
	if out.checkpoint != "" {
		saver = &checkpointingReporter{
			Reporter: console,
			log:      log,
			path:     out.checkpoint,
			run:      console.RunID(),
		}
		opts = append(opts, mining.WithReporter(saver))
	} else {
		opts = append(opts, mining.WithReporter(console))
	}
	attackOpts, err := attackOptions(cfg)
	if err != nil {
		return err
	}
	opts = append(opts, attackOpts...)
	if resume != nil {
		opts = append(opts, mining.WithState(*resume))
	}

	gen := wallet.NewGenerator(cfg.Transactions.Wallets, cfg.Transactions.PerWallet, cfg.Transactions.Interval)
	coord, err := mining.New(miningConfig(cfg), topo, buildProducers(cfg), gen, opts...)
	if err != nil {
		return err
	}
	if saver != nil {
		saver.state = coord.State
	}

	log.Info("starting run",
		zap.String("run", console.RunID().String()),
		zap.Int64("seed", seed),
		zap.String("kind", cfg.Mining.Kind),
		zap.String("attack", cfg.Attack.Mode),
		zap.Bool("resumed", resume != nil),
	)
	res, err := coord.Run(ctx)
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		log.Warn("interrupted, results are partial", zap.Error(err))
	case err != nil:
		return err
	}
	if out.checkpoint != "" {
		if err := checkpoint.Save(out.checkpoint, checkpoint.New(console.RunID(), res.State)); err != nil {
			return err
		}
		log.Info("checkpoint written", zap.String("path", out.checkpoint))
	}
	if out.metrics != "" {
		if err := writeMetrics(out.metrics, seed, res); err != nil {
			return err
		}
		log.Info("metrics written", zap.String("path", out.metrics))
	}
	return nil
}

// buildProducers materializes the producer set. Under selfish mining or
// double spend, producer 0 holds the attacker's fraction of total
// weight and the honest remainder is split evenly.
func buildProducers(cfg config.Config) []producer.Producer {
	n := cfg.Mining.Producers
	weights := make([]float64, n)
	switch cfg.Attack.Mode {
	case config.AttackSelfish, config.AttackDoubleSpend:
		fraction := cfg.Attack.AttackerFraction
		if fraction == 0 {
			fraction = defaultFraction(cfg.Attack.Mode)
		}
		total := cfg.TotalWeight()
		weights[0] = fraction * total
		honest := (total - weights[0]) / float64(n-1)
		for i := 1; i < n; i++ {
			weights[i] = honest
		}
	default:
		for i := range weights {
			weights[i] = cfg.Mining.WeightPerProducer
		}
	}
	out := make([]producer.Producer, n)
	for i, w := range weights {
		id := types.ProducerID(i)
		switch cfg.Mining.Kind {
		case config.KindPoS:
			out[i] = producer.NewValidator(id, w)
		case config.KindPoSpace:
			out[i] = producer.NewFarmer(id, w)
		default:
			out[i] = producer.NewMiner(id, w)
		}
	}
	return out
}

func defaultFraction(mode string) float64 {
	if mode == config.AttackDoubleSpend {
		return 0.51
	}
	return 0.30
}

func attackOptions(cfg config.Config) ([]mining.Opt, error) {
	switch cfg.Attack.Mode {
	case config.AttackNone:
		return nil, nil
	case config.AttackSelfish:
		return []mining.Opt{mining.WithStrategy(attack.NewSelfishMining(), attackerID)}, nil
	case config.AttackDoubleSpend:
		ds, err := attack.NewDoubleSpend(cfg.Attack.Confirmations)
		if err != nil {
			return nil, err
		}
		return []mining.Opt{mining.WithStrategy(ds, attackerID)}, nil
	case config.AttackEclipse:
		ec, err := attack.NewEclipse(victimIDs(cfg.Attack.Victims))
		if err != nil {
			return nil, err
		}
		return []mining.Opt{mining.WithEclipse(ec)}, nil
	default:
		return nil, fmt.Errorf("%w: unknown attack mode %q", config.ErrInvalid, cfg.Attack.Mode)
	}
}

func victimIDs(victims []int) []types.NodeID {
	out := make([]types.NodeID, len(victims))
	for i, v := range victims {
		out[i] = types.NodeID(v)
	}
	return out
}

func miningConfig(cfg config.Config) mining.Config {
	return mining.Config{
		TargetBlockTime:  cfg.Mining.TargetBlockTime,
		Difficulty:       cfg.Mining.Difficulty,
		BlockCapacity:    cfg.Mining.BlockCapacity,
		RetargetInterval: cfg.Mining.RetargetInterval,
		InitialReward:    cfg.Economics.InitialReward,
		HalvingInterval:  cfg.Economics.HalvingInterval,
		MaxHalvings:      cfg.Economics.MaxHalvings,
		BlockLimit:       cfg.EffectiveBlockLimit(),
		ReportEvery:      cfg.Simulation.ReportEvery,
	}
}

// checkpointingReporter snapshots the simulation at every progress
// report so an interrupted run can resume close to where it stopped.
type checkpointingReporter struct {
	mining.Reporter
	log   *zap.Logger
	path  string
	run   uuid.UUID
	state func() mining.State
}

func (r *checkpointingReporter) Progress(p mining.Progress) {
	r.Reporter.Progress(p)
	r.save()
}

func (r *checkpointingReporter) Summary(s mining.Summary) {
	r.Reporter.Summary(s)
	r.save()
}

func (r *checkpointingReporter) save() {
	if r.state == nil {
		return
	}
	if err := checkpoint.Save(r.path, checkpoint.New(r.run, r.state())); err != nil {
		r.log.Warn("checkpoint save failed", zap.Error(err))
	}
}

// exportedMetrics is the JSON document written by --metrics-out.
type exportedMetrics struct {
	Seed    int64          `json:"seed"`
	State   mining.State   `json:"state"`
	Metrics mining.Metrics `json:"metrics"`
	Attack  attack.Metrics `json:"attack,omitempty"`
}

func writeMetrics(path string, seed int64, res *mining.Result) error {
	buf, err := json.MarshalIndent(exportedMetrics{
		Seed:    seed,
		State:   res.State,
		Metrics: res.Metrics,
		Attack:  res.Attack,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
