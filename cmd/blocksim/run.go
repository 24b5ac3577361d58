package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/btursunbayev/blocksim/config"
)

// flagKeys maps command line overrides to configuration keys. A bound
// flag only takes effect when explicitly set.
var flagKeys = map[string]string{
	"nodes":             "network.nodes",
	"neighbors":         "network.neighbors",
	"producers":         "mining.producers",
	"weight":            "mining.weight-per-producer",
	"kind":              "mining.kind",
	"block-time":        "mining.target-block-time",
	"difficulty":        "mining.difficulty",
	"capacity":          "mining.block-capacity",
	"retarget":          "mining.retarget-interval",
	"reward":            "economics.initial-reward",
	"halving":           "economics.halving-interval",
	"max-halvings":      "economics.max-halvings",
	"wallets":           "transactions.wallets",
	"tx-per-wallet":     "transactions.per-wallet",
	"tx-interval":       "transactions.interval",
	"blocks":            "simulation.block-limit",
	"years":             "simulation.years",
	"seed":              "simulation.seed",
	"report-every":      "simulation.report-every",
	"attack":            "attack.mode",
	"attacker-fraction": "attack.attacker-fraction",
	"confirmations":     "attack.confirmations",
	"victims":           "attack.victims",
}

func addConfigFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	fs := cmd.Flags()
	fs.Int("nodes", def.Network.Nodes, "number of network nodes")
	fs.Int("neighbors", def.Network.Neighbors, "peers per node")
	fs.Int("producers", def.Mining.Producers, "number of block producers")
	fs.Float64("weight", def.Mining.WeightPerProducer, "hashrate, stake or space per producer")
	fs.String("kind", def.Mining.Kind, "producer kind: pow, pos or pospace")
	fs.Float64("block-time", def.Mining.TargetBlockTime, "target seconds between blocks")
	fs.Float64("difficulty", def.Mining.Difficulty, "fixed difficulty, 0 derives it and keeps retargeting on")
	fs.Int("capacity", def.Mining.BlockCapacity, "transactions per block")
	fs.Int("retarget", def.Mining.RetargetInterval, "blocks between difficulty adjustments")
	fs.Float64("reward", def.Economics.InitialReward, "initial block subsidy")
	fs.Int("halving", def.Economics.HalvingInterval, "blocks between halvings, 0 disables")
	fs.Int("max-halvings", def.Economics.MaxHalvings, "halving cap, negative is unbounded")
	fs.Int("wallets", def.Transactions.Wallets, "number of wallets")
	fs.Int("tx-per-wallet", def.Transactions.PerWallet, "transactions each wallet emits")
	fs.Float64("tx-interval", def.Transactions.Interval, "seconds between wallet emissions")
	fs.Int("blocks", def.Simulation.BlockLimit, "stop after this many blocks, 0 is unlimited")
	fs.Float64("years", def.Simulation.Years, "simulated years, used when no block limit is set")
	fs.Int64("seed", def.Simulation.Seed, "random seed, 0 draws one from the clock")
	fs.Int("report-every", def.Simulation.ReportEvery, "blocks between progress reports")
	fs.String("attack", def.Attack.Mode, "attack mode: none, selfish, double-spend or eclipse")
	fs.Float64("attacker-fraction", def.Attack.AttackerFraction, "attacker share of total weight, 0 picks the mode default")
	fs.Int("confirmations", def.Attack.Confirmations, "double spend confirmation target")
	fs.IntSlice("victims", def.Attack.Victims, "eclipse victim node ids")
}

// loadConfig layers, lowest to highest: defaults or a preset, the
// config file, BLOCKSIM_* environment variables, explicit flags.
func loadConfig(opts *rootOpts, cmd *cobra.Command) (config.Config, error) {
	base := config.DefaultConfig()
	if opts.preset != "" {
		var err error
		if base, err = config.Preset(opts.preset); err != nil {
			return config.Config{}, err
		}
	}
	v := config.NewViper(base)
	if opts.configPath != "" {
		v.SetConfigFile(opts.configPath)
		if err := v.ReadInConfig(); err != nil {
			return config.Config{}, fmt.Errorf("%w: %v", config.ErrInvalid, err)
		}
	}
	if err := bindFlags(cmd, v); err != nil {
		return config.Config{}, err
	}
	return config.Decode(v)
}

func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || err != nil {
			return
		}
		if e := v.BindPFlag(key, f); e != nil {
			err = fmt.Errorf("bind --%s: %w", f.Name, e)
		}
	})
	return err
}

func runCmd(opts *rootOpts) *cobra.Command {
	var out artifacts
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(opts.debug)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			cfg, err := loadConfig(opts, cmd)
			if err != nil {
				return err
			}
			return runSimulation(cmd.Context(), log, cfg, nil, out)
		},
	}
	addConfigFlags(cmd)
	cmd.Flags().StringVar(&out.checkpoint, "checkpoint", "", "write a resumable snapshot here at every progress report")
	cmd.Flags().StringVar(&out.metrics, "metrics-out", "", "write final metrics as JSON to this file")
	return cmd
}
