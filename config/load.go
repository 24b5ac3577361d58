package config

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const envPrefix = "blocksim"

// NewViper returns a viper primed with every key of base as a default,
// so values from a file, BLOCKSIM_* environment variables and bound
// command line flags layer on top in the usual precedence order.
func NewViper(base Config) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v, base)
	return v
}

// setDefaults registers every configuration key. AutomaticEnv and
// Unmarshal only see keys viper already knows about.
func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("network.nodes", c.Network.Nodes)
	v.SetDefault("network.neighbors", c.Network.Neighbors)

	v.SetDefault("mining.producers", c.Mining.Producers)
	v.SetDefault("mining.weight-per-producer", c.Mining.WeightPerProducer)
	v.SetDefault("mining.kind", c.Mining.Kind)
	v.SetDefault("mining.target-block-time", c.Mining.TargetBlockTime)
	v.SetDefault("mining.difficulty", c.Mining.Difficulty)
	v.SetDefault("mining.block-capacity", c.Mining.BlockCapacity)
	v.SetDefault("mining.retarget-interval", c.Mining.RetargetInterval)

	v.SetDefault("economics.initial-reward", c.Economics.InitialReward)
	v.SetDefault("economics.halving-interval", c.Economics.HalvingInterval)
	v.SetDefault("economics.max-halvings", c.Economics.MaxHalvings)

	v.SetDefault("transactions.wallets", c.Transactions.Wallets)
	v.SetDefault("transactions.per-wallet", c.Transactions.PerWallet)
	v.SetDefault("transactions.interval", c.Transactions.Interval)

	v.SetDefault("simulation.block-limit", c.Simulation.BlockLimit)
	v.SetDefault("simulation.years", c.Simulation.Years)
	v.SetDefault("simulation.seed", c.Simulation.Seed)
	v.SetDefault("simulation.report-every", c.Simulation.ReportEvery)

	v.SetDefault("attack.mode", c.Attack.Mode)
	v.SetDefault("attack.attacker-fraction", c.Attack.AttackerFraction)
	v.SetDefault("attack.confirmations", c.Attack.Confirmations)
	v.SetDefault("attack.victims", c.Attack.Victims)
}

// Decode materializes viper's merged settings into a validated Config.
func Decode(v *viper.Viper) (Config, error) {
	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the YAML file at path over the built-in defaults. An empty
// path yields pure defaults.
func Load(path string) (Config, error) {
	v := NewViper(DefaultConfig())
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	}
	return Decode(v)
}
