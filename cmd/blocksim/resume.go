package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/btursunbayev/blocksim/checkpoint"
)

func resumeCmd(opts *rootOpts) *cobra.Command {
	var (
		out  artifacts
		path string
	)
	cmd := &cobra.Command{
		Use:   "resume",
		Short: "Resume a checkpointed simulation",
		Long: `Resume continues rounds from a snapshot written by run --checkpoint.
The configuration must match the checkpointed run; mempool contents and
the random stream are not part of the snapshot, so the continuation is a
statistically equivalent run, not a byte-exact replay.`,
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
			snap, err := checkpoint.Load(path)
			if err != nil {
				return err
			}
			log.Info("loaded checkpoint",
				zap.String("path", path),
				zap.String("run", snap.RunID.String()),
				zap.Float64("saved_at", snap.SavedAt),
				zap.Int("blocks", snap.State.BlockCount),
			)
			out.checkpoint = path
			return runSimulation(cmd.Context(), log, cfg, &snap, out)
		},
	}
	addConfigFlags(cmd)
	cmd.Flags().StringVar(&path, "checkpoint", "", "snapshot to resume from, overwritten as the run progresses")
	_ = cmd.MarkFlagRequired("checkpoint")
	cmd.Flags().StringVar(&out.metrics, "metrics-out", "", "write final metrics as JSON to this file")
	return cmd
}
