package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/btursunbayev/blocksim/config"
)

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List built-in scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.Presets() {
				cfg, err := config.Preset(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(),
					"%-10s block time %gs, capacity %d, retarget every %d, halving every %d\n",
					name,
					cfg.Mining.TargetBlockTime,
					cfg.Mining.BlockCapacity,
					cfg.Mining.RetargetInterval,
					cfg.Economics.HalvingInterval,
				)
			}
			return nil
		},
	}
}
