// blocksim simulates proof-based blockchain networks: mining races,
// difficulty retargeting, halving economics, block propagation and a
// set of classic attacks.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "blocksim:", err)
		os.Exit(1)
	}
}
