// Command netsim exchanges network topologies between the model store and
// netsim edge-list files.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCommand()
	err := root.cmd.ExecuteContext(ctx)
	if cerr := root.close(); cerr != nil {
		fmt.Fprintln(os.Stderr, "Error:", cerr)
		if err == nil {
			err = cerr
		}
	}
	stop()
	if err != nil {
		os.Exit(1)
	}
}
