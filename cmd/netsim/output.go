package main

import (
	"fmt"
	"io"
	"time"

	"netsimbridge/internal/service"
)

// printResult writes a human readable summary of a plugin run
func printResult(w io.Writer, res *service.Result) {
	status := "succeeded"
	if !res.Success {
		status = "failed"
	}
	fmt.Fprintf(w, "%s %s in %s (%d edges)\n", res.Plugin, status, res.Duration.Round(time.Millisecond), res.Edges)

	for _, msg := range res.Messages {
		node := msg.NodePath
		if node == "" {
			node = "/"
		}
		fmt.Fprintf(w, "  [%s] %s: %s\n", msg.Severity, node, msg.Text)
	}
	if res.Network != "" {
		fmt.Fprintf(w, "  network: %s\n", res.Network)
	}
	if res.Commit != "" {
		fmt.Fprintf(w, "  commit:  %s\n", res.Commit)
	}
	for _, hash := range res.Artifacts {
		fmt.Fprintf(w, "  artifact: %s\n", hash)
	}
}
