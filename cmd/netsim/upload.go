package main

import (
	"fmt"
	"os"
	"path/filepath"

	"netsimbridge/internal/service"

	"github.com/spf13/cobra"
)

func uploadCommand(root *rootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "upload FILE...",
		Short: "Store network files in the asset store and print their hashes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := root.open(cmd.Context())
			if err != nil {
				return err
			}
			for _, path := range args {
				content, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				hash, err := service.Upload(cmd.Context(), deps, filepath.Base(path), content)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", hash, path)
			}
			return nil
		},
	}
}
