package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"netsimbridge/internal/model"
	"netsimbridge/internal/service"
	"netsimbridge/internal/watcher"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const watchLongDescription = `Command "watch"

Imports each FILE and imports it again every time it changes on disk.
Every import creates a new Network. Stop with Ctrl+C.
`

func watchCommand(root *rootCommand) *cobra.Command {
	var node string

	cmd := &cobra.Command{
		Use:   "watch FILE...",
		Short: "Re-import network files when they change",
		Long:  watchLongDescription,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := root.open(cmd.Context())
			if err != nil {
				return err
			}
			importer := service.NewImporter(deps)
			logger := root.logger.Named("watch")

			reimport := func(ctx context.Context, path string) {
				content, err := os.ReadFile(path)
				if err != nil {
					logger.Warn("failed to read file", zap.String("path", path), zap.Error(err))
					return
				}
				res, err := importer.ImportFile(ctx, node, filepath.Base(path), content)
				printResult(cmd.OutOrStdout(), res)
				if err != nil {
					logger.Warn("import failed", zap.String("path", path), zap.Error(err))
				}
			}

			for _, path := range args {
				reimport(cmd.Context(), path)
			}

			w := watcher.New(args, reimport).
				WithDebounce(root.cfg.Watch.Debounce.Duration()).
				WithLogger(logger)
			if err := w.Watch(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&node, "node", "n", model.RootPath, "path of the active node")
	return cmd
}
