package main

import (
	"fmt"
	"os"
	"path/filepath"

	"netsimbridge/internal/codec"
	"netsimbridge/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const exportShortDescription = `Export a Network to a netsim edge-list artifact`
const exportLongDescription = `Command "export"

Reads the Network at --node with its nodes and connections and saves
an artifact named "<network>_Config" holding the edge-list file.

Use --out to also write the artifact files to a local directory.
`

func exportCommand(root *rootCommand) *cobra.Command {
	var (
		node   string
		format string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: exportShortDescription,
		Long:  exportLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := codec.Lookup(format)
			if err != nil {
				return err
			}
			deps, err := root.open(cmd.Context())
			if err != nil {
				return err
			}

			res, runErr := service.NewExporter(deps).WithCodec(c).Run(cmd.Context(), node)
			printResult(cmd.OutOrStdout(), res)
			if runErr != nil {
				return runErr
			}

			if outDir == "" {
				return nil
			}
			for _, hash := range res.Artifacts {
				if err := writeArtifact(cmd, deps, hash, outDir); err != nil {
					return err
				}
			}
			root.logger.Info("artifact files written", zap.String("dir", outDir))
			return nil
		},
	}

	cmd.Flags().StringVarP(&node, "node", "n", "", "path of the Network to export")
	cmd.Flags().StringVarP(&format, "format", "f", codec.FormatNetsim, fmt.Sprintf("file format %v", codec.Formats()))
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "directory to write the artifact files to")
	_ = cmd.MarkFlagRequired("node")
	return cmd
}

func writeArtifact(cmd *cobra.Command, deps service.Deps, hash, dir string) error {
	meta, err := deps.Blobs.GetMetadata(cmd.Context(), hash)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for name := range meta.Files {
		content, err := deps.Blobs.GetFile(cmd.Context(), hash, name)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, filepath.Base(name))
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  wrote %s\n", path)
	}
	return nil
}
