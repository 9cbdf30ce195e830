package main

import (
	"errors"
	"os"
	"path/filepath"

	"netsimbridge/internal/model"
	"netsimbridge/internal/service"

	"github.com/spf13/cobra"
)

const importShortDescription = `Import a netsim edge-list file as a new Network`
const importLongDescription = `Command "import"

Builds a new Network named "<file> (IMPORTED)" under the model root
from an edge-list file. The file is either read from --file and
uploaded first, or taken from the asset store by --asset.

Without either flag the asset configured in plugins.import.networkFile
is used.
`

func importCommand(root *rootCommand) *cobra.Command {
	var (
		node  string
		file  string
		asset string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: importShortDescription,
		Long:  importLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file != "" && asset != "" {
				return errors.New("--file and --asset are mutually exclusive")
			}
			deps, err := root.open(cmd.Context())
			if err != nil {
				return err
			}
			importer := service.NewImporter(deps)

			var (
				res    *service.Result
				runErr error
			)
			if file != "" {
				content, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				res, runErr = importer.ImportFile(cmd.Context(), node, filepath.Base(file), content)
			} else {
				if asset == "" {
					asset = root.cfg.Plugins.Import.NetworkFile
				}
				res, runErr = importer.Run(cmd.Context(), node, service.ImportConfig{NetworkFile: asset})
			}
			printResult(cmd.OutOrStdout(), res)
			return runErr
		},
	}

	cmd.Flags().StringVarP(&node, "node", "n", model.RootPath, "path of the active node")
	cmd.Flags().StringVar(&file, "file", "", "edge-list file to upload and import")
	cmd.Flags().StringVar(&asset, "asset", "", "hash of an uploaded edge-list file")
	return cmd
}
