package main

import (
	"context"
	"errors"
	"fmt"

	"netsimbridge/internal/blob"
	"netsimbridge/internal/config"
	"netsimbridge/internal/logging"
	"netsimbridge/internal/metrics"
	"netsimbridge/internal/model"
	"netsimbridge/internal/repository"
	"netsimbridge/internal/repository/sqlite"
	"netsimbridge/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const rootShortDescription = `Exchange network topologies with netsim`
const rootLongDescription = `netsim bridges the hierarchical network model and netsim edge-list files.

"export" writes the Network at a node to an edge-list artifact,
"import" builds a new Network from an uploaded edge-list file.
`

type rootCommand struct {
	cmd        *cobra.Command
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger

	store repository.Repository
	deps  *service.Deps
}

func newRootCommand() *rootCommand {
	root := &rootCommand{}
	root.cmd = &cobra.Command{
		Use:          "netsim",
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.load()
		},
	}

	flags := root.cmd.PersistentFlags()
	flags.StringVarP(&root.configPath, "config", "c", "", "config file (default: search "+config.DefaultConfigPath()+" and the working directory)")
	flags.BoolVarP(&root.verbose, "verbose", "v", false, "log at debug level")

	root.cmd.AddCommand(
		exportCommand(root),
		importCommand(root),
		uploadCommand(root),
		watchCommand(root),
		serveCommand(root),
		configCommand(root),
	)
	return root
}

// load reads the configuration and builds the logger
func (root *rootCommand) load() error {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if root.configPath != "" {
		cfg, path, err = config.LoadFromPath(root.configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return err
	}
	root.cfg = cfg

	level := cfg.Log.Level
	if root.verbose {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.Log.Format)
	if err != nil {
		return err
	}
	root.logger = logger

	if path == "" {
		logger.Debug("no config file found, using defaults")
	} else {
		logger.Debug("config loaded", zap.String("path", path))
	}
	return nil
}

// open wires the store, blob storage, event bus and metrics on first use
func (root *rootCommand) open(ctx context.Context) (service.Deps, error) {
	if root.deps != nil {
		return *root.deps, nil
	}

	store, err := openStore(root.cfg.Database)
	if err != nil {
		return service.Deps{}, err
	}
	backend, err := openBlobBackend(ctx, root.cfg.Blob)
	if err != nil {
		store.Close()
		return service.Deps{}, err
	}
	root.store = store
	root.logger.Debug("storage opened",
		zap.String("database", root.cfg.Database.Driver),
		zap.String("blob", root.cfg.Blob.Backend))

	root.deps = &service.Deps{
		Store:   store,
		Blobs:   blob.NewClient(backend, root.logger.Named("blob")),
		Events:  service.NewEventBus(),
		Metrics: metrics.DefaultRegistry(),
		Logger:  root.logger,
	}
	return *root.deps, nil
}

func (root *rootCommand) close() error {
	var errs []error
	if root.store != nil {
		errs = append(errs, root.store.Close())
		root.store = nil
	}
	if root.logger != nil {
		// stderr cannot always be synced; nothing to do about it
		_ = root.logger.Sync()
	}
	return errors.Join(errs...)
}

func openStore(cfg config.DatabaseConfig) (repository.Repository, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.New(cfg.Path)
	case config.DriverMemory:
		return model.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func openBlobBackend(ctx context.Context, cfg config.BlobConfig) (blob.Backend, error) {
	switch cfg.Backend {
	case config.BackendFS:
		return blob.NewFileBackend(cfg.Dir)
	case config.BackendMemory:
		return blob.NewMemoryBackend(), nil
	case config.BackendS3:
		return blob.NewS3Backend(ctx, blob.S3Options{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Prefix:          cfg.S3.Prefix,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.Backend)
	}
}
