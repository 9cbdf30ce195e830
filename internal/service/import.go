package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"netsimbridge/internal/codec"
	"netsimbridge/internal/domain"
	"netsimbridge/internal/metrics"
	"netsimbridge/internal/topology"

	"go.uber.org/zap"
)

// ErrNoNetworkFile is returned when an import names no asset
var ErrNoNetworkFile = errors.New("no network file configured")

// ImportConfig is the per-run configuration of the importer
type ImportConfig struct {
	NetworkFile string `json:"networkFile" yaml:"networkFile"` // asset hash
}

// Importer builds a Network from an uploaded edge-list asset
type Importer struct {
	runner
}

// NewImporter creates an importer
func NewImporter(deps Deps) *Importer {
	return &Importer{runner: newRunner(deps, PluginImport)}
}

// Run imports the asset cfg.NetworkFile as a new Network under the model
// root. A non-Network active node only yields a warning message.
func (i *Importer) Run(ctx context.Context, activePath string, cfg ImportConfig) (*Result, error) {
	res, started := i.start(activePath)
	defer i.finish(res, started)

	active, matcher, err := i.activeNode(ctx, activePath)
	if err != nil {
		i.logFailure(err)
		return res, res.fail(err)
	}
	if !matcher.Is(active, domain.KindNetwork) {
		i.message(res, active.Path(), SeverityWarning, domain.NotNetworkMessage)
	}

	if cfg.NetworkFile == "" {
		i.message(res, active.Path(), SeverityError, "No network file selected.")
		return res, res.fail(ErrNoNetworkFile)
	}

	meta, err := i.deps.Blobs.GetMetadata(ctx, cfg.NetworkFile)
	if err != nil {
		i.message(res, active.Path(), SeverityError, "Could not retrieve file metadata: "+err.Error())
		return res, res.fail(err)
	}
	content, err := i.deps.Blobs.GetObject(ctx, cfg.NetworkFile)
	if err != nil {
		i.message(res, active.Path(), SeverityError, "Could not retrieve uploaded file: "+err.Error())
		return res, res.fail(err)
	}

	def, err := codec.ForFile(meta.Name).Parse(bytes.NewReader(content))
	if err != nil {
		i.logFailure(err)
		i.message(res, active.Path(), SeverityError, err.Error())
		return res, res.fail(err)
	}
	res.Edges = len(def)

	vnodes := topology.Synthesize(def)
	builder := topology.NewBuilder(i.deps.Store, matcher.Meta(), i.logger)
	network, err := builder.Build(ctx, def, vnodes, meta.Name)
	if network != nil {
		res.Network = network.Path()
	}
	if err != nil {
		i.logFailure(err)
		return res, res.fail(err)
	}

	res.Commit = "Imported " + meta.Name
	i.logger.Info("saved", zap.String("commit", res.Commit), zap.String("network", network.Path()))
	i.deps.Events.Publish(Event{
		Type:    EventNetworkImported,
		Payload: map[string]any{"path": network.Path(), "name": network.Name(), "nodes": len(vnodes), "edges": len(def)},
	})

	i.recordEdges(metrics.DirectionImport, len(def))
	res.Success = true
	return res, nil
}

// ImportFile uploads content as an asset and imports it
func (i *Importer) ImportFile(ctx context.Context, activePath, name string, content []byte) (*Result, error) {
	hash, err := Upload(ctx, i.deps, name, content)
	if err != nil {
		res := newResult(i.plugin)
		return res, res.fail(fmt.Errorf("failed to upload %s: %w", name, err))
	}
	return i.Run(ctx, activePath, ImportConfig{NetworkFile: hash})
}

// Upload stores content as an asset and announces it
func Upload(ctx context.Context, deps Deps, name string, content []byte) (string, error) {
	hash, err := deps.Blobs.PutFile(ctx, name, content)
	if err != nil {
		return "", err
	}
	if deps.Metrics != nil {
		deps.Metrics.AssetsStoredTotal.Inc()
	}
	deps.Events.Publish(Event{
		Type:    EventAssetUploaded,
		Payload: map[string]string{"name": name, "hash": hash},
	})
	return hash, nil
}
