package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"netsimbridge/internal/codec"
	"netsimbridge/internal/domain"
	"netsimbridge/internal/metrics"
	"netsimbridge/internal/model"
	"netsimbridge/internal/topology"

	"go.uber.org/zap"
)

// ArtifactName names the artifact holding an exported network
func ArtifactName(networkName string) string {
	return strings.ReplaceAll(networkName, " ", "_") + "_Config"
}

// Exporter writes the Network at the active node to an edge-list artifact
type Exporter struct {
	runner
	codec codec.Codec
}

// NewExporter creates an exporter producing netsim edge-list files
func NewExporter(deps Deps) *Exporter {
	return &Exporter{
		runner: newRunner(deps, PluginExport),
		codec:  codec.NewEdgeListCodec(),
	}
}

// WithCodec returns a copy of the exporter writing with c
func (e *Exporter) WithCodec(c codec.Codec) *Exporter {
	cp := *e
	cp.codec = c
	return &cp
}

// Run exports the Network at activePath. A failed run returns both the
// result, with Success false, and the error.
func (e *Exporter) Run(ctx context.Context, activePath string) (*Result, error) {
	res, started := e.start(activePath)
	defer e.finish(res, started)

	network, def, err := e.extract(ctx, res, activePath)
	if err != nil {
		e.logFailure(err)
		return res, res.fail(err)
	}
	res.Edges = len(def)

	var buf bytes.Buffer
	if err := e.codec.Export(def, &buf); err != nil {
		return res, res.fail(fmt.Errorf("failed to encode network: %w", err))
	}

	name := network.Name()
	artifact := e.deps.Blobs.CreateArtifact(ArtifactName(name))
	if err := artifact.AddFile(name+e.codec.Extension(), buf.Bytes()); err != nil {
		return res, res.fail(err)
	}
	hashes, err := e.deps.Blobs.SaveAllArtifacts(ctx)
	if err != nil {
		return res, res.fail(fmt.Errorf("failed to save artifacts: %w", err))
	}
	if e.deps.Metrics != nil {
		e.deps.Metrics.ArtifactsSavedTotal.Add(float64(len(hashes)))
	}

	e.logger.Info("artifacts saved", zap.Strings("hashes", hashes))
	for _, hash := range hashes {
		res.Artifacts = append(res.Artifacts, hash)
		e.deps.Events.Publish(Event{
			Type:    EventArtifactSaved,
			Payload: map[string]string{"name": artifact.Name(), "hash": hash},
		})
	}

	e.recordEdges(metrics.DirectionExport, len(def))
	res.Success = true
	return res, nil
}

// Preview extracts the network definition at activePath without saving anything
func (e *Exporter) Preview(ctx context.Context, activePath string) (domain.NetworkDefinition, error) {
	_, def, err := e.extract(ctx, newResult(e.plugin), activePath)
	return def, err
}

func (e *Exporter) extract(ctx context.Context, res *Result, activePath string) (*model.Node, domain.NetworkDefinition, error) {
	active, matcher, err := e.activeNode(ctx, activePath)
	if err != nil {
		return nil, nil, err
	}

	if !matcher.Is(active, domain.KindNetwork) {
		notice := domain.ValidationNotice{Path: active.Path(), Message: domain.NotNetworkMessage}
		e.message(res, notice.Path, SeverityError, notice.Message)
		return nil, nil, notice
	}

	cache, err := e.loader().Load(ctx, active)
	if err != nil {
		return nil, nil, err
	}
	e.logger.Debug("finished loading children", zap.Int("nodes", len(cache)))

	def, err := topology.NewExtractor(matcher).Extract(cache, active)
	if err != nil {
		return nil, nil, err
	}
	return active, def, nil
}
