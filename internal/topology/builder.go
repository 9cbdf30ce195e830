package topology

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"netsimbridge/internal/domain"
	"netsimbridge/internal/model"

	"go.uber.org/zap"
)

// ImportedSuffix marks networks created from an edge-list file
const ImportedSuffix = " (IMPORTED)"

// Builder creates Network subtrees in a model store
type Builder struct {
	store  model.Store
	meta   *model.Meta
	logger *zap.Logger
}

// NewBuilder creates a builder writing to store
func NewBuilder(store model.Store, meta *model.Meta, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{store: store, meta: meta, logger: logger}
}

// NetworkName derives the Network name from the imported file name
func NetworkName(containerName string) string {
	return strings.TrimSuffix(containerName, filepath.Ext(containerName)) + ImportedSuffix
}

// Build creates a Network under the model root holding one Node per virtual
// node and one Connection per edge. An edge endpoint missing from vnodes is a
// *domain.ConsistencyError. Writes are not transactional: on error the
// partially built Network stays in the store and is returned with the error.
func (b *Builder) Build(ctx context.Context, def domain.NetworkDefinition, vnodes map[string]domain.VirtualNode, containerName string) (*model.Node, error) {
	root, err := b.store.Root(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load model root: %w", err)
	}

	network, err := b.store.CreateNode(ctx, model.CreateParams{Parent: root, Base: b.meta.Network})
	if err != nil {
		return nil, fmt.Errorf("failed to create network: %w", err)
	}
	name := NetworkName(containerName)
	if err := b.store.SetAttribute(ctx, network, model.AttrName, name); err != nil {
		return network, fmt.Errorf("failed to name network: %w", err)
	}

	nodeMap, err := b.createNodes(ctx, network, vnodes)
	if err != nil {
		return network, err
	}
	if err := b.createConnections(ctx, network, def, nodeMap); err != nil {
		return network, err
	}

	b.logger.Info("network built",
		zap.String("network", name),
		zap.String("path", network.Path()),
		zap.Int("nodes", len(nodeMap)),
		zap.Int("connections", len(def)))
	return network, nil
}

func (b *Builder) createNodes(ctx context.Context, network *model.Node, vnodes map[string]domain.VirtualNode) (map[string]*model.Node, error) {
	nodeMap := make(map[string]*model.Node, len(vnodes))
	for _, id := range sortedIDs(vnodes) {
		n, err := b.store.CreateNode(ctx, model.CreateParams{Parent: network, Base: b.meta.Node})
		if err != nil {
			return nil, fmt.Errorf("failed to create node %s: %w", id, err)
		}
		if err := b.store.SetAttribute(ctx, n, model.AttrName, id); err != nil {
			return nil, fmt.Errorf("failed to name node %s: %w", id, err)
		}
		if err := b.store.SetPosition(ctx, n, vnodes[id].Position); err != nil {
			return nil, fmt.Errorf("failed to position node %s: %w", id, err)
		}
		nodeMap[id] = n
	}
	return nodeMap, nil
}

func (b *Builder) createConnections(ctx context.Context, network *model.Node, def domain.NetworkDefinition, nodeMap map[string]*model.Node) error {
	for _, edge := range def {
		src, ok := nodeMap[edge.Src]
		if !ok {
			return &domain.ConsistencyError{Name: edge.Src, Role: model.PointerSrc}
		}
		dst, ok := nodeMap[edge.Dst]
		if !ok {
			return &domain.ConsistencyError{Name: edge.Dst, Role: model.PointerDst}
		}

		conn, err := b.store.CreateNode(ctx, model.CreateParams{Parent: network, Base: b.meta.Connection})
		if err != nil {
			return fmt.Errorf("failed to create connection %s: %w", edge.Key(), err)
		}
		if err := b.store.SetPointer(ctx, conn, model.PointerSrc, src); err != nil {
			return fmt.Errorf("failed to set src of %s: %w", edge.Key(), err)
		}
		if err := b.store.SetPointer(ctx, conn, model.PointerDst, dst); err != nil {
			return fmt.Errorf("failed to set dst of %s: %w", edge.Key(), err)
		}

		attrs := []struct {
			key   string
			value float64
		}{
			{model.AttrPacketLoss, edge.PacketLoss},
			{model.AttrLatencyMean, edge.LatencyMean},
			{model.AttrLatencyVariance, edge.LatencySigma},
		}
		for _, attr := range attrs {
			if err := b.store.SetAttribute(ctx, conn, attr.key, attr.value); err != nil {
				return fmt.Errorf("failed to set %s of %s: %w", attr.key, edge.Key(), err)
			}
		}
	}
	return nil
}
