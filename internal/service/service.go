package service

import (
	"context"
	"errors"
	"time"

	"netsimbridge/internal/blob"
	"netsimbridge/internal/domain"
	"netsimbridge/internal/metrics"
	"netsimbridge/internal/model"
	"netsimbridge/internal/subtree"
	"netsimbridge/internal/typematch"

	"go.uber.org/zap"
)

// Deps are the collaborators shared by the plugin runners.
// Events, Metrics and Logger are optional.
type Deps struct {
	Store   model.Store
	Blobs   *blob.Client
	Events  *EventBus
	Metrics *metrics.Registry
	Logger  *zap.Logger
}

// runner holds what export and import have in common
type runner struct {
	deps   Deps
	plugin string
	logger *zap.Logger
}

func newRunner(deps Deps, plugin string) runner {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return runner{deps: deps, plugin: plugin, logger: logger.With(zap.String("plugin", plugin))}
}

func (r *runner) start(activePath string) (*Result, time.Time) {
	r.logger.Info("run started", zap.String("node", activePath))
	r.deps.Events.Publish(Event{
		Type:    EventRunStarted,
		Payload: map[string]string{"plugin": r.plugin, "node": activePath},
	})
	return newResult(r.plugin), time.Now()
}

func (r *runner) finish(res *Result, started time.Time) {
	res.Duration = time.Since(started)
	if r.deps.Metrics != nil {
		r.deps.Metrics.RecordRun(r.plugin, res.Success, res.Duration)
	}
	r.deps.Events.Publish(Event{Type: EventRunFinished, Payload: res})

	if res.Success {
		r.logger.Info("run finished",
			zap.Int("edges", res.Edges),
			zap.Strings("artifacts", res.Artifacts),
			zap.Duration("elapsed", res.Duration))
		return
	}
	r.logger.Warn("run failed",
		zap.String("error", res.Error),
		zap.Duration("elapsed", res.Duration))
}

// message records a user-facing remark on the result and publishes it
func (r *runner) message(res *Result, nodePath string, severity Severity, text string) {
	msg := Message{NodePath: nodePath, Severity: severity, Text: text}
	res.Messages = append(res.Messages, msg)
	r.deps.Events.Publish(Event{Type: EventMessage, Payload: msg})
	r.logger.Info("plugin message",
		zap.String("node", nodePath),
		zap.String("severity", string(severity)),
		zap.String("message", text))
}

// activeNode loads the node a run is started on together with a matcher
// over the store's meta types
func (r *runner) activeNode(ctx context.Context, activePath string) (*model.Node, *typematch.Matcher, error) {
	matcher, err := typematch.NewMatcher(ctx, r.deps.Store)
	if err != nil {
		return nil, nil, err
	}
	active, err := r.deps.Store.Load(ctx, activePath)
	if err != nil {
		return nil, nil, err
	}
	if active == nil {
		return nil, nil, &domain.NotFoundError{Path: activePath, Err: model.ErrNodeNotFound}
	}
	return active, matcher, nil
}

func (r *runner) loader() *subtree.Loader {
	l := subtree.NewLoader(r.deps.Store, r.logger)
	if r.deps.Metrics != nil {
		l.SetObserver(r.deps.Metrics)
	}
	return l
}

func (r *runner) recordEdges(direction string, n int) {
	if r.deps.Metrics != nil {
		r.deps.Metrics.RecordEdges(direction, n)
	}
}

// logFailure logs internal errors loudly and user errors quietly
func (r *runner) logFailure(err error) {
	var consistency *domain.ConsistencyError
	if errors.As(err, &consistency) {
		r.logger.Error("internal invariant violated", zap.Bool("internal", true), zap.Error(err))
		return
	}
	if domain.IsUserError(err) {
		r.logger.Info("rejected input", zap.Error(err))
		return
	}
	r.logger.Error("run error", zap.Error(err))
}
