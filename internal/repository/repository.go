package repository

import (
	"context"

	"netsimbridge/internal/model"
)

// Repository is a model store that can also be queried by base type
type Repository interface {
	model.Store

	// FindByBase returns every node derived directly from basePath
	FindByBase(ctx context.Context, basePath string) ([]*model.Node, error)
}

var _ Repository = (*model.MemoryStore)(nil)
