package queries

import (
	"context"

	"salon-scheduler/internal/infra"
	"salon-scheduler/internal/pkg/errs"
)

var ErrServiceNotFound = errs.New("service not found")

type CatalogQueries interface {
	ListServices(ctx context.Context) ([]*ServiceView, error)
	GetBySlug(ctx context.Context, slug string) (*ServiceView, error)
}

type CatalogReadStore interface {
	FindActive(ctx context.Context) ([]*ServiceView, error)
	FindBySlug(ctx context.Context, slug string) (*ServiceView, error)
}

type catalogQueriesImpl struct {
	readStore CatalogReadStore
}

func NewCatalogQueries(readStore CatalogReadStore) CatalogQueries {
	return &catalogQueriesImpl{readStore: readStore}
}

func (q *catalogQueriesImpl) ListServices(ctx context.Context) ([]*ServiceView, error) {
	return q.readStore.FindActive(ctx)
}

func (q *catalogQueriesImpl) GetBySlug(ctx context.Context, slug string) (*ServiceView, error) {
	view, err := q.readStore.FindBySlug(ctx, slug)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return view, nil
}
