package service

import (
	"context"
	"log/slog"

	"github.com/AshimStha/FloraBase-Frontend/internal/listquery"
	"github.com/AshimStha/FloraBase-Frontend/internal/model"
	"github.com/AshimStha/FloraBase-Frontend/internal/resource"
)

// CatalogService serves the public flower catalog screens.
type CatalogService struct {
	api    Backend
	logger *slog.Logger
	opts   listquery.Options
}

func NewCatalogService(api Backend, opts listquery.Options, logger *slog.Logger) *CatalogService {
	return &CatalogService{api: api, logger: logger, opts: opts}
}

// List returns a new controller for the flower list screen. The caller
// starts it and closes it when the screen goes away.
func (s *CatalogService) List() *listquery.Controller[model.ExternalFlower] {
	return listquery.New(s.api.Catalog, s.logger, s.opts)
}

// Flower returns the detail resource for one catalog entry.
func (s *CatalogService) Flower(id string) *resource.Resource[*model.ExternalFlower] {
	return resource.New("catalog-flower", func(ctx context.Context) (*model.ExternalFlower, error) {
		return s.api.CatalogFlower(ctx, id)
	}, resource.Policy{Fallback: "Could not load flower details"}, s.logger)
}
