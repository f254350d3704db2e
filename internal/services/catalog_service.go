package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/yoockh/adchat/internal/providers/sheets"
	pgrepo "github.com/yoockh/adchat/internal/repositories/postgres"
	"github.com/yoockh/adchat/internal/utils"
)

type CatalogService interface {
	// Sync upserts the catalog source into products by name. Counters are left untouched.
	Sync(ctx context.Context) (int, error)
}

type catalogService struct {
	source   sheets.Source // optional
	products pgrepo.ProductRepository
	log      logrus.FieldLogger
}

func NewCatalogService(source sheets.Source, products pgrepo.ProductRepository, log logrus.FieldLogger) CatalogService {
	if log == nil {
		log = logrus.New()
	}
	return &catalogService{source: source, products: products, log: log}
}

func (s *catalogService) Sync(ctx context.Context) (int, error) {
	const op = "CatalogService.Sync"

	if s.source == nil {
		return 0, utils.E(utils.CodeUnavailable, op, "catalog source is not configured", nil)
	}

	rows, err := s.source.Products(ctx)
	if err != nil {
		return 0, utils.E(utils.CodeUnavailable, op, "failed to read catalog source", err)
	}
	if err := s.products.UpsertByName(ctx, rows); err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to upsert products", err)
	}

	s.log.WithField("products", len(rows)).Info("catalog synced")
	return len(rows), nil
}
