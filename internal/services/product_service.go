package services

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/yoockh/adchat/internal/models"
	pgrepo "github.com/yoockh/adchat/internal/repositories/postgres"
	"github.com/yoockh/adchat/internal/utils"
)

type ProductService interface {
	List(ctx context.Context, limit, offset int) ([]models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
}

type productService struct {
	products pgrepo.ProductRepository
}

func NewProductService(products pgrepo.ProductRepository) ProductService {
	return &productService{products: products}
}

func (s *productService) List(ctx context.Context, limit, offset int) ([]models.Product, error) {
	const op = "ProductService.List"

	rows, err := s.products.List(ctx, limit, offset)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list products", err)
	}
	return rows, nil
}

func (s *productService) Create(ctx context.Context, p *models.Product) error {
	const op = "ProductService.Create"

	if err := validateProduct(p); err != nil {
		return utils.E(utils.CodeInvalidArgument, op, err.Error(), nil)
	}
	p.ID, p.Impressions, p.Clicks = 0, 0, 0
	if err := s.products.Create(ctx, p); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to create product", err)
	}
	return nil
}

func (s *productService) Update(ctx context.Context, p *models.Product) error {
	const op = "ProductService.Update"

	if p == nil || p.ID <= 0 {
		return utils.E(utils.CodeInvalidArgument, op, "id is required", nil)
	}
	if err := validateProduct(p); err != nil {
		return utils.E(utils.CodeInvalidArgument, op, err.Error(), nil)
	}
	if err := s.products.Update(ctx, p); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "product not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to update product", err)
	}
	// reload so the caller sees the live counters
	if fresh, err := s.products.GetByID(ctx, p.ID); err == nil {
		*p = *fresh
	}
	return nil
}

func validateProduct(p *models.Product) error {
	if p == nil || strings.TrimSpace(p.Name) == "" {
		return errors.New("name is required")
	}
	u, err := url.Parse(strings.TrimSpace(p.Link))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.New("link must be an absolute http(s) url")
	}
	p.Name = strings.TrimSpace(p.Name)
	p.Link = strings.TrimSpace(p.Link)
	return nil
}
