package services

import (
	"context"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct creates a new product. Prices are kept to cents.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := normalizeProduct(product); err != nil {
		return err
	}
	return s.repo.Create(ctx, product)
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := normalizeProduct(product); err != nil {
		return err
	}
	return s.repo.Update(ctx, product)
}

func normalizeProduct(product *models.Product) error {
	if !product.Price.IsPositive() {
		return ErrInvalidPrice
	}
	if product.Stock < 0 {
		return models.ErrInvalidStock
	}
	product.Price = product.Price.Round(2)
	return nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
