package services_test

import (
	"context"
	"testing"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestProductService_GetAllProducts(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	expectedProducts := []models.Product{
		{ID: "1", Name: "Product A", Price: price("10.00"), Stock: 100},
		{ID: "2", Name: "Product B", Price: price("20.00"), Stock: 50},
	}
	mockRepo.On("GetAll", ctx).Return(expectedProducts, nil).Once()

	products, err := service.GetAllProducts(ctx)

	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, expectedProducts, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	expectedProduct := &models.Product{ID: "1", Name: "Product A", Price: price("10.00"), Stock: 100}

	mockRepo.On("GetByID", ctx, "1").Return(expectedProduct, nil).Once()
	product, err := service.GetProductByID(ctx, "1")
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)

	mockRepo.On("GetByID", ctx, "99").Return(nil, notFound("product 99")).Once()
	product, err = service.GetProductByID(ctx, "99")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Nil(t, product)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	newProduct := &models.Product{Name: "New Product", Price: price("15.499"), Stock: 20}
	mockRepo.On("Create", ctx, newProduct).Return(nil).Once()

	err := service.CreateProduct(ctx, newProduct)
	assert.NoError(t, err)
	assert.True(t, newProduct.Price.Equal(price("15.50")), "price is rounded to cents")
	mockRepo.AssertExpectations(t)

	err = service.CreateProduct(ctx, &models.Product{Name: "Free", Price: decimal.Zero})
	assert.ErrorIs(t, err, services.ErrInvalidPrice)
	err = service.CreateProduct(ctx, &models.Product{Name: "Negative", Price: price("-1")})
	assert.ErrorIs(t, err, services.ErrInvalidPrice)
	err = service.CreateProduct(ctx, &models.Product{Name: "Oversold", Price: price("1.00"), Stock: -1})
	assert.ErrorIs(t, err, models.ErrInvalidStock)
	mockRepo.AssertNotCalled(t, "Create", ctx, mock.MatchedBy(func(p *models.Product) bool { return p.Name == "Free" }))
	mockRepo.AssertNotCalled(t, "Create", ctx, mock.MatchedBy(func(p *models.Product) bool { return p.Name == "Oversold" }))
}

func TestProductService_UpdateProduct(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	updatedProduct := &models.Product{ID: "1", Name: "Updated Product", Price: price("25.00"), Stock: 0}
	mockRepo.On("Update", ctx, updatedProduct).Return(nil).Once()
	assert.NoError(t, service.UpdateProduct(ctx, updatedProduct))

	missing := &models.Product{ID: "99", Name: "Missing", Price: price("1.00")}
	mockRepo.On("Update", ctx, missing).Return(notFound("product 99")).Once()
	assert.ErrorIs(t, service.UpdateProduct(ctx, missing), models.ErrNotFound)

	negative := &models.Product{ID: "1", Name: "Updated Product", Price: price("25.00"), Stock: -3}
	assert.ErrorIs(t, service.UpdateProduct(ctx, negative), models.ErrInvalidStock)
	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	mockRepo.On("Delete", ctx, "1").Return(nil).Once()
	assert.NoError(t, service.DeleteProduct(ctx, "1"))

	mockRepo.On("Delete", ctx, "99").Return(notFound("product 99")).Once()
	assert.ErrorIs(t, service.DeleteProduct(ctx, "99"), models.ErrNotFound)
	mockRepo.AssertExpectations(t)
}
