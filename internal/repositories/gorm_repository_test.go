package repositories_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"storefront/internal/database"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	users     *repositories.GORMUserRepository
	customers *repositories.GORMCustomerRepository
	products  *repositories.GORMProductRepository
	orders    *repositories.GORMOrderRepository
	customer  *models.Customer
}

func setupDB(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenSQLiteMemory(uuid.New().String())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	f := &fixture{
		db:        db,
		users:     repositories.NewGORMUserRepository(db),
		customers: repositories.NewGORMCustomerRepository(db),
		products:  repositories.NewGORMProductRepository(db),
		orders:    repositories.NewGORMOrderRepository(db),
	}

	user := &models.User{
		Username: "maria",
		Email:    "maria@example.com",
		Password: "hashed",
		Role:     models.RoleCustomer,
		Customer: models.NewCustomer(""),
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	f.customer = user.Customer
	return f
}

func (f *fixture) product(t *testing.T, name, price string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Price: decimal.RequireFromString(price), Stock: stock}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func (f *fixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := f.products.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func newOrder(customerID string, lines ...models.OrderLine) *models.Order {
	return &models.Order{CustomerID: customerID, Status: models.StatusAwaitingPayment, Lines: lines}
}

func TestUserCreate_SavesCustomerProfile(t *testing.T) {
	f := setupDB(t)
	ctx := context.Background()

	require.NotEmpty(t, f.customer.ID)
	user, err := f.users.GetByUsername(ctx, "maria")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, user.Role)

	profile, err := f.customers.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, f.customer.ID, profile.ID)
	assert.Equal(t, models.DefaultPhone, profile.Phone)

	_, err = f.users.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestProductRepository_CRUD(t *testing.T) {
	f := setupDB(t)
	ctx := context.Background()

	p := f.product(t, "Notebook", "19.99", 4)
	got, err := f.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("19.99")))

	got.Stock = 0
	got.Price = decimal.RequireFromString("21.50")
	require.NoError(t, f.products.Update(ctx, got))
	assert.Equal(t, 0, f.stock(t, p.ID))

	require.NoError(t, f.products.Delete(ctx, p.ID))
	_, err = f.products.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, f.products.Delete(ctx, p.ID), models.ErrNotFound)
	assert.ErrorIs(t, f.products.Update(ctx, &models.Product{ID: "missing", Name: "Ghost"}), models.ErrNotFound)
}

func TestPlaceOrder_DecrementsStockAndStoresSnapshotPrice(t *testing.T) {
	f := setupDB(t)
	ctx := context.Background()
	a := f.product(t, "Product A", "5.00", 10)

	order := newOrder(f.customer.ID, models.OrderLine{ProductID: a.ID, Quantity: 3, Price: decimal.RequireFromString("5.00")})
	require.NoError(t, f.orders.PlaceOrder(ctx, order))

	assert.Equal(t, 7, f.stock(t, a.ID))

	stored, err := f.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, f.customer.ID, stored.CustomerID)
	assert.Equal(t, models.StatusAwaitingPayment, stored.Status)
	assert.False(t, stored.CreatedAt.IsZero())
	require.Len(t, stored.Lines, 1)
	assert.Equal(t, a.ID, stored.Lines[0].ProductID)
	assert.Equal(t, 3, stored.Lines[0].Quantity)
	assert.True(t, stored.Lines[0].Price.Equal(decimal.RequireFromString("5.00")))
	require.NotNil(t, stored.Lines[0].Product)
	assert.Equal(t, "Product A", stored.Lines[0].Product.Name)

	mine, err := f.orders.GetByCustomerID(ctx, f.customer.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestPlaceOrder_InsufficientStockRollsBackEverything(t *testing.T) {
	f := setupDB(t)
	ctx := context.Background()
	ok := f.product(t, "Plenty", "1.00", 10)
	short := f.product(t, "Scarce", "2.00", 1)

	order := newOrder(f.customer.ID,
		models.OrderLine{ProductID: ok.ID, Quantity: 2, Price: ok.Price},
		models.OrderLine{ProductID: short.ID, Quantity: 5, Price: short.Price},
	)
	err := f.orders.PlaceOrder(ctx, order)

	var stockErr *models.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, short.ID, stockErr.ProductID)
	assert.Equal(t, "Scarce", stockErr.ProductName)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 1, stockErr.Available)

	assert.Equal(t, 10, f.stock(t, ok.ID), "first line decrement must be rolled back")
	assert.Equal(t, 1, f.stock(t, short.ID))
	assert.Zero(t, f.count(t, &models.Order{}))
	assert.Zero(t, f.count(t, &models.OrderLine{}))
}

func TestPlaceOrder_MissingProduct(t *testing.T) {
	f := setupDB(t)
	order := newOrder(f.customer.ID, models.OrderLine{ProductID: "gone", Quantity: 1, Price: decimal.NewFromInt(1)})

	err := f.orders.PlaceOrder(context.Background(), order)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Zero(t, f.count(t, &models.Order{}))
}

func TestPlaceOrder_ConcurrentCheckoutsNeverOversell(t *testing.T) {
	f := setupDB(t)
	p := f.product(t, "Limited", "9.90", 5)

	const buyers = 12
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			order := newOrder(f.customer.ID, models.OrderLine{ProductID: p.ID, Quantity: 1, Price: p.Price})
			err := f.orders.PlaceOrder(context.Background(), order)

			mu.Lock()
			defer mu.Unlock()
			var stockErr *models.InsufficientStockError
			switch {
			case err == nil:
				succeeded++
			case errors.As(err, &stockErr):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, buyers-5, rejected)
	assert.Equal(t, 0, f.stock(t, p.ID))
	assert.EqualValues(t, 5, f.count(t, &models.Order{}))
}

func TestOrderRepository_StatusAndDeleteCascade(t *testing.T) {
	f := setupDB(t)
	ctx := context.Background()
	p := f.product(t, "Widget", "3.00", 10)

	order := newOrder(f.customer.ID, models.OrderLine{ProductID: p.ID, Quantity: 1, Price: p.Price})
	require.NoError(t, f.orders.PlaceOrder(ctx, order))

	require.NoError(t, f.orders.UpdateStatus(ctx, order.ID, models.StatusShipped))
	stored, err := f.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, stored.Status)
	assert.ErrorIs(t, f.orders.UpdateStatus(ctx, "missing", models.StatusShipped), models.ErrNotFound)

	require.NoError(t, f.orders.Delete(ctx, order.ID))
	assert.Zero(t, f.count(t, &models.OrderLine{}))
	assert.ErrorIs(t, f.orders.Delete(ctx, order.ID), models.ErrNotFound)
}

func TestCustomerDelete_CascadesToOrdersAndLines(t *testing.T) {
	f := setupDB(t)
	ctx := context.Background()
	p := f.product(t, "Widget", "3.00", 10)

	for i := 0; i < 2; i++ {
		order := newOrder(f.customer.ID, models.OrderLine{ProductID: p.ID, Quantity: 1, Price: p.Price})
		require.NoError(t, f.orders.PlaceOrder(ctx, order))
	}
	require.EqualValues(t, 2, f.count(t, &models.Order{}))

	require.NoError(t, f.customers.Delete(ctx, f.customer.ID))
	assert.Zero(t, f.count(t, &models.Order{}))
	assert.Zero(t, f.count(t, &models.OrderLine{}))
	_, err := f.customers.GetByID(ctx, f.customer.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCustomerRepository_Update(t *testing.T) {
	f := setupDB(t)
	ctx := context.Background()

	f.customer.Phone = "+55 11 99999-0000"
	f.customer.Address = "Rua das Flores, 10"
	require.NoError(t, f.customers.Update(ctx, f.customer))

	got, err := f.customers.GetByID(ctx, f.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "+55 11 99999-0000", got.Phone)
	assert.Equal(t, "Rua das Flores, 10", got.Address)

	all, err := f.customers.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	assert.ErrorIs(t, f.customers.Update(ctx, &models.Customer{ID: "missing"}), models.ErrNotFound)
}
