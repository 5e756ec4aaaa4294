package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test_jwt_secret"

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, models.ErrNotFound)
}

func TestAuthService_RegisterUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)

	user := &models.User{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
	}

	mockRepo.On("GetByUsername", ctx, user.Username).Return(nil, notFound("user")).Once()
	mockRepo.On("GetByEmail", ctx, user.Email).Return(nil, notFound("user")).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil).Once()

	err := authService.RegisterUser(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, user.Role, "role defaults to customer")
	require.NotNil(t, user.Customer, "customer profile is created with the user")
	assert.Equal(t, models.DefaultPhone, user.Customer.Phone)
	assert.Equal(t, models.DefaultAddress, user.Customer.Address)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)

	// Username already taken
	mockRepo.On("GetByUsername", ctx, user.Username).Return(&models.User{ID: "1"}, nil).Once()
	err = authService.RegisterUser(ctx, user)
	assert.ErrorIs(t, err, services.ErrUsernameTaken)
	mockRepo.AssertExpectations(t)

	// Email already registered
	mockRepo.On("GetByUsername", ctx, user.Username).Return(nil, notFound("user")).Once()
	mockRepo.On("GetByEmail", ctx, user.Email).Return(&models.User{ID: "1"}, nil).Once()
	err = authService.RegisterUser(ctx, user)
	assert.ErrorIs(t, err, services.ErrEmailTaken)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterCompanyHasNoProfile(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)

	user := &models.User{Username: "acme", Email: "staff@acme.com", Password: "secret99", Role: models.RoleCompany}
	mockRepo.On("GetByUsername", ctx, "acme").Return(nil, notFound("user")).Once()
	mockRepo.On("GetByEmail", ctx, "staff@acme.com").Return(nil, notFound("user")).Once()
	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Role == models.RoleCompany && u.Customer == nil
	})).Return(nil).Once()

	require.NoError(t, authService.RegisterUser(ctx, user))
	mockRepo.AssertExpectations(t)

	err := authService.RegisterUser(ctx, &models.User{Username: "x", Role: "admin"})
	assert.Error(t, err)
}

func TestAuthService_LoginUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-123",
		Username: "testuser",
		Email:    "test@example.com",
		Password: string(hashedPassword),
		Role:     models.RoleCompany,
	}

	mockRepo.On("GetByUsername", ctx, user.Username).Return(user, nil).Once()
	token, err := authService.LoginUser(ctx, "testuser", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, user.Username, claims["username"])
	assert.Equal(t, "company", claims["role"])
	mockRepo.AssertExpectations(t)

	// Wrong password
	mockRepo.On("GetByUsername", ctx, user.Username).Return(user, nil).Once()
	_, err = authService.LoginUser(ctx, "testuser", "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	// Unknown user gets the same error
	mockRepo.On("GetByUsername", ctx, "nonexistentuser").Return(nil, notFound("user")).Once()
	_, err = authService.LoginUser(ctx, "nonexistentuser", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := services.NewAuthService(new(MockUserRepository), testJWTSecret, time.Hour)

	sign := func(claims jwt.MapClaims, secret string) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}

	valid := sign(jwt.MapClaims{
		"user_id":  "user-123",
		"username": "testuser",
		"role":     "company",
		"exp":      jwt.TimeFunc().Add(time.Hour).Unix(),
	}, testJWTSecret)
	claims, err := authService.ValidateToken(valid)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "testuser", claims.Username)
	assert.Equal(t, models.RoleCompany, claims.Role)

	_, err = authService.ValidateToken("invalid.token.string")
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	wrongSecret := sign(jwt.MapClaims{"user_id": "user-123", "exp": jwt.TimeFunc().Add(time.Hour).Unix()}, "other")
	_, err = authService.ValidateToken(wrongSecret)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	expired := sign(jwt.MapClaims{"user_id": "user-123", "exp": jwt.TimeFunc().Add(-time.Hour).Unix()}, testJWTSecret)
	_, err = authService.ValidateToken(expired)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// A token with an unknown role is treated as a customer.
	odd := sign(jwt.MapClaims{"user_id": "u-1", "role": "root", "exp": jwt.TimeFunc().Add(time.Hour).Unix()}, testJWTSecret)
	claims, err = authService.ValidateToken(odd)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, claims.Role)
}
