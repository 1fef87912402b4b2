package services

import (
	"context"
	"time"

	"pharmafind/internal/models"
	"pharmafind/internal/repositories"

	"github.com/stretchr/testify/mock"
)

// Mock repositories and services

type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) FindInStock(ctx context.Context, q repositories.InventoryQuery) ([]*models.InventoryRow, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryRow), args.Error(1)
}

type MockPharmacyRepository struct {
	mock.Mock
}

func (m *MockPharmacyRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Pharmacy, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Pharmacy), args.Error(1)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) SearchByText(ctx context.Context, query, language string, limit int) ([]*models.Product, error) {
	args := m.Called(ctx, query, language, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductRepository) ListBrandNames(ctx context.Context, productIDs []string) (map[string][]string, error) {
	args := m.Called(ctx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]string), args.Error(1)
}

type MockPackageRepository struct {
	mock.Mock
}

func (m *MockPackageRepository) ListByProduct(ctx context.Context, productID string) ([]*models.Package, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Package), args.Error(1)
}

type MockTranslationRepository struct {
	mock.Mock
}

func (m *MockTranslationRepository) ListByProduct(ctx context.Context, productID string) ([]*models.Translation, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Translation), args.Error(1)
}

func (m *MockTranslationRepository) ListByProducts(ctx context.Context, productIDs []string) (map[string][]*models.Translation, error) {
	args := m.Called(ctx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]*models.Translation), args.Error(1)
}

type MockProductImageRepository struct {
	mock.Mock
}

func (m *MockProductImageRepository) ListByPackages(ctx context.Context, packageIDs []string) (map[string][]*models.ProductImage, error) {
	args := m.Called(ctx, packageIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]*models.ProductImage), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetProductSummaries(ctx context.Context, query, language string, limit int) ([]*models.ProductSummary, error) {
	args := m.Called(ctx, query, language, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ProductSummary), args.Error(1)
}

func (m *MockCacheService) SetProductSummaries(ctx context.Context, query, language string, limit int, summaries []*models.ProductSummary, ttl time.Duration) error {
	args := m.Called(ctx, query, language, limit, summaries, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockCacheService) SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	args := m.Called(ctx, product, ttl)
	return args.Error(0)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockMinioService struct {
	mock.Mock
}

func (m *MockMinioService) GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, bucketName, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockMinioService) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func (m *MockMinioService) EnsureBucketExists(ctx context.Context, bucketName string) error {
	args := m.Called(ctx, bucketName)
	return args.Error(0)
}

func stringPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

func int64Ptr(i int64) *int64 {
	return &i
}

func float64Ptr(f float64) *float64 {
	return &f
}
