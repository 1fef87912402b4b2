package handlers

import (
	"context"
	"net/http/httptest"
	"strings"
	"time"

	"pharmafind/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
)

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) Search(ctx context.Context, query, language string, limit int) ([]*models.ProductSummary, error) {
	args := m.Called(ctx, query, language, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ProductSummary), args.Error(1)
}

func (m *MockProductService) DetailedSearch(ctx context.Context, req models.DetailedSearchRequest) ([]*models.ProductAvailability, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ProductAvailability), args.Error(1)
}

func (m *MockProductService) GetProductAvailability(ctx context.Context, productID string, req models.AvailabilityRequest) (*models.ProductAvailability, error) {
	args := m.Called(ctx, productID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductAvailability), args.Error(1)
}

type MockAvailabilityService struct {
	mock.Mock
}

func (m *MockAvailabilityService) SearchPharmacies(ctx context.Context, filter *models.PharmacySearchFilter) ([]*models.PharmacyResult, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PharmacyResult), args.Error(1)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called().Error(0)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(bucketName, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(bucketName)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) EnsureBucketExists(ctx context.Context, bucketName string) error {
	return m.Called(bucketName).Error(0)
}

// newContext builds an echo context for a handler under test.
func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func floatPtr(f float64) *float64 {
	return &f
}

func strPtr(s string) *string {
	return &s
}
