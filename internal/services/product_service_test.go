package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"pharmafind/internal/models"
	"pharmafind/internal/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ProductServiceTestSuite struct {
	suite.Suite
	mockProductRepo      *MockProductRepository
	mockPackageRepo      *MockPackageRepository
	mockTranslationRepo  *MockTranslationRepository
	mockProductImageRepo *MockProductImageRepository
	mockInventoryRepo    *MockInventoryRepository
	mockPharmacyRepo     *MockPharmacyRepository
	mockCacheService     *MockCacheService
	mockMinioService     *MockMinioService
	service              ProductService
	ctx                  context.Context
}

func (suite *ProductServiceTestSuite) SetupTest() {
	suite.mockProductRepo = &MockProductRepository{}
	suite.mockPackageRepo = &MockPackageRepository{}
	suite.mockTranslationRepo = &MockTranslationRepository{}
	suite.mockProductImageRepo = &MockProductImageRepository{}
	suite.mockInventoryRepo = &MockInventoryRepository{}
	suite.mockPharmacyRepo = &MockPharmacyRepository{}
	suite.mockCacheService = &MockCacheService{}
	suite.mockMinioService = &MockMinioService{}

	availability := NewAvailabilityService(suite.mockInventoryRepo, suite.mockPharmacyRepo, DefaultAvailabilityOptions(), nil)
	suite.service = NewProductService(
		suite.mockProductRepo,
		suite.mockPackageRepo,
		suite.mockTranslationRepo,
		suite.mockProductImageRepo,
		availability,
		suite.mockCacheService,
		NewImageURLSigner(suite.mockMinioService, "package-images", time.Hour),
		DefaultProductSearchOptions(),
		nil,
	)
	suite.ctx = context.Background()
}

func (suite *ProductServiceTestSuite) TearDownTest() {
	suite.mockProductRepo.AssertExpectations(suite.T())
	suite.mockPackageRepo.AssertExpectations(suite.T())
	suite.mockTranslationRepo.AssertExpectations(suite.T())
	suite.mockProductImageRepo.AssertExpectations(suite.T())
	suite.mockInventoryRepo.AssertExpectations(suite.T())
	suite.mockPharmacyRepo.AssertExpectations(suite.T())
	suite.mockCacheService.AssertExpectations(suite.T())
	suite.mockMinioService.AssertExpectations(suite.T())
}

func TestProductServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceTestSuite))
}

func (suite *ProductServiceTestSuite) TestSearch_EmptyQuery() {
	summaries, err := suite.service.Search(suite.ctx, "   ", "de", 10)
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), summaries)
	assert.Empty(suite.T(), summaries)
}

func (suite *ProductServiceTestSuite) TestSearch_CacheHit() {
	cached := []*models.ProductSummary{{ProductID: "prod-ibu", INNName: "Ibuprofen", DisplayName: "Ibuprofen 400mg Tabletten"}}
	suite.mockCacheService.On("GetProductSummaries", suite.ctx, "ibu", "de", 20).Return(cached, nil).Once()

	summaries, err := suite.service.Search(suite.ctx, "ibu", "de", 0)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), cached, summaries)
}

func (suite *ProductServiceTestSuite) TestSearch_FallbackDisplayNameAndDedupe() {
	product := ibuprofen()
	translations := product.Translations
	product.Translations = nil

	suite.mockCacheService.On("GetProductSummaries", suite.ctx, "ibu", "fr", 20).Return(nil, nil).Once()
	suite.mockProductRepo.On("SearchByText", suite.ctx, "ibu", "fr", 20).
		Return([]*models.Product{product, {ID: "prod-ibu", INNName: "Ibuprofen"}}, nil).Once()
	suite.mockTranslationRepo.On("ListByProducts", suite.ctx, []string{"prod-ibu"}).
		Return(map[string][]*models.Translation{"prod-ibu": translations}, nil).Once()
	suite.mockCacheService.On("SetProductSummaries", suite.ctx, "ibu", "fr", 20, mock.Anything, time.Minute).Return(nil).Once()

	summaries, err := suite.service.Search(suite.ctx, " ibu ", "fr", 20)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), summaries, 1)
	assert.Equal(suite.T(), "prod-ibu", summaries[0].ProductID)
	assert.Equal(suite.T(), "Ibuprofen", summaries[0].DisplayName)
}

func (suite *ProductServiceTestSuite) TestSearch_DefaultsAndClamp() {
	suite.mockCacheService.On("GetProductSummaries", suite.ctx, "aspirin", "en", 100).Return(nil, errors.New("redis down")).Once()
	suite.mockProductRepo.On("SearchByText", suite.ctx, "aspirin", "en", 100).
		Return([]*models.Product{{ID: "prod-asp", INNName: "Acetylsalicylic acid", Form: stringPtr("tablet")}}, nil).Once()
	suite.mockTranslationRepo.On("ListByProducts", suite.ctx, []string{"prod-asp"}).
		Return(map[string][]*models.Translation{}, nil).Once()
	suite.mockCacheService.On("SetProductSummaries", suite.ctx, "aspirin", "en", 100, mock.Anything, time.Minute).
		Return(errors.New("redis down")).Once()

	summaries, err := suite.service.Search(suite.ctx, "aspirin", "", 500)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), summaries, 1)
	assert.Equal(suite.T(), "tablet", *summaries[0].Form)
}

func (suite *ProductServiceTestSuite) TestSearch_RepositoryFailure() {
	suite.mockCacheService.On("GetProductSummaries", suite.ctx, "ibu", "en", 20).Return(nil, nil).Once()
	suite.mockProductRepo.On("SearchByText", suite.ctx, "ibu", "en", 20).Return(nil, errors.New("timeout")).Once()

	summaries, err := suite.service.Search(suite.ctx, "ibu", "en", 20)
	assert.Nil(suite.T(), summaries)
	assert.ErrorIs(suite.T(), err, ErrUpstreamUnavailable)
}

func (suite *ProductServiceTestSuite) TestGetProductAvailability_NotFound() {
	suite.mockCacheService.On("GetProduct", suite.ctx, "missing").Return(nil, nil).Once()
	suite.mockProductRepo.On("GetByID", suite.ctx, "missing").Return(nil, pgx.ErrNoRows).Once()

	view, err := suite.service.GetProductAvailability(suite.ctx, "missing", models.AvailabilityRequest{})
	assert.Nil(suite.T(), view)
	assert.ErrorIs(suite.T(), err, ErrProductNotFound)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *ProductServiceTestSuite) TestGetProductAvailability_LoadFailureIsUpstream() {
	suite.mockCacheService.On("GetProduct", suite.ctx, "prod-ibu").Return(nil, nil).Once()
	suite.mockProductRepo.On("GetByID", suite.ctx, "prod-ibu").Return(nil, errors.New("connection refused")).Once()

	_, err := suite.service.GetProductAvailability(suite.ctx, "prod-ibu", models.AvailabilityRequest{})
	assert.ErrorIs(suite.T(), err, ErrUpstreamUnavailable)
	assert.NotErrorIs(suite.T(), err, ErrNotFound)
}

// expectIbuprofenCatalog wires a product with two packages: pkg-1 stocked at
// two pharmacies, pkg-2 stocked nowhere.
func (suite *ProductServiceTestSuite) expectIbuprofenCatalog() {
	nearLat, nearLng := north(3)
	farLat, farLng := north(30)

	suite.mockProductRepo.On("ListBrandNames", suite.ctx, []string{"prod-ibu"}).
		Return(map[string][]string{"prod-ibu": {"Brufen", "Nurofen"}}, nil).Once()
	suite.mockPackageRepo.On("ListByProduct", suite.ctx, "prod-ibu").Return([]*models.Package{
		{
			ID: "pkg-1", ProductID: "prod-ibu", BrandID: stringPtr("br-1"), GTIN: stringPtr("4006"), PackSize: stringPtr("20 tablets"), CountryCode: stringPtr("AT"),
			Brand: &models.Brand{ID: "br-1", ProductID: "prod-ibu", BrandName: "Nurofen", Manufacturer: stringPtr("Reckitt")},
		},
		{ID: "pkg-2", ProductID: "prod-ibu", PackSize: stringPtr("50 tablets")},
	}, nil).Once()
	suite.mockInventoryRepo.On("FindInStock", mock.Anything, repositories.InventoryQuery{PackageIDs: []string{"pkg-1", "pkg-2"}, MinStock: 1}).
		Return([]*models.InventoryRow{
			stockRow("ph-far", "pkg-1", int64Ptr(390), intPtr(8)),
			stockRow("ph-near", "pkg-1", int64Ptr(450), intPtr(2)),
		}, nil).Once()
	suite.mockPharmacyRepo.On("GetByIDs", mock.Anything, []string{"ph-far", "ph-near"}).Return([]*models.Pharmacy{
		pharmacy("ph-far", "Apotheke Baden", farLat, farLng),
		pharmacy("ph-near", "Apotheke am Ring", nearLat, nearLng),
	}, nil).Once()
	suite.mockProductImageRepo.On("ListByPackages", suite.ctx, []string{"pkg-1", "pkg-2"}).
		Return(map[string][]*models.ProductImage{
			"pkg-1": {
				{ID: "img-1", PackageID: "pkg-1", ImageURL: "pkg-1/front.jpg", IsPrimary: true},
				{ID: "img-2", PackageID: "pkg-1", ImageURL: "https://cdn.example.com/back.jpg"},
			},
		}, nil).Once()
	suite.mockMinioService.On("GetPresignedURL", suite.ctx, "package-images", "pkg-1/front.jpg", time.Hour).
		Return("https://minio.local/package-images/pkg-1/front.jpg?sig", nil).Once()
}

func (suite *ProductServiceTestSuite) TestGetProductAvailability_RanksLocationsPerPackage() {
	product := ibuprofen()
	suite.mockCacheService.On("GetProduct", suite.ctx, "prod-ibu").Return(nil, nil).Once()
	suite.mockProductRepo.On("GetByID", suite.ctx, "prod-ibu").
		Return(&models.Product{ID: "prod-ibu", INNName: "Ibuprofen", Form: stringPtr("tablet")}, nil).Once()
	suite.mockTranslationRepo.On("ListByProduct", suite.ctx, "prod-ibu").Return(product.Translations, nil).Once()
	suite.mockCacheService.On("SetProduct", suite.ctx, mock.AnythingOfType("*models.Product"), 15*time.Minute).Return(nil).Once()
	suite.expectIbuprofenCatalog()

	view, err := suite.service.GetProductAvailability(suite.ctx, "prod-ibu", models.AvailabilityRequest{
		Language: "sk",
		Lat:      float64Ptr(originLat),
		Lng:      float64Ptr(originLng),
	})
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "Ibuprofen 400mg tablety", view.DisplayName)
	assert.Equal(suite.T(), "Liek proti bolesti", *view.Description)
	assert.Equal(suite.T(), "sk", view.Language)
	assert.Equal(suite.T(), []string{"Brufen", "Nurofen"}, view.BrandNames)

	require.Len(suite.T(), view.AvailablePackages, 2)
	pkg1 := view.AvailablePackages[0]
	assert.Equal(suite.T(), "pkg-1", pkg1.PackageID)
	assert.Equal(suite.T(), "Nurofen", *pkg1.BrandName)
	assert.Equal(suite.T(), "Reckitt", *pkg1.Manufacturer)
	assert.Equal(suite.T(), []string{"https://minio.local/package-images/pkg-1/front.jpg?sig", "https://cdn.example.com/back.jpg"}, pkg1.ImageURLs)
	require.Len(suite.T(), pkg1.PharmacyLocations, 2)
	assert.Equal(suite.T(), "ph-near", pkg1.PharmacyLocations[0].PharmacyID)
	assert.Equal(suite.T(), "ph-far", pkg1.PharmacyLocations[1].PharmacyID)
	assert.Equal(suite.T(), int64(450), *pkg1.PharmacyLocations[0].PriceCents)

	pkg2 := view.AvailablePackages[1]
	assert.Equal(suite.T(), "pkg-2", pkg2.PackageID)
	assert.Nil(suite.T(), pkg2.BrandName)
	assert.NotNil(suite.T(), pkg2.PharmacyLocations)
	assert.Empty(suite.T(), pkg2.PharmacyLocations)
	assert.Empty(suite.T(), pkg2.ImageURLs)
}

func (suite *ProductServiceTestSuite) TestGetProductAvailability_OnlyInStockUsesCachedProduct() {
	suite.mockCacheService.On("GetProduct", suite.ctx, "prod-ibu").Return(ibuprofen(), nil).Once()
	suite.expectIbuprofenCatalog()

	view, err := suite.service.GetProductAvailability(suite.ctx, "prod-ibu", models.AvailabilityRequest{
		Language:    "fr",
		Lat:         float64Ptr(originLat),
		Lng:         float64Ptr(originLng),
		OnlyInStock: true,
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Ibuprofen", view.DisplayName)
	assert.Nil(suite.T(), view.Description)
	require.Len(suite.T(), view.AvailablePackages, 1)
	assert.Equal(suite.T(), "pkg-1", view.AvailablePackages[0].PackageID)
	suite.mockProductRepo.AssertNotCalled(suite.T(), "GetByID", mock.Anything, mock.Anything)
}

func (suite *ProductServiceTestSuite) TestGetProductAvailability_ImageFailureIsNotFatal() {
	suite.mockCacheService.On("GetProduct", suite.ctx, "prod-1").
		Return(&models.Product{ID: "prod-1", INNName: "Paracetamol"}, nil).Once()
	suite.mockProductRepo.On("ListBrandNames", suite.ctx, []string{"prod-1"}).Return(map[string][]string{}, nil).Once()
	suite.mockPackageRepo.On("ListByProduct", suite.ctx, "prod-1").
		Return([]*models.Package{{ID: "pkg-9", ProductID: "prod-1"}}, nil).Once()
	suite.mockInventoryRepo.On("FindInStock", mock.Anything, mock.Anything).Return([]*models.InventoryRow{}, nil).Once()
	suite.mockProductImageRepo.On("ListByPackages", suite.ctx, []string{"pkg-9"}).Return(nil, errors.New("timeout")).Once()

	view, err := suite.service.GetProductAvailability(suite.ctx, "prod-1", models.AvailabilityRequest{})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "en", view.Language)
	assert.Equal(suite.T(), []string{}, view.BrandNames)
	require.Len(suite.T(), view.AvailablePackages, 1)
	assert.Empty(suite.T(), view.AvailablePackages[0].ImageURLs)
}

func (suite *ProductServiceTestSuite) TestDetailedSearch_DropsProductsWithoutStock() {
	suite.mockProductRepo.On("SearchByText", mock.Anything, "ibu", "de", 20).Return([]*models.Product{
		{ID: "prod-ibu", INNName: "Ibuprofen"},
		{ID: "prod-empty", INNName: "Ibuprofen Gel"},
	}, nil).Once()
	suite.mockTranslationRepo.On("ListByProducts", mock.Anything, []string{"prod-ibu", "prod-empty"}).
		Return(map[string][]*models.Translation{"prod-ibu": ibuprofen().Translations}, nil).Once()
	suite.mockProductRepo.On("ListBrandNames", mock.Anything, []string{"prod-ibu", "prod-empty"}).
		Return(map[string][]string{"prod-ibu": {"Nurofen"}}, nil).Once()

	suite.mockPackageRepo.On("ListByProduct", mock.Anything, "prod-ibu").
		Return([]*models.Package{{ID: "pkg-1", ProductID: "prod-ibu"}}, nil).Once()
	suite.mockPackageRepo.On("ListByProduct", mock.Anything, "prod-empty").
		Return([]*models.Package{{ID: "pkg-gel", ProductID: "prod-empty"}}, nil).Once()

	suite.mockInventoryRepo.On("FindInStock", mock.Anything, repositories.InventoryQuery{PackageIDs: []string{"pkg-1"}, MinStock: 1}).
		Return([]*models.InventoryRow{stockRow("ph-1", "pkg-1", int64Ptr(399), intPtr(4))}, nil).Once()
	suite.mockInventoryRepo.On("FindInStock", mock.Anything, repositories.InventoryQuery{PackageIDs: []string{"pkg-gel"}, MinStock: 1}).
		Return([]*models.InventoryRow{}, nil).Once()
	suite.mockPharmacyRepo.On("GetByIDs", mock.Anything, []string{"ph-1"}).
		Return([]*models.Pharmacy{pharmacy("ph-1", "Apotheke", nil, nil)}, nil).Once()

	suite.mockProductImageRepo.On("ListByPackages", mock.Anything, mock.Anything).
		Return(map[string][]*models.ProductImage{}, nil).Twice()

	results, err := suite.service.DetailedSearch(suite.ctx, models.DetailedSearchRequest{Query: "ibu", Language: "de"})
	require.NoError(suite.T(), err)
	require.Len(suite.T(), results, 1)
	assert.Equal(suite.T(), "prod-ibu", results[0].ProductID)
	assert.Equal(suite.T(), "Ibuprofen 400mg Tabletten", results[0].DisplayName)
	assert.Equal(suite.T(), []string{"Nurofen"}, results[0].BrandNames)
	require.Len(suite.T(), results[0].AvailablePackages, 1)
	assert.Len(suite.T(), results[0].AvailablePackages[0].PharmacyLocations, 1)
}

func (suite *ProductServiceTestSuite) TestDetailedSearch_PackageFailureFailsSearch() {
	suite.mockProductRepo.On("SearchByText", mock.Anything, "ibu", "en", 20).
		Return([]*models.Product{{ID: "prod-ibu", INNName: "Ibuprofen"}}, nil).Once()
	suite.mockTranslationRepo.On("ListByProducts", mock.Anything, []string{"prod-ibu"}).
		Return(map[string][]*models.Translation{}, nil).Once()
	suite.mockProductRepo.On("ListBrandNames", mock.Anything, []string{"prod-ibu"}).
		Return(map[string][]string{}, nil).Once()
	suite.mockPackageRepo.On("ListByProduct", mock.Anything, "prod-ibu").Return(nil, errors.New("timeout")).Once()

	results, err := suite.service.DetailedSearch(suite.ctx, models.DetailedSearchRequest{Query: "ibu"})
	assert.Nil(suite.T(), results)
	assert.ErrorIs(suite.T(), err, ErrUpstreamUnavailable)
}
