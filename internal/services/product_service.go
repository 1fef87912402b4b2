package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pharmafind/internal/caching"
	"pharmafind/internal/models"
	"pharmafind/internal/repositories"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultLanguage     = "en"
	DefaultProductLimit = 20
	MaxProductLimit     = 100
)

type ProductSearchOptions struct {
	DefaultLimit      int
	MaxLimit          int
	SearchCacheTTL    time.Duration // Typeahead results
	ProductCacheTTL   time.Duration // Product identity and translations
	DetailConcurrency int           // Products resolved in parallel by DetailedSearch
}

func DefaultProductSearchOptions() ProductSearchOptions {
	return ProductSearchOptions{
		DefaultLimit:      DefaultProductLimit,
		MaxLimit:          MaxProductLimit,
		SearchCacheTTL:    time.Minute,
		ProductCacheTTL:   15 * time.Minute,
		DetailConcurrency: 4,
	}
}

type ProductService interface {
	Search(ctx context.Context, query, language string, limit int) ([]*models.ProductSummary, error)
	DetailedSearch(ctx context.Context, req models.DetailedSearchRequest) ([]*models.ProductAvailability, error)
	GetProductAvailability(ctx context.Context, productID string, req models.AvailabilityRequest) (*models.ProductAvailability, error)
}

type productService struct {
	productRepo      repositories.ProductRepository
	packageRepo      repositories.PackageRepository
	translationRepo  repositories.TranslationRepository
	productImageRepo repositories.ProductImageRepository
	availability     AvailabilityService
	cacheService     caching.CacheService
	images           ImageURLSigner
	selector         *TranslationSelector
	opts             ProductSearchOptions
	logger           *zap.Logger
}

func NewProductService(
	productRepo repositories.ProductRepository,
	packageRepo repositories.PackageRepository,
	translationRepo repositories.TranslationRepository,
	productImageRepo repositories.ProductImageRepository,
	availability AvailabilityService,
	cacheService caching.CacheService,
	images ImageURLSigner,
	opts ProductSearchOptions,
	logger *zap.Logger,
) ProductService {
	defaults := DefaultProductSearchOptions()
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = defaults.MaxLimit
	}
	if opts.DefaultLimit <= 0 || opts.DefaultLimit > opts.MaxLimit {
		opts.DefaultLimit = min(defaults.DefaultLimit, opts.MaxLimit)
	}
	if opts.DetailConcurrency <= 0 {
		opts.DetailConcurrency = defaults.DetailConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if images == nil {
		images = NewImageURLSigner(nil, "", 0)
	}
	return &productService{
		productRepo:      productRepo,
		packageRepo:      packageRepo,
		translationRepo:  translationRepo,
		productImageRepo: productImageRepo,
		availability:     availability,
		cacheService:     cacheService,
		images:           images,
		selector:         NewTranslationSelector(logger),
		opts:             opts,
		logger:           logger,
	}
}

func (s *productService) clampLimit(limit int) int {
	if limit <= 0 {
		return s.opts.DefaultLimit
	}
	if limit > s.opts.MaxLimit {
		return s.opts.MaxLimit
	}
	return limit
}

func normalizeLanguage(language string) string {
	language = strings.TrimSpace(language)
	if language == "" {
		return DefaultLanguage
	}
	return language
}

func (s *productService) Search(ctx context.Context, query, language string, limit int) ([]*models.ProductSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*models.ProductSummary{}, nil
	}
	language = normalizeLanguage(language)
	limit = s.clampLimit(limit)

	if s.cacheService != nil {
		if cached, err := s.cacheService.GetProductSummaries(ctx, query, language, limit); cached != nil {
			return cached, nil
		} else if err != nil {
			// Cache errors shouldn't fail the search
			s.logger.Warn("Cache read failed for product search", zap.String("query", query), zap.Error(err))
		}
	}

	products, err := s.findProducts(ctx, query, language, limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]*models.ProductSummary, 0, len(products))
	for _, p := range products {
		displayName, _ := s.selector.SelectDisplay(p, language)
		summaries = append(summaries, &models.ProductSummary{
			ProductID:   p.ID,
			INNName:     p.INNName,
			DisplayName: displayName,
			Form:        p.Form,
			Strength:    p.Strength,
		})
	}

	if s.cacheService != nil && s.opts.SearchCacheTTL > 0 {
		if cacheErr := s.cacheService.SetProductSummaries(ctx, query, language, limit, summaries, s.opts.SearchCacheTTL); cacheErr != nil {
			s.logger.Warn("Failed to cache product search", zap.String("query", query), zap.Error(cacheErr))
		}
	}
	return summaries, nil
}

// findProducts runs the text match, drops repeated products and attaches
// translations in repository order.
func (s *productService) findProducts(ctx context.Context, query, language string, limit int) ([]*models.Product, error) {
	matches, err := s.productRepo.SearchByText(ctx, query, language, limit)
	if err != nil {
		return nil, upstream("search products", err)
	}

	seen := make(map[string]struct{}, len(matches))
	products := make([]*models.Product, 0, len(matches))
	ids := make([]string, 0, len(matches))
	for _, p := range matches {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		products = append(products, p)
		ids = append(ids, p.ID)
	}
	if len(products) == 0 {
		return products, nil
	}

	translations, err := s.translationRepo.ListByProducts(ctx, ids)
	if err != nil {
		return nil, upstream("load translations", err)
	}
	for _, p := range products {
		p.Translations = translations[p.ID]
	}
	return products, nil
}

func (s *productService) DetailedSearch(ctx context.Context, req models.DetailedSearchRequest) ([]*models.ProductAvailability, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return []*models.ProductAvailability{}, nil
	}
	language := normalizeLanguage(req.Language)

	products, err := s.findProducts(ctx, query, language, s.clampLimit(req.Limit))
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return []*models.ProductAvailability{}, nil
	}

	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	brandNames, err := s.productRepo.ListBrandNames(ctx, ids)
	if err != nil {
		return nil, upstream("load brand names", err)
	}

	availReq := models.AvailabilityRequest{
		Language:    language,
		Lat:         req.Lat,
		Lng:         req.Lng,
		RadiusKm:    req.RadiusKm,
		OnlyInStock: true,
	}

	views := make([]*models.ProductAvailability, len(products))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.DetailConcurrency)
	for i, p := range products {
		g.Go(func() error {
			view, err := s.buildAvailability(gctx, p, brandNames[p.ID], availReq)
			if err != nil {
				return err
			}
			views[i] = view
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]*models.ProductAvailability, 0, len(views))
	for _, view := range views {
		if view != nil && len(view.AvailablePackages) > 0 {
			results = append(results, view)
		}
	}
	return results, nil
}

func (s *productService) GetProductAvailability(ctx context.Context, productID string, req models.AvailabilityRequest) (*models.ProductAvailability, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, ErrProductNotFound
	}
	req.Language = normalizeLanguage(req.Language)

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	brandNames, err := s.productRepo.ListBrandNames(ctx, []string{productID})
	if err != nil {
		return nil, upstream("load brand names", err)
	}

	return s.buildAvailability(ctx, product, brandNames[productID], req)
}

// loadProduct reads a product with its translations, going through the cache.
func (s *productService) loadProduct(ctx context.Context, productID string) (*models.Product, error) {
	if s.cacheService != nil {
		if cached, err := s.cacheService.GetProduct(ctx, productID); cached != nil {
			return cached, nil
		} else if err != nil {
			s.logger.Warn("Cache read failed for product", zap.String("product_id", productID), zap.Error(err))
		}
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
		}
		return nil, upstream("load product", err)
	}

	translations, err := s.translationRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, upstream("load translations", err)
	}
	product.Translations = translations

	if s.cacheService != nil && s.opts.ProductCacheTTL > 0 {
		if cacheErr := s.cacheService.SetProduct(ctx, product, s.opts.ProductCacheTTL); cacheErr != nil {
			s.logger.Warn("Failed to cache product", zap.String("product_id", productID), zap.Error(cacheErr))
		}
	}
	return product, nil
}

// buildAvailability assembles the nested package view for one product. The
// aggregator ranks pharmacies once for all of the product's packages and the
// ranking is kept when the lines are regrouped per package.
func (s *productService) buildAvailability(ctx context.Context, product *models.Product, brandNames []string, req models.AvailabilityRequest) (*models.ProductAvailability, error) {
	displayName, description := s.selector.SelectDisplay(product, req.Language)
	view := &models.ProductAvailability{
		ProductID:         product.ID,
		INNName:           product.INNName,
		DisplayName:       displayName,
		Description:       description,
		ATCCode:           product.ATCCode,
		Form:              product.Form,
		Strength:          product.Strength,
		BrandNames:        brandNames,
		AvailablePackages: []*models.PackageAvailability{},
		Language:          req.Language,
	}
	if view.BrandNames == nil {
		view.BrandNames = []string{}
	}

	packages, err := s.packageRepo.ListByProduct(ctx, product.ID)
	if err != nil {
		return nil, upstream("load packages", err)
	}
	if len(packages) == 0 {
		return view, nil
	}

	packageIDs := make([]string, 0, len(packages))
	for _, pkg := range packages {
		if pkg.BrandMismatch() {
			s.logger.Warn("Package brand belongs to another product",
				zap.String("package_id", pkg.ID),
				zap.String("product_id", pkg.ProductID),
				zap.String("brand_id", pkg.Brand.ID),
				zap.String("brand_product_id", pkg.Brand.ProductID))
		}
		packageIDs = append(packageIDs, pkg.ID)
	}

	pharmacies, err := s.availability.SearchPharmacies(ctx, &models.PharmacySearchFilter{
		PackageIDs: packageIDs,
		Lat:        req.Lat,
		Lng:        req.Lng,
		RadiusKm:   req.RadiusKm,
		SortBy:     models.SortByDistance,
		Limit:      MaxPharmacyLimit,
	})
	if err != nil {
		return nil, err
	}

	locations := make(map[string][]*models.PharmacyLocation, len(packages))
	for _, ph := range pharmacies {
		for _, line := range ph.Packages {
			locations[line.PackageID] = append(locations[line.PackageID], &models.PharmacyLocation{
				PharmacyID:      ph.PharmacyID,
				PharmacyName:    ph.PharmacyName,
				PharmacyAddress: ph.Address,
				PharmacyCity:    ph.City,
				PharmacyCountry: ph.Country,
				DistanceKm:      ph.DistanceKm,
				PriceCents:      line.PriceCents,
				Currency:        line.Currency,
				StockQuantity:   line.StockQuantity,
				LastUpdated:     line.LastUpdated,
			})
		}
	}

	imageURLs := s.packageImages(ctx, packageIDs)

	for _, pkg := range packages {
		pkgLocations := locations[pkg.ID]
		if req.OnlyInStock && len(pkgLocations) == 0 {
			continue
		}
		if pkgLocations == nil {
			pkgLocations = []*models.PharmacyLocation{}
		}
		pa := &models.PackageAvailability{
			PackageID:         pkg.ID,
			GTIN:              pkg.GTIN,
			PackSize:          pkg.PackSize,
			CountryCode:       pkg.CountryCode,
			ImageURLs:         imageURLs[pkg.ID],
			PharmacyLocations: pkgLocations,
		}
		if pa.ImageURLs == nil {
			pa.ImageURLs = []string{}
		}
		if pkg.Brand != nil {
			brandName := pkg.Brand.BrandName
			pa.BrandName = &brandName
			pa.Manufacturer = pkg.Brand.Manufacturer
		}
		view.AvailablePackages = append(view.AvailablePackages, pa)
	}
	return view, nil
}

// packageImages resolves image URLs per package. Images are decoration, so a
// failure here is logged and the view is returned without them.
func (s *productService) packageImages(ctx context.Context, packageIDs []string) map[string][]string {
	urls := make(map[string][]string)
	if s.productImageRepo == nil {
		return urls
	}
	images, err := s.productImageRepo.ListByPackages(ctx, packageIDs)
	if err != nil {
		s.logger.Warn("Failed to load package images", zap.Strings("package_ids", packageIDs), zap.Error(err))
		return urls
	}
	for packageID, imgs := range images {
		for _, img := range imgs {
			url, err := s.images.URLFor(ctx, img.ImageURL)
			if err != nil {
				s.logger.Warn("Failed to sign image URL", zap.String("image_id", img.ID), zap.Error(err))
				continue
			}
			urls[packageID] = append(urls[packageID], url)
		}
	}
	return urls
}
