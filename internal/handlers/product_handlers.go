package handlers

import (
	"net/http"
	"strings"

	"pharmafind/internal/common"
	"pharmafind/internal/models"
	"pharmafind/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ProductHandlers handles HTTP requests for products
type ProductHandlers struct {
	productService services.ProductService
	logger         *zap.Logger
}

// NewProductHandlers creates a new product handlers instance
func NewProductHandlers(productService services.ProductService, logger *zap.Logger) *ProductHandlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductHandlers{
		productService: productService,
		logger:         logger,
	}
}

// SearchProducts handles GET /v1/products/search
//
//	@Summary		Typeahead product search
//	@Description	Matches generic name, ATC code, brand names and translated names
//	@Tags			products
//	@Produce		json
//	@Param			q			query		string	true	"Search text"
//	@Param			language	query		string	false	"Language code"	default(en)
//	@Param			limit		query		int		false	"Max results (1-100)"	default(20)
//	@Success		200			{array}		models.ProductSummary
//	@Failure		400			{object}	common.ErrorResponse
//	@Failure		503			{object}	common.ErrorResponse
//	@Router			/v1/products/search [get]
func (h *ProductHandlers) SearchProducts(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if err := common.ValidateRequiredString(query, "q"); err != nil {
		return common.SendValidationError(c, "q", err.Error())
	}

	limit, present, err := queryInt(c, "limit")
	if err == nil {
		err = validateLimit(limit, present, services.MaxProductLimit)
	}
	if err != nil {
		return sendFieldError(c, err)
	}

	summaries, err := h.productService.Search(c.Request().Context(), query, c.QueryParam("language"), limit)
	if err != nil {
		return sendServiceError(c, h.logger, "Product", err)
	}
	return c.JSON(http.StatusOK, summaries)
}

// DetailedSearch handles GET /v1/products/search/detailed
//
//	@Summary		Product search with pharmacy availability
//	@Description	Only products with at least one in-stock package are returned
//	@Tags			products
//	@Produce		json
//	@Param			q			query		string	true	"Search text"
//	@Param			language	query		string	false	"Language code"	default(en)
//	@Param			limit		query		int		false	"Max products (1-100)"	default(20)
//	@Param			lat			query		number	false	"Origin latitude"
//	@Param			lng			query		number	false	"Origin longitude"
//	@Param			radius_km	query		number	false	"Search radius (1-200)"	default(100)
//	@Success		200			{array}		models.ProductAvailability
//	@Failure		400			{object}	common.ErrorResponse
//	@Failure		503			{object}	common.ErrorResponse
//	@Router			/v1/products/search/detailed [get]
func (h *ProductHandlers) DetailedSearch(c echo.Context) error {
	req := models.DetailedSearchRequest{
		Query:    strings.TrimSpace(c.QueryParam("q")),
		Language: c.QueryParam("language"),
	}
	if err := common.ValidateRequiredString(req.Query, "q"); err != nil {
		return common.SendValidationError(c, "q", err.Error())
	}

	var err error
	var present bool
	if req.Limit, present, err = queryInt(c, "limit"); err == nil {
		err = validateLimit(req.Limit, present, services.MaxProductLimit)
	}
	if err == nil {
		req.Lat, req.Lng, req.RadiusKm, err = parseGeo(c)
	}
	if err != nil {
		return sendFieldError(c, err)
	}

	results, err := h.productService.DetailedSearch(c.Request().Context(), req)
	if err != nil {
		return sendServiceError(c, h.logger, "Product", err)
	}
	return c.JSON(http.StatusOK, results)
}

// GetProductAvailability handles GET /v1/products/:id/availability
//
//	@Summary		Availability of one product per package
//	@Tags			products
//	@Produce		json
//	@Param			id				path		string	true	"Product id"
//	@Param			language		query		string	false	"Language code"	default(en)
//	@Param			lat				query		number	false	"Origin latitude"
//	@Param			lng				query		number	false	"Origin longitude"
//	@Param			radius_km		query		number	false	"Search radius (1-200)"	default(100)
//	@Param			only_in_stock	query		bool	false	"Drop packages without stock"
//	@Success		200				{object}	models.ProductAvailability
//	@Failure		400				{object}	common.ErrorResponse
//	@Failure		404				{object}	common.ErrorResponse
//	@Failure		503				{object}	common.ErrorResponse
//	@Router			/v1/products/{id}/availability [get]
func (h *ProductHandlers) GetProductAvailability(c echo.Context) error {
	productID := strings.TrimSpace(c.Param("id"))
	if err := common.ValidateRequiredString(productID, "id"); err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	req := models.AvailabilityRequest{Language: c.QueryParam("language")}
	var err error
	req.Lat, req.Lng, req.RadiusKm, err = parseGeo(c)
	if err == nil {
		req.OnlyInStock, err = queryBool(c, "only_in_stock", false)
	}
	if err != nil {
		return sendFieldError(c, err)
	}

	view, err := h.productService.GetProductAvailability(c.Request().Context(), productID, req)
	if err != nil {
		return sendServiceError(c, h.logger, "Product", err)
	}
	return c.JSON(http.StatusOK, view)
}

func parseGeo(c echo.Context) (lat, lng, radiusKm *float64, err error) {
	if lat, err = queryFloat(c, "lat"); err != nil {
		return nil, nil, nil, err
	}
	if lng, err = queryFloat(c, "lng"); err != nil {
		return nil, nil, nil, err
	}
	if radiusKm, err = queryFloat(c, "radius_km"); err != nil {
		return nil, nil, nil, err
	}
	if err = validateGeo(lat, lng, radiusKm); err != nil {
		return nil, nil, nil, err
	}
	return lat, lng, radiusKm, nil
}
