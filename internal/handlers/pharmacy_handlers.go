package handlers

import (
	"net/http"

	"pharmafind/internal/common"
	"pharmafind/internal/models"
	"pharmafind/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type PharmacyHandlers struct {
	availabilityService services.AvailabilityService
	logger              *zap.Logger
}

func NewPharmacyHandlers(availabilityService services.AvailabilityService, logger *zap.Logger) *PharmacyHandlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PharmacyHandlers{
		availabilityService: availabilityService,
		logger:              logger,
	}
}

// SearchPharmacies handles POST /v1/pharmacies/search
//
//	@Summary		Rank pharmacies stocking a set of packages
//	@Description	An empty package_ids list returns an empty array
//	@Tags			pharmacies
//	@Accept			json
//	@Produce		json
//	@Param			filter	body		models.PharmacySearchFilter	true	"Search criteria"
//	@Success		200		{array}		models.PharmacyResult
//	@Failure		400		{object}	common.ErrorResponse
//	@Failure		503		{object}	common.ErrorResponse
//	@Router			/v1/pharmacies/search [post]
func (h *PharmacyHandlers) SearchPharmacies(c echo.Context) error {
	var filter models.PharmacySearchFilter
	if err := c.Bind(&filter); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := validateGeo(filter.Lat, filter.Lng, filter.RadiusKm); err != nil {
		return sendFieldError(c, err)
	}
	if err := validateLimit(filter.Limit, false, services.MaxPharmacyLimit); err != nil {
		return sendFieldError(c, err)
	}
	switch filter.SortBy {
	case "", models.SortByDistance, models.SortByPrice, models.SortByName:
	default:
		return common.SendValidationError(c, "sort_by", "sort_by must be one of: distance, price, name")
	}

	results, err := h.availabilityService.SearchPharmacies(c.Request().Context(), &filter)
	if err != nil {
		return sendServiceError(c, h.logger, "Pharmacy", err)
	}
	return c.JSON(http.StatusOK, results)
}
