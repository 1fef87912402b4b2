package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"pharmafind/internal/models"
	"pharmafind/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSearchProducts(t *testing.T) {
	svc := &MockProductService{}
	h := NewProductHandlers(svc, nil)
	svc.On("Search", mock.Anything, "ibu", "de", 5).
		Return([]*models.ProductSummary{{ProductID: "prod-ibu", INNName: "Ibuprofen", DisplayName: "Ibuprofen 400mg Tabletten"}}, nil).Once()

	c, rec := newContext(http.MethodGet, "/v1/products/search?q=ibu&language=de&limit=5", "")
	require.NoError(t, h.SearchProducts(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got []models.ProductSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Ibuprofen 400mg Tabletten", got[0].DisplayName)
	svc.AssertExpectations(t)
}

func TestSearchProducts_Validation(t *testing.T) {
	tests := []struct {
		name   string
		target string
		field  string
	}{
		{name: "missing query", target: "/v1/products/search", field: "q"},
		{name: "blank query", target: "/v1/products/search?q=%20%20", field: "q"},
		{name: "limit not a number", target: "/v1/products/search?q=ibu&limit=ten", field: "limit"},
		{name: "limit too large", target: "/v1/products/search?q=ibu&limit=101", field: "limit"},
		{name: "limit zero", target: "/v1/products/search?q=ibu&limit=0", field: "limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockProductService{}
			c, rec := newContext(http.MethodGet, tt.target, "")

			require.NoError(t, NewProductHandlers(svc, nil).SearchProducts(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), fmt.Sprintf("%q", tt.field))
			svc.AssertNotCalled(t, "Search")
		})
	}
}

func TestSearchProducts_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "upstream", err: fmt.Errorf("%w: search products: timeout", services.ErrUpstreamUnavailable), status: http.StatusServiceUnavailable, code: "SERVICE_UNAVAILABLE"},
		{name: "invalid argument", err: fmt.Errorf("%w: bad language", services.ErrInvalidArgument), status: http.StatusBadRequest, code: "CLIENT_ERROR"},
		{name: "unexpected", err: errors.New("boom"), status: http.StatusInternalServerError, code: "SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockProductService{}
			svc.On("Search", mock.Anything, "ibu", "", 0).Return(nil, tt.err).Once()
			c, rec := newContext(http.MethodGet, "/v1/products/search?q=ibu", "")

			require.NoError(t, NewProductHandlers(svc, nil).SearchProducts(c))
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.code)
		})
	}
}

func TestGetProductAvailability(t *testing.T) {
	svc := &MockProductService{}
	h := NewProductHandlers(svc, nil)
	expected := models.AvailabilityRequest{
		Language:    "sk",
		Lat:         floatPtr(48.2082),
		Lng:         floatPtr(16.3738),
		RadiusKm:    floatPtr(25),
		OnlyInStock: true,
	}
	svc.On("GetProductAvailability", mock.Anything, "prod-ibu", expected).Return(&models.ProductAvailability{
		ProductID:         "prod-ibu",
		INNName:           "Ibuprofen",
		DisplayName:       "Ibuprofen 400mg tablety",
		BrandNames:        []string{},
		AvailablePackages: []*models.PackageAvailability{},
		Language:          "sk",
	}, nil).Once()

	c, rec := newContext(http.MethodGet, "/v1/products/prod-ibu/availability?language=sk&lat=48.2082&lng=16.3738&radius_km=25&only_in_stock=true", "")
	c.SetParamNames("id")
	c.SetParamValues("prod-ibu")

	require.NoError(t, h.GetProductAvailability(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"display_name":"Ibuprofen 400mg tablety"`)
	assert.Contains(t, rec.Body.String(), `"available_packages":[]`)
	svc.AssertExpectations(t)
}

func TestGetProductAvailability_NotFound(t *testing.T) {
	svc := &MockProductService{}
	svc.On("GetProductAvailability", mock.Anything, "missing", mock.Anything).
		Return(nil, fmt.Errorf("%w: missing", services.ErrProductNotFound)).Once()

	c, rec := newContext(http.MethodGet, "/v1/products/missing/availability", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")

	require.NoError(t, NewProductHandlers(svc, nil).GetProductAvailability(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Product not found")
}

func TestGetProductAvailability_GeoValidation(t *testing.T) {
	tests := []struct {
		name  string
		query string
		field string
	}{
		{name: "lat without lng", query: "lat=48.2", field: "lng"},
		{name: "lng without lat", query: "lng=16.3", field: "lat"},
		{name: "lat out of range", query: "lat=95&lng=16.3", field: "lat"},
		{name: "lng out of range", query: "lat=48.2&lng=190", field: "lng"},
		{name: "lat not a number", query: "lat=north&lng=16.3", field: "lat"},
		{name: "radius too small", query: "lat=48.2&lng=16.3&radius_km=0.5", field: "radius_km"},
		{name: "radius too large", query: "lat=48.2&lng=16.3&radius_km=500", field: "radius_km"},
		{name: "bad only_in_stock", query: "only_in_stock=sometimes", field: "only_in_stock"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockProductService{}
			c, rec := newContext(http.MethodGet, "/v1/products/prod-ibu/availability?"+tt.query, "")
			c.SetParamNames("id")
			c.SetParamValues("prod-ibu")

			require.NoError(t, NewProductHandlers(svc, nil).GetProductAvailability(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), fmt.Sprintf("%q", tt.field))
			svc.AssertNotCalled(t, "GetProductAvailability")
		})
	}
}

func TestDetailedSearch(t *testing.T) {
	svc := &MockProductService{}
	expected := models.DetailedSearchRequest{
		Query:    "ibu",
		Language: "de",
		Limit:    3,
		Lat:      floatPtr(48.2082),
		Lng:      floatPtr(16.3738),
	}
	svc.On("DetailedSearch", mock.Anything, expected).Return([]*models.ProductAvailability{}, nil).Once()

	c, rec := newContext(http.MethodGet, "/v1/products/search/detailed?q=ibu&language=de&limit=3&lat=48.2082&lng=16.3738", "")
	require.NoError(t, NewProductHandlers(svc, nil).DetailedSearch(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	svc.AssertExpectations(t)
}
