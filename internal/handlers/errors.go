package handlers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"pharmafind/internal/common"
	"pharmafind/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	MinRadiusKm = 1.0
	MaxRadiusKm = 200.0
)

// sendServiceError maps service errors onto the response envelope.
func sendServiceError(c echo.Context, logger *zap.Logger, resource string, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return common.SendNotFoundError(c, resource)
	case errors.Is(err, services.ErrInvalidArgument):
		return common.SendClientError(c, err.Error())
	case errors.Is(err, services.ErrUpstreamUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		logger.Error("Upstream unavailable", zap.String("path", c.Path()), zap.Error(err))
		return common.SendUnavailableError(c, "Service temporarily unavailable")
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful can be written.
		return nil
	default:
		logger.Error("Unexpected error", zap.String("path", c.Path()), zap.Error(err))
		return common.SendServerError(c, "Internal server error")
	}
}

// fieldError names the parameter that failed validation.
type fieldError struct {
	field string
	msg   string
}

func (e *fieldError) Error() string { return e.msg }

func invalid(field, format string, args ...any) *fieldError {
	return &fieldError{field: field, msg: fmt.Sprintf(format, args...)}
}

func sendFieldError(c echo.Context, err error) error {
	var fe *fieldError
	if errors.As(err, &fe) {
		return common.SendValidationError(c, fe.field, fe.msg)
	}
	return common.SendClientError(c, err.Error())
}

func queryFloat(c echo.Context, name string) (*float64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, invalid(name, "%s must be a number", name)
	}
	return &v, nil
}

func queryInt(c echo.Context, name string) (int, bool, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, invalid(name, "%s must be an integer", name)
	}
	return v, true, nil
}

func queryBool(c echo.Context, name string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, invalid(name, "%s must be true or false", name)
	}
	return v, nil
}

// validateLimit accepts an absent limit (0) or one within 1..maxLimit.
func validateLimit(limit int, present bool, maxLimit int) error {
	if !present && limit == 0 {
		return nil
	}
	if err := common.ValidatePositiveInteger(limit, "limit", maxLimit); err != nil {
		return invalid("limit", "%s", err.Error())
	}
	return nil
}

// validateGeo checks an optional origin and radius.
func validateGeo(lat, lng, radiusKm *float64) error {
	if err := common.ValidateCoordinates(lat, lng); err != nil {
		field := "lat"
		if (lat != nil && lng == nil) || strings.HasPrefix(err.Error(), "lng") {
			field = "lng"
		}
		return invalid(field, "%s", err.Error())
	}
	if radiusKm != nil {
		if math.IsNaN(*radiusKm) || *radiusKm < MinRadiusKm || *radiusKm > MaxRadiusKm {
			return invalid("radius_km", "radius_km must be between %g and %g", MinRadiusKm, MaxRadiusKm)
		}
	}
	return nil
}
