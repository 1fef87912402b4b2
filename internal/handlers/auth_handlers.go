package handlers

import (
	"net/http"

	"pharmafind/internal/common"
	"pharmafind/internal/middleware"

	"github.com/labstack/echo/v4"
)

type MeResponse struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
}

// Me handles GET /v1/me
//
//	@Summary	Current user
//	@Tags		auth
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	MeResponse
//	@Failure	401	{object}	common.ErrorResponse
//	@Router		/v1/me [get]
func Me(c echo.Context) error {
	uid, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	resp := MeResponse{UID: uid}
	if claims, ok := c.Get("user").(*middleware.FirebaseClaims); ok {
		resp.Email = claims.Email
	}
	return c.JSON(http.StatusOK, resp)
}
