package middleware

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"pharmafind/internal/common"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var (
	ErrVerifierUnavailable = errors.New("token verifier unavailable")
	ErrMissingSubject      = errors.New("token has no subject")
)

// FirebaseClaims are the claims of a Firebase ID token. The subject is the uid.
type FirebaseClaims struct {
	jwt.RegisteredClaims
	AuthTime int64  `json:"auth_time,omitempty"`
	Email    string `json:"email,omitempty"`
}

// KeySource loads the signing keys once, on first use.
type KeySource func() (jwt.Keyfunc, error)

// RemoteKeys fetches a JWKS and keeps it refreshed in the background.
func RemoteKeys(jwksURL string, logger *zap.Logger) KeySource {
	return func() (jwt.Keyfunc, error) {
		jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  5 * time.Minute,
			RefreshTimeout:    10 * time.Second,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				logger.Warn("JWKS refresh failed", zap.String("url", jwksURL), zap.Error(err))
			},
		})
		if err != nil {
			return nil, fmt.Errorf("load jwks from %s: %w", jwksURL, err)
		}
		return jwks.Keyfunc, nil
	}
}

// StaticKeys serves a fixed key set.
func StaticKeys(jwks *keyfunc.JWKS) KeySource {
	return func() (jwt.Keyfunc, error) {
		return jwks.Keyfunc, nil
	}
}

// TokenVerifier verifies Firebase ID tokens. Keys are loaded exactly once and
// shared by all requests afterwards.
type TokenVerifier struct {
	projectID string
	keys      KeySource
	logger    *zap.Logger

	once    sync.Once
	keyfunc jwt.Keyfunc
	initErr error
}

func NewTokenVerifier(projectID string, keys KeySource, logger *zap.Logger) *TokenVerifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenVerifier{projectID: projectID, keys: keys, logger: logger}
}

func (v *TokenVerifier) init() error {
	v.once.Do(func() {
		if v.projectID == "" {
			v.initErr = errors.New("firebase project id is not configured")
			return
		}
		v.keyfunc, v.initErr = v.keys()
		if v.initErr != nil {
			v.logger.Error("Failed to initialise token verifier", zap.Error(v.initErr))
		}
	})
	return v.initErr
}

// Verify checks signature, issuer, audience and expiry and returns the claims.
func (v *TokenVerifier) Verify(tokenString string) (*FirebaseClaims, error) {
	if err := v.init(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVerifierUnavailable, err)
	}

	claims := &FirebaseClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, v.keyfunc,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer("https://securetoken.google.com/"+v.projectID),
		jwt.WithAudience(v.projectID),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(30*time.Second),
	)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}
	return claims, nil
}

func (v *TokenVerifier) parseToken(c echo.Context, auth string) (interface{}, error) {
	claims, err := v.Verify(auth)
	if err != nil {
		return nil, err
	}
	c.SetRequest(c.Request().WithContext(common.WithUserID(c.Request().Context(), claims.Subject)))
	return claims, nil
}

// Middleware requires a valid bearer token. The uid is stored on the request
// context and the claims under the "user" key.
func (v *TokenVerifier) Middleware() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: v.parseToken,
		ErrorHandler: func(c echo.Context, err error) error {
			if errors.Is(err, ErrVerifierUnavailable) {
				return common.SendUnavailableError(c, "Authentication is temporarily unavailable")
			}
			v.logger.Debug("Rejected bearer token", zap.String("path", c.Path()), zap.Error(err))
			return common.SendUnauthorizedError(c)
		},
	})
}
