package middleware

import (
	"strings"

	"github.com/anonto42/nano-midea/social-api/internal/apperrors"
	"github.com/anonto42/nano-midea/social-api/internal/auth"
	"github.com/anonto42/nano-midea/social-api/internal/models"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// UserContextKey is where the authenticated claims are stored on the echo context.
const UserContextKey = "user"

var errBadHeader = apperrors.New(apperrors.KindUnauthorized, "not_authenticated", "Authorization header must be in Bearer format.")

// JWTAuthMiddleware checks for a valid JWT and extracts user claims.
func JWTAuthMiddleware(issuer *auth.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
				return apperrors.ErrUnauthenticated
			}
			if err := authenticate(c, issuer); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// OptionalJWTAuthMiddleware lets anonymous requests through. A request that
// does carry an Authorization header must still present a valid token.
func OptionalJWTAuthMiddleware(issuer *auth.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
				return next(c)
			}
			if err := authenticate(c, issuer); err != nil {
				return err
			}
			return next(c)
		}
	}
}

func authenticate(c echo.Context, issuer *auth.TokenIssuer) error {
	// Expecting "Bearer <token>"
	scheme, tokenString, ok := strings.Cut(c.Request().Header.Get(echo.HeaderAuthorization), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || tokenString == "" {
		return errBadHeader
	}

	claims, err := issuer.Parse(strings.TrimSpace(tokenString))
	if err != nil {
		log.WithError(err).Debug("rejected token")
		return apperrors.Wrap(apperrors.KindUnauthorized, "invalid_token", "Given token not valid for any token type.", err)
	}

	c.Set(UserContextKey, claims)
	return nil
}

// UserID returns the authenticated user's ID, or 0 outside JWTAuthMiddleware.
func UserID(c echo.Context) uint {
	claims, ok := c.Get(UserContextKey).(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}
