package middleware

import (
	"net/http"
	"strings"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/config"
	auth "github.com/ArafathvBaig/Book-Store-App-Backend/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey       = "user_id"       // int64
	CtxUserRoleKey     = "user_role"     // string
	CtxTokenVersionKey = "token_version" // int
)

const msgInvalidToken = "Invalid Authorization Token"

// Authorization: Bearer <jwt> を検証し、user_id / role / tv をcontextに積む。
// tvが最新かどうかはTokenVersionGuardで見る
func AuthJWT(cfg config.Config) echo.MiddlewareFunc {
	secret := []byte(cfg.JWTSecret)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return unauthorized(c)
			}

			claims, err := auth.ParseAccessToken(secret, raw)
			if err != nil {
				return unauthorized(c)
			}
			userID, _ := claims.UserID()

			c.Set(CtxUserIDKey, userID)
			c.Set(CtxUserRoleKey, claims.Role)
			c.Set(CtxTokenVersionKey, claims.TokenVersion)
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// AuthJWTが入れたuser_id
func UserID(c echo.Context) (int64, bool) {
	id, ok := c.Get(CtxUserIDKey).(int64)
	return id, ok && id > 0
}

type messageResponse struct {
	Message string `json:"message"`
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, messageResponse{Message: msgInvalidToken})
}
