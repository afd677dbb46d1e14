package middleware

import (
	"net/http"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/domain/model"

	"github.com/labstack/echo/v4"
)

const (
	msgNotUser  = "You are Not a User"
	msgNotAdmin = "User Is Not a Admin"
)

// contextに入っているroleが一致するか確認します。
// 違うroleは404（存在しない扱い）
func RoleGuard(want model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxUserRoleKey).(string)
			if !ok || role == "" {
				return unauthorized(c)
			}

			if model.Role(role) != want {
				msg := msgNotUser
				if want == model.RoleAdmin {
					msg = msgNotAdmin
				}
				return c.JSON(http.StatusNotFound, messageResponse{Message: msg})
			}

			return next(c)
		}
	}
}
