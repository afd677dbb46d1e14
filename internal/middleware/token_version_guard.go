package middleware

import (
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/repository"

	"github.com/labstack/echo/v4"
)

// JWTのtvとDBのtoken_versionの一致するか確認。
// roleはDBの値で上書きする（発行後の変更を反映）
func TokenVersionGuard(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//AuthJWTが入れたuser_id を取得する
			userID, ok := UserID(c)
			if !ok {
				return unauthorized(c)
			}

			//AuthJWTが入れたtoken_version(tv)を取得する
			tv, ok := c.Get(CtxTokenVersionKey).(int)
			if !ok || tv < 0 {
				return unauthorized(c)
			}

			//DBから最新のuserを取得する（削除済みも401）
			user, err := userRepo.FindByID(c.Request().Context(), userID)
			if err != nil || user == nil {
				return unauthorized(c)
			}

			//ログアウト・パスワード変更後の古いトークン
			if user.TokenVersion != tv {
				return unauthorized(c)
			}

			c.Set(CtxUserRoleKey, string(user.Role))
			return next(c)
		}
	}
}
