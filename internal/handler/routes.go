package handler

import (
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/config"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/domain/model"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/middleware"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/repository"

	"github.com/labstack/echo/v4"
)

// ルート登録先。/api配下でルートごとにミドルウェアを付ける
type Routes struct {
	API    *echo.Group
	Authed []echo.MiddlewareFunc // JWT + token_version
	User   []echo.MiddlewareFunc // + role=user
	Admin  []echo.MiddlewareFunc // + role=admin
}

func NewRoutes(api *echo.Group, cfg config.Config, userRepo repository.UserRepository) Routes {
	authed := []echo.MiddlewareFunc{
		middleware.AuthJWT(cfg),
		middleware.TokenVersionGuard(userRepo),
	}
	return Routes{
		API:    api,
		Authed: authed,
		User:   append(authed[:len(authed):len(authed)], middleware.RoleGuard(model.RoleUser)),
		Admin:  append(authed[:len(authed):len(authed)], middleware.RoleGuard(model.RoleAdmin)),
	}
}
