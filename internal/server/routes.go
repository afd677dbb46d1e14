package server

import (
	"net/url"
	"strings"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/config"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/handler"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/metrics"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/repository"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	Book    *handler.BookHandler
	Cart    *handler.CartHandler
	Address *handler.AddressHandler
	Order   *handler.OrderHandler
	Review  *handler.ReviewHandler
	Health  *handler.HealthHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, m *metrics.Metrics, userRepo repository.UserRepository, h Handlers) {
	r := handler.NewRoutes(e.Group("/api"), cfg, userRepo)

	h.Auth.RegisterRoutes(r)
	h.Book.RegisterRoutes(r)
	h.Cart.RegisterRoutes(r)
	h.Address.RegisterRoutes(r)
	h.Order.RegisterRoutes(r)
	h.Review.RegisterRoutes(r)

	h.Health.RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	//ローカル保存の画像（IMAGE_BASE_URLがパスのとき）
	if p := uploadsPath(cfg.ImageBaseURL); p != "" {
		e.Static(p, cfg.ImageDir)
	}
}

func uploadsPath(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return ""
	}
	return strings.TrimRight(u.Path, "/")
}
