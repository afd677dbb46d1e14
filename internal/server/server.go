package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/config"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/metrics"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/middleware"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/repository"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/validator"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Server struct {
	e    *echo.Echo
	addr string
	log  *zap.Logger
}

// echoを組み立ててルートを登録する
func New(cfg config.Config, log *zap.Logger, m *metrics.Metrics, userRepo repository.UserRepository, h Handlers) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.New()

	//外側から: アクセスログ → メトリクス → panic回復
	e.Use(middleware.RequestLogger(log))
	e.Use(m.Middleware())
	e.Use(echomw.Recover())

	RegisterRoutes(e, cfg, m, userRepo, h)

	return &Server{e: e, addr: cfg.Addr(), log: log}
}

// テスト用
func (s *Server) Echo() *echo.Echo { return s.e }

// Shutdownされるまで戻らない
func (s *Server) Start() error {
	s.log.Info("http server listening", zap.String("addr", s.addr))
	if err := s.e.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// 処理中のリクエストを待ってから止める
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.e.Shutdown(ctx)
}
