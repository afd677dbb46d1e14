package auth

import (
	"context"
	"errors"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/domain/model"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/repository"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/usecase"

	"go.uber.org/zap"
)

// ログアウトと現在ユーザー取得
type SessionUsecase struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewSessionUsecase(userRepo repository.UserRepository, log *zap.Logger) *SessionUsecase {
	return &SessionUsecase{userRepo: userRepo, log: log}
}

// token_versionを上げて、発行済みのトークンを全部無効にする
func (u *SessionUsecase) Logout(ctx context.Context, userID int64) error {
	if err := u.userRepo.IncrementTokenVersion(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return usecase.ErrInvalidToken
		}
		u.log.Error("increment token version failed", zap.Int64("user_id", userID), zap.Error(err))
		return usecase.ErrInternal
	}

	u.log.Info("user logged out", zap.Int64("user_id", userID))
	return nil
}

func (u *SessionUsecase) CurrentUser(ctx context.Context, userID int64) (model.User, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, usecase.ErrInvalidToken
		}
		u.log.Error("find user failed", zap.Int64("user_id", userID), zap.Error(err))
		return model.User{}, usecase.ErrInternal
	}
	return *user, nil
}
