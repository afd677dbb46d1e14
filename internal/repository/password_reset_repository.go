package repository

import (
	"context"
	"time"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/domain/model"
)

// パスワード再設定トークンの保存・取得・使用済み化
type PasswordResetRepository interface {
	Create(ctx context.Context, token *model.PasswordResetToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.PasswordResetToken, error)
	// 未使用のものだけ。0件ならErrNotFound
	MarkUsed(ctx context.Context, tokenID string, usedAt time.Time) error
}
