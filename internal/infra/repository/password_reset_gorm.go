package repository

import (
	"context"
	"time"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/domain/model"
	repo "github.com/ArafathvBaig/Book-Store-App-Backend/internal/repository"

	"gorm.io/gorm"
)

type passwordResetGormRepository struct {
	db *gorm.DB //DB接続（GORM）
}

// GORM実装
func NewPasswordResetRepository(db *gorm.DB) repo.PasswordResetRepository {
	return &passwordResetGormRepository{db: db}
}

// 再設定トークンを保存
func (r *passwordResetGormRepository) Create(ctx context.Context, token *model.PasswordResetToken) error {
	return translate(r.db.WithContext(ctx).Create(token).Error)
}

// token_hashで1件検索します。
func (r *passwordResetGormRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*model.PasswordResetToken, error) {
	var token model.PasswordResetToken

	err := r.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		First(&token).Error
	if err != nil {
		return nil, translate(err)
	}

	return &token, nil
}

// used_at をセットして「使用済み」にします。
func (r *passwordResetGormRepository) MarkUsed(ctx context.Context, tokenID string, usedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.PasswordResetToken{}).
		Where("id = ? AND used_at IS NULL", tokenID).
		Update("used_at", usedAt)

	if result.Error != nil {
		return result.Error
	}

	// 更新件数が0なら「すでに使用済み/存在しない」
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}

	return nil
}
