package repository

import (
	"context"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/domain/model"
)

// 保存・取得を約束。見つからなければErrNotFound
type UserRepository interface {
	//新規ユーザー作成（emailの重複はErrDuplicate）
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	//パスワード変更。token_versionも+1する
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	//トークンのバージョンを＋１
	IncrementTokenVersion(ctx context.Context, userID int64) error
}
