package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/domain/model"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/repository"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/usecase"

	"go.uber.org/zap"
)

const forgotPasswordSubject = "Forgot Password"

// パスワード再設定。トークンは平文をメールで渡し、DBにはsha256だけ保存する
type PasswordResetUsecase struct {
	userRepo  repository.UserRepository
	resetRepo repository.PasswordResetRepository
	hasher    PasswordHasher
	mailer    usecase.Mailer
	idGen     IDGenerator
	clock     Clock
	tokenTTL  time.Duration
	log       *zap.Logger
}

func NewPasswordResetUsecase(
	userRepo repository.UserRepository,
	resetRepo repository.PasswordResetRepository,
	hasher PasswordHasher,
	mailer usecase.Mailer,
	idGen IDGenerator,
	clock Clock,
	tokenTTL time.Duration,
	log *zap.Logger,
) *PasswordResetUsecase {
	return &PasswordResetUsecase{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		hasher:    hasher,
		mailer:    mailer,
		idGen:     idGen,
		clock:     clock,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// 再設定トークンを発行してメールする
func (u *PasswordResetUsecase) Forgot(ctx context.Context, email string) error {
	user, err := u.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotRegistered
		}
		u.log.Error("find user by email failed", zap.Error(err))
		return usecase.ErrInternal
	}

	plain, err := generateSecureToken(32)
	if err != nil {
		u.log.Error("generate reset token failed", zap.Error(err))
		return usecase.ErrInternal
	}

	now := u.clock.Now()
	if err := u.resetRepo.Create(ctx, &model.PasswordResetToken{
		ID:        u.idGen.NewID(),
		UserID:    user.ID,
		TokenHash: hashToken(plain),
		ExpiresAt: now.Add(u.tokenTTL),
	}); err != nil {
		u.log.Error("save reset token failed", zap.Int64("user_id", user.ID), zap.Error(err))
		return usecase.ErrInternal
	}

	fullName := user.FirstName + " " + user.LastName
	if err := u.mailer.Send(ctx, usecase.Mail{
		To:      user.Email,
		ToName:  fullName,
		Subject: forgotPasswordSubject,
		HTML:    fmt.Sprintf("Hi, %s<br>Your Password Reset Token:<br>%s", fullName, plain),
	}); err != nil {
		u.log.Error("send reset mail failed", zap.Int64("user_id", user.ID), zap.Error(err))
		return usecase.ErrInternal
	}

	u.log.Info("reset token sent", zap.Int64("user_id", user.ID))
	return nil
}

// トークンは1回だけ。パスワード変更でtoken_versionも上がる
func (u *PasswordResetUsecase) Reset(ctx context.Context, token string, newPassword string) error {
	rt, err := u.resetRepo.FindByTokenHash(ctx, hashToken(strings.TrimSpace(token)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return usecase.ErrInvalidToken
		}
		u.log.Error("find reset token failed", zap.Error(err))
		return usecase.ErrInternal
	}

	now := u.clock.Now()
	if rt.UsedAt != nil || !now.Before(rt.ExpiresAt) {
		u.log.Warn("reset token expired or used", zap.String("token_id", rt.ID))
		return usecase.ErrInvalidToken
	}

	hashed, err := u.hasher.Hash(newPassword)
	if err != nil {
		u.log.Error("hash password failed", zap.Error(err))
		return usecase.ErrInternal
	}

	//先に使用済みにする（同時リクエストは片方だけ通る）
	if err := u.resetRepo.MarkUsed(ctx, rt.ID, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return usecase.ErrInvalidToken
		}
		u.log.Error("mark reset token used failed", zap.Error(err))
		return usecase.ErrInternal
	}

	if err := u.userRepo.UpdatePassword(ctx, rt.UserID, hashed); err != nil {
		u.log.Error("update password failed", zap.Int64("user_id", rt.UserID), zap.Error(err))
		return usecase.ErrInternal
	}

	u.log.Info("password reset", zap.Int64("user_id", rt.UserID))
	return nil
}

func hashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

func generateSecureToken(bytesLen int) (string, error) {
	if bytesLen <= 0 {
		return "", fmt.Errorf("bytesLen must be positive")
	}

	// ランダムなバイト列を作る（OSが持つ安全な乱数）
	b := make([]byte, bytesLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}
