package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/domain/model"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/repository"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/usecase"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// 会員登録の入力（形式チェックはvalidator済み）
type RegisterUserInput struct {
	FirstName   string
	LastName    string
	PhoneNumber string
	Email       string
	Password    string
	Role        string
}

var (
	ErrEmailAlreadyExists = usecase.NewDomainError(http.StatusUnauthorized, "The email has already been taken")
	ErrInvalidRole        = usecase.NewDomainError(http.StatusNotAcceptable, "Invalid Role Input")
)

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// RegisterUserUsecaseは会員登録の処理。
type RegisterUserUsecase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	log      *zap.Logger
}

// DI
func NewRegisterUserUsecase(userRepo repository.UserRepository, hasher PasswordHasher, log *zap.Logger) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		userRepo: userRepo,
		hasher:   hasher,
		log:      log,
	}
}

// 会員登録実行
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (model.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	// email重複チェック
	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		u.log.Info("email already taken", zap.String("email", email))
		return model.User{}, ErrEmailAlreadyExists
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		u.log.Error("find user by email failed", zap.Error(err))
		return model.User{}, usecase.ErrInternal
	}

	// roleはuser/adminだけ（空はuser）
	role, err := model.ParseRole(in.Role)
	if err != nil {
		u.log.Warn("invalid role input", zap.String("role", in.Role))
		return model.User{}, ErrInvalidRole
	}

	// パスワードをハッシュ化
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		u.log.Error("hash password failed", zap.Error(err))
		return model.User{}, usecase.ErrInternal
	}

	user := &model.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
		Email:        email,
		PasswordHash: hashed, // ハッシュを保存（平文は保存しない）
		Role:         role,
	}

	// DBへ保存
	if err := u.userRepo.Create(ctx, user); err != nil {
		//同時登録
		if errors.Is(err, repository.ErrDuplicate) {
			return model.User{}, ErrEmailAlreadyExists
		}
		u.log.Error("create user failed", zap.Error(err))
		return model.User{}, usecase.ErrInternal
	}

	u.log.Info("user registered", zap.Int64("user_id", user.ID), zap.String("role", string(role)))
	return *user, nil
}

// bcryptハッシュ化
type BcryptPasswordHasher struct {
	cost int
}

// DI
func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost}
}

// bcryptでハッシュ化
func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}

	return string(hashedBytes), nil
}

// bcryptハッシュと平文を比較
type BcryptPasswordVerifier struct{}

// DI
func NewBcryptPasswordVerifier() *BcryptPasswordVerifier {
	return &BcryptPasswordVerifier{}
}

// 平文(plain)をbcryptで比較
func (v *BcryptPasswordVerifier) Verify(plain string, hashed string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	return err == nil
}
