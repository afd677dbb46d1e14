package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
)

var ErrMalformedToken = errors.New("malformed access token")

// アクセストークンのclaims。subはユーザーIDの文字列、tvはtoken_version
type AccessClaims struct {
	Role         string `json:"role"`
	TokenVersion int    `json:"tv"`
	jwt.RegisteredClaims
}

func (c AccessClaims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// HS256で署名する
type JWTIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func NewJWTIssuer(secret string, accessTTL time.Duration) *JWTIssuer {
	return &JWTIssuer{
		secret:    []byte(secret),
		accessTTL: accessTTL,
	}
}

func (i *JWTIssuer) Issue(userID int64, role model.Role, tokenVersion int, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := AccessClaims{
		Role:         string(role),
		TokenVersion: tokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// 署名・アルゴリズム・期限と中身をまとめて確認する
func ParseAccessToken(secret []byte, raw string) (AccessClaims, error) {
	var claims AccessClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return AccessClaims{}, err
	}

	//expの無いトークンは受け付けない
	if claims.ExpiresAt == nil || claims.Role == "" || claims.TokenVersion < 0 {
		return AccessClaims{}, ErrMalformedToken
	}
	if id, err := claims.UserID(); err != nil || id <= 0 {
		return AccessClaims{}, ErrMalformedToken
	}
	return claims, nil
}
