package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha1"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/domain/model"
	repo "github.com/ArafathvBaig/Book-Store-App-Backend/internal/repository"
)

// 既存コードと被ったときの作り直し回数
const maxOrderCodeAttempts = 5

// 時刻+乱数のsha1を36進数にして先頭9文字
func NewOrderCode() (string, error) {
	var seed [8]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return "", err
	}

	h := sha1.New()
	fmt.Fprintf(h, "%d", time.Now().UnixNano())
	h.Write(seed[:])

	s := new(big.Int).SetBytes(h.Sum(nil)).Text(36)
	if len(s) < model.OrderCodeLength {
		s = strings.Repeat("0", model.OrderCodeLength-len(s)) + s
	}
	return s[:model.OrderCodeLength], nil
}

// まだ使われていないコードを返す。最後の砦はorder_codeのunique index
func uniqueOrderCode(ctx context.Context, orders repo.OrderRepository, gen func() (string, error)) (string, error) {
	for i := 0; i < maxOrderCodeAttempts; i++ {
		code, err := gen()
		if err != nil {
			return "", err
		}
		exists, err := orders.ExistsByCode(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("order code: no free code after %d attempts", maxOrderCodeAttempts)
}
