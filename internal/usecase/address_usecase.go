package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/domain/model"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/repository"

	"go.uber.org/zap"
)

var ErrAddressesEmpty = NewDomainError(http.StatusNotFound, "Addresses Not Found")

type AddressDTO struct {
	ID          int64             `json:"id"`
	UserID      int64             `json:"user_id"`
	Address     string            `json:"address"`
	Landmark    string            `json:"landmark"`
	City        string            `json:"city"`
	State       string            `json:"state"`
	Pincode     int64             `json:"pincode"`
	AddressType model.AddressType `json:"address_type"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   *string           `json:"updated_at,omitempty"`
}

// 追加・更新共通
type AddressRequest struct {
	Address     string
	Landmark    string
	City        string
	State       string
	Pincode     int64
	AddressType string
}

type AddressUsecase struct {
	addresses repository.AddressRepository
	log       *zap.Logger
}

func NewAddressUsecase(addresses repository.AddressRepository, log *zap.Logger) *AddressUsecase {
	return &AddressUsecase{addresses: addresses, log: log}
}

// 1件も無ければ404
func (u *AddressUsecase) List(ctx context.Context, userID int64) ([]AddressDTO, error) {
	list, err := u.addresses.ListByUserID(ctx, userID)
	if err != nil {
		return nil, dbError(u.log, "list addresses", err)
	}
	if len(list) == 0 {
		return nil, ErrAddressesEmpty
	}

	out := make([]AddressDTO, 0, len(list))
	for i := range list {
		out = append(out, toAddressDTO(&list[i]))
	}
	return out, nil
}

func (u *AddressUsecase) Create(ctx context.Context, userID int64, req AddressRequest) (AddressDTO, error) {
	//typeはhome/work/otherか空
	t, err := model.ParseAddressType(req.AddressType)
	if err != nil {
		u.log.Warn("invalid address type", zap.Int64("user_id", userID), zap.String("address_type", req.AddressType))
		return AddressDTO{}, ErrInvalidAddressType
	}

	created, err := u.addresses.Create(ctx, model.Address{
		UserID:      userID,
		Address:     req.Address,
		Landmark:    req.Landmark,
		City:        req.City,
		State:       req.State,
		Pincode:     req.Pincode,
		AddressType: t,
	})
	if err != nil {
		return AddressDTO{}, dbError(u.log, "create address", err)
	}

	u.log.Info("address added", zap.Int64("user_id", userID), zap.Int64("address_id", created.ID))
	return toAddressDTO(&created), nil
}

func (u *AddressUsecase) Update(ctx context.Context, userID int64, addressID int64, req AddressRequest) error {
	//所有チェック（本人のみ）。他人のものは存在しない扱い
	current, err := u.addresses.FindByIDAndUser(ctx, addressID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAddressUpdateMissing
		}
		return dbError(u.log, "find address", err)
	}

	t, err := model.ParseAddressType(req.AddressType)
	if err != nil {
		return ErrInvalidAddressType
	}

	current.Address = req.Address
	current.Landmark = req.Landmark
	current.City = req.City
	current.State = req.State
	current.Pincode = req.Pincode
	current.AddressType = t

	if err := u.addresses.Update(ctx, current); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAddressUpdateMissing
		}
		return dbError(u.log, "update address", err)
	}

	u.log.Info("address updated", zap.Int64("user_id", userID), zap.Int64("address_id", addressID))
	return nil
}

func (u *AddressUsecase) Delete(ctx context.Context, userID int64, addressID int64) error {
	if err := u.addresses.Delete(ctx, addressID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAddressNotFound
		}
		return dbError(u.log, "delete address", err)
	}

	u.log.Info("address deleted", zap.Int64("user_id", userID), zap.Int64("address_id", addressID))
	return nil
}

func toAddressDTO(a *model.Address) AddressDTO {
	dto := AddressDTO{
		ID:          a.ID,
		UserID:      a.UserID,
		Address:     a.Address,
		Landmark:    a.Landmark,
		City:        a.City,
		State:       a.State,
		Pincode:     a.Pincode,
		AddressType: a.AddressType,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
	}
	if !a.UpdatedAt.IsZero() {
		t := a.UpdatedAt.Format(time.RFC3339)
		dto.UpdatedAt = &t
	}
	return dto
}
