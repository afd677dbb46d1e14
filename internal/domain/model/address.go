package model

import (
	"errors"
	"strings"
	"time"
)

type AddressType string

const (
	AddressTypeNone  AddressType = ""
	AddressTypeHome  AddressType = "home"
	AddressTypeWork  AddressType = "work"
	AddressTypeOther AddressType = "other"
)

var ErrInvalidAddressType = errors.New("invalid address type")

// 大文字小文字は区別しない
func ParseAddressType(s string) (AddressType, error) {
	switch t := AddressType(strings.ToLower(strings.TrimSpace(s))); t {
	case AddressTypeNone, AddressTypeHome, AddressTypeWork, AddressTypeOther:
		return t, nil
	default:
		return "", ErrInvalidAddressType
	}
}

// 配送先住所
type Address struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64       `gorm:"not null;index" json:"user_id"`
	Address     string      `gorm:"type:varchar(150);not null" json:"address"`
	Landmark    string      `gorm:"type:varchar(50);not null" json:"landmark"`
	City        string      `gorm:"type:varchar(50);not null" json:"city"`
	State       string      `gorm:"type:varchar(50);not null" json:"state"`
	Pincode     int64       `gorm:"not null" json:"pincode"`
	AddressType AddressType `gorm:"type:varchar(10);not null;default:''" json:"address_type"`
	CreatedAt   time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
