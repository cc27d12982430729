package entity

import (
	"github.com/yours-lab/backend/pkg/enum"
)

type AuthProvider string

var (
	AuthProviderGoogle = enum.New(AuthProvider("google"))
	AuthProviderKakao  = enum.New(AuthProvider("kakao"))
)

type UserRole string

var (
	RoleUser  = enum.New(UserRole("user"))
	RoleAdmin = enum.New(UserRole("admin"))
)

type User struct {
	Base

	Name         string `gorm:"index"`
	Email        string
	Phone        string
	SnsID        string       `gorm:"uniqueIndex"`
	Provider     AuthProvider `gorm:"type:varchar(16)"`
	ProfileImage string
	Role         UserRole `gorm:"type:varchar(16);default:user"`
	IsMarketing  bool
}

type UserWallet struct {
	Base

	UserID string `gorm:"uniqueIndex:idx_user_wallet_chain"`
	User   User   `gorm:"foreignKey:UserID"`

	ChainType ChainType `gorm:"type:varchar(16);uniqueIndex:idx_user_wallet_chain"`
	Address   string
}
