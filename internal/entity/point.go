package entity

import (
	"github.com/yours-lab/backend/pkg/enum"
)

type PointType string

var (
	PointBuy    = enum.New(PointType("buy"))
	PointSell   = enum.New(PointType("sell"))
	PointInput  = enum.New(PointType("input"))
	PointOutput = enum.New(PointType("output"))
)

// PointRecord is one signed movement of YRP. The balance of a user is
// the sum of their completed records, never a stored column.
type PointRecord struct {
	SnowFlakeBase

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	YrpAmount   float64
	Type        PointType `gorm:"type:varchar(16)"`
	IsCompleted bool

	TxHash        string
	WalletAddress string
	StableAmount  float64
}
