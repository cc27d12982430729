package entity

import (
	"database/sql"

	"github.com/yours-lab/backend/pkg/enum"
)

type OrderStatus string

var (
	OrderPending = enum.New(OrderStatus("pending"))
	OrderSuccess = enum.New(OrderStatus("success"))
	OrderFailure = enum.New(OrderStatus("failure"))
)

// MarketOrder is a sell listing on the marketplace dashboard.
type MarketOrder struct {
	SnowFlakeBase

	NftID int64            `gorm:"index"`
	Nft   NonFungibleToken `gorm:"foreignKey:NftID"`

	NftAddress string `gorm:"index"`
	MintID     int64

	SellerID string `gorm:"index"`
	Seller   User   `gorm:"foreignKey:SellerID"`

	BuyerID sql.NullString `gorm:"index"`

	Price float64

	// IsLoading marks an in-flight purchase. Flipped only by
	// compare-and-swap updates.
	IsLoading bool

	LikeCount int64
	TxHash    string
	Status    OrderStatus `gorm:"type:varchar(16);default:pending"`
}

type LikedOrder struct {
	SnowFlakeBase

	UserID string `gorm:"uniqueIndex:idx_liked_order"`
	User   User   `gorm:"foreignKey:UserID"`

	OrderID int64       `gorm:"uniqueIndex:idx_liked_order"`
	Order   MarketOrder `gorm:"foreignKey:OrderID"`
}
