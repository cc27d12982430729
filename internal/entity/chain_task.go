package entity

import (
	"github.com/yours-lab/backend/pkg/enum"
)

type ChainTaskType string

var (
	TaskPurchase = enum.New(ChainTaskType("purchase"))
)

type ChainTaskStatus string

var (
	TaskPending = enum.New(ChainTaskStatus("pending"))
	TaskDone    = enum.New(ChainTaskStatus("done"))
	TaskFailed  = enum.New(ChainTaskStatus("failed"))
)

// ChainTask is an outbox row for work that must finish after an
// on-chain transaction confirms. A background poller picks pending
// tasks up again after a restart, so no confirmation is lost to a
// crash between submitting the transaction and settling it.
type ChainTask struct {
	SnowFlakeBase

	Type      ChainTaskType   `gorm:"type:varchar(16);index"`
	Status    ChainTaskStatus `gorm:"type:varchar(16);index"`
	ChainType ChainType       `gorm:"type:varchar(16)"`
	TxHash    string

	OrderID int64       `gorm:"index"`
	Order   MarketOrder `gorm:"foreignKey:OrderID"`

	BuyerID string

	RetryCount int
	LastError  string
}
