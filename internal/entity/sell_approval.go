package entity

// SellApproval records that the marketplace contract has been approved
// as an operator of a collection, so approval runs once per contract.
type SellApproval struct {
	SnowFlakeBase

	ChainType  ChainType `gorm:"type:varchar(16);uniqueIndex:idx_sell_approval"`
	NftAddress string    `gorm:"uniqueIndex:idx_sell_approval"`
}
