package entity

type IntegratedNft struct {
	SnowFlakeBase

	CreatorID string `gorm:"index"`
	Creator   User   `gorm:"foreignKey:CreatorID"`

	ChainType ChainType `gorm:"type:varchar(16)"`

	// TokenID is the bundle token minted by the integration contract.
	TokenID int64
}

type IntegratedNftMember struct {
	SnowFlakeBase

	IntegratedID int64         `gorm:"uniqueIndex:idx_integrated_member"`
	Integrated   IntegratedNft `gorm:"foreignKey:IntegratedID"`

	NftID int64            `gorm:"uniqueIndex:idx_integrated_member"`
	Nft   NonFungibleToken `gorm:"foreignKey:NftID"`

	MintID int64
}
