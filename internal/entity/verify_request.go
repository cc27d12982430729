package entity

// VerifyRequest is a photo-verification claim awaiting admin review.
// Resolved requests are soft-deleted, which is what frees the user to
// submit again after a rejection.
type VerifyRequest struct {
	SnowFlakeBase

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	NftID int64            `gorm:"index"`
	Nft   NonFungibleToken `gorm:"foreignKey:NftID"`

	Image        string
	RejectReason string
}
