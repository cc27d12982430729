package entity

import (
	"database/sql"

	"github.com/yours-lab/backend/pkg/enum"
)

type ChainType string

var (
	ChainEthereum = enum.New(ChainType("ethereum"))
	ChainPolygon  = enum.New(ChainType("polygon"))
	ChainKlaytn   = enum.New(ChainType("klaytn"))
	ChainAurora   = enum.New(ChainType("aurora"))
	ChainOasys    = enum.New(ChainType("oasys"))
	ChainXpla     = enum.New(ChainType("xpla"))
	ChainAptos    = enum.New(ChainType("aptos"))
)

// AuthType says how a holder proves eligibility before minting.
type AuthType string

var (
	AuthTypeMail  = enum.New(AuthType("mail"))
	AuthTypePhoto = enum.New(AuthType("photo"))
	AuthTypeNone  = enum.New(AuthType("none"))
)

type NonFungibleToken struct {
	SnowFlakeBase

	OwnerID string `gorm:"index"`
	Owner   User   `gorm:"foreignKey:OwnerID"`

	Name        string `gorm:"index"`
	Image       string
	Description string
	AuthType    AuthType `gorm:"type:varchar(16)"`

	// Options holds the photo-verification guideline text shown to
	// claimants when AuthType is photo.
	Options string

	ChainType  ChainType `gorm:"type:varchar(16)"`
	NftAddress string    `gorm:"index"`
	IsDeployed bool
	IsEdited   bool

	// IsLoading marks an in-flight chain call. It is only flipped by
	// compare-and-swap updates, never by read-then-write.
	IsLoading bool

	// OriginAddress points at the external collection this token
	// wraps; empty for native tokens.
	OriginAddress string
	IsExternal    bool

	TransactionDate sql.NullTime
}

// Benefit is a published holder reward, snapshotted from drafts when
// the token (re)deploys.
type Benefit struct {
	SnowFlakeBase

	NftID int64            `gorm:"index"`
	Nft   NonFungibleToken `gorm:"foreignKey:NftID"`

	Name        string
	Description string
	Category    string
	Option      string
}

// BenefitDraft is the creator-editable working copy of a benefit.
type BenefitDraft struct {
	SnowFlakeBase

	NftID int64            `gorm:"index"`
	Nft   NonFungibleToken `gorm:"foreignKey:NftID"`

	Name        string
	Description string
	Category    string
	Option      string
}

type OwnedNft struct {
	SnowFlakeBase

	UserID string `gorm:"uniqueIndex:idx_owned_nft"`
	User   User   `gorm:"foreignKey:UserID"`

	NftID int64            `gorm:"uniqueIndex:idx_owned_nft"`
	Nft   NonFungibleToken `gorm:"foreignKey:NftID"`

	MintID int64 `gorm:"uniqueIndex:idx_owned_nft"`

	// IsLocked is set while the token belongs to an integrated bundle
	// or is mid-transfer.
	IsLocked bool
}
