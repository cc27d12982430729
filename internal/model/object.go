package model

// Shared API objects returned by several endpoints.

type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	ProfileImage string `json:"profileImage"`
	IsMarketing  bool   `json:"isMarketing"`
}

type Wallet struct {
	ChainType string `json:"chainType"`
	Address   string `json:"address"`
}

type Nft struct {
	ID              int64  `json:"id"`
	OwnerID         string `json:"ownerId"`
	Name            string `json:"name"`
	Image           string `json:"image"`
	Description     string `json:"description"`
	AuthType        string `json:"authType"`
	Options         string `json:"options,omitempty"`
	ChainType       string `json:"chainType"`
	NftAddress      string `json:"nftAddress,omitempty"`
	IsDeployed      bool   `json:"isDeployed"`
	IsEdited        bool   `json:"isEdited"`
	IsLoading       bool   `json:"isLoading"`
	IsExternal      bool   `json:"isExternal"`
	OriginAddress   string `json:"originAddress,omitempty"`
	TransactionDate string `json:"transactionDate,omitempty"`
}

type OwnedNft struct {
	Nft
	MintID   int64 `json:"mintId"`
	IsLocked bool  `json:"isLocked"`
}

type Benefit struct {
	ID          int64  `json:"id"`
	NftID       int64  `json:"nftId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Option      string `json:"option"`
}

type IntegratedNft struct {
	ID        int64      `json:"id"`
	CreatorID string     `json:"creatorId"`
	ChainType string     `json:"chainType"`
	TokenID   int64      `json:"tokenId"`
	Members   []OwnedNft `json:"members,omitempty"`
}

type MarketOrder struct {
	ID         int64   `json:"id"`
	NftID      int64   `json:"nftId"`
	NftAddress string  `json:"nftAddress"`
	MintID     int64   `json:"mintId"`
	SellerID   string  `json:"sellerId"`
	BuyerID    string  `json:"buyerId,omitempty"`
	Price      float64 `json:"price"`
	IsLoading  bool    `json:"isLoading"`
	LikeCount  int64   `json:"likeCount"`
	Liked      bool    `json:"liked"`
	Status     string  `json:"status"`
	Nft        *Nft    `json:"nft,omitempty"`
}

type PointRecord struct {
	ID          int64   `json:"id"`
	YrpAmount   float64 `json:"yrpAmount"`
	Type        string  `json:"type"`
	IsCompleted bool    `json:"isCompleted"`
	TxHash      string  `json:"txHash,omitempty"`
	CreatedAt   string  `json:"createdAt"`
}

type VerifyRequest struct {
	ID           int64  `json:"id"`
	UserID       string `json:"userId"`
	NftID        int64  `json:"nftId"`
	Image        string `json:"image"`
	RejectReason string `json:"rejectReason,omitempty"`
	User         *User  `json:"user,omitempty"`
}
