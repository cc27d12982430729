package model

type GetMarketOrdersRequest struct {
	Type   string `json:"type"`
	Sort   string `json:"sort"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

type GetMarketOrdersResponse struct {
	Orders []MarketOrder `json:"orders"`
}

type GetMarketOrderDetailRequest struct {
	OrderID int64 `json:"orderId"`
}

type GetMarketOrderDetailResponse struct {
	Order    MarketOrder `json:"order"`
	Benefits []Benefit   `json:"benefits"`
}

type GetOtherOrdersRequest struct {
	OrderID int64 `json:"orderId"`
}

type GetOtherOrdersResponse struct {
	Orders []MarketOrder `json:"orders"`
}

type SellNftRequest struct {
	NftID  int64   `json:"nftId"`
	MintID int64   `json:"mintId"`
	Price  float64 `json:"price"`
}

type SellNftResponse struct {
	Order MarketOrder `json:"order"`
}

type BuyNftRequest struct {
	OrderID int64   `json:"orderId"`
	Price   float64 `json:"price"`
}

type BuyNftResponse struct {
	Order MarketOrder `json:"order"`
}

type LikeOrderRequest struct {
	OrderID int64 `json:"orderId"`
}

type LikeOrderResponse struct {
	LikeCount int64 `json:"likeCount"`
}

type UnlikeOrderRequest struct {
	OrderID int64 `json:"orderId"`
}

type UnlikeOrderResponse struct {
	LikeCount int64 `json:"likeCount"`
}
