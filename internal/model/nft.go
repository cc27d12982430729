package model

type CreateNftRequest struct {
	Name        string `json:"name"`
	Image       string `json:"image"`
	Description string `json:"description"`
	AuthType    string `json:"authType"`
	Options     string `json:"options"`
	ChainType   string `json:"chainType"`
}

type CreateNftResponse struct {
	Nft Nft `json:"nft"`
}

type GetNftsRequest struct {
	Type string `json:"type"`
}

type GetNftsResponse struct {
	Nfts      []Nft      `json:"nfts,omitempty"`
	OwnedNfts []OwnedNft `json:"ownedNfts,omitempty"`
}

type GetNftDetailRequest struct {
	ID int64 `json:"id"`
}

type GetNftDetailResponse struct {
	Nft      Nft       `json:"nft"`
	Benefits []Benefit `json:"benefits"`
}

type GetNftOwnersRequest struct {
	ID int64 `json:"id"`
}

type GetNftOwnersResponse struct {
	Owners []User `json:"owners"`
}

type PublishNftRequest struct {
	NftID int64 `json:"nftId"`
}

type PublishNftResponse struct {
	Nft Nft `json:"nft"`
}

type UpdateBenefitURIRequest struct {
	NftID int64 `json:"nftId"`
}

type UpdateBenefitURIResponse struct {
	Nft Nft `json:"nft"`
}

type CreateBenefitRequest struct {
	NftID       int64  `json:"nftId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Option      string `json:"option"`
}

type CreateBenefitResponse struct {
	Benefit Benefit `json:"benefit"`
}

type UpdateBenefitRequest struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Option      string `json:"option"`
}

type UpdateBenefitResponse struct {
	Benefit Benefit `json:"benefit"`
}

type DeleteBenefitRequest struct {
	ID int64 `json:"id"`
}

type DeleteBenefitResponse struct {
}

type GetBenefitDetailRequest struct {
	RewardID int64 `json:"rewardId"`
}

type GetBenefitDetailResponse struct {
	Benefit Benefit `json:"benefit"`
}

type SendAuthMailRequest struct {
	NftID int64  `json:"nftId"`
	Email string `json:"email"`
}

type SendAuthMailResponse struct {
	Payload string `json:"payload"`
}

type VerifyMailRequest struct {
	Payload string `json:"payload"`
	Code    string `json:"code"`
}

type VerifyMailResponse struct {
	MintID int64  `json:"mintId"`
	TxHash string `json:"txHash"`
}

type RequestVerificationRequest struct {
	NftID int64  `json:"nftId"`
	Image string `json:"image"`
}

type RequestVerificationResponse struct {
	Request VerifyRequest `json:"request"`
}

type TransferNftRequest struct {
	NftID  int64  `json:"nftId"`
	MintID int64  `json:"mintId"`
	To     string `json:"to"`
}

type TransferNftResponse struct {
	TxHash string `json:"txHash"`
}

type GetIntegratedNftsRequest struct {
}

type GetIntegratedNftsResponse struct {
	IntegratedNfts []IntegratedNft `json:"integratedNfts"`
}

type GetIntegratedNftDetailRequest struct {
	ID int64 `json:"id"`
}

type GetIntegratedNftDetailResponse struct {
	IntegratedNft IntegratedNft `json:"integratedNft"`
}

type IntegratedMember struct {
	NftID  int64 `json:"nftId"`
	MintID int64 `json:"mintId"`
}

type CreateIntegratedNftRequest struct {
	ChainType string             `json:"chainType"`
	Members   []IntegratedMember `json:"members"`
}

type CreateIntegratedNftResponse struct {
	IntegratedNft IntegratedNft `json:"integratedNft"`
}

type UpdateIntegratedNftRequest struct {
	ID      int64              `json:"id"`
	Members []IntegratedMember `json:"members"`
}

type UpdateIntegratedNftResponse struct {
	IntegratedNft IntegratedNft `json:"integratedNft"`
}

type DeleteIntegratedNftRequest struct {
	ID int64 `json:"id"`
}

type DeleteIntegratedNftResponse struct {
}

type TakeExternalNftRequest struct {
	Name          string `json:"name"`
	ChainType     string `json:"chainType"`
	OriginAddress string `json:"originAddress"`
}

type TakeExternalNftResponse struct {
	Nft Nft `json:"nft"`
}

type MintExternalNftRequest struct {
	NftID         int64 `json:"nftId"`
	OriginTokenID int64 `json:"originTokenId"`
}

type MintExternalNftResponse struct {
	MintID int64  `json:"mintId"`
	TxHash string `json:"txHash"`
}
