package model

type GetVerifyRequestsRequest struct {
	NftID int64 `json:"nftId"`
}

type GetVerifyRequestsResponse struct {
	Requests []VerifyRequest `json:"requests"`
}

type ResolveVerifyRequestRequest struct {
	RequestID    int64  `json:"requestId"`
	Approved     bool   `json:"approved"`
	RejectReason string `json:"rejectReason"`
}

type ResolveVerifyRequestResponse struct {
	MintID int64  `json:"mintId,omitempty"`
	TxHash string `json:"txHash,omitempty"`
}

type GetDraftBenefitsRequest struct {
	NftID int64 `json:"nftId"`
}

type GetDraftBenefitsResponse struct {
	Benefits []Benefit `json:"benefits"`
}

type GetDraftBenefitDetailRequest struct {
	RewardID int64 `json:"rewardId"`
}

type GetDraftBenefitDetailResponse struct {
	Benefit Benefit `json:"benefit"`
}
