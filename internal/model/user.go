package model

type GetProfileRequest struct {
}

type GetProfileResponse struct {
	User User `json:"user"`
}

type UpdateProfileRequest struct {
	Name         string `json:"name"`
	ProfileImage string `json:"profileImage"`
	Phone        string `json:"phone"`
	IsMarketing  *bool  `json:"isMarketing"`
}

type UpdateProfileResponse struct {
	User User `json:"user"`
}

type GetWalletsRequest struct {
}

type GetWalletsResponse struct {
	Wallets []Wallet `json:"wallets"`
}

type RegisterWalletRequest struct {
	ChainType string `json:"chainType"`
	Address   string `json:"address"`
}

type RegisterWalletResponse struct {
}

type ChargeYrpRequest struct {
	Amount        float64 `json:"amount"`
	TxHash        string  `json:"txHash"`
	WalletAddress string  `json:"walletAddress"`
	StableAmount  float64 `json:"stableAmount"`
}

type ChargeYrpResponse struct {
	Balance float64 `json:"balance"`
}

type GetYrpLedgerRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetYrpLedgerResponse struct {
	Balance float64       `json:"balance"`
	Records []PointRecord `json:"records"`
}

type GetYrpDetailRequest struct {
	ID int64 `json:"id"`
}

type GetYrpDetailResponse struct {
	Record PointRecord `json:"record"`
}
