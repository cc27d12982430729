package model

type SearchRequest struct {
	Keyword string `json:"keyword"`
	Offset  int    `json:"offset"`
	Limit   int    `json:"limit"`
}

type SearchResponse struct {
	Nfts  []Nft  `json:"nfts"`
	Users []User `json:"users"`
}

type SendSmsCodeRequest struct {
	Phone string `json:"phone"`
}

type SendSmsCodeResponse struct {
}

type VerifySmsCodeRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

type VerifySmsCodeResponse struct {
	Verified bool `json:"verified"`
}

type UploadFileRequest struct {
}

type UploadFileResponse struct {
	Url      string `json:"url"`
	FileName string `json:"fileName"`
}
