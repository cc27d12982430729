package model

// AccessToken is the object embedded in the JWT.
type AccessToken struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type LoginRequest struct {
	Provider    string `json:"provider"`
	IDToken     string `json:"idToken"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	IsMarketing bool   `json:"isMarketing"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
	IsNew       bool   `json:"isNew"`
}

type VerifyTokenRequest struct {
}

type VerifyTokenResponse struct {
	User User `json:"user"`
}
