package authenticator

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/yours-lab/backend/config"
	"golang.org/x/oauth2"
)

type OAuth2User struct {
	ID       string
	Username string
}

type IOAuth2Service interface {
	Service() string
	VerifyIDToken(ctx context.Context, rawIDToken string) (OAuth2User, error)
}

type OAuth2Service struct {
	*oidc.Provider
	oauth2.Config

	name    string
	idField string
}

func NewOAuth2Service(ctx context.Context, oauth2Cfg config.OAuth2Config) (*OAuth2Service, error) {
	provider, err := oidc.NewProvider(ctx, oauth2Cfg.Issuer)
	if err != nil {
		return nil, err
	}

	cfg := oauth2.Config{
		ClientID:     oauth2Cfg.ClientID,
		ClientSecret: oauth2Cfg.ClientSecret,
		Endpoint:     provider.Endpoint(),
	}

	return &OAuth2Service{
		name:     oauth2Cfg.Name,
		idField:  oauth2Cfg.IDField,
		Provider: provider,
		Config:   cfg,
	}, nil
}

func (a *OAuth2Service) Service() string {
	return a.name
}

// VerifyIDToken checks a raw id token against the provider and returns the
// stable social account id found in the configured claim field.
func (a *OAuth2Service) VerifyIDToken(ctx context.Context, rawIDToken string) (OAuth2User, error) {
	idToken, err := a.Verifier(&oidc.Config{ClientID: a.ClientID}).Verify(ctx, rawIDToken)
	if err != nil {
		return OAuth2User{}, err
	}

	var profile map[string]any
	if err := idToken.Claims(&profile); err != nil {
		return OAuth2User{}, errors.New("invalid id token")
	}

	id, ok := profile[a.idField].(string)
	if !ok {
		return OAuth2User{}, fmt.Errorf("not found field %s in id token", a.idField)
	}

	username, _ := profile["name"].(string)
	return OAuth2User{
		ID:       fmt.Sprintf("%s_%s", a.name, id),
		Username: username,
	}, nil
}
