package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yours-lab/backend/internal/model"
	"github.com/yours-lab/backend/internal/repository"
	"github.com/yours-lab/backend/pkg/authenticator"
	"github.com/yours-lab/backend/pkg/errorx"
	"github.com/yours-lab/backend/pkg/testutil"
	"github.com/yours-lab/backend/pkg/xcontext"
)

type mockOAuth2Service struct {
	name  string
	users map[string]authenticator.OAuth2User
}

func (m *mockOAuth2Service) Service() string {
	return m.name
}

func (m *mockOAuth2Service) VerifyIDToken(
	ctx context.Context, rawIDToken string,
) (authenticator.OAuth2User, error) {
	user, ok := m.users[rawIDToken]
	if !ok {
		return authenticator.OAuth2User{}, errors.New("invalid id token")
	}

	return user, nil
}

func newAuthTestDomain() AuthDomain {
	google := &mockOAuth2Service{
		name: "google",
		users: map[string]authenticator.OAuth2User{
			"token-user1":    {ID: "sns-user1", Username: "creator"},
			"token-newcomer": {ID: "sns-newcomer", Username: "newcomer"},
		},
	}

	return NewAuthDomain(repository.NewUserRepository(), []authenticator.IOAuth2Service{google})
}

func Test_authDomain_Login(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	domain := newAuthTestDomain()
	resp, err := domain.Login(ctx, &model.LoginRequest{
		Provider: "google",
		IDToken:  "token-user1",
	})
	require.NoError(t, err)
	require.False(t, resp.IsNew)
	require.Equal(t, testutil.User1.ID, resp.User.ID)
	require.NotEmpty(t, resp.AccessToken)

	// The token authenticates later requests.
	var token model.AccessToken
	err = xcontext.TokenEngine(ctx).Verify(resp.AccessToken, &token)
	require.NoError(t, err)
	require.Equal(t, testutil.User1.ID, token.ID)
}

func Test_authDomain_Login_newUser(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	domain := newAuthTestDomain()
	resp, err := domain.Login(ctx, &model.LoginRequest{
		Provider:    "google",
		IDToken:     "token-newcomer",
		Email:       "newcomer@example.com",
		IsMarketing: true,
	})
	require.NoError(t, err)
	require.True(t, resp.IsNew)
	require.Equal(t, "newcomer", resp.User.Name)

	// A second login finds the created account.
	resp, err = domain.Login(ctx, &model.LoginRequest{
		Provider: "google",
		IDToken:  "token-newcomer",
	})
	require.NoError(t, err)
	require.False(t, resp.IsNew)
}

func Test_authDomain_Login_badToken(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	domain := newAuthTestDomain()
	_, err := domain.Login(ctx, &model.LoginRequest{
		Provider: "google",
		IDToken:  "forged",
	})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unauthenticated, errx.Code)
}

func Test_authDomain_Login_unsupportedProvider(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	domain := newAuthTestDomain()
	_, err := domain.Login(ctx, &model.LoginRequest{
		Provider: "myspace",
		IDToken:  "token-user1",
	})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}

func Test_authDomain_VerifyToken(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	domain := newAuthTestDomain()
	resp, err := domain.VerifyToken(ctx, &model.VerifyTokenRequest{})
	require.NoError(t, err)
	require.Equal(t, testutil.User1.ID, resp.User.ID)
}
