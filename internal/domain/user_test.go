package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yours-lab/backend/internal/model"
	"github.com/yours-lab/backend/internal/repository"
	"github.com/yours-lab/backend/pkg/errorx"
	"github.com/yours-lab/backend/pkg/testutil"
	"github.com/yours-lab/backend/pkg/xcontext"
)

func newUserDomain() UserDomain {
	return NewUserDomain(
		repository.NewUserRepository(),
		repository.NewUserWalletRepository(),
		repository.NewPointRepository(),
	)
}

func Test_userDomain_UpdateProfile(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	domain := newUserDomain()
	marketing := true
	resp, err := domain.UpdateProfile(ctx, &model.UpdateProfileRequest{
		Name:        "renamed",
		Phone:       "01099998888",
		IsMarketing: &marketing,
	})
	require.NoError(t, err)
	require.Equal(t, "renamed", resp.User.Name)
	require.Equal(t, "01099998888", resp.User.Phone)
	require.True(t, resp.User.IsMarketing)
}

func Test_userDomain_RegisterWallet(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	domain := newUserDomain()
	_, err := domain.RegisterWallet(ctx, &model.RegisterWalletRequest{
		ChainType: "polygon",
		Address:   "0x3333333333333333333333333333333333333333",
	})
	require.NoError(t, err)

	// Registering the same chain again replaces the address.
	_, err = domain.RegisterWallet(ctx, &model.RegisterWalletRequest{
		ChainType: "polygon",
		Address:   "0x4444444444444444444444444444444444444444",
	})
	require.NoError(t, err)

	resp, err := domain.GetWallets(ctx, &model.GetWalletsRequest{})
	require.NoError(t, err)

	addresses := map[string]string{}
	for _, wallet := range resp.Wallets {
		addresses[wallet.ChainType] = wallet.Address
	}
	require.Equal(t, "0x4444444444444444444444444444444444444444", addresses["polygon"])
	require.Equal(t, testutil.Wallet1.Address, addresses["ethereum"])
}

func Test_userDomain_RegisterWallet_unknownChain(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	domain := newUserDomain()
	_, err := domain.RegisterWallet(ctx, &model.RegisterWalletRequest{
		ChainType: "dogechain",
		Address:   "0x3333333333333333333333333333333333333333",
	})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}

func Test_userDomain_ChargeYrp(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	domain := newUserDomain()
	resp, err := domain.ChargeYrp(ctx, &model.ChargeYrpRequest{
		Amount:       30,
		TxHash:       "0xcharge",
		StableAmount: 30,
	})
	require.NoError(t, err)
	require.Equal(t, float64(30), resp.Balance)

	resp, err = domain.ChargeYrp(ctx, &model.ChargeYrpRequest{Amount: 12})
	require.NoError(t, err)
	require.Equal(t, float64(42), resp.Balance)

	_, err = domain.ChargeYrp(ctx, &model.ChargeYrpRequest{Amount: -1})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}

func Test_userDomain_GetYrpLedger(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	domain := newUserDomain()
	_, err := domain.ChargeYrp(ctx, &model.ChargeYrpRequest{Amount: 30})
	require.NoError(t, err)
	_, err = domain.ChargeYrp(ctx, &model.ChargeYrpRequest{Amount: 12})
	require.NoError(t, err)

	resp, err := domain.GetYrpLedger(ctx, &model.GetYrpLedgerRequest{})
	require.NoError(t, err)
	require.Equal(t, float64(42), resp.Balance)
	require.Len(t, resp.Records, 2)

	// The ledger of another user stays empty.
	other := xcontext.WithRequestUserID(ctx, testutil.User2.ID)
	otherResp, err := domain.GetYrpLedger(other, &model.GetYrpLedgerRequest{})
	require.NoError(t, err)
	require.Equal(t, float64(0), otherResp.Balance)
	require.Empty(t, otherResp.Records)
}
