package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yours-lab/backend/internal/chain"
	"github.com/yours-lab/backend/internal/entity"
	"github.com/yours-lab/backend/internal/model"
	"github.com/yours-lab/backend/pkg/errorx"
	"github.com/yours-lab/backend/pkg/testutil"
	"github.com/yours-lab/backend/pkg/xcontext"
)

func Test_nftDomain_CreateIntegrated(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)

	env := newNftTestEnv()
	env.adapter.IntegrateFunc = func(ctx context.Context, to string, members []chain.IntegrateMember) (*chain.IntegrateResult, error) {
		require.Equal(t, testutil.Wallet2.Address, to)
		require.Len(t, members, 2)
		return &chain.IntegrateResult{TokenID: 55, TxHash: "0xint"}, nil
	}

	resp, err := env.domain.CreateIntegrated(ctx, &model.CreateIntegratedNftRequest{
		ChainType: "ethereum",
		Members: []model.IntegratedMember{
			{NftID: testutil.DeployedNft.ID, MintID: testutil.OwnedNft1.MintID},
			{NftID: testutil.DeployedNft.ID, MintID: testutil.OwnedNft2.MintID},
		},
	})
	require.NoError(t, err)
	require.Equal(t, int64(55), resp.IntegratedNft.TokenID)

	// The member tokens are locked while integrated.
	owned, err := env.ownedRepo.Get(ctx, testutil.User2.ID, testutil.DeployedNft.ID, testutil.OwnedNft1.MintID)
	require.NoError(t, err)
	require.True(t, owned.IsLocked)
}

func Test_nftDomain_CreateIntegrated_tooFewMembers(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)

	env := newNftTestEnv()
	_, err := env.domain.CreateIntegrated(ctx, &model.CreateIntegratedNftRequest{
		ChainType: "ethereum",
		Members: []model.IntegratedMember{
			{NftID: testutil.DeployedNft.ID, MintID: testutil.OwnedNft1.MintID},
		},
	})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.InsufficientMembers, errx.Code)
}

func Test_nftDomain_CreateIntegrated_lockedMember(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)

	env := newNftTestEnv()
	locked, err := env.ownedRepo.Lock(ctx, testutil.User2.ID, testutil.DeployedNft.ID, testutil.OwnedNft1.MintID)
	require.NoError(t, err)
	require.True(t, locked)

	_, err = env.domain.CreateIntegrated(ctx, &model.CreateIntegratedNftRequest{
		ChainType: "ethereum",
		Members: []model.IntegratedMember{
			{NftID: testutil.DeployedNft.ID, MintID: testutil.OwnedNft1.MintID},
			{NftID: testutil.DeployedNft.ID, MintID: testutil.OwnedNft2.MintID},
		},
	})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Locked, errx.Code)

	// The rejected request must not leave the other member locked.
	owned, err := env.ownedRepo.Get(ctx, testutil.User2.ID, testutil.DeployedNft.ID, testutil.OwnedNft2.MintID)
	require.NoError(t, err)
	require.False(t, owned.IsLocked)
}

func Test_nftDomain_CreateIntegrated_chainFailure(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)

	env := newNftTestEnv()
	env.adapter.IntegrateFunc = func(ctx context.Context, to string, members []chain.IntegrateMember) (*chain.IntegrateResult, error) {
		return nil, errors.New("gas estimation failed")
	}

	_, err := env.domain.CreateIntegrated(ctx, &model.CreateIntegratedNftRequest{
		ChainType: "ethereum",
		Members: []model.IntegratedMember{
			{NftID: testutil.DeployedNft.ID, MintID: testutil.OwnedNft1.MintID},
			{NftID: testutil.DeployedNft.ID, MintID: testutil.OwnedNft2.MintID},
		},
	})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unavailable, errx.Code)

	// A failed chain call releases the members it grabbed.
	for _, mintID := range []int64{testutil.OwnedNft1.MintID, testutil.OwnedNft2.MintID} {
		owned, err := env.ownedRepo.Get(ctx, testutil.User2.ID, testutil.DeployedNft.ID, mintID)
		require.NoError(t, err)
		require.False(t, owned.IsLocked)
	}
}

func Test_nftDomain_UpdateIntegrated(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)

	env := newNftTestEnv()
	env.adapter.IntegrateFunc = func(ctx context.Context, to string, members []chain.IntegrateMember) (*chain.IntegrateResult, error) {
		return &chain.IntegrateResult{TokenID: 55, TxHash: "0xint"}, nil
	}

	created, err := env.domain.CreateIntegrated(ctx, &model.CreateIntegratedNftRequest{
		ChainType: "ethereum",
		Members: []model.IntegratedMember{
			{NftID: testutil.DeployedNft.ID, MintID: testutil.OwnedNft1.MintID},
			{NftID: testutil.DeployedNft.ID, MintID: testutil.OwnedNft2.MintID},
		},
	})
	require.NoError(t, err)

	err = env.ownedRepo.Create(ctx, &entity.OwnedNft{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		UserID:        testutil.User2.ID,
		NftID:         testutil.DeployedNft.ID,
		MintID:        3,
	})
	require.NoError(t, err)

	env.adapter.UpdateIntegrateFunc = func(ctx context.Context, tokenID int64, members []chain.IntegrateMember) (*chain.TxResult, error) {
		require.Equal(t, int64(55), tokenID)
		require.Len(t, members, 2)
		return &chain.TxResult{TxHash: "0xupdate"}, nil
	}

	resp, err := env.domain.UpdateIntegrated(ctx, &model.UpdateIntegratedNftRequest{
		ID: created.IntegratedNft.ID,
		Members: []model.IntegratedMember{
			{NftID: testutil.DeployedNft.ID, MintID: testutil.OwnedNft1.MintID},
			{NftID: testutil.DeployedNft.ID, MintID: 3},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.IntegratedNft.Members, 2)

	// The dropped member is free again, the kept and incoming ones
	// stay held by the bundle.
	dropped, err := env.ownedRepo.Get(ctx, testutil.User2.ID, testutil.DeployedNft.ID, testutil.OwnedNft2.MintID)
	require.NoError(t, err)
	require.False(t, dropped.IsLocked)

	kept, err := env.ownedRepo.Get(ctx, testutil.User2.ID, testutil.DeployedNft.ID, testutil.OwnedNft1.MintID)
	require.NoError(t, err)
	require.True(t, kept.IsLocked)

	added, err := env.ownedRepo.Get(ctx, testutil.User2.ID, testutil.DeployedNft.ID, 3)
	require.NoError(t, err)
	require.True(t, added.IsLocked)
}

func Test_nftDomain_UpdateIntegrated_chainFailure(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)

	env := newNftTestEnv()
	env.adapter.IntegrateFunc = func(ctx context.Context, to string, members []chain.IntegrateMember) (*chain.IntegrateResult, error) {
		return &chain.IntegrateResult{TokenID: 55, TxHash: "0xint"}, nil
	}

	created, err := env.domain.CreateIntegrated(ctx, &model.CreateIntegratedNftRequest{
		ChainType: "ethereum",
		Members: []model.IntegratedMember{
			{NftID: testutil.DeployedNft.ID, MintID: testutil.OwnedNft1.MintID},
			{NftID: testutil.DeployedNft.ID, MintID: testutil.OwnedNft2.MintID},
		},
	})
	require.NoError(t, err)

	err = env.ownedRepo.Create(ctx, &entity.OwnedNft{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		UserID:        testutil.User2.ID,
		NftID:         testutil.DeployedNft.ID,
		MintID:        3,
	})
	require.NoError(t, err)

	env.adapter.UpdateIntegrateFunc = func(ctx context.Context, tokenID int64, members []chain.IntegrateMember) (*chain.TxResult, error) {
		return nil, errors.New("sequencer unavailable")
	}

	_, err = env.domain.UpdateIntegrated(ctx, &model.UpdateIntegratedNftRequest{
		ID: created.IntegratedNft.ID,
		Members: []model.IntegratedMember{
			{NftID: testutil.DeployedNft.ID, MintID: testutil.OwnedNft1.MintID},
			{NftID: testutil.DeployedNft.ID, MintID: 3},
		},
	})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unavailable, errx.Code)

	// The incoming member is released, the bundle keeps its old holds.
	added, err := env.ownedRepo.Get(ctx, testutil.User2.ID, testutil.DeployedNft.ID, 3)
	require.NoError(t, err)
	require.False(t, added.IsLocked)

	for _, mintID := range []int64{testutil.OwnedNft1.MintID, testutil.OwnedNft2.MintID} {
		owned, err := env.ownedRepo.Get(ctx, testutil.User2.ID, testutil.DeployedNft.ID, mintID)
		require.NoError(t, err)
		require.True(t, owned.IsLocked)
	}
}

func Test_nftDomain_DeleteIntegrated(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)

	env := newNftTestEnv()
	env.adapter.IntegrateFunc = func(ctx context.Context, to string, members []chain.IntegrateMember) (*chain.IntegrateResult, error) {
		return &chain.IntegrateResult{TokenID: 55, TxHash: "0xint"}, nil
	}
	env.adapter.BurnIntegrateFunc = func(ctx context.Context, tokenID int64) (*chain.TxResult, error) {
		require.Equal(t, int64(55), tokenID)
		return &chain.TxResult{TxHash: "0xburn"}, nil
	}

	created, err := env.domain.CreateIntegrated(ctx, &model.CreateIntegratedNftRequest{
		ChainType: "ethereum",
		Members: []model.IntegratedMember{
			{NftID: testutil.DeployedNft.ID, MintID: testutil.OwnedNft1.MintID},
			{NftID: testutil.DeployedNft.ID, MintID: testutil.OwnedNft2.MintID},
		},
	})
	require.NoError(t, err)

	_, err = env.domain.DeleteIntegrated(ctx, &model.DeleteIntegratedNftRequest{ID: created.IntegratedNft.ID})
	require.NoError(t, err)

	// Burning the bundle releases the members.
	owned, err := env.ownedRepo.Get(ctx, testutil.User2.ID, testutil.DeployedNft.ID, testutil.OwnedNft1.MintID)
	require.NoError(t, err)
	require.False(t, owned.IsLocked)
}

func Test_nftDomain_TakeExternal(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)

	env := newNftTestEnv()

	deploys := 0
	env.adapter.DeployWrappedFunc = func(ctx context.Context, name, originAddress string) (*chain.DeployResult, error) {
		deploys++
		return &chain.DeployResult{NftAddress: "0xwrapped", TxHash: "0xtx"}, nil
	}

	resp, err := env.domain.TakeExternal(ctx, &model.TakeExternalNftRequest{
		Name:          "Bored Fox",
		ChainType:     "ethereum",
		OriginAddress: "0xorigin",
	})
	require.NoError(t, err)
	require.True(t, resp.Nft.IsExternal)
	require.Equal(t, "0xwrapped", resp.Nft.NftAddress)

	// Wrapping the same collection twice reuses the proxy.
	again, err := env.domain.TakeExternal(ctx, &model.TakeExternalNftRequest{
		Name:          "Bored Fox",
		ChainType:     "ethereum",
		OriginAddress: "0xorigin",
	})
	require.NoError(t, err)
	require.Equal(t, resp.Nft.ID, again.Nft.ID)
	require.Equal(t, 1, deploys)
}

func Test_nftDomain_MintExternal(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)

	env := newNftTestEnv()
	env.adapter.DeployWrappedFunc = func(ctx context.Context, name, originAddress string) (*chain.DeployResult, error) {
		return &chain.DeployResult{NftAddress: "0xwrapped", TxHash: "0xtx"}, nil
	}

	wrapped, err := env.domain.TakeExternal(ctx, &model.TakeExternalNftRequest{
		Name:          "Bored Fox",
		ChainType:     "ethereum",
		OriginAddress: "0xorigin",
	})
	require.NoError(t, err)

	// The caller does not hold the origin token.
	env.adapter.OwnsOriginalTokenFunc = func(ctx context.Context, originAddress, ownerAddress string, originTokenID int64) (bool, error) {
		return false, nil
	}

	_, err = env.domain.MintExternal(ctx, &model.MintExternalNftRequest{
		NftID:         wrapped.Nft.ID,
		OriginTokenID: 9,
	})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.PermissionDenied, errx.Code)

	env.adapter.OwnsOriginalTokenFunc = func(ctx context.Context, originAddress, ownerAddress string, originTokenID int64) (bool, error) {
		require.Equal(t, "0xorigin", originAddress)
		require.Equal(t, testutil.Wallet2.Address, ownerAddress)
		return true, nil
	}
	env.adapter.MintWrappedFunc = func(ctx context.Context, nftAddress string, originTokenID int64, to string) (*chain.MintResult, error) {
		require.Equal(t, "0xwrapped", nftAddress)
		require.Equal(t, int64(9), originTokenID)
		return &chain.MintResult{MintID: 9, TxHash: "0xmint"}, nil
	}

	minted, err := env.domain.MintExternal(ctx, &model.MintExternalNftRequest{
		NftID:         wrapped.Nft.ID,
		OriginTokenID: 9,
	})
	require.NoError(t, err)
	require.Equal(t, int64(9), minted.MintID)

	_, err = env.ownedRepo.Get(ctx, testutil.User2.ID, wrapped.Nft.ID, 9)
	require.NoError(t, err)
}
