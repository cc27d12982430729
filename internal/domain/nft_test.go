package domain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yours-lab/backend/internal/chain"
	"github.com/yours-lab/backend/internal/entity"
	"github.com/yours-lab/backend/internal/model"
	"github.com/yours-lab/backend/internal/repository"
	"github.com/yours-lab/backend/pkg/code"
	"github.com/yours-lab/backend/pkg/errorx"
	"github.com/yours-lab/backend/pkg/testutil"
)

type nftTestEnv struct {
	domain     NftDomain
	adapter    *testutil.MockChainAdapter
	notifier   *testutil.MockNotifier
	mailSender *testutil.MockMailSender

	nftRepo     repository.NftRepository
	benefitRepo repository.BenefitRepository
	ownedRepo   repository.OwnedNftRepository
}

func newNftTestEnv() *nftTestEnv {
	env := &nftTestEnv{
		adapter:     testutil.NewMockChainAdapter(),
		notifier:    &testutil.MockNotifier{},
		mailSender:  &testutil.MockMailSender{},
		nftRepo:     repository.NewNftRepository(),
		benefitRepo: repository.NewBenefitRepository(),
		ownedRepo:   repository.NewOwnedNftRepository(),
	}

	env.domain = NewNftDomain(
		env.nftRepo,
		env.benefitRepo,
		env.ownedRepo,
		repository.NewIntegratedNftRepository(),
		repository.NewVerifyRequestRepository(),
		repository.NewUserWalletRepository(),
		repository.NewUserRepository(),
		chain.NewManager(env.adapter),
		&testutil.MockMetadata{},
		env.notifier,
		env.mailSender,
		code.NewMemoryStore(time.Minute),
	)

	return env
}

func Test_nftDomain_Publish(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	env := newNftTestEnv()
	env.adapter.DeployFunc = func(ctx context.Context, name, metadataURI, benefitURI string) (*chain.DeployResult, error) {
		require.Equal(t, testutil.DraftNft.Name, name)
		require.NotEmpty(t, metadataURI)
		require.NotEmpty(t, benefitURI)
		return &chain.DeployResult{NftAddress: "0xdddd", TxHash: "0xtx1"}, nil
	}

	resp, err := env.domain.Publish(ctx, &model.PublishNftRequest{NftID: testutil.DraftNft.ID})
	require.NoError(t, err)
	require.True(t, resp.Nft.IsDeployed)
	require.Equal(t, "0xdddd", resp.Nft.NftAddress)

	// The published benefits must be a snapshot of the drafts.
	benefits, err := env.benefitRepo.GetByNftID(ctx, testutil.DraftNft.ID)
	require.NoError(t, err)
	require.Len(t, benefits, 1)
	require.Equal(t, testutil.DraftNftDraft.Name, benefits[0].Name)
	require.Equal(t, testutil.DraftNftDraft.Description, benefits[0].Description)

	// The creator has a phone number, so a push goes out.
	require.Len(t, env.notifier.Notifications, 1)
	require.Equal(t, testutil.User1.Phone, env.notifier.Notifications[0].RecipientNo)
}

func Test_nftDomain_Publish_alreadyDeployed(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	env := newNftTestEnv()
	_, err := env.domain.Publish(ctx, &model.PublishNftRequest{NftID: testutil.DeployedNft.ID})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyDeployed, errx.Code)
}

func Test_nftDomain_Publish_whileLoading(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	env := newNftTestEnv()

	// Another publish is in flight; the second caller must lose the
	// guard without ever reaching the adapter.
	ok, err := env.nftRepo.BeginDeploy(ctx, testutil.DraftNft.ID)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = env.domain.Publish(ctx, &model.PublishNftRequest{NftID: testutil.DraftNft.ID})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyLoading, errx.Code)
}

func Test_nftDomain_Publish_notCreator(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)

	env := newNftTestEnv()
	_, err := env.domain.Publish(ctx, &model.PublishNftRequest{NftID: testutil.DraftNft.ID})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotCreator, errx.Code)
}

func Test_nftDomain_UpdateBenefitURI_notEdited(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	env := newNftTestEnv()
	_, err := env.domain.UpdateBenefitURI(ctx, &model.UpdateBenefitURIRequest{NftID: testutil.DeployedNft.ID})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotEdited, errx.Code)
}

func Test_nftDomain_UpdateBenefitURI(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	env := newNftTestEnv()
	env.adapter.SetBenefitURIFunc = func(ctx context.Context, nftAddress, benefitURI string) (*chain.TxResult, error) {
		require.Equal(t, testutil.DeployedNft.NftAddress, nftAddress)
		return &chain.TxResult{TxHash: "0xtx2"}, nil
	}

	// Editing a draft marks the collection as edited.
	_, err := env.domain.UpdateBenefit(ctx, &model.UpdateBenefitRequest{
		ID:          testutil.DeployedDraft.ID,
		Name:        "Free espresso",
		Description: "One free espresso per visit",
	})
	require.NoError(t, err)

	resp, err := env.domain.UpdateBenefitURI(ctx, &model.UpdateBenefitURIRequest{NftID: testutil.DeployedNft.ID})
	require.NoError(t, err)
	require.False(t, resp.Nft.IsEdited)

	benefits, err := env.benefitRepo.GetByNftID(ctx, testutil.DeployedNft.ID)
	require.NoError(t, err)
	require.Len(t, benefits, 1)
	require.Equal(t, "Free espresso", benefits[0].Name)
}

func Test_nftDomain_mailMint(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)

	env := newNftTestEnv()
	env.adapter.MintFunc = func(ctx context.Context, nftAddress, to string) (*chain.MintResult, error) {
		require.Equal(t, testutil.DeployedNft.NftAddress, nftAddress)
		require.Equal(t, testutil.Wallet2.Address, to)
		return &chain.MintResult{MintID: 3, TxHash: "0xtx3"}, nil
	}

	sendResp, err := env.domain.SendAuthMail(ctx, &model.SendAuthMailRequest{
		NftID: testutil.DeployedNft.ID,
		Email: "collector@example.com",
	})
	require.NoError(t, err)
	require.NotEmpty(t, sendResp.Payload)
	require.Len(t, env.mailSender.Mails, 1)

	verifyResp, err := env.domain.VerifyMail(ctx, &model.VerifyMailRequest{
		Payload: sendResp.Payload,
		Code:    env.mailSender.Mails[0].Code,
	})
	require.NoError(t, err)
	require.Equal(t, int64(3), verifyResp.MintID)

	_, err = env.ownedRepo.Get(ctx, testutil.User2.ID, testutil.DeployedNft.ID, 3)
	require.NoError(t, err)
}

func Test_nftDomain_mailMint_wrongCode(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)

	env := newNftTestEnv()
	sendResp, err := env.domain.SendAuthMail(ctx, &model.SendAuthMailRequest{
		NftID: testutil.DeployedNft.ID,
		Email: "collector@example.com",
	})
	require.NoError(t, err)

	_, err = env.domain.VerifyMail(ctx, &model.VerifyMailRequest{
		Payload: sendResp.Payload,
		Code:    "000000",
	})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadAuthCode, errx.Code)
}

func Test_nftDomain_Transfer_locked(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)

	env := newNftTestEnv()
	locked, err := env.ownedRepo.Lock(ctx, testutil.User2.ID, testutil.DeployedNft.ID, testutil.OwnedNft1.MintID)
	require.NoError(t, err)
	require.True(t, locked)

	_, err = env.domain.Transfer(ctx, &model.TransferNftRequest{
		NftID:  testutil.DeployedNft.ID,
		MintID: testutil.OwnedNft1.MintID,
		To:     "0x9999999999999999999999999999999999999999",
	})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Locked, errx.Code)
}

func Test_nftDomain_Transfer(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)

	env := newNftTestEnv()
	env.adapter.TransferFunc = func(ctx context.Context, nftAddress string, mintID int64, from, to string) (*chain.TxResult, error) {
		require.Equal(t, testutil.Wallet2.Address, from)
		return &chain.TxResult{TxHash: "0xtx4"}, nil
	}

	_, err := env.domain.Transfer(ctx, &model.TransferNftRequest{
		NftID:  testutil.DeployedNft.ID,
		MintID: testutil.OwnedNft1.MintID,
		To:     "0x9999999999999999999999999999999999999999",
	})
	require.NoError(t, err)

	// Ownership leaves the platform with the token.
	_, err = env.ownedRepo.Get(ctx, testutil.User2.ID, testutil.DeployedNft.ID, testutil.OwnedNft1.MintID)
	require.Error(t, err)
}

func Test_nftDomain_RequestVerification_duplicate(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)

	env := newNftTestEnv()

	photoNft := entity.NonFungibleToken{
		SnowFlakeBase: entity.SnowFlakeBase{ID: 103},
		OwnerID:       testutil.User1.ID,
		Name:          "Photo Pass",
		AuthType:      entity.AuthTypePhoto,
		ChainType:     entity.ChainEthereum,
		NftAddress:    "0xbbbb",
		IsDeployed:    true,
	}
	require.NoError(t, env.nftRepo.Create(ctx, &photoNft))

	_, err := env.domain.RequestVerification(ctx, &model.RequestVerificationRequest{
		NftID: photoNft.ID,
		Image: "https://cdn.example.com/claims/1.jpg",
	})
	require.NoError(t, err)

	_, err = env.domain.RequestVerification(ctx, &model.RequestVerificationRequest{
		NftID: photoNft.ID,
		Image: "https://cdn.example.com/claims/2.jpg",
	})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.DuplicateRequest, errx.Code)
}
