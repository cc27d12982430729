package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yours-lab/backend/internal/chain"
	"github.com/yours-lab/backend/internal/entity"
	"github.com/yours-lab/backend/internal/model"
	"github.com/yours-lab/backend/internal/repository"
	"github.com/yours-lab/backend/pkg/errorx"
	"github.com/yours-lab/backend/pkg/testutil"
	"github.com/yours-lab/backend/pkg/xcontext"
)

type adminTestEnv struct {
	domain   AdminDomain
	adapter  *testutil.MockChainAdapter
	notifier *testutil.MockNotifier

	verifyRepo repository.VerifyRequestRepository
	ownedRepo  repository.OwnedNftRepository
}

func newAdminTestEnv() *adminTestEnv {
	env := &adminTestEnv{
		adapter:    testutil.NewMockChainAdapter(),
		notifier:   &testutil.MockNotifier{},
		verifyRepo: repository.NewVerifyRequestRepository(),
		ownedRepo:  repository.NewOwnedNftRepository(),
	}

	env.domain = NewAdminDomain(
		env.verifyRepo,
		repository.NewNftRepository(),
		repository.NewUserRepository(),
		repository.NewUserWalletRepository(),
		env.ownedRepo,
		repository.NewBenefitRepository(),
		chain.NewManager(env.adapter),
		env.notifier,
	)

	return env
}

func (env *adminTestEnv) createRequest(ctx context.Context) *entity.VerifyRequest {
	request := &entity.VerifyRequest{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		UserID:        testutil.User2.ID,
		NftID:         testutil.DeployedNft.ID,
		Image:         "https://cdn.example.com/claims/1.jpg",
	}
	if err := env.verifyRepo.Create(ctx, request); err != nil {
		panic(err)
	}

	return request
}

func Test_adminDomain_GetVerifyRequests(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.Admin.ID)
	testutil.CreateFixtureDb(ctx)

	env := newAdminTestEnv()
	request := env.createRequest(ctx)

	resp, err := env.domain.GetVerifyRequests(ctx, &model.GetVerifyRequestsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Requests, 1)
	require.Equal(t, request.ID, resp.Requests[0].ID)
	require.Equal(t, testutil.User2.ID, resp.Requests[0].UserID)

	resp, err = env.domain.GetVerifyRequests(ctx, &model.GetVerifyRequestsRequest{NftID: 999})
	require.NoError(t, err)
	require.Empty(t, resp.Requests)
}

func Test_adminDomain_ResolveVerifyRequest_approve(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.Admin.ID)
	testutil.CreateFixtureDb(ctx)

	env := newAdminTestEnv()
	request := env.createRequest(ctx)

	env.adapter.MintFunc = func(ctx context.Context, nftAddress, to string) (*chain.MintResult, error) {
		require.Equal(t, testutil.DeployedNft.NftAddress, nftAddress)
		require.Equal(t, testutil.Wallet2.Address, to)
		return &chain.MintResult{MintID: 7, TxHash: "0xclaim"}, nil
	}

	resp, err := env.domain.ResolveVerifyRequest(ctx, &model.ResolveVerifyRequestRequest{
		RequestID: request.ID,
		Approved:  true,
	})
	require.NoError(t, err)
	require.Equal(t, int64(7), resp.MintID)

	// The claimant owns the minted token and the queue is empty.
	_, err = env.ownedRepo.Get(ctx, testutil.User2.ID, testutil.DeployedNft.ID, 7)
	require.NoError(t, err)

	pending, err := env.verifyRepo.GetAllPending(ctx, 0, 0)
	require.NoError(t, err)
	require.Empty(t, pending)

	require.Len(t, env.notifier.Notifications, 1)
	require.Equal(t, templateClaimApproved, env.notifier.Notifications[0].TemplateCode)
}

func Test_adminDomain_ResolveVerifyRequest_reject(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.Admin.ID)
	testutil.CreateFixtureDb(ctx)

	env := newAdminTestEnv()
	request := env.createRequest(ctx)

	// A rejection without a reason leaves the claimant with nothing to
	// fix, so it is refused.
	_, err := env.domain.ResolveVerifyRequest(ctx, &model.ResolveVerifyRequestRequest{
		RequestID: request.ID,
	})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)

	_, err = env.domain.ResolveVerifyRequest(ctx, &model.ResolveVerifyRequestRequest{
		RequestID:    request.ID,
		RejectReason: "The photo does not show the product",
	})
	require.NoError(t, err)

	// Rejection frees the claimant to submit a new request.
	_, err = env.verifyRepo.GetPending(ctx, testutil.User2.ID, testutil.DeployedNft.ID)
	require.Error(t, err)

	require.Len(t, env.notifier.Notifications, 1)
	require.Equal(t, templateClaimRejected, env.notifier.Notifications[0].TemplateCode)
	require.Equal(t, testutil.User2.Phone, env.notifier.Notifications[0].RecipientNo)
}

func Test_adminDomain_GetDraftBenefits(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.Admin.ID)
	testutil.CreateFixtureDb(ctx)

	env := newAdminTestEnv()
	resp, err := env.domain.GetDraftBenefits(ctx, &model.GetDraftBenefitsRequest{NftID: testutil.DraftNft.ID})
	require.NoError(t, err)
	require.Len(t, resp.Benefits, 1)
	require.Equal(t, testutil.DraftNftDraft.Name, resp.Benefits[0].Name)
}
