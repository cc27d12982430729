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

type marketTestEnv struct {
	domain  MarketDomain
	adapter *testutil.MockChainAdapter

	orderRepo repository.MarketOrderRepository
	pointRepo repository.PointRepository
	ownedRepo repository.OwnedNftRepository
	taskRepo  repository.ChainTaskRepository
}

func newMarketTestEnv() *marketTestEnv {
	env := &marketTestEnv{
		adapter:   testutil.NewMockChainAdapter(),
		orderRepo: repository.NewMarketOrderRepository(),
		pointRepo: repository.NewPointRepository(),
		ownedRepo: repository.NewOwnedNftRepository(),
		taskRepo:  repository.NewChainTaskRepository(),
	}

	env.domain = NewMarketDomain(
		env.orderRepo,
		repository.NewLikedOrderRepository(),
		repository.NewNftRepository(),
		repository.NewBenefitRepository(),
		env.ownedRepo,
		repository.NewUserWalletRepository(),
		env.pointRepo,
		repository.NewSellApprovalRepository(),
		env.taskRepo,
		chain.NewManager(env.adapter),
	)

	return env
}

// charge gives the user a completed YRP record so the ledger balance
// covers a purchase.
func (env *marketTestEnv) charge(ctx context.Context, userID string, amount float64) {
	err := env.pointRepo.Create(ctx, &entity.PointRecord{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		UserID:        userID,
		YrpAmount:     amount,
		Type:          entity.PointInput,
		IsCompleted:   true,
	})
	if err != nil {
		panic(err)
	}
}

func (env *marketTestEnv) createOrder(ctx context.Context, price float64) *entity.MarketOrder {
	return env.createOrderForMint(ctx, testutil.OwnedNft1.MintID, price)
}

func (env *marketTestEnv) createOrderForMint(ctx context.Context, mintID int64, price float64) *entity.MarketOrder {
	order := &entity.MarketOrder{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		NftID:         testutil.DeployedNft.ID,
		NftAddress:    testutil.DeployedNft.NftAddress,
		MintID:        mintID,
		SellerID:      testutil.User2.ID,
		Price:         price,
		TxHash:        "0xsell",
		Status:        entity.OrderPending,
	}
	if err := env.orderRepo.Create(ctx, order); err != nil {
		panic(err)
	}

	return order
}

func Test_marketDomain_Sell(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)

	env := newMarketTestEnv()

	approvals := 0
	env.adapter.ApproveToSellFunc = func(ctx context.Context, nftAddress string) (*chain.TxResult, error) {
		approvals++
		require.Equal(t, testutil.DeployedNft.NftAddress, nftAddress)
		return &chain.TxResult{TxHash: "0xapprove"}, nil
	}
	env.adapter.SellFunc = func(ctx context.Context, nftAddress string, mintID int64, price float64) (*chain.TxResult, error) {
		return &chain.TxResult{TxHash: "0xsell"}, nil
	}

	resp, err := env.domain.Sell(ctx, &model.SellNftRequest{
		NftID:  testutil.DeployedNft.ID,
		MintID: testutil.OwnedNft1.MintID,
		Price:  10,
	})
	require.NoError(t, err)
	require.Equal(t, float64(10), resp.Order.Price)

	// Listing a second token of the same collection reuses the
	// recorded approval.
	_, err = env.domain.Sell(ctx, &model.SellNftRequest{
		NftID:  testutil.DeployedNft.ID,
		MintID: testutil.OwnedNft2.MintID,
		Price:  20,
	})
	require.NoError(t, err)
	require.Equal(t, 1, approvals)
}

func Test_marketDomain_Sell_lockedToken(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)

	env := newMarketTestEnv()
	locked, err := env.ownedRepo.Lock(ctx, testutil.User2.ID, testutil.DeployedNft.ID, testutil.OwnedNft1.MintID)
	require.NoError(t, err)
	require.True(t, locked)

	_, err = env.domain.Sell(ctx, &model.SellNftRequest{
		NftID:  testutil.DeployedNft.ID,
		MintID: testutil.OwnedNft1.MintID,
		Price:  10,
	})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Locked, errx.Code)
}

func Test_marketDomain_Buy(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	env := newMarketTestEnv()
	order := env.createOrder(ctx, 10)
	env.charge(ctx, testutil.User1.ID, 50)

	env.adapter.BuyFunc = func(ctx context.Context, nftAddress string, mintID int64, to string) (*chain.TxResult, error) {
		require.Equal(t, testutil.Wallet1.Address, to)
		return &chain.TxResult{TxHash: "0xbuy"}, nil
	}

	resp, err := env.domain.Buy(ctx, &model.BuyNftRequest{OrderID: order.ID, Price: 10})
	require.NoError(t, err)
	require.True(t, resp.Order.IsLoading)

	// The price is reserved up front and leaves the spendable balance
	// right away; the seller is paid once the poller confirms.
	balance, err := env.pointRepo.Balance(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, float64(40), balance)

	records, err := env.pointRepo.GetByUserID(ctx, testutil.User1.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.False(t, records[0].IsCompleted)
	require.Equal(t, "0xbuy", records[0].TxHash)

	tasks, err := env.taskRepo.GetPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, order.ID, tasks[0].OrderID)
	require.Equal(t, testutil.User1.ID, tasks[0].BuyerID)
	require.Equal(t, "0xbuy", tasks[0].TxHash)
}

func Test_marketDomain_Buy_priceMismatch(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	env := newMarketTestEnv()
	order := env.createOrder(ctx, 10)
	env.charge(ctx, testutil.User1.ID, 50)

	_, err := env.domain.Buy(ctx, &model.BuyNftRequest{OrderID: order.ID, Price: 5})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.PriceMismatch, errx.Code)
}

func Test_marketDomain_Buy_insufficientBalance(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	env := newMarketTestEnv()
	order := env.createOrder(ctx, 10)
	env.charge(ctx, testutil.User1.ID, 5)

	// No BuyFunc is set. Reaching the adapter with a short balance
	// would fail the test with ErrNotMocked instead.
	_, err := env.domain.Buy(ctx, &model.BuyNftRequest{OrderID: order.ID, Price: 10})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.InsufficientBalance, errx.Code)
}

func Test_marketDomain_Buy_pendingPurchaseHoldsFunds(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	env := newMarketTestEnv()
	first := env.createOrderForMint(ctx, testutil.OwnedNft1.MintID, 10)
	second := env.createOrderForMint(ctx, testutil.OwnedNft2.MintID, 10)
	env.charge(ctx, testutil.User1.ID, 10)

	env.adapter.BuyFunc = func(ctx context.Context, nftAddress string, mintID int64, to string) (*chain.TxResult, error) {
		return &chain.TxResult{TxHash: "0xbuy"}, nil
	}

	_, err := env.domain.Buy(ctx, &model.BuyNftRequest{OrderID: first.ID, Price: 10})
	require.NoError(t, err)

	// The first purchase reserved the whole balance. The second one
	// must not spend the same funds while settlement is pending.
	_, err = env.domain.Buy(ctx, &model.BuyNftRequest{OrderID: second.ID, Price: 10})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.InsufficientBalance, errx.Code)
}

func Test_marketDomain_GetList_sort(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	env := newMarketTestEnv()
	first := env.createOrderForMint(ctx, testutil.OwnedNft1.MintID, 10)
	second := env.createOrderForMint(ctx, testutil.OwnedNft2.MintID, 20)

	_, err := env.domain.Like(ctx, &model.LikeOrderRequest{OrderID: first.ID})
	require.NoError(t, err)

	// The newest listing leads by default.
	resp, err := env.domain.GetList(ctx, &model.GetMarketOrdersRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Orders, 2)
	require.Equal(t, second.ID, resp.Orders[0].ID)

	// The liked one leads when sorted by popularity.
	resp, err = env.domain.GetList(ctx, &model.GetMarketOrdersRequest{Sort: "hottest"})
	require.NoError(t, err)
	require.Len(t, resp.Orders, 2)
	require.Equal(t, first.ID, resp.Orders[0].ID)

	_, err = env.domain.GetList(ctx, &model.GetMarketOrdersRequest{Sort: "cheapest"})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}

func Test_marketDomain_Buy_ownListing(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)

	env := newMarketTestEnv()
	order := env.createOrder(ctx, 10)

	_, err := env.domain.Buy(ctx, &model.BuyNftRequest{OrderID: order.ID, Price: 10})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}

func Test_marketDomain_Buy_whileLoading(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	env := newMarketTestEnv()
	order := env.createOrder(ctx, 10)
	env.charge(ctx, testutil.User1.ID, 50)

	ok, err := env.orderRepo.BeginPurchase(ctx, order.ID)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = env.domain.Buy(ctx, &model.BuyNftRequest{OrderID: order.ID, Price: 10})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyLoading, errx.Code)
}

func Test_marketDomain_Like(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	env := newMarketTestEnv()
	order := env.createOrder(ctx, 10)

	resp, err := env.domain.Like(ctx, &model.LikeOrderRequest{OrderID: order.ID})
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.LikeCount)

	_, err = env.domain.Like(ctx, &model.LikeOrderRequest{OrderID: order.ID})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyLiked, errx.Code)
}

func Test_marketDomain_Unlike(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	env := newMarketTestEnv()
	order := env.createOrder(ctx, 10)

	_, err := env.domain.Like(ctx, &model.LikeOrderRequest{OrderID: order.ID})
	require.NoError(t, err)

	resp, err := env.domain.Unlike(ctx, &model.UnlikeOrderRequest{OrderID: order.ID})
	require.NoError(t, err)
	require.Equal(t, int64(0), resp.LikeCount)

	_, err = env.domain.Unlike(ctx, &model.UnlikeOrderRequest{OrderID: order.ID})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotLiked, errx.Code)
}
