package settle

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yours-lab/backend/internal/chain"
	"github.com/yours-lab/backend/internal/entity"
	"github.com/yours-lab/backend/internal/repository"
	"github.com/yours-lab/backend/pkg/testutil"
	"github.com/yours-lab/backend/pkg/xcontext"
)

type settleTestEnv struct {
	worker  *Worker
	adapter *testutil.MockChainAdapter

	taskRepo  repository.ChainTaskRepository
	orderRepo repository.MarketOrderRepository
	ownedRepo repository.OwnedNftRepository
	pointRepo repository.PointRepository
}

func newSettleTestEnv() *settleTestEnv {
	env := &settleTestEnv{
		adapter:   testutil.NewMockChainAdapter(),
		taskRepo:  repository.NewChainTaskRepository(),
		orderRepo: repository.NewMarketOrderRepository(),
		ownedRepo: repository.NewOwnedNftRepository(),
		pointRepo: repository.NewPointRepository(),
	}

	env.worker = NewWorker(
		env.taskRepo,
		env.orderRepo,
		env.ownedRepo,
		env.pointRepo,
		chain.NewManager(env.adapter),
	)

	return env
}

// flakyOrderRepo fails a number of FinishPurchase calls before passing
// through, imitating a database hiccup in mid-settlement.
type flakyOrderRepo struct {
	repository.MarketOrderRepository
	failures int
}

func (r *flakyOrderRepo) FinishPurchase(
	ctx context.Context, id int64, buyerID string, status entity.OrderStatus,
) error {
	if r.failures > 0 {
		r.failures--
		return errors.New("connection reset")
	}

	return r.MarketOrderRepository.FinishPurchase(ctx, id, buyerID, status)
}

// createPurchase lays down an order, its outbox task and the reserved
// buyer debit the way a buy leaves them: loading, transaction
// submitted, funds held, settlement pending.
func (env *settleTestEnv) createPurchase(ctx context.Context, buyerID string) (*entity.MarketOrder, *entity.ChainTask) {
	order := &entity.MarketOrder{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		NftID:         testutil.DeployedNft.ID,
		NftAddress:    testutil.DeployedNft.NftAddress,
		MintID:        testutil.OwnedNft1.MintID,
		SellerID:      testutil.User2.ID,
		Price:         10,
		TxHash:        "0xsell",
		Status:        entity.OrderPending,
		IsLoading:     true,
	}
	if err := env.orderRepo.Create(ctx, order); err != nil {
		panic(err)
	}

	task := &entity.ChainTask{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		Type:          entity.TaskPurchase,
		Status:        entity.TaskPending,
		ChainType:     entity.ChainEthereum,
		TxHash:        "0xbuy",
		OrderID:       order.ID,
		BuyerID:       buyerID,
	}
	if err := env.taskRepo.Create(ctx, task); err != nil {
		panic(err)
	}

	err := env.pointRepo.Create(ctx, &entity.PointRecord{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		UserID:        buyerID,
		YrpAmount:     -order.Price,
		Type:          entity.PointBuy,
		TxHash:        task.TxHash,
	})
	if err != nil {
		panic(err)
	}

	return order, task
}

func TestWorker_Poll(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	env := newSettleTestEnv()
	order, _ := env.createPurchase(ctx, testutil.User1.ID)

	env.adapter.ConfirmFunc = func(ctx context.Context, txHash string) error {
		require.Equal(t, "0xbuy", txHash)
		return nil
	}

	env.worker.Poll(ctx)

	settled, err := env.orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, entity.OrderSuccess, settled.Status)
	require.False(t, settled.IsLoading)
	require.Equal(t, testutil.User1.ID, settled.BuyerID.String)

	// The price moved from buyer to seller through the ledger. The
	// reserved debit is completed in place, not doubled.
	buyerBalance, err := env.pointRepo.Balance(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, float64(-10), buyerBalance)

	records, err := env.pointRepo.GetByUserID(ctx, testutil.User1.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.True(t, records[0].IsCompleted)

	sellerBalance, err := env.pointRepo.Balance(ctx, testutil.User2.ID)
	require.NoError(t, err)
	require.Equal(t, float64(10), sellerBalance)

	// And the token changed hands.
	_, err = env.ownedRepo.Get(ctx, testutil.User1.ID, order.NftID, order.MintID)
	require.NoError(t, err)
	_, err = env.ownedRepo.Get(ctx, testutil.User2.ID, order.NftID, order.MintID)
	require.Error(t, err)

	// A later round finds nothing left to do.
	tasks, err := env.taskRepo.GetPending(ctx, 0)
	require.NoError(t, err)
	require.Empty(t, tasks)
}

func TestWorker_Poll_settlesOnce(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	env := newSettleTestEnv()
	env.createPurchase(ctx, testutil.User1.ID)

	env.adapter.ConfirmFunc = func(ctx context.Context, txHash string) error {
		return nil
	}

	env.worker.Poll(ctx)
	env.worker.Poll(ctx)

	// Two rounds over the same task must not double the money.
	buyerBalance, err := env.pointRepo.Balance(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, float64(-10), buyerBalance)
}

func TestWorker_Poll_revertedTransaction(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	env := newSettleTestEnv()
	order, _ := env.createPurchase(ctx, testutil.User1.ID)

	env.adapter.ConfirmFunc = func(ctx context.Context, txHash string) error {
		return fmt.Errorf("transaction %s: %w", txHash, chain.ErrReverted)
	}

	env.worker.Poll(ctx)

	// A revert can never confirm later, so the listing fails right
	// away and the buyer gets the reserved funds back.
	failed, err := env.orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, entity.OrderFailure, failed.Status)
	require.False(t, failed.IsLoading)

	buyerBalance, err := env.pointRepo.Balance(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, float64(0), buyerBalance)

	records, err := env.pointRepo.GetByUserID(ctx, testutil.User1.ID, 0, 0)
	require.NoError(t, err)
	require.Empty(t, records)

	tasks, err := env.taskRepo.GetPending(ctx, 0)
	require.NoError(t, err)
	require.Empty(t, tasks)
}

func TestWorker_Poll_transientError(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	env := newSettleTestEnv()
	order, task := env.createPurchase(ctx, testutil.User1.ID)

	env.adapter.ConfirmFunc = func(ctx context.Context, txHash string) error {
		return errors.New("transaction not mined yet")
	}

	env.worker.Poll(ctx)

	// The task stays in the outbox with its failure recorded, and the
	// order is still in flight.
	tasks, err := env.taskRepo.GetPending(ctx, 0)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, task.ID, tasks[0].ID)
	require.Equal(t, 1, tasks[0].RetryCount)
	require.Equal(t, "transaction not mined yet", tasks[0].LastError)

	pending, err := env.orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, entity.OrderPending, pending.Status)
	require.True(t, pending.IsLoading)

	// The funds stay reserved while the task retries.
	buyerBalance, err := env.pointRepo.Balance(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, float64(-10), buyerBalance)
}

func TestWorker_Poll_claimRollsBackWithSettlement(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	env := newSettleTestEnv()
	flaky := &flakyOrderRepo{MarketOrderRepository: env.orderRepo, failures: 1}
	env.worker = NewWorker(env.taskRepo, flaky, env.ownedRepo, env.pointRepo, chain.NewManager(env.adapter))

	order, _ := env.createPurchase(ctx, testutil.User1.ID)

	env.adapter.ConfirmFunc = func(ctx context.Context, txHash string) error {
		return nil
	}

	// The first round dies on the order write. The claim must roll
	// back with it, or the task would sit done forever over a
	// pending order.
	env.worker.Poll(ctx)

	tasks, err := env.taskRepo.GetPending(ctx, 0)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	pending, err := env.orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, entity.OrderPending, pending.Status)
	require.True(t, pending.IsLoading)

	// The next round picks the task up again and settles it.
	env.worker.Poll(ctx)

	settled, err := env.orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, entity.OrderSuccess, settled.Status)

	sellerBalance, err := env.pointRepo.Balance(ctx, testutil.User2.ID)
	require.NoError(t, err)
	require.Equal(t, float64(10), sellerBalance)

	_, err = env.ownedRepo.Get(ctx, testutil.User1.ID, order.NftID, order.MintID)
	require.NoError(t, err)
}
