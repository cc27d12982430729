// Package settle finalizes marketplace purchases after their on-chain
// transactions confirm. It polls the chain task outbox, so a purchase
// submitted just before a crash is still settled after a restart.
package settle

import (
	"context"
	"time"

	"github.com/yours-lab/backend/internal/chain"
	"github.com/yours-lab/backend/internal/entity"
	"github.com/yours-lab/backend/internal/repository"
	"github.com/yours-lab/backend/pkg/xcontext"
)

const (
	pollInterval = 5 * time.Second
	batchSize    = 20
	maxRetries   = 10
)

type Worker struct {
	taskRepo  repository.ChainTaskRepository
	orderRepo repository.MarketOrderRepository
	ownedRepo repository.OwnedNftRepository
	pointRepo repository.PointRepository
	chains    *chain.Manager
}

func NewWorker(
	taskRepo repository.ChainTaskRepository,
	orderRepo repository.MarketOrderRepository,
	ownedRepo repository.OwnedNftRepository,
	pointRepo repository.PointRepository,
	chains *chain.Manager,
) *Worker {
	return &Worker{
		taskRepo:  taskRepo,
		orderRepo: orderRepo,
		ownedRepo: ownedRepo,
		pointRepo: pointRepo,
		chains:    chains,
	}
}

func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Poll(ctx)
		}
	}
}

// Poll runs one settlement round. Exposed so callers can drive rounds
// without the ticker loop.
func (w *Worker) Poll(ctx context.Context) {
	tasks, err := w.taskRepo.GetPending(ctx, batchSize)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get pending chain tasks: %v", err)
		return
	}

	for i := range tasks {
		w.settle(ctx, &tasks[i])
	}
}

func (w *Worker) settle(ctx context.Context, task *entity.ChainTask) {
	adapter, err := w.chains.Get(task.ChainType)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get adapter for task %d: %v", task.ID, err)
		w.fail(ctx, task, err)
		return
	}

	if err := adapter.Confirm(ctx, task.TxHash); err != nil {
		xcontext.Logger(ctx).Warnf("Transaction %s of task %d not confirmed: %v",
			task.TxHash, task.ID, err)
		w.fail(ctx, task, err)
		return
	}

	order, err := w.orderRepo.GetByID(ctx, task.OrderID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get order %d of task %d: %v", task.OrderID, task.ID, err)
		w.retry(ctx, task, err)
		return
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	// The claim shares the transaction of the money moves below. A
	// second worker confirming the same transaction loses this
	// compare-and-swap and walks away, and a write failure rolls the
	// claim back with everything else, so the task stays pending.
	claimed, err := w.taskRepo.Claim(ctx, task.ID, entity.TaskDone)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot claim task %d: %v", task.ID, err)
		return
	}

	if !claimed {
		return
	}

	if err := w.orderRepo.FinishPurchase(ctx, order.ID, task.BuyerID, entity.OrderSuccess); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot finish purchase %d: %v", order.ID, err)
		return
	}

	if err := w.pointRepo.Complete(ctx, task.BuyerID, task.TxHash); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot complete buyer debit for order %d: %v", order.ID, err)
		return
	}

	err = w.pointRepo.Create(ctx, &entity.PointRecord{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		UserID:        order.SellerID,
		YrpAmount:     order.Price,
		Type:          entity.PointSell,
		IsCompleted:   true,
		TxHash:        task.TxHash,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot record seller points for order %d: %v", order.ID, err)
		return
	}

	err = w.ownedRepo.Move(ctx, order.SellerID, task.BuyerID, order.NftID, order.MintID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot move ownership for order %d: %v", order.ID, err)
		return
	}

	xcontext.WithCommitDBTransaction(ctx)
	xcontext.Logger(ctx).Infof("Settled order %d with tx %s", order.ID, task.TxHash)
}

// fail handles an unconfirmed transaction. A reverted transaction kills
// the task and releases the listing, a transient error schedules a
// retry until the budget runs out.
func (w *Worker) fail(ctx context.Context, task *entity.ChainTask, cause error) {
	if chain.IsReverted(cause) || task.RetryCount+1 >= maxRetries {
		ctx = xcontext.WithDBTransaction(ctx)
		defer xcontext.WithRollbackDBTransaction(ctx)

		claimed, err := w.taskRepo.Claim(ctx, task.ID, entity.TaskFailed)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot claim task %d as failed: %v", task.ID, err)
			return
		}

		if !claimed {
			return
		}

		err = w.orderRepo.FinishPurchase(ctx, task.OrderID, task.BuyerID, entity.OrderFailure)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot mark order %d as failed: %v", task.OrderID, err)
			return
		}

		// The purchase will never settle, so the buyer gets the
		// reserved funds back.
		if err := w.pointRepo.DeleteIncomplete(ctx, task.BuyerID, task.TxHash); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete buyer debit of task %d: %v", task.ID, err)
			return
		}

		xcontext.WithCommitDBTransaction(ctx)
		return
	}

	w.retry(ctx, task, cause)
}

func (w *Worker) retry(ctx context.Context, task *entity.ChainTask, cause error) {
	if err := w.taskRepo.RecordFailure(ctx, task.ID, cause.Error()); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot record failure of task %d: %v", task.ID, err)
	}
}
