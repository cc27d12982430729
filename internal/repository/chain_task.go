package repository

import (
	"context"

	"github.com/yours-lab/backend/internal/entity"
	"github.com/yours-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ChainTaskRepository interface {
	Create(ctx context.Context, task *entity.ChainTask) error
	GetPending(ctx context.Context, limit int) ([]entity.ChainTask, error)

	// Claim moves a pending task to done/failed exactly once. The
	// returned flag is false when another worker settled it first.
	Claim(ctx context.Context, id int64, status entity.ChainTaskStatus) (bool, error)
	RecordFailure(ctx context.Context, id int64, lastError string) error
}

type chainTaskRepository struct {
}

func NewChainTaskRepository() *chainTaskRepository {
	return &chainTaskRepository{}
}

func (r *chainTaskRepository) Create(ctx context.Context, task *entity.ChainTask) error {
	return xcontext.DB(ctx).Create(task).Error
}

func (r *chainTaskRepository) GetPending(ctx context.Context, limit int) ([]entity.ChainTask, error) {
	tx := xcontext.DB(ctx).
		Where("status = ?", entity.TaskPending).
		Order("id ASC")
	if limit != 0 {
		tx = tx.Limit(limit)
	}

	var result []entity.ChainTask
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *chainTaskRepository) Claim(
	ctx context.Context, id int64, status entity.ChainTaskStatus,
) (bool, error) {
	tx := xcontext.DB(ctx).Model(&entity.ChainTask{}).
		Where("id = ? AND status = ?", id, entity.TaskPending).
		Update("status", status)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *chainTaskRepository) RecordFailure(ctx context.Context, id int64, lastError string) error {
	return xcontext.DB(ctx).Model(&entity.ChainTask{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"retry_count": gorm.Expr("retry_count+1"),
			"last_error":  lastError,
		}).Error
}
