package repository

import (
	"context"

	"github.com/yours-lab/backend/internal/entity"
	"github.com/yours-lab/backend/pkg/xcontext"
)

type PointRepository interface {
	Create(ctx context.Context, record *entity.PointRecord) error
	GetByUserID(ctx context.Context, userID string, offset, limit int) ([]entity.PointRecord, error)
	Complete(ctx context.Context, userID, txHash string) error
	DeleteIncomplete(ctx context.Context, userID, txHash string) error

	// Balance sums the records of a user. There is no stored balance
	// column to drift out of step with the ledger. Incomplete debits
	// count too, a purchase waiting for its transaction must not leave
	// the same funds spendable twice.
	Balance(ctx context.Context, userID string) (float64, error)
}

type pointRepository struct {
}

func NewPointRepository() *pointRepository {
	return &pointRepository{}
}

func (r *pointRepository) Create(ctx context.Context, record *entity.PointRecord) error {
	return xcontext.DB(ctx).Create(record).Error
}

func (r *pointRepository) GetByUserID(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.PointRecord, error) {
	tx := xcontext.DB(ctx).Where("user_id = ?", userID).Order("id DESC")
	if limit != 0 {
		tx = tx.Offset(offset).Limit(limit)
	}

	var result []entity.PointRecord
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// Complete settles the reserved debit a purchase left behind.
func (r *pointRepository) Complete(ctx context.Context, userID, txHash string) error {
	return xcontext.DB(ctx).Model(&entity.PointRecord{}).
		Where("user_id = ? AND tx_hash = ? AND is_completed = ?", userID, txHash, false).
		Update("is_completed", true).Error
}

// DeleteIncomplete drops the reserved debit of a purchase that will
// never settle, giving the funds back to the buyer.
func (r *pointRepository) DeleteIncomplete(ctx context.Context, userID, txHash string) error {
	return xcontext.DB(ctx).
		Where("user_id = ? AND tx_hash = ? AND is_completed = ?", userID, txHash, false).
		Delete(&entity.PointRecord{}).Error
}

func (r *pointRepository) Balance(ctx context.Context, userID string) (float64, error) {
	var balance float64
	err := xcontext.DB(ctx).Model(&entity.PointRecord{}).
		Select("COALESCE(SUM(yrp_amount), 0)").
		Where("user_id = ? AND (is_completed = ? OR yrp_amount < ?)", userID, true, float64(0)).
		Scan(&balance).Error
	if err != nil {
		return 0, err
	}

	return balance, nil
}
