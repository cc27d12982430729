package repository

import (
	"context"

	"github.com/yours-lab/backend/internal/entity"
	"github.com/yours-lab/backend/pkg/xcontext"
)

type LikedOrderRepository interface {
	Create(ctx context.Context, liked *entity.LikedOrder) error
	Get(ctx context.Context, userID string, orderID int64) (*entity.LikedOrder, error)
	GetByUserID(ctx context.Context, userID string) ([]entity.LikedOrder, error)
	Delete(ctx context.Context, userID string, orderID int64) (bool, error)
}

type likedOrderRepository struct {
}

func NewLikedOrderRepository() *likedOrderRepository {
	return &likedOrderRepository{}
}

func (r *likedOrderRepository) Create(ctx context.Context, liked *entity.LikedOrder) error {
	return xcontext.DB(ctx).Create(liked).Error
}

func (r *likedOrderRepository) Get(ctx context.Context, userID string, orderID int64) (*entity.LikedOrder, error) {
	var result entity.LikedOrder
	err := xcontext.DB(ctx).
		Where("user_id = ? AND order_id = ?", userID, orderID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *likedOrderRepository) GetByUserID(ctx context.Context, userID string) ([]entity.LikedOrder, error) {
	var result []entity.LikedOrder
	err := xcontext.DB(ctx).Where("user_id = ?", userID).Order("id DESC").Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *likedOrderRepository) Delete(ctx context.Context, userID string, orderID int64) (bool, error) {
	tx := xcontext.DB(ctx).
		Where("user_id = ? AND order_id = ?", userID, orderID).
		Delete(&entity.LikedOrder{})
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}
