package repository

import (
	"context"

	"github.com/yours-lab/backend/internal/entity"
	"github.com/yours-lab/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type UserWalletRepository interface {
	Upsert(ctx context.Context, wallet *entity.UserWallet) error
	GetByUserID(ctx context.Context, userID string) ([]entity.UserWallet, error)
	Get(ctx context.Context, userID string, chainType entity.ChainType) (*entity.UserWallet, error)
}

type userWalletRepository struct {
}

func NewUserWalletRepository() *userWalletRepository {
	return &userWalletRepository{}
}

func (r *userWalletRepository) Upsert(ctx context.Context, wallet *entity.UserWallet) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "chain_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"address"}),
	}).Create(wallet).Error
}

func (r *userWalletRepository) GetByUserID(ctx context.Context, userID string) ([]entity.UserWallet, error) {
	var result []entity.UserWallet
	err := xcontext.DB(ctx).Where("user_id = ?", userID).Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userWalletRepository) Get(
	ctx context.Context, userID string, chainType entity.ChainType,
) (*entity.UserWallet, error) {
	var result entity.UserWallet
	err := xcontext.DB(ctx).
		Where("user_id = ? AND chain_type = ?", userID, chainType).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}
