package repository

import (
	"context"
	"errors"

	"github.com/yours-lab/backend/internal/entity"
	"github.com/yours-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type SellApprovalRepository interface {
	Exists(ctx context.Context, chainType entity.ChainType, nftAddress string) (bool, error)
	Create(ctx context.Context, approval *entity.SellApproval) error
}

type sellApprovalRepository struct {
}

func NewSellApprovalRepository() *sellApprovalRepository {
	return &sellApprovalRepository{}
}

func (r *sellApprovalRepository) Exists(
	ctx context.Context, chainType entity.ChainType, nftAddress string,
) (bool, error) {
	var result entity.SellApproval
	err := xcontext.DB(ctx).
		Where("chain_type = ? AND nft_address = ?", chainType, nftAddress).
		Take(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (r *sellApprovalRepository) Create(ctx context.Context, approval *entity.SellApproval) error {
	return xcontext.DB(ctx).Create(approval).Error
}
