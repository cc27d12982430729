package repository

import (
	"context"
	"time"

	"github.com/yours-lab/backend/internal/entity"
	"github.com/yours-lab/backend/pkg/xcontext"
)

type NftRepository interface {
	Create(ctx context.Context, nft *entity.NonFungibleToken) error
	GetByID(ctx context.Context, id int64) (*entity.NonFungibleToken, error)
	GetByIDs(ctx context.Context, ids []int64) ([]entity.NonFungibleToken, error)
	GetByAddress(ctx context.Context, address string) (*entity.NonFungibleToken, error)
	GetByOriginAddress(ctx context.Context, originAddress string) (*entity.NonFungibleToken, error)
	GetByCreator(ctx context.Context, creatorID string) ([]entity.NonFungibleToken, error)
	SearchByName(ctx context.Context, name string, offset, limit int) ([]entity.NonFungibleToken, error)
	UpdateByID(ctx context.Context, id int64, nft *entity.NonFungibleToken) error
	DeleteByID(ctx context.Context, id int64) error

	// BeginDeploy flips is_loading with a guard against concurrent or
	// repeated publishes. The returned flag is false when the row was
	// already loading or deployed.
	BeginDeploy(ctx context.Context, id int64) (bool, error)
	BeginUpdate(ctx context.Context, id int64) (bool, error)
	FinishDeploy(ctx context.Context, id int64, nftAddress string) error
	FinishUpdate(ctx context.Context, id int64) error
	ClearLoading(ctx context.Context, id int64) error
}

type nftRepository struct {
}

func NewNftRepository() *nftRepository {
	return &nftRepository{}
}

func (r *nftRepository) Create(ctx context.Context, nft *entity.NonFungibleToken) error {
	return xcontext.DB(ctx).Create(nft).Error
}

func (r *nftRepository) GetByID(ctx context.Context, id int64) (*entity.NonFungibleToken, error) {
	var result entity.NonFungibleToken
	err := xcontext.DB(ctx).Where("id = ?", id).Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *nftRepository) GetByIDs(ctx context.Context, ids []int64) ([]entity.NonFungibleToken, error) {
	var result []entity.NonFungibleToken
	err := xcontext.DB(ctx).Where("id IN (?)", ids).Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *nftRepository) GetByAddress(ctx context.Context, address string) (*entity.NonFungibleToken, error) {
	var result entity.NonFungibleToken
	err := xcontext.DB(ctx).Where("nft_address = ?", address).Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *nftRepository) GetByOriginAddress(
	ctx context.Context, originAddress string,
) (*entity.NonFungibleToken, error) {
	var result entity.NonFungibleToken
	err := xcontext.DB(ctx).Where("origin_address = ?", originAddress).Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *nftRepository) GetByCreator(ctx context.Context, creatorID string) ([]entity.NonFungibleToken, error) {
	var result []entity.NonFungibleToken
	err := xcontext.DB(ctx).
		Where("owner_id = ?", creatorID).
		Order("id DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *nftRepository) SearchByName(
	ctx context.Context, name string, offset, limit int,
) ([]entity.NonFungibleToken, error) {
	var result []entity.NonFungibleToken
	err := xcontext.DB(ctx).
		Where("name LIKE ?", "%"+name+"%").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *nftRepository) UpdateByID(ctx context.Context, id int64, nft *entity.NonFungibleToken) error {
	return xcontext.DB(ctx).Model(&entity.NonFungibleToken{}).
		Where("id = ?", id).
		Updates(nft).Error
}

func (r *nftRepository) DeleteByID(ctx context.Context, id int64) error {
	return xcontext.DB(ctx).Where("id = ?", id).Delete(&entity.NonFungibleToken{}).Error
}

func (r *nftRepository) BeginDeploy(ctx context.Context, id int64) (bool, error) {
	tx := xcontext.DB(ctx).Model(&entity.NonFungibleToken{}).
		Where("id = ? AND is_loading = ? AND is_deployed = ?", id, false, false).
		Update("is_loading", true)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *nftRepository) BeginUpdate(ctx context.Context, id int64) (bool, error) {
	tx := xcontext.DB(ctx).Model(&entity.NonFungibleToken{}).
		Where("id = ? AND is_loading = ? AND is_deployed = ?", id, false, true).
		Update("is_loading", true)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *nftRepository) FinishDeploy(ctx context.Context, id int64, nftAddress string) error {
	return xcontext.DB(ctx).Model(&entity.NonFungibleToken{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"nft_address":      nftAddress,
			"is_deployed":      true,
			"is_edited":        false,
			"is_loading":       false,
			"transaction_date": time.Now(),
		}).Error
}

func (r *nftRepository) FinishUpdate(ctx context.Context, id int64) error {
	return xcontext.DB(ctx).Model(&entity.NonFungibleToken{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_edited":  false,
			"is_loading": false,
		}).Error
}

func (r *nftRepository) ClearLoading(ctx context.Context, id int64) error {
	return xcontext.DB(ctx).Model(&entity.NonFungibleToken{}).
		Where("id = ?", id).
		Update("is_loading", false).Error
}
