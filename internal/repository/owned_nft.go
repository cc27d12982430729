package repository

import (
	"context"

	"github.com/yours-lab/backend/internal/entity"
	"github.com/yours-lab/backend/pkg/xcontext"
)

type OwnedNftRepository interface {
	Create(ctx context.Context, owned *entity.OwnedNft) error
	Get(ctx context.Context, userID string, nftID, mintID int64) (*entity.OwnedNft, error)
	GetByUserID(ctx context.Context, userID string) ([]entity.OwnedNft, error)
	GetByNftID(ctx context.Context, nftID int64) ([]entity.OwnedNft, error)
	Delete(ctx context.Context, userID string, nftID, mintID int64) error

	// Lock and Unlock guard bundle membership and transfers. Both
	// report false when the row was not in the expected state.
	Lock(ctx context.Context, userID string, nftID, mintID int64) (bool, error)
	Unlock(ctx context.Context, userID string, nftID, mintID int64) (bool, error)

	// Move reassigns ownership after a marketplace settlement.
	Move(ctx context.Context, fromUserID, toUserID string, nftID, mintID int64) error
}

type ownedNftRepository struct {
}

func NewOwnedNftRepository() *ownedNftRepository {
	return &ownedNftRepository{}
}

func (r *ownedNftRepository) Create(ctx context.Context, owned *entity.OwnedNft) error {
	return xcontext.DB(ctx).Create(owned).Error
}

func (r *ownedNftRepository) Get(
	ctx context.Context, userID string, nftID, mintID int64,
) (*entity.OwnedNft, error) {
	var result entity.OwnedNft
	err := xcontext.DB(ctx).
		Where("user_id = ? AND nft_id = ? AND mint_id = ?", userID, nftID, mintID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *ownedNftRepository) GetByUserID(ctx context.Context, userID string) ([]entity.OwnedNft, error) {
	var result []entity.OwnedNft
	err := xcontext.DB(ctx).Where("user_id = ?", userID).Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *ownedNftRepository) GetByNftID(ctx context.Context, nftID int64) ([]entity.OwnedNft, error) {
	var result []entity.OwnedNft
	err := xcontext.DB(ctx).Where("nft_id = ?", nftID).Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *ownedNftRepository) Delete(ctx context.Context, userID string, nftID, mintID int64) error {
	return xcontext.DB(ctx).
		Where("user_id = ? AND nft_id = ? AND mint_id = ?", userID, nftID, mintID).
		Delete(&entity.OwnedNft{}).Error
}

func (r *ownedNftRepository) Lock(ctx context.Context, userID string, nftID, mintID int64) (bool, error) {
	tx := xcontext.DB(ctx).Model(&entity.OwnedNft{}).
		Where("user_id = ? AND nft_id = ? AND mint_id = ? AND is_locked = ?",
			userID, nftID, mintID, false).
		Update("is_locked", true)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *ownedNftRepository) Unlock(ctx context.Context, userID string, nftID, mintID int64) (bool, error) {
	tx := xcontext.DB(ctx).Model(&entity.OwnedNft{}).
		Where("user_id = ? AND nft_id = ? AND mint_id = ? AND is_locked = ?",
			userID, nftID, mintID, true).
		Update("is_locked", false)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *ownedNftRepository) Move(
	ctx context.Context, fromUserID, toUserID string, nftID, mintID int64,
) error {
	return xcontext.DB(ctx).Model(&entity.OwnedNft{}).
		Where("user_id = ? AND nft_id = ? AND mint_id = ?", fromUserID, nftID, mintID).
		Update("user_id", toUserID).Error
}
