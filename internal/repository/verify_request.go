package repository

import (
	"context"

	"github.com/yours-lab/backend/internal/entity"
	"github.com/yours-lab/backend/pkg/xcontext"
)

type VerifyRequestRepository interface {
	Create(ctx context.Context, request *entity.VerifyRequest) error
	GetByID(ctx context.Context, id int64) (*entity.VerifyRequest, error)
	GetPending(ctx context.Context, userID string, nftID int64) (*entity.VerifyRequest, error)
	GetPendingByNftID(ctx context.Context, nftID int64) ([]entity.VerifyRequest, error)
	GetAllPending(ctx context.Context, offset, limit int) ([]entity.VerifyRequest, error)
	Resolve(ctx context.Context, id int64, rejectReason string) error
}

type verifyRequestRepository struct {
}

func NewVerifyRequestRepository() *verifyRequestRepository {
	return &verifyRequestRepository{}
}

func (r *verifyRequestRepository) Create(ctx context.Context, request *entity.VerifyRequest) error {
	return xcontext.DB(ctx).Create(request).Error
}

func (r *verifyRequestRepository) GetByID(ctx context.Context, id int64) (*entity.VerifyRequest, error) {
	var result entity.VerifyRequest
	err := xcontext.DB(ctx).Where("id = ?", id).Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *verifyRequestRepository) GetPending(
	ctx context.Context, userID string, nftID int64,
) (*entity.VerifyRequest, error) {
	var result entity.VerifyRequest
	err := xcontext.DB(ctx).
		Where("user_id = ? AND nft_id = ?", userID, nftID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *verifyRequestRepository) GetPendingByNftID(
	ctx context.Context, nftID int64,
) ([]entity.VerifyRequest, error) {
	var result []entity.VerifyRequest
	err := xcontext.DB(ctx).
		Where("nft_id = ?", nftID).
		Order("id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *verifyRequestRepository) GetAllPending(
	ctx context.Context, offset, limit int,
) ([]entity.VerifyRequest, error) {
	tx := xcontext.DB(ctx).Order("id ASC")
	if limit != 0 {
		tx = tx.Offset(offset).Limit(limit)
	}

	var result []entity.VerifyRequest
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// Resolve soft-deletes the request so the user can submit a new one.
// The reject reason stays readable through Unscoped queries.
func (r *verifyRequestRepository) Resolve(ctx context.Context, id int64, rejectReason string) error {
	if rejectReason != "" {
		err := xcontext.DB(ctx).Model(&entity.VerifyRequest{}).
			Where("id = ?", id).
			Update("reject_reason", rejectReason).Error
		if err != nil {
			return err
		}
	}

	return xcontext.DB(ctx).Where("id = ?", id).Delete(&entity.VerifyRequest{}).Error
}
