package repository

import (
	"context"

	"github.com/yours-lab/backend/internal/entity"
	"github.com/yours-lab/backend/pkg/xcontext"
)

type BenefitRepository interface {
	CreateDraft(ctx context.Context, draft *entity.BenefitDraft) error
	GetDraft(ctx context.Context, id int64) (*entity.BenefitDraft, error)
	GetDraftsByNftID(ctx context.Context, nftID int64) ([]entity.BenefitDraft, error)
	UpdateDraftByID(ctx context.Context, id int64, draft *entity.BenefitDraft) error
	DeleteDraftByID(ctx context.Context, id int64) error

	GetByNftID(ctx context.Context, nftID int64) ([]entity.Benefit, error)

	// Publish replaces the published benefits of a token with a
	// snapshot of its drafts. Run it inside a DB transaction with the
	// deploy bookkeeping.
	Publish(ctx context.Context, nftID int64) error
}

type benefitRepository struct {
}

func NewBenefitRepository() *benefitRepository {
	return &benefitRepository{}
}

func (r *benefitRepository) CreateDraft(ctx context.Context, draft *entity.BenefitDraft) error {
	return xcontext.DB(ctx).Create(draft).Error
}

func (r *benefitRepository) GetDraft(ctx context.Context, id int64) (*entity.BenefitDraft, error) {
	var result entity.BenefitDraft
	err := xcontext.DB(ctx).Where("id = ?", id).Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *benefitRepository) GetDraftsByNftID(ctx context.Context, nftID int64) ([]entity.BenefitDraft, error) {
	var result []entity.BenefitDraft
	err := xcontext.DB(ctx).Where("nft_id = ?", nftID).Order("id ASC").Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *benefitRepository) UpdateDraftByID(ctx context.Context, id int64, draft *entity.BenefitDraft) error {
	return xcontext.DB(ctx).Model(&entity.BenefitDraft{}).
		Where("id = ?", id).
		Updates(draft).Error
}

func (r *benefitRepository) DeleteDraftByID(ctx context.Context, id int64) error {
	return xcontext.DB(ctx).Where("id = ?", id).Delete(&entity.BenefitDraft{}).Error
}

func (r *benefitRepository) GetByNftID(ctx context.Context, nftID int64) ([]entity.Benefit, error) {
	var result []entity.Benefit
	err := xcontext.DB(ctx).Where("nft_id = ?", nftID).Order("id ASC").Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *benefitRepository) Publish(ctx context.Context, nftID int64) error {
	drafts, err := r.GetDraftsByNftID(ctx, nftID)
	if err != nil {
		return err
	}

	err = xcontext.DB(ctx).Unscoped().
		Where("nft_id = ?", nftID).
		Delete(&entity.Benefit{}).Error
	if err != nil {
		return err
	}

	for _, draft := range drafts {
		benefit := &entity.Benefit{
			NftID:       draft.NftID,
			Name:        draft.Name,
			Description: draft.Description,
			Category:    draft.Category,
			Option:      draft.Option,
		}
		if err := xcontext.DB(ctx).Create(benefit).Error; err != nil {
			return err
		}
	}

	return nil
}
