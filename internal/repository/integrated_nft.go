package repository

import (
	"context"

	"github.com/yours-lab/backend/internal/entity"
	"github.com/yours-lab/backend/pkg/xcontext"
)

type IntegratedNftRepository interface {
	Create(ctx context.Context, integrated *entity.IntegratedNft) error
	GetByID(ctx context.Context, id int64) (*entity.IntegratedNft, error)
	GetByCreator(ctx context.Context, creatorID string) ([]entity.IntegratedNft, error)
	DeleteByID(ctx context.Context, id int64) error

	CreateMember(ctx context.Context, member *entity.IntegratedNftMember) error
	GetMembers(ctx context.Context, integratedID int64) ([]entity.IntegratedNftMember, error)
	DeleteMembers(ctx context.Context, integratedID int64) error
}

type integratedNftRepository struct {
}

func NewIntegratedNftRepository() *integratedNftRepository {
	return &integratedNftRepository{}
}

func (r *integratedNftRepository) Create(ctx context.Context, integrated *entity.IntegratedNft) error {
	return xcontext.DB(ctx).Create(integrated).Error
}

func (r *integratedNftRepository) GetByID(ctx context.Context, id int64) (*entity.IntegratedNft, error) {
	var result entity.IntegratedNft
	err := xcontext.DB(ctx).Where("id = ?", id).Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *integratedNftRepository) GetByCreator(ctx context.Context, creatorID string) ([]entity.IntegratedNft, error) {
	var result []entity.IntegratedNft
	err := xcontext.DB(ctx).Where("creator_id = ?", creatorID).Order("id DESC").Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *integratedNftRepository) DeleteByID(ctx context.Context, id int64) error {
	return xcontext.DB(ctx).Where("id = ?", id).Delete(&entity.IntegratedNft{}).Error
}

func (r *integratedNftRepository) CreateMember(ctx context.Context, member *entity.IntegratedNftMember) error {
	return xcontext.DB(ctx).Create(member).Error
}

func (r *integratedNftRepository) GetMembers(
	ctx context.Context, integratedID int64,
) ([]entity.IntegratedNftMember, error) {
	var result []entity.IntegratedNftMember
	err := xcontext.DB(ctx).Where("integrated_id = ?", integratedID).Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *integratedNftRepository) DeleteMembers(ctx context.Context, integratedID int64) error {
	return xcontext.DB(ctx).
		Where("integrated_id = ?", integratedID).
		Delete(&entity.IntegratedNftMember{}).Error
}
