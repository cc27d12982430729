package repository

import (
	"context"

	"github.com/yours-lab/backend/internal/entity"
	"github.com/yours-lab/backend/pkg/xcontext"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetBySnsID(ctx context.Context, snsID string) (*entity.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.User, error)
	UpdateByID(ctx context.Context, id string, user *entity.User) error
	SearchByName(ctx context.Context, name string, offset, limit int) ([]entity.User, error)
	Count(ctx context.Context) (int64, error)
}

type userRepository struct {
}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return xcontext.DB(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var result entity.User
	err := xcontext.DB(ctx).Where("id = ?", id).Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) GetBySnsID(ctx context.Context, snsID string) (*entity.User, error) {
	var result entity.User
	err := xcontext.DB(ctx).Where("sns_id = ?", snsID).Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	var result []entity.User
	err := xcontext.DB(ctx).Where("id IN (?)", ids).Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) UpdateByID(ctx context.Context, id string, user *entity.User) error {
	return xcontext.DB(ctx).Model(&entity.User{}).
		Where("id = ?", id).
		Updates(user).Error
}

func (r *userRepository) SearchByName(ctx context.Context, name string, offset, limit int) ([]entity.User, error) {
	var result []entity.User
	err := xcontext.DB(ctx).
		Where("name LIKE ?", "%"+name+"%").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.User{}).Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
