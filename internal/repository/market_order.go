package repository

import (
	"context"
	"database/sql"

	"github.com/yours-lab/backend/internal/entity"
	"github.com/yours-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type MarketOrderFilter struct {
	SellerID string
	BuyerID  string
	NftID    int64
	Status   entity.OrderStatus

	// SortByLikes orders the most liked listings first instead of the
	// most recent ones.
	SortByLikes bool

	Offset int
	Limit  int
}

type MarketOrderRepository interface {
	Create(ctx context.Context, order *entity.MarketOrder) error
	GetByID(ctx context.Context, id int64) (*entity.MarketOrder, error)
	GetList(ctx context.Context, filter MarketOrderFilter) ([]entity.MarketOrder, error)
	CountSoldByAddress(ctx context.Context, nftAddress string) (int64, error)

	// BeginPurchase flips is_loading only when the listing is still
	// pending and free. The returned flag is false on a lost race.
	BeginPurchase(ctx context.Context, id int64) (bool, error)
	AttachTx(ctx context.Context, id int64, buyerID, txHash string) error
	FinishPurchase(ctx context.Context, id int64, buyerID string, status entity.OrderStatus) error
	ClearLoading(ctx context.Context, id int64) error

	IncreaseLikeCount(ctx context.Context, id int64) error
	DecreaseLikeCount(ctx context.Context, id int64) error
}

type marketOrderRepository struct {
}

func NewMarketOrderRepository() *marketOrderRepository {
	return &marketOrderRepository{}
}

func (r *marketOrderRepository) Create(ctx context.Context, order *entity.MarketOrder) error {
	return xcontext.DB(ctx).Create(order).Error
}

func (r *marketOrderRepository) GetByID(ctx context.Context, id int64) (*entity.MarketOrder, error) {
	var result entity.MarketOrder
	err := xcontext.DB(ctx).Where("id = ?", id).Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *marketOrderRepository) GetList(
	ctx context.Context, filter MarketOrderFilter,
) ([]entity.MarketOrder, error) {
	tx := xcontext.DB(ctx).Model(&entity.MarketOrder{})
	if filter.SellerID != "" {
		tx = tx.Where("seller_id = ?", filter.SellerID)
	}

	if filter.BuyerID != "" {
		tx = tx.Where("buyer_id = ?", filter.BuyerID)
	}

	if filter.NftID != 0 {
		tx = tx.Where("nft_id = ?", filter.NftID)
	}

	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}

	if filter.Limit != 0 {
		tx = tx.Offset(filter.Offset).Limit(filter.Limit)
	}

	order := "id DESC"
	if filter.SortByLikes {
		order = "like_count DESC, id DESC"
	}

	var result []entity.MarketOrder
	if err := tx.Order(order).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *marketOrderRepository) CountSoldByAddress(ctx context.Context, nftAddress string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.MarketOrder{}).
		Where("nft_address = ?", nftAddress).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *marketOrderRepository) BeginPurchase(ctx context.Context, id int64) (bool, error) {
	tx := xcontext.DB(ctx).Model(&entity.MarketOrder{}).
		Where("id = ? AND is_loading = ? AND status = ?", id, false, entity.OrderPending).
		Update("is_loading", true)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *marketOrderRepository) AttachTx(ctx context.Context, id int64, buyerID, txHash string) error {
	return xcontext.DB(ctx).Model(&entity.MarketOrder{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"buyer_id": sql.NullString{String: buyerID, Valid: true},
			"tx_hash":  txHash,
		}).Error
}

func (r *marketOrderRepository) FinishPurchase(
	ctx context.Context, id int64, buyerID string, status entity.OrderStatus,
) error {
	return xcontext.DB(ctx).Model(&entity.MarketOrder{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"buyer_id":   sql.NullString{String: buyerID, Valid: true},
			"status":     status,
			"is_loading": false,
		}).Error
}

func (r *marketOrderRepository) ClearLoading(ctx context.Context, id int64) error {
	return xcontext.DB(ctx).Model(&entity.MarketOrder{}).
		Where("id = ?", id).
		Update("is_loading", false).Error
}

func (r *marketOrderRepository) IncreaseLikeCount(ctx context.Context, id int64) error {
	tx := xcontext.DB(ctx).Model(&entity.MarketOrder{}).
		Where("id = ?", id).
		Update("like_count", gorm.Expr("like_count+1"))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *marketOrderRepository) DecreaseLikeCount(ctx context.Context, id int64) error {
	tx := xcontext.DB(ctx).Model(&entity.MarketOrder{}).
		Where("id = ? AND like_count > 0", id).
		Update("like_count", gorm.Expr("like_count-1"))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
