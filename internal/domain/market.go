package domain

import (
	"context"
	"errors"

	"github.com/yours-lab/backend/internal/chain"
	"github.com/yours-lab/backend/internal/entity"
	"github.com/yours-lab/backend/internal/model"
	"github.com/yours-lab/backend/internal/repository"
	"github.com/yours-lab/backend/pkg/errorx"
	"github.com/yours-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type MarketDomain interface {
	GetList(context.Context, *model.GetMarketOrdersRequest) (*model.GetMarketOrdersResponse, error)
	GetDetail(context.Context, *model.GetMarketOrderDetailRequest) (*model.GetMarketOrderDetailResponse, error)
	GetOthers(context.Context, *model.GetOtherOrdersRequest) (*model.GetOtherOrdersResponse, error)
	Sell(context.Context, *model.SellNftRequest) (*model.SellNftResponse, error)
	Buy(context.Context, *model.BuyNftRequest) (*model.BuyNftResponse, error)
	Like(context.Context, *model.LikeOrderRequest) (*model.LikeOrderResponse, error)
	Unlike(context.Context, *model.UnlikeOrderRequest) (*model.UnlikeOrderResponse, error)
}

type marketDomain struct {
	orderRepo    repository.MarketOrderRepository
	likedRepo    repository.LikedOrderRepository
	nftRepo      repository.NftRepository
	benefitRepo  repository.BenefitRepository
	ownedRepo    repository.OwnedNftRepository
	walletRepo   repository.UserWalletRepository
	pointRepo    repository.PointRepository
	approvalRepo repository.SellApprovalRepository
	taskRepo     repository.ChainTaskRepository
	chains       *chain.Manager
}

func NewMarketDomain(
	orderRepo repository.MarketOrderRepository,
	likedRepo repository.LikedOrderRepository,
	nftRepo repository.NftRepository,
	benefitRepo repository.BenefitRepository,
	ownedRepo repository.OwnedNftRepository,
	walletRepo repository.UserWalletRepository,
	pointRepo repository.PointRepository,
	approvalRepo repository.SellApprovalRepository,
	taskRepo repository.ChainTaskRepository,
	chains *chain.Manager,
) *marketDomain {
	return &marketDomain{
		orderRepo:    orderRepo,
		likedRepo:    likedRepo,
		nftRepo:      nftRepo,
		benefitRepo:  benefitRepo,
		ownedRepo:    ownedRepo,
		walletRepo:   walletRepo,
		pointRepo:    pointRepo,
		approvalRepo: approvalRepo,
		taskRepo:     taskRepo,
		chains:       chains,
	}
}

func (d *marketDomain) GetList(
	ctx context.Context, req *model.GetMarketOrdersRequest,
) (*model.GetMarketOrdersResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	cfg := xcontext.Configs(ctx).ApiServer

	limit := req.Limit
	if limit == 0 {
		limit = cfg.DefaultLimit
	}

	if limit > cfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceeded the maximum limit of %d", cfg.MaxLimit)
	}

	var sortByLikes bool
	switch req.Sort {
	case "", "latest":
	case "hottest":
		sortByLikes = true
	default:
		return nil, errorx.New(errorx.BadRequest, "Invalid sort %s", req.Sort)
	}

	var orders []entity.MarketOrder
	var err error
	switch req.Type {
	case "", "all":
		orders, err = d.orderRepo.GetList(ctx, repository.MarketOrderFilter{
			Status:      entity.OrderPending,
			SortByLikes: sortByLikes,
			Offset:      req.Offset,
			Limit:       limit,
		})

	case "sell":
		orders, err = d.orderRepo.GetList(ctx, repository.MarketOrderFilter{
			SellerID:    userID,
			SortByLikes: sortByLikes,
			Offset:      req.Offset,
			Limit:       limit,
		})

	case "buy":
		orders, err = d.orderRepo.GetList(ctx, repository.MarketOrderFilter{
			BuyerID:     userID,
			Status:      entity.OrderSuccess,
			SortByLikes: sortByLikes,
			Offset:      req.Offset,
			Limit:       limit,
		})

	case "like":
		return d.likedList(ctx, userID)

	default:
		return nil, errorx.New(errorx.BadRequest, "Invalid type %s", req.Type)
	}

	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get market orders: %v", err)
		return nil, errorx.Unknown
	}

	return d.ordersResponse(ctx, userID, orders)
}

func (d *marketDomain) likedList(ctx context.Context, userID string) (*model.GetMarketOrdersResponse, error) {
	likes, err := d.likedRepo.GetByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get liked orders: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetMarketOrdersResponse{Orders: []model.MarketOrder{}}
	for _, like := range likes {
		order, err := d.orderRepo.GetByID(ctx, like.OrderID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get order %d: %v", like.OrderID, err)
			return nil, errorx.Unknown
		}

		nft, err := d.nftRepo.GetByID(ctx, order.NftID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get nft %d: %v", order.NftID, err)
			return nil, errorx.Unknown
		}

		resp.Orders = append(resp.Orders, convertMarketOrder(order, nft, true))
	}

	return resp, nil
}

func (d *marketDomain) ordersResponse(
	ctx context.Context, userID string, orders []entity.MarketOrder,
) (*model.GetMarketOrdersResponse, error) {
	resp := &model.GetMarketOrdersResponse{Orders: []model.MarketOrder{}}
	for i := range orders {
		nft, err := d.nftRepo.GetByID(ctx, orders[i].NftID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get nft %d: %v", orders[i].NftID, err)
			return nil, errorx.Unknown
		}

		liked, err := d.isLiked(ctx, userID, orders[i].ID)
		if err != nil {
			return nil, err
		}

		resp.Orders = append(resp.Orders, convertMarketOrder(&orders[i], nft, liked))
	}

	return resp, nil
}

func (d *marketDomain) isLiked(ctx context.Context, userID string, orderID int64) (bool, error) {
	if userID == "" {
		return false, nil
	}

	_, err := d.likedRepo.Get(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get liked order: %v", err)
		return false, errorx.Unknown
	}

	return true, nil
}

func (d *marketDomain) GetDetail(
	ctx context.Context, req *model.GetMarketOrderDetailRequest,
) (*model.GetMarketOrderDetailResponse, error) {
	order, err := d.order(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	nft, err := d.nftRepo.GetByID(ctx, order.NftID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get nft %d: %v", order.NftID, err)
		return nil, errorx.Unknown
	}

	liked, err := d.isLiked(ctx, xcontext.RequestUserID(ctx), order.ID)
	if err != nil {
		return nil, err
	}

	benefits, err := d.benefitRepo.GetByNftID(ctx, order.NftID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get benefits of %d: %v", order.NftID, err)
		return nil, errorx.Unknown
	}

	resp := &model.GetMarketOrderDetailResponse{
		Order:    convertMarketOrder(order, nft, liked),
		Benefits: []model.Benefit{},
	}
	for i := range benefits {
		resp.Benefits = append(resp.Benefits, convertBenefit(&benefits[i]))
	}

	return resp, nil
}

func (d *marketDomain) GetOthers(
	ctx context.Context, req *model.GetOtherOrdersRequest,
) (*model.GetOtherOrdersResponse, error) {
	order, err := d.order(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	orders, err := d.orderRepo.GetList(ctx, repository.MarketOrderFilter{
		NftID:  order.NftID,
		Status: entity.OrderPending,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get other orders: %v", err)
		return nil, errorx.Unknown
	}

	userID := xcontext.RequestUserID(ctx)
	resp := &model.GetOtherOrdersResponse{Orders: []model.MarketOrder{}}
	for i := range orders {
		if orders[i].ID == order.ID {
			continue
		}

		nft, err := d.nftRepo.GetByID(ctx, orders[i].NftID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get nft %d: %v", orders[i].NftID, err)
			return nil, errorx.Unknown
		}

		liked, err := d.isLiked(ctx, userID, orders[i].ID)
		if err != nil {
			return nil, err
		}

		resp.Orders = append(resp.Orders, convertMarketOrder(&orders[i], nft, liked))
	}

	return resp, nil
}

func (d *marketDomain) Sell(ctx context.Context, req *model.SellNftRequest) (*model.SellNftResponse, error) {
	if req.Price <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow a non-positive price")
	}

	userID := xcontext.RequestUserID(ctx)
	owned, err := d.ownedRepo.Get(ctx, userID, req.NftID, req.MintID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "You do not own this token")
		}

		xcontext.Logger(ctx).Errorf("Cannot get owned nft: %v", err)
		return nil, errorx.Unknown
	}

	if owned.IsLocked {
		return nil, errorx.New(errorx.Locked, "This token is a member of an integrated nft")
	}

	nft, err := d.nftRepo.GetByID(ctx, req.NftID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get nft %d: %v", req.NftID, err)
		return nil, errorx.Unknown
	}

	adapter, err := d.chains.Get(nft.ChainType)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get adapter: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.approveOnce(ctx, adapter, nft); err != nil {
		return nil, err
	}

	result, err := adapter.Sell(ctx, nft.NftAddress, req.MintID, req.Price)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot register sale of %d: %v", req.NftID, err)
		return nil, errorx.New(errorx.Unavailable, "Cannot register sale on %s", nft.ChainType)
	}

	order := &entity.MarketOrder{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		NftID:         nft.ID,
		NftAddress:    nft.NftAddress,
		MintID:        req.MintID,
		SellerID:      userID,
		Price:         req.Price,
		TxHash:        result.TxHash,
		Status:        entity.OrderPending,
	}

	if err := d.orderRepo.Create(ctx, order); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create market order: %v", err)
		return nil, errorx.Unknown
	}

	return &model.SellNftResponse{Order: convertMarketOrder(order, nft, false)}, nil
}

// approveOnce grants the marketplace contract operator rights over a
// collection the first time one of its tokens is listed. Later listings
// reuse the recorded approval.
func (d *marketDomain) approveOnce(
	ctx context.Context, adapter chain.Adapter, nft *entity.NonFungibleToken,
) error {
	approved, err := d.approvalRepo.Exists(ctx, nft.ChainType, nft.NftAddress)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check sell approval: %v", err)
		return errorx.Unknown
	}

	if approved {
		return nil
	}

	if _, err := adapter.ApproveToSell(ctx, nft.NftAddress); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot approve %s to sell: %v", nft.NftAddress, err)
		return errorx.New(errorx.Unavailable, "Cannot approve on %s", nft.ChainType)
	}

	err = d.approvalRepo.Create(ctx, &entity.SellApproval{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		ChainType:     nft.ChainType,
		NftAddress:    nft.NftAddress,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot record sell approval: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (d *marketDomain) Buy(ctx context.Context, req *model.BuyNftRequest) (*model.BuyNftResponse, error) {
	order, err := d.order(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	if order.SellerID == userID {
		return nil, errorx.New(errorx.BadRequest, "Not allow buying your own listing")
	}

	// The client echoes the price it displayed. A stale page must not
	// buy at a price the user never saw.
	if order.Price != req.Price {
		return nil, errorx.New(errorx.PriceMismatch,
			"The price has changed to %g, reload and try again", order.Price)
	}

	balance, err := d.pointRepo.Balance(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get balance of %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	if balance < order.Price {
		return nil, errorx.New(errorx.InsufficientBalance,
			"You need %g YRP but have %g", order.Price, balance)
	}

	nft, err := d.nftRepo.GetByID(ctx, order.NftID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get nft %d: %v", order.NftID, err)
		return nil, errorx.Unknown
	}

	wallet, err := d.walletRepo.Get(ctx, userID, nft.ChainType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.BadRequest, "You need a %s wallet first", nft.ChainType)
		}

		xcontext.Logger(ctx).Errorf("Cannot get wallet: %v", err)
		return nil, errorx.Unknown
	}

	adapter, err := d.chains.Get(nft.ChainType)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get adapter: %v", err)
		return nil, errorx.Unknown
	}

	ok, err := d.orderRepo.BeginPurchase(ctx, order.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot begin purchase of %d: %v", order.ID, err)
		return nil, errorx.Unknown
	}

	if !ok {
		return nil, errorx.New(errorx.AlreadyLoading, "This listing is not available anymore")
	}

	result, err := adapter.Buy(ctx, order.NftAddress, order.MintID, wallet.Address)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot buy order %d: %v", order.ID, err)
		d.clearLoading(ctx, order.ID)
		return nil, errorx.New(errorx.Unavailable, "Cannot buy on %s", nft.ChainType)
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.orderRepo.AttachTx(ctx, order.ID, userID, result.TxHash); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot attach tx to order %d: %v", order.ID, err)
		return nil, errorx.Unknown
	}

	// Reserve the funds next to the outbox row. The incomplete debit
	// keeps a second purchase from spending the same balance while
	// this one waits for its transaction; settlement completes it and
	// a failed transaction deletes it.
	err = d.pointRepo.Create(ctx, &entity.PointRecord{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		UserID:        userID,
		YrpAmount:     -order.Price,
		Type:          entity.PointBuy,
		TxHash:        result.TxHash,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reserve points for order %d: %v", order.ID, err)
		return nil, errorx.Unknown
	}

	// The purchase settles when the background poller confirms the
	// transaction. The outbox row survives a restart in between.
	err = d.taskRepo.Create(ctx, &entity.ChainTask{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		Type:          entity.TaskPurchase,
		Status:        entity.TaskPending,
		ChainType:     nft.ChainType,
		TxHash:        result.TxHash,
		OrderID:       order.ID,
		BuyerID:       userID,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create chain task: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	order, err = d.order(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	return &model.BuyNftResponse{Order: convertMarketOrder(order, nft, false)}, nil
}

func (d *marketDomain) clearLoading(ctx context.Context, orderID int64) {
	if err := d.orderRepo.ClearLoading(ctx, orderID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot clear loading of order %d: %v", orderID, err)
	}
}

func (d *marketDomain) Like(ctx context.Context, req *model.LikeOrderRequest) (*model.LikeOrderResponse, error) {
	order, err := d.order(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	if _, err := d.likedRepo.Get(ctx, userID, order.ID); err == nil {
		return nil, errorx.New(errorx.AlreadyLiked, "You already liked this listing")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get liked order: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = d.likedRepo.Create(ctx, &entity.LikedOrder{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		UserID:        userID,
		OrderID:       order.ID,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create liked order: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.orderRepo.IncreaseLikeCount(ctx, order.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase like count of %d: %v", order.ID, err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.LikeOrderResponse{LikeCount: order.LikeCount + 1}, nil
}

func (d *marketDomain) Unlike(ctx context.Context, req *model.UnlikeOrderRequest) (*model.UnlikeOrderResponse, error) {
	order, err := d.order(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	deleted, err := d.likedRepo.Delete(ctx, xcontext.RequestUserID(ctx), order.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete liked order: %v", err)
		return nil, errorx.Unknown
	}

	if !deleted {
		return nil, errorx.New(errorx.NotLiked, "You have not liked this listing")
	}

	if err := d.orderRepo.DecreaseLikeCount(ctx, order.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot decrease like count of %d: %v", order.ID, err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.UnlikeOrderResponse{LikeCount: order.LikeCount - 1}, nil
}

func (d *marketDomain) order(ctx context.Context, id int64) (*entity.MarketOrder, error) {
	order, err := d.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found order")
		}

		xcontext.Logger(ctx).Errorf("Cannot get order %d: %v", id, err)
		return nil, errorx.Unknown
	}

	return order, nil
}
