package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/yours-lab/backend/internal/entity"
	"github.com/yours-lab/backend/internal/model"
	"github.com/yours-lab/backend/internal/repository"
	"github.com/yours-lab/backend/pkg/errorx"
	"github.com/yours-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type UserDomain interface {
	GetProfile(ctx context.Context, req *model.GetProfileRequest) (*model.GetProfileResponse, error)
	UpdateProfile(ctx context.Context, req *model.UpdateProfileRequest) (*model.UpdateProfileResponse, error)
	GetWallets(ctx context.Context, req *model.GetWalletsRequest) (*model.GetWalletsResponse, error)
	RegisterWallet(ctx context.Context, req *model.RegisterWalletRequest) (*model.RegisterWalletResponse, error)
	ChargeYrp(ctx context.Context, req *model.ChargeYrpRequest) (*model.ChargeYrpResponse, error)
	GetYrpLedger(ctx context.Context, req *model.GetYrpLedgerRequest) (*model.GetYrpLedgerResponse, error)
	GetYrpDetail(ctx context.Context, req *model.GetYrpDetailRequest) (*model.GetYrpDetailResponse, error)
}

type userDomain struct {
	userRepo   repository.UserRepository
	walletRepo repository.UserWalletRepository
	pointRepo  repository.PointRepository
}

func NewUserDomain(
	userRepo repository.UserRepository,
	walletRepo repository.UserWalletRepository,
	pointRepo repository.PointRepository,
) *userDomain {
	return &userDomain{
		userRepo:   userRepo,
		walletRepo: walletRepo,
		pointRepo:  pointRepo,
	}
}

func (d *userDomain) GetProfile(
	ctx context.Context, req *model.GetProfileRequest,
) (*model.GetProfileResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetProfileResponse{User: convertUser(user)}, nil
}

func (d *userDomain) UpdateProfile(
	ctx context.Context, req *model.UpdateProfileRequest,
) (*model.UpdateProfileResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	update := &entity.User{
		Name:         req.Name,
		ProfileImage: req.ProfileImage,
		Phone:        req.Phone,
	}
	if req.IsMarketing != nil {
		update.IsMarketing = *req.IsMarketing
	}

	if err := d.userRepo.UpdateByID(ctx, userID, update); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update user %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	return &model.UpdateProfileResponse{User: convertUser(user)}, nil
}

func (d *userDomain) GetWallets(
	ctx context.Context, req *model.GetWalletsRequest,
) (*model.GetWalletsResponse, error) {
	wallets, err := d.walletRepo.GetByUserID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get wallets: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetWalletsResponse{Wallets: []model.Wallet{}}
	for _, wallet := range wallets {
		resp.Wallets = append(resp.Wallets, model.Wallet{
			ChainType: string(wallet.ChainType),
			Address:   wallet.Address,
		})
	}

	return resp, nil
}

func (d *userDomain) RegisterWallet(
	ctx context.Context, req *model.RegisterWalletRequest,
) (*model.RegisterWalletResponse, error) {
	chainType, err := toEnum[entity.ChainType](req.ChainType)
	if err != nil {
		return nil, err
	}

	if req.Address == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty address")
	}

	err = d.walletRepo.Upsert(ctx, &entity.UserWallet{
		Base:      entity.Base{ID: uuid.NewString()},
		UserID:    xcontext.RequestUserID(ctx),
		ChainType: chainType,
		Address:   req.Address,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot register wallet: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RegisterWalletResponse{}, nil
}

func (d *userDomain) ChargeYrp(
	ctx context.Context, req *model.ChargeYrpRequest,
) (*model.ChargeYrpResponse, error) {
	if req.Amount <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow a non-positive amount")
	}

	userID := xcontext.RequestUserID(ctx)
	record := &entity.PointRecord{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		UserID:        userID,
		YrpAmount:     req.Amount,
		Type:          entity.PointInput,
		IsCompleted:   true,
		TxHash:        req.TxHash,
		WalletAddress: req.WalletAddress,
		StableAmount:  req.StableAmount,
	}

	if err := d.pointRepo.Create(ctx, record); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create point record: %v", err)
		return nil, errorx.Unknown
	}

	balance, err := d.pointRepo.Balance(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get balance of %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	return &model.ChargeYrpResponse{Balance: balance}, nil
}

func (d *userDomain) GetYrpLedger(
	ctx context.Context, req *model.GetYrpLedgerRequest,
) (*model.GetYrpLedgerResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	limit := req.Limit
	if limit == 0 {
		limit = xcontext.Configs(ctx).ApiServer.DefaultLimit
	}

	if limit > xcontext.Configs(ctx).ApiServer.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum limit")
	}

	records, err := d.pointRepo.GetByUserID(ctx, userID, req.Offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get point records of %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	balance, err := d.pointRepo.Balance(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get balance of %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	resp := &model.GetYrpLedgerResponse{Balance: balance, Records: []model.PointRecord{}}
	for i := range records {
		resp.Records = append(resp.Records, convertPointRecord(&records[i]))
	}

	return resp, nil
}

func (d *userDomain) GetYrpDetail(
	ctx context.Context, req *model.GetYrpDetailRequest,
) (*model.GetYrpDetailResponse, error) {
	records, err := d.pointRepo.GetByUserID(ctx, xcontext.RequestUserID(ctx), 0, 0)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get point records: %v", err)
		return nil, errorx.Unknown
	}

	for i := range records {
		if records[i].ID == req.ID {
			return &model.GetYrpDetailResponse{Record: convertPointRecord(&records[i])}, nil
		}
	}

	return nil, errorx.New(errorx.NotFound, "Not found point record")
}
