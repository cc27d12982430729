package domain

import (
	"context"
	"errors"

	"github.com/yours-lab/backend/internal/chain"
	"github.com/yours-lab/backend/internal/client"
	"github.com/yours-lab/backend/internal/entity"
	"github.com/yours-lab/backend/internal/model"
	"github.com/yours-lab/backend/internal/repository"
	"github.com/yours-lab/backend/pkg/errorx"
	"github.com/yours-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type AdminDomain interface {
	GetVerifyRequests(context.Context, *model.GetVerifyRequestsRequest) (*model.GetVerifyRequestsResponse, error)
	ResolveVerifyRequest(context.Context, *model.ResolveVerifyRequestRequest) (*model.ResolveVerifyRequestResponse, error)
	GetDraftBenefits(context.Context, *model.GetDraftBenefitsRequest) (*model.GetDraftBenefitsResponse, error)
	GetDraftBenefitDetail(context.Context, *model.GetDraftBenefitDetailRequest) (*model.GetDraftBenefitDetailResponse, error)
}

type adminDomain struct {
	verifyRepo  repository.VerifyRequestRepository
	nftRepo     repository.NftRepository
	userRepo    repository.UserRepository
	walletRepo  repository.UserWalletRepository
	ownedRepo   repository.OwnedNftRepository
	benefitRepo repository.BenefitRepository
	chains      *chain.Manager
	notifier    client.Notifier
}

func NewAdminDomain(
	verifyRepo repository.VerifyRequestRepository,
	nftRepo repository.NftRepository,
	userRepo repository.UserRepository,
	walletRepo repository.UserWalletRepository,
	ownedRepo repository.OwnedNftRepository,
	benefitRepo repository.BenefitRepository,
	chains *chain.Manager,
	notifier client.Notifier,
) *adminDomain {
	return &adminDomain{
		verifyRepo:  verifyRepo,
		nftRepo:     nftRepo,
		userRepo:    userRepo,
		walletRepo:  walletRepo,
		ownedRepo:   ownedRepo,
		benefitRepo: benefitRepo,
		chains:      chains,
		notifier:    notifier,
	}
}

func (d *adminDomain) GetVerifyRequests(
	ctx context.Context, req *model.GetVerifyRequestsRequest,
) (*model.GetVerifyRequestsResponse, error) {
	var requests []entity.VerifyRequest
	var err error
	if req.NftID != 0 {
		requests, err = d.verifyRepo.GetPendingByNftID(ctx, req.NftID)
	} else {
		requests, err = d.verifyRepo.GetAllPending(ctx, 0, 0)
	}
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get verify requests: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetVerifyRequestsResponse{Requests: []model.VerifyRequest{}}
	for i := range requests {
		user, err := d.userRepo.GetByID(ctx, requests[i].UserID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get user %s: %v", requests[i].UserID, err)
			return nil, errorx.Unknown
		}

		resp.Requests = append(resp.Requests, convertVerifyRequest(&requests[i], user))
	}

	return resp, nil
}

func (d *adminDomain) ResolveVerifyRequest(
	ctx context.Context, req *model.ResolveVerifyRequestRequest,
) (*model.ResolveVerifyRequestResponse, error) {
	request, err := d.verifyRepo.GetByID(ctx, req.RequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found verify request")
		}

		xcontext.Logger(ctx).Errorf("Cannot get verify request %d: %v", req.RequestID, err)
		return nil, errorx.Unknown
	}

	nft, err := d.nftRepo.GetByID(ctx, request.NftID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get nft %d: %v", request.NftID, err)
		return nil, errorx.Unknown
	}

	if !req.Approved {
		if req.RejectReason == "" {
			return nil, errorx.New(errorx.BadRequest, "Not allow an empty reject reason")
		}

		if err := d.verifyRepo.Resolve(ctx, request.ID, req.RejectReason); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot resolve request %d: %v", request.ID, err)
			return nil, errorx.Unknown
		}

		d.notify(ctx, request.UserID, templateClaimRejected, map[string]string{
			"nftName": nft.Name,
			"reason":  req.RejectReason,
		})
		return &model.ResolveVerifyRequestResponse{}, nil
	}

	result, err := d.mintToClaimant(ctx, nft, request.UserID)
	if err != nil {
		return nil, err
	}

	if err := d.verifyRepo.Resolve(ctx, request.ID, ""); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot resolve request %d: %v", request.ID, err)
		return nil, errorx.Unknown
	}

	d.notify(ctx, request.UserID, templateClaimApproved, map[string]string{"nftName": nft.Name})
	return &model.ResolveVerifyRequestResponse{MintID: result.MintID, TxHash: result.TxHash}, nil
}

func (d *adminDomain) mintToClaimant(
	ctx context.Context, nft *entity.NonFungibleToken, userID string,
) (*chain.MintResult, error) {
	wallet, err := d.walletRepo.Get(ctx, userID, nft.ChainType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.BadRequest, "The claimant has no %s wallet", nft.ChainType)
		}

		xcontext.Logger(ctx).Errorf("Cannot get wallet: %v", err)
		return nil, errorx.Unknown
	}

	adapter, err := d.chains.Get(nft.ChainType)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get adapter: %v", err)
		return nil, errorx.Unknown
	}

	result, err := adapter.Mint(ctx, nft.NftAddress, wallet.Address)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot mint nft %d: %v", nft.ID, err)
		return nil, errorx.New(errorx.Unavailable, "Cannot mint on %s", nft.ChainType)
	}

	err = d.ownedRepo.Create(ctx, &entity.OwnedNft{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		UserID:        userID,
		NftID:         nft.ID,
		MintID:        result.MintID,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot record ownership of %d: %v", nft.ID, err)
		return nil, errorx.Unknown
	}

	return result, nil
}

func (d *adminDomain) GetDraftBenefits(
	ctx context.Context, req *model.GetDraftBenefitsRequest,
) (*model.GetDraftBenefitsResponse, error) {
	drafts, err := d.benefitRepo.GetDraftsByNftID(ctx, req.NftID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get draft benefits of %d: %v", req.NftID, err)
		return nil, errorx.Unknown
	}

	resp := &model.GetDraftBenefitsResponse{Benefits: []model.Benefit{}}
	for i := range drafts {
		resp.Benefits = append(resp.Benefits, convertBenefitDraft(&drafts[i]))
	}

	return resp, nil
}

func (d *adminDomain) GetDraftBenefitDetail(
	ctx context.Context, req *model.GetDraftBenefitDetailRequest,
) (*model.GetDraftBenefitDetailResponse, error) {
	draft, err := d.benefitRepo.GetDraft(ctx, req.RewardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found benefit")
		}

		xcontext.Logger(ctx).Errorf("Cannot get draft benefit %d: %v", req.RewardID, err)
		return nil, errorx.Unknown
	}

	return &model.GetDraftBenefitDetailResponse{Benefit: convertBenefitDraft(draft)}, nil
}

func (d *adminDomain) notify(ctx context.Context, userID, template string, params map[string]string) {
	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil || user.Phone == "" {
		return
	}

	d.notifier.Notify(ctx, template, user.Phone, params)
}
