package domain

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/yours-lab/backend/internal/chain"
	"github.com/yours-lab/backend/internal/client"
	"github.com/yours-lab/backend/internal/entity"
	"github.com/yours-lab/backend/internal/model"
	"github.com/yours-lab/backend/internal/repository"
	"github.com/yours-lab/backend/pkg/api/ipfs"
	"github.com/yours-lab/backend/pkg/code"
	"github.com/yours-lab/backend/pkg/crypto"
	"github.com/yours-lab/backend/pkg/errorx"
	"github.com/yours-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// Notification template codes of the messaging gateway.
const (
	templateNftDeployed   = "NFT_DEPLOYED"
	templateNftUpdated    = "NFT_UPDATED"
	templateNftMinted     = "NFT_MINTED"
	templateClaimApproved = "CLAIM_APPROVED"
	templateClaimRejected = "CLAIM_REJECTED"
)

type NftDomain interface {
	Create(ctx context.Context, req *model.CreateNftRequest) (*model.CreateNftResponse, error)
	GetList(ctx context.Context, req *model.GetNftsRequest) (*model.GetNftsResponse, error)
	GetDetail(ctx context.Context, req *model.GetNftDetailRequest) (*model.GetNftDetailResponse, error)
	GetOwners(ctx context.Context, req *model.GetNftOwnersRequest) (*model.GetNftOwnersResponse, error)
	Publish(ctx context.Context, req *model.PublishNftRequest) (*model.PublishNftResponse, error)
	UpdateBenefitURI(ctx context.Context, req *model.UpdateBenefitURIRequest) (*model.UpdateBenefitURIResponse, error)

	CreateBenefit(ctx context.Context, req *model.CreateBenefitRequest) (*model.CreateBenefitResponse, error)
	UpdateBenefit(ctx context.Context, req *model.UpdateBenefitRequest) (*model.UpdateBenefitResponse, error)
	DeleteBenefit(ctx context.Context, req *model.DeleteBenefitRequest) (*model.DeleteBenefitResponse, error)
	GetBenefitDetail(ctx context.Context, req *model.GetBenefitDetailRequest) (*model.GetBenefitDetailResponse, error)

	SendAuthMail(ctx context.Context, req *model.SendAuthMailRequest) (*model.SendAuthMailResponse, error)
	VerifyMail(ctx context.Context, req *model.VerifyMailRequest) (*model.VerifyMailResponse, error)
	RequestVerification(ctx context.Context, req *model.RequestVerificationRequest) (*model.RequestVerificationResponse, error)
	Transfer(ctx context.Context, req *model.TransferNftRequest) (*model.TransferNftResponse, error)

	GetIntegratedList(ctx context.Context, req *model.GetIntegratedNftsRequest) (*model.GetIntegratedNftsResponse, error)
	GetIntegratedDetail(ctx context.Context, req *model.GetIntegratedNftDetailRequest) (*model.GetIntegratedNftDetailResponse, error)
	CreateIntegrated(ctx context.Context, req *model.CreateIntegratedNftRequest) (*model.CreateIntegratedNftResponse, error)
	UpdateIntegrated(ctx context.Context, req *model.UpdateIntegratedNftRequest) (*model.UpdateIntegratedNftResponse, error)
	DeleteIntegrated(ctx context.Context, req *model.DeleteIntegratedNftRequest) (*model.DeleteIntegratedNftResponse, error)

	TakeExternal(ctx context.Context, req *model.TakeExternalNftRequest) (*model.TakeExternalNftResponse, error)
	MintExternal(ctx context.Context, req *model.MintExternalNftRequest) (*model.MintExternalNftResponse, error)
}

type nftDomain struct {
	nftRepo        repository.NftRepository
	benefitRepo    repository.BenefitRepository
	ownedRepo      repository.OwnedNftRepository
	integratedRepo repository.IntegratedNftRepository
	verifyRepo     repository.VerifyRequestRepository
	walletRepo     repository.UserWalletRepository
	userRepo       repository.UserRepository

	chains     *chain.Manager
	metadata   ipfs.IEndpoint
	notifier   client.Notifier
	mailSender client.MailSender
	codeStore  code.Store
}

func NewNftDomain(
	nftRepo repository.NftRepository,
	benefitRepo repository.BenefitRepository,
	ownedRepo repository.OwnedNftRepository,
	integratedRepo repository.IntegratedNftRepository,
	verifyRepo repository.VerifyRequestRepository,
	walletRepo repository.UserWalletRepository,
	userRepo repository.UserRepository,
	chains *chain.Manager,
	metadata ipfs.IEndpoint,
	notifier client.Notifier,
	mailSender client.MailSender,
	codeStore code.Store,
) *nftDomain {
	return &nftDomain{
		nftRepo:        nftRepo,
		benefitRepo:    benefitRepo,
		ownedRepo:      ownedRepo,
		integratedRepo: integratedRepo,
		verifyRepo:     verifyRepo,
		walletRepo:     walletRepo,
		userRepo:       userRepo,
		chains:         chains,
		metadata:       metadata,
		notifier:       notifier,
		mailSender:     mailSender,
		codeStore:      codeStore,
	}
}

func (d *nftDomain) Create(ctx context.Context, req *model.CreateNftRequest) (*model.CreateNftResponse, error) {
	chainType, err := toEnum[entity.ChainType](req.ChainType)
	if err != nil {
		return nil, err
	}

	authType, err := toEnum[entity.AuthType](req.AuthType)
	if err != nil {
		return nil, err
	}

	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty name")
	}

	nft := &entity.NonFungibleToken{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		OwnerID:       xcontext.RequestUserID(ctx),
		Name:          req.Name,
		Image:         req.Image,
		Description:   req.Description,
		AuthType:      authType,
		Options:       req.Options,
		ChainType:     chainType,
	}

	if err := d.nftRepo.Create(ctx, nft); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create nft: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateNftResponse{Nft: convertNft(nft)}, nil
}

func (d *nftDomain) GetList(ctx context.Context, req *model.GetNftsRequest) (*model.GetNftsResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	switch req.Type {
	case "create":
		nfts, err := d.nftRepo.GetByCreator(ctx, userID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get created nfts: %v", err)
			return nil, errorx.Unknown
		}

		resp := &model.GetNftsResponse{Nfts: []model.Nft{}}
		for i := range nfts {
			resp.Nfts = append(resp.Nfts, convertNft(&nfts[i]))
		}
		return resp, nil

	case "own", "reward":
		ownedNfts, err := d.ownedNfts(ctx, userID, req.Type == "reward")
		if err != nil {
			return nil, err
		}

		return &model.GetNftsResponse{OwnedNfts: ownedNfts}, nil

	default:
		return nil, errorx.New(errorx.BadRequest, "Invalid type %s", req.Type)
	}
}

// ownedNfts lists the caller's tokens. With rewardOnly, tokens without
// any published benefit are filtered out.
func (d *nftDomain) ownedNfts(ctx context.Context, userID string, rewardOnly bool) ([]model.OwnedNft, error) {
	owned, err := d.ownedRepo.GetByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get owned nfts: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.OwnedNft{}
	for i := range owned {
		nft, err := d.nftRepo.GetByID(ctx, owned[i].NftID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get nft %d: %v", owned[i].NftID, err)
			return nil, errorx.Unknown
		}

		if rewardOnly {
			benefits, err := d.benefitRepo.GetByNftID(ctx, nft.ID)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot get benefits of %d: %v", nft.ID, err)
				return nil, errorx.Unknown
			}

			if len(benefits) == 0 {
				continue
			}
		}

		result = append(result, convertOwnedNft(&owned[i], nft))
	}

	return result, nil
}

func (d *nftDomain) GetDetail(
	ctx context.Context, req *model.GetNftDetailRequest,
) (*model.GetNftDetailResponse, error) {
	nft, err := d.nftRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found nft")
		}

		xcontext.Logger(ctx).Errorf("Cannot get nft %d: %v", req.ID, err)
		return nil, errorx.Unknown
	}

	benefits, err := d.benefitRepo.GetByNftID(ctx, nft.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get benefits of %d: %v", nft.ID, err)
		return nil, errorx.Unknown
	}

	resp := &model.GetNftDetailResponse{Nft: convertNft(nft), Benefits: []model.Benefit{}}
	for i := range benefits {
		resp.Benefits = append(resp.Benefits, convertBenefit(&benefits[i]))
	}

	return resp, nil
}

func (d *nftDomain) GetOwners(
	ctx context.Context, req *model.GetNftOwnersRequest,
) (*model.GetNftOwnersResponse, error) {
	owned, err := d.ownedRepo.GetByNftID(ctx, req.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get owners of %d: %v", req.ID, err)
		return nil, errorx.Unknown
	}

	userIDs := make([]string, 0, len(owned))
	for i := range owned {
		userIDs = append(userIDs, owned[i].UserID)
	}

	users, err := d.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get users: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetNftOwnersResponse{Owners: []model.User{}}
	for i := range users {
		resp.Owners = append(resp.Owners, convertUser(&users[i]))
	}

	return resp, nil
}

func (d *nftDomain) Publish(ctx context.Context, req *model.PublishNftRequest) (*model.PublishNftResponse, error) {
	nft, err := d.creatorNft(ctx, req.NftID)
	if err != nil {
		return nil, err
	}

	if nft.IsExternal {
		return nil, errorx.New(errorx.BadRequest, "Not allow publishing an external nft")
	}

	adapter, err := d.chains.Get(nft.ChainType)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get adapter: %v", err)
		return nil, errorx.Unknown
	}

	// The guard decides before any chain or ipfs work happens. A lost
	// race never reaches the adapter.
	ok, err := d.nftRepo.BeginDeploy(ctx, nft.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot begin deploy of %d: %v", nft.ID, err)
		return nil, errorx.Unknown
	}

	if !ok {
		if nft.IsDeployed {
			return nil, errorx.New(errorx.AlreadyDeployed, "This nft is already deployed")
		}
		return nil, errorx.New(errorx.AlreadyLoading, "This nft is in progress")
	}

	resp, err := d.deploy(ctx, nft, adapter)
	if err != nil {
		if clearErr := d.nftRepo.ClearLoading(ctx, nft.ID); clearErr != nil {
			xcontext.Logger(ctx).Errorf("Cannot clear loading of %d: %v", nft.ID, clearErr)
		}
		return nil, err
	}

	return resp, nil
}

func (d *nftDomain) deploy(
	ctx context.Context, nft *entity.NonFungibleToken, adapter chain.Adapter,
) (*model.PublishNftResponse, error) {
	benefitURI, err := d.uploadBenefits(ctx, nft.ID)
	if err != nil {
		return nil, err
	}

	metadataURI, err := d.uploadMetadata(ctx, nft)
	if err != nil {
		return nil, err
	}

	result, err := adapter.Deploy(ctx, nft.Name, metadataURI, benefitURI)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot deploy nft %d: %v", nft.ID, err)
		return nil, errorx.New(errorx.Unavailable, "Cannot deploy nft on %s", nft.ChainType)
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.nftRepo.FinishDeploy(ctx, nft.ID, result.NftAddress); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot finish deploy of %d: %v", nft.ID, err)
		return nil, errorx.Unknown
	}

	if err := d.benefitRepo.Publish(ctx, nft.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish benefits of %d: %v", nft.ID, err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.notifyUser(ctx, nft.OwnerID, templateNftDeployed, map[string]string{"nftName": nft.Name})

	updated, err := d.nftRepo.GetByID(ctx, nft.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get nft %d: %v", nft.ID, err)
		return nil, errorx.Unknown
	}

	return &model.PublishNftResponse{Nft: convertNft(updated)}, nil
}

func (d *nftDomain) UpdateBenefitURI(
	ctx context.Context, req *model.UpdateBenefitURIRequest,
) (*model.UpdateBenefitURIResponse, error) {
	nft, err := d.creatorNft(ctx, req.NftID)
	if err != nil {
		return nil, err
	}

	if !nft.IsEdited {
		return nil, errorx.New(errorx.NotEdited, "This nft has no benefit change")
	}

	adapter, err := d.chains.Get(nft.ChainType)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get adapter: %v", err)
		return nil, errorx.Unknown
	}

	ok, err := d.nftRepo.BeginUpdate(ctx, nft.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot begin update of %d: %v", nft.ID, err)
		return nil, errorx.Unknown
	}

	if !ok {
		if !nft.IsDeployed {
			return nil, errorx.New(errorx.BadRequest, "This nft is not deployed yet")
		}
		return nil, errorx.New(errorx.AlreadyLoading, "This nft is in progress")
	}

	resp, err := d.republish(ctx, nft, adapter)
	if err != nil {
		if clearErr := d.nftRepo.ClearLoading(ctx, nft.ID); clearErr != nil {
			xcontext.Logger(ctx).Errorf("Cannot clear loading of %d: %v", nft.ID, clearErr)
		}
		return nil, err
	}

	return resp, nil
}

func (d *nftDomain) republish(
	ctx context.Context, nft *entity.NonFungibleToken, adapter chain.Adapter,
) (*model.UpdateBenefitURIResponse, error) {
	benefitURI, err := d.uploadBenefits(ctx, nft.ID)
	if err != nil {
		return nil, err
	}

	if _, err := adapter.SetBenefitURI(ctx, nft.NftAddress, benefitURI); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot set benefit uri of %d: %v", nft.ID, err)
		return nil, errorx.New(errorx.Unavailable, "Cannot update benefits on %s", nft.ChainType)
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.benefitRepo.Publish(ctx, nft.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish benefits of %d: %v", nft.ID, err)
		return nil, errorx.Unknown
	}

	if err := d.nftRepo.FinishUpdate(ctx, nft.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot finish update of %d: %v", nft.ID, err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	params := map[string]string{"nftName": nft.Name}
	d.notifyUser(ctx, nft.OwnerID, templateNftUpdated, params)

	owned, err := d.ownedRepo.GetByNftID(ctx, nft.ID)
	if err == nil {
		for i := range owned {
			if owned[i].UserID != nft.OwnerID {
				d.notifyUser(ctx, owned[i].UserID, templateNftUpdated, params)
			}
		}
	}

	updated, err := d.nftRepo.GetByID(ctx, nft.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get nft %d: %v", nft.ID, err)
		return nil, errorx.Unknown
	}

	return &model.UpdateBenefitURIResponse{Nft: convertNft(updated)}, nil
}

func (d *nftDomain) uploadBenefits(ctx context.Context, nftID int64) (string, error) {
	drafts, err := d.benefitRepo.GetDraftsByNftID(ctx, nftID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get benefit drafts of %d: %v", nftID, err)
		return "", errorx.Unknown
	}

	benefits := make([]ipfs.Benefit, 0, len(drafts))
	for _, draft := range drafts {
		benefits = append(benefits, ipfs.Benefit{
			Name:        draft.Name,
			Description: draft.Description,
		})
	}

	uri, err := d.metadata.UploadBenefits(ctx, benefits)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upload benefits of %d: %v", nftID, err)
		return "", errorx.New(errorx.Unavailable, "Cannot upload benefits")
	}

	return uri, nil
}

func (d *nftDomain) uploadMetadata(ctx context.Context, nft *entity.NonFungibleToken) (string, error) {
	uri, err := d.metadata.UploadMetadata(ctx, nft.Name, nft.Description, nft.Image, nil)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upload metadata of %d: %v", nft.ID, err)
		return "", errorx.New(errorx.Unavailable, "Cannot upload metadata")
	}

	return uri, nil
}

func (d *nftDomain) CreateBenefit(
	ctx context.Context, req *model.CreateBenefitRequest,
) (*model.CreateBenefitResponse, error) {
	nft, err := d.creatorNft(ctx, req.NftID)
	if err != nil {
		return nil, err
	}

	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty name")
	}

	draft := &entity.BenefitDraft{
		NftID:       nft.ID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Option:      req.Option,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.benefitRepo.CreateDraft(ctx, draft); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create benefit draft: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.markEdited(ctx, nft.ID); err != nil {
		return nil, err
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.CreateBenefitResponse{Benefit: convertBenefitDraft(draft)}, nil
}

func (d *nftDomain) UpdateBenefit(
	ctx context.Context, req *model.UpdateBenefitRequest,
) (*model.UpdateBenefitResponse, error) {
	draft, err := d.creatorDraft(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	update := &entity.BenefitDraft{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Option:      req.Option,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.benefitRepo.UpdateDraftByID(ctx, draft.ID, update); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update benefit draft %d: %v", draft.ID, err)
		return nil, errorx.Unknown
	}

	if err := d.markEdited(ctx, draft.NftID); err != nil {
		return nil, err
	}

	xcontext.WithCommitDBTransaction(ctx)

	updated, err := d.benefitRepo.GetDraft(ctx, draft.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get benefit draft %d: %v", draft.ID, err)
		return nil, errorx.Unknown
	}

	return &model.UpdateBenefitResponse{Benefit: convertBenefitDraft(updated)}, nil
}

func (d *nftDomain) DeleteBenefit(
	ctx context.Context, req *model.DeleteBenefitRequest,
) (*model.DeleteBenefitResponse, error) {
	draft, err := d.creatorDraft(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.benefitRepo.DeleteDraftByID(ctx, draft.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete benefit draft %d: %v", draft.ID, err)
		return nil, errorx.Unknown
	}

	if err := d.markEdited(ctx, draft.NftID); err != nil {
		return nil, err
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.DeleteBenefitResponse{}, nil
}

func (d *nftDomain) GetBenefitDetail(
	ctx context.Context, req *model.GetBenefitDetailRequest,
) (*model.GetBenefitDetailResponse, error) {
	benefit, err := d.publishedBenefit(ctx, req.RewardID)
	if err != nil {
		return nil, err
	}

	return &model.GetBenefitDetailResponse{Benefit: *benefit}, nil
}

// markEdited flags the token so a republish becomes possible.
func (d *nftDomain) markEdited(ctx context.Context, nftID int64) error {
	update := &entity.NonFungibleToken{IsEdited: true}
	if err := d.nftRepo.UpdateByID(ctx, nftID, update); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot mark nft %d as edited: %v", nftID, err)
		return errorx.Unknown
	}

	return nil
}

type mailPayload struct {
	UserID string `json:"userId"`
	NftID  int64  `json:"nftId"`
	Email  string `json:"email"`
}

func (d *nftDomain) SendAuthMail(
	ctx context.Context, req *model.SendAuthMailRequest,
) (*model.SendAuthMailResponse, error) {
	nft, err := d.deployedNft(ctx, req.NftID)
	if err != nil {
		return nil, err
	}

	if nft.AuthType != entity.AuthTypeMail {
		return nil, errorx.New(errorx.BadRequest, "This nft is not mail-verified")
	}

	if req.Email == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty email")
	}

	authCode := crypto.GenerateRandomDigits(6)
	if err := d.codeStore.Save(ctx, "mail:"+req.Email, authCode); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save auth code: %v", err)
		return nil, errorx.Unknown
	}

	rawPayload, err := json.Marshal(mailPayload{
		UserID: xcontext.RequestUserID(ctx),
		NftID:  nft.ID,
		Email:  req.Email,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal mail payload: %v", err)
		return nil, errorx.Unknown
	}

	payload, err := crypto.Encrypt(xcontext.Configs(ctx).Crypto.Key, rawPayload)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot encrypt mail payload: %v", err)
		return nil, errorx.Unknown
	}

	d.mailSender.SendAuthMail(ctx, req.Email, authCode)
	return &model.SendAuthMailResponse{Payload: payload}, nil
}

func (d *nftDomain) VerifyMail(ctx context.Context, req *model.VerifyMailRequest) (*model.VerifyMailResponse, error) {
	rawPayload, err := crypto.Decrypt(xcontext.Configs(ctx).Crypto.Key, req.Payload)
	if err != nil {
		return nil, errorx.New(errorx.BadAuthCode, "Invalid verification payload")
	}

	var payload mailPayload
	if err := json.Unmarshal(rawPayload, &payload); err != nil {
		return nil, errorx.New(errorx.BadAuthCode, "Invalid verification payload")
	}

	if payload.UserID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "This verification belongs to another user")
	}

	if err := d.codeStore.Verify(ctx, "mail:"+payload.Email, req.Code); err != nil {
		if errors.Is(err, code.ErrNotMatch) {
			return nil, errorx.New(errorx.BadAuthCode, "Wrong or expired code")
		}

		xcontext.Logger(ctx).Errorf("Cannot verify auth code: %v", err)
		return nil, errorx.Unknown
	}

	return d.mint(ctx, payload.NftID, payload.UserID)
}

// mint delivers one token of the collection to the user's wallet and
// records the ownership.
func (d *nftDomain) mint(ctx context.Context, nftID int64, userID string) (*model.VerifyMailResponse, error) {
	nft, err := d.deployedNft(ctx, nftID)
	if err != nil {
		return nil, err
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

	result, err := adapter.Mint(ctx, nft.NftAddress, wallet.Address)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot mint nft %d: %v", nft.ID, err)
		return nil, errorx.New(errorx.Unavailable, "Cannot mint on %s", nft.ChainType)
	}

	owned := &entity.OwnedNft{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		UserID:        userID,
		NftID:         nft.ID,
		MintID:        result.MintID,
	}

	if err := d.ownedRepo.Create(ctx, owned); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot record ownership of %d: %v", nft.ID, err)
		return nil, errorx.Unknown
	}

	d.notifyUser(ctx, userID, templateNftMinted, map[string]string{"nftName": nft.Name})
	return &model.VerifyMailResponse{MintID: result.MintID, TxHash: result.TxHash}, nil
}

func (d *nftDomain) RequestVerification(
	ctx context.Context, req *model.RequestVerificationRequest,
) (*model.RequestVerificationResponse, error) {
	nft, err := d.deployedNft(ctx, req.NftID)
	if err != nil {
		return nil, err
	}

	if nft.AuthType != entity.AuthTypePhoto {
		return nil, errorx.New(errorx.BadRequest, "This nft is not photo-verified")
	}

	if req.Image == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty image")
	}

	userID := xcontext.RequestUserID(ctx)
	if _, err := d.verifyRepo.GetPending(ctx, userID, nft.ID); err == nil {
		return nil, errorx.New(errorx.DuplicateRequest, "You already have a pending request")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot check pending request: %v", err)
		return nil, errorx.Unknown
	}

	request := &entity.VerifyRequest{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		UserID:        userID,
		NftID:         nft.ID,
		Image:         req.Image,
	}

	if err := d.verifyRepo.Create(ctx, request); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create verify request: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RequestVerificationResponse{Request: convertVerifyRequest(request, nil)}, nil
}

func (d *nftDomain) Transfer(ctx context.Context, req *model.TransferNftRequest) (*model.TransferNftResponse, error) {
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
		return nil, errorx.New(errorx.Locked, "This token is locked")
	}

	nft, err := d.deployedNft(ctx, req.NftID)
	if err != nil {
		return nil, err
	}

	if nft.IsExternal && nft.ChainType == entity.ChainAptos {
		return nil, errorx.New(errorx.NotImplemented, "Unwrapping is not supported on aptos")
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

	result, err := adapter.Transfer(ctx, nft.NftAddress, req.MintID, wallet.Address, req.To)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot transfer nft %d: %v", nft.ID, err)
		return nil, errorx.New(errorx.Unavailable, "Cannot transfer on %s", nft.ChainType)
	}

	if err := d.ownedRepo.Delete(ctx, userID, req.NftID, req.MintID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot remove ownership of %d: %v", nft.ID, err)
		return nil, errorx.Unknown
	}

	return &model.TransferNftResponse{TxHash: result.TxHash}, nil
}

func (d *nftDomain) creatorNft(ctx context.Context, nftID int64) (*entity.NonFungibleToken, error) {
	nft, err := d.nftRepo.GetByID(ctx, nftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found nft")
		}

		xcontext.Logger(ctx).Errorf("Cannot get nft %d: %v", nftID, err)
		return nil, errorx.Unknown
	}

	if nft.OwnerID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.NotCreator, "Only the creator can do this")
	}

	return nft, nil
}

func (d *nftDomain) creatorDraft(ctx context.Context, draftID int64) (*entity.BenefitDraft, error) {
	draft, err := d.benefitRepo.GetDraft(ctx, draftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found benefit")
		}

		xcontext.Logger(ctx).Errorf("Cannot get benefit draft %d: %v", draftID, err)
		return nil, errorx.Unknown
	}

	if _, err := d.creatorNft(ctx, draft.NftID); err != nil {
		return nil, err
	}

	return draft, nil
}

func (d *nftDomain) deployedNft(ctx context.Context, nftID int64) (*entity.NonFungibleToken, error) {
	nft, err := d.nftRepo.GetByID(ctx, nftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found nft")
		}

		xcontext.Logger(ctx).Errorf("Cannot get nft %d: %v", nftID, err)
		return nil, errorx.Unknown
	}

	if !nft.IsDeployed {
		return nil, errorx.New(errorx.BadRequest, "This nft is not deployed yet")
	}

	return nft, nil
}

func (d *nftDomain) publishedBenefit(ctx context.Context, benefitID int64) (*model.Benefit, error) {
	var benefit entity.Benefit
	err := xcontext.DB(ctx).Where("id = ?", benefitID).Take(&benefit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found benefit")
		}

		xcontext.Logger(ctx).Errorf("Cannot get benefit %d: %v", benefitID, err)
		return nil, errorx.Unknown
	}

	converted := convertBenefit(&benefit)
	return &converted, nil
}

func (d *nftDomain) notifyUser(ctx context.Context, userID, template string, params map[string]string) {
	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil || user.Phone == "" {
		return
	}

	d.notifier.Notify(ctx, template, user.Phone, params)
}
