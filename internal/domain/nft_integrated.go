package domain

import (
	"context"
	"errors"

	"github.com/yours-lab/backend/internal/chain"
	"github.com/yours-lab/backend/internal/entity"
	"github.com/yours-lab/backend/internal/model"
	"github.com/yours-lab/backend/pkg/errorx"
	"github.com/yours-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

const minIntegratedMembers = 2

func (d *nftDomain) GetIntegratedList(
	ctx context.Context, req *model.GetIntegratedNftsRequest,
) (*model.GetIntegratedNftsResponse, error) {
	integratedNfts, err := d.integratedRepo.GetByCreator(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get integrated nfts: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetIntegratedNftsResponse{IntegratedNfts: []model.IntegratedNft{}}
	for i := range integratedNfts {
		resp.IntegratedNfts = append(resp.IntegratedNfts, convertIntegratedNft(&integratedNfts[i], nil))
	}

	return resp, nil
}

func (d *nftDomain) GetIntegratedDetail(
	ctx context.Context, req *model.GetIntegratedNftDetailRequest,
) (*model.GetIntegratedNftDetailResponse, error) {
	integrated, err := d.integratedRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found integrated nft")
		}

		xcontext.Logger(ctx).Errorf("Cannot get integrated nft %d: %v", req.ID, err)
		return nil, errorx.Unknown
	}

	members, err := d.integratedMembers(ctx, integrated)
	if err != nil {
		return nil, err
	}

	return &model.GetIntegratedNftDetailResponse{
		IntegratedNft: convertIntegratedNft(integrated, members),
	}, nil
}

func (d *nftDomain) CreateIntegrated(
	ctx context.Context, req *model.CreateIntegratedNftRequest,
) (*model.CreateIntegratedNftResponse, error) {
	chainType, err := toEnum[entity.ChainType](req.ChainType)
	if err != nil {
		return nil, err
	}

	if len(req.Members) < minIntegratedMembers {
		return nil, errorx.New(errorx.InsufficientMembers,
			"An integrated nft needs at least %d members", minIntegratedMembers)
	}

	userID := xcontext.RequestUserID(ctx)
	wallet, err := d.walletRepo.Get(ctx, userID, chainType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.BadRequest, "You need a %s wallet first", chainType)
		}

		xcontext.Logger(ctx).Errorf("Cannot get wallet: %v", err)
		return nil, errorx.Unknown
	}

	adapter, err := d.chains.Get(chainType)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get adapter: %v", err)
		return nil, errorx.Unknown
	}

	// Lock first, integrate after. Each lock is its own
	// compare-and-swap, so the members stay unavailable while the
	// chain call is in flight without holding a transaction open for
	// the whole confirmation.
	chainMembers, locked, err := d.lockMembers(ctx, userID, chainType, req.Members, nil)
	if err != nil {
		return nil, err
	}

	result, err := adapter.Integrate(ctx, wallet.Address, chainMembers)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot integrate on %s: %v", chainType, err)
		d.unlockMemberList(ctx, userID, locked)
		return nil, errorx.New(errorx.Unavailable, "Cannot integrate on %s", chainType)
	}

	integrated := &entity.IntegratedNft{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		CreatorID:     userID,
		ChainType:     chainType,
		TokenID:       result.TokenID,
	}

	if err := d.storeIntegrated(ctx, integrated, req.Members); err != nil {
		d.unlockMemberList(ctx, userID, locked)
		return nil, err
	}

	members, err := d.integratedMembers(ctx, integrated)
	if err != nil {
		return nil, err
	}

	return &model.CreateIntegratedNftResponse{
		IntegratedNft: convertIntegratedNft(integrated, members),
	}, nil
}

func (d *nftDomain) UpdateIntegrated(
	ctx context.Context, req *model.UpdateIntegratedNftRequest,
) (*model.UpdateIntegratedNftResponse, error) {
	integrated, err := d.creatorIntegrated(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if len(req.Members) < minIntegratedMembers {
		return nil, errorx.New(errorx.InsufficientMembers,
			"An integrated nft needs at least %d members", minIntegratedMembers)
	}

	adapter, err := d.chains.Get(integrated.ChainType)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get adapter: %v", err)
		return nil, errorx.Unknown
	}

	userID := xcontext.RequestUserID(ctx)

	oldMembers, err := d.integratedRepo.GetMembers(ctx, integrated.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get integrated members: %v", err)
		return nil, errorx.Unknown
	}

	// Members kept across the update are already locked by this
	// bundle; only the incoming ones need a new lock.
	held := make(map[memberKey]bool, len(oldMembers))
	for _, member := range oldMembers {
		held[memberKey{member.NftID, member.MintID}] = true
	}

	chainMembers, locked, err := d.lockMembers(ctx, userID, integrated.ChainType, req.Members, held)
	if err != nil {
		return nil, err
	}

	if _, err := adapter.UpdateIntegrate(ctx, integrated.TokenID, chainMembers); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update integrated nft %d: %v", integrated.ID, err)
		d.unlockMemberList(ctx, userID, locked)
		return nil, errorx.New(errorx.Unavailable, "Cannot update on %s", integrated.ChainType)
	}

	if err := d.rewriteMembers(ctx, userID, integrated.ID, req.Members, oldMembers); err != nil {
		d.unlockMemberList(ctx, userID, locked)
		return nil, err
	}

	members, err := d.integratedMembers(ctx, integrated)
	if err != nil {
		return nil, err
	}

	return &model.UpdateIntegratedNftResponse{
		IntegratedNft: convertIntegratedNft(integrated, members),
	}, nil
}

func (d *nftDomain) DeleteIntegrated(
	ctx context.Context, req *model.DeleteIntegratedNftRequest,
) (*model.DeleteIntegratedNftResponse, error) {
	integrated, err := d.creatorIntegrated(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	adapter, err := d.chains.Get(integrated.ChainType)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get adapter: %v", err)
		return nil, errorx.Unknown
	}

	if _, err := adapter.BurnIntegrate(ctx, integrated.TokenID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot burn integrated nft %d: %v", integrated.ID, err)
		return nil, errorx.New(errorx.Unavailable, "Cannot burn on %s", integrated.ChainType)
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.unlockMembers(ctx, xcontext.RequestUserID(ctx), integrated.ID); err != nil {
		return nil, err
	}

	if err := d.integratedRepo.DeleteMembers(ctx, integrated.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete integrated members: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.integratedRepo.DeleteByID(ctx, integrated.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete integrated nft %d: %v", integrated.ID, err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.DeleteIntegratedNftResponse{}, nil
}

func (d *nftDomain) TakeExternal(
	ctx context.Context, req *model.TakeExternalNftRequest,
) (*model.TakeExternalNftResponse, error) {
	chainType, err := toEnum[entity.ChainType](req.ChainType)
	if err != nil {
		return nil, err
	}

	if req.OriginAddress == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty origin address")
	}

	// One wrapped proxy per origin collection; a second take returns
	// the existing one instead of deploying again.
	existing, err := d.nftRepo.GetByOriginAddress(ctx, req.OriginAddress)
	if err == nil {
		return &model.TakeExternalNftResponse{Nft: convertNft(existing)}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot check origin address: %v", err)
		return nil, errorx.Unknown
	}

	adapter, err := d.chains.Get(chainType)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get adapter: %v", err)
		return nil, errorx.Unknown
	}

	result, err := adapter.DeployWrapped(ctx, req.Name, req.OriginAddress)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot deploy wrapped nft: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Cannot deploy wrapped nft on %s", chainType)
	}

	nft := &entity.NonFungibleToken{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		OwnerID:       xcontext.RequestUserID(ctx),
		Name:          req.Name,
		AuthType:      entity.AuthTypeNone,
		ChainType:     chainType,
		NftAddress:    result.NftAddress,
		IsDeployed:    true,
		OriginAddress: req.OriginAddress,
		IsExternal:    true,
	}

	if err := d.nftRepo.Create(ctx, nft); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create wrapped nft: %v", err)
		return nil, errorx.Unknown
	}

	return &model.TakeExternalNftResponse{Nft: convertNft(nft)}, nil
}

func (d *nftDomain) MintExternal(
	ctx context.Context, req *model.MintExternalNftRequest,
) (*model.MintExternalNftResponse, error) {
	nft, err := d.deployedNft(ctx, req.NftID)
	if err != nil {
		return nil, err
	}

	if !nft.IsExternal {
		return nil, errorx.New(errorx.BadRequest, "This nft is not a wrapped one")
	}

	userID := xcontext.RequestUserID(ctx)
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

	owns, err := adapter.OwnsOriginalToken(ctx, nft.OriginAddress, wallet.Address, req.OriginTokenID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check original ownership: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Cannot check ownership on %s", nft.ChainType)
	}

	if !owns {
		return nil, errorx.New(errorx.PermissionDenied, "You do not own the original token")
	}

	result, err := adapter.MintWrapped(ctx, nft.NftAddress, req.OriginTokenID, wallet.Address)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot mint wrapped nft %d: %v", nft.ID, err)
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

	return &model.MintExternalNftResponse{MintID: result.MintID, TxHash: result.TxHash}, nil
}

func (d *nftDomain) creatorIntegrated(ctx context.Context, id int64) (*entity.IntegratedNft, error) {
	integrated, err := d.integratedRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found integrated nft")
		}

		xcontext.Logger(ctx).Errorf("Cannot get integrated nft %d: %v", id, err)
		return nil, errorx.Unknown
	}

	if integrated.CreatorID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.NotCreator, "Only the creator can do this")
	}

	return integrated, nil
}

type memberKey struct {
	nftID  int64
	mintID int64
}

// lockMembers resolves the on-chain identity of every member and locks
// the ones not already held by the caller. A member that is missing,
// on the wrong chain, not owned by the user or locked elsewhere fails
// the whole call, and the members locked so far are released again.
// The returned list holds the members this call locked, so the caller
// can release exactly those when a later step fails.
func (d *nftDomain) lockMembers(
	ctx context.Context, userID string, chainType entity.ChainType,
	members []model.IntegratedMember, held map[memberKey]bool,
) ([]chain.IntegrateMember, []model.IntegratedMember, error) {
	chainMembers := make([]chain.IntegrateMember, 0, len(members))
	locked := []model.IntegratedMember{}
	for _, member := range members {
		nft, err := d.nftRepo.GetByID(ctx, member.NftID)
		if err != nil {
			d.unlockMemberList(ctx, userID, locked)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, errorx.New(errorx.NotFound, "Not found nft %d", member.NftID)
			}

			xcontext.Logger(ctx).Errorf("Cannot get nft %d: %v", member.NftID, err)
			return nil, nil, errorx.Unknown
		}

		if nft.ChainType != chainType {
			d.unlockMemberList(ctx, userID, locked)
			return nil, nil, errorx.New(errorx.BadRequest, "All members must live on %s", chainType)
		}

		if !held[memberKey{member.NftID, member.MintID}] {
			ok, err := d.ownedRepo.Lock(ctx, userID, member.NftID, member.MintID)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot lock member %d: %v", member.NftID, err)
				d.unlockMemberList(ctx, userID, locked)
				return nil, nil, errorx.Unknown
			}

			if !ok {
				d.unlockMemberList(ctx, userID, locked)
				return nil, nil, errorx.New(errorx.Locked, "Token %d is locked or not yours", member.NftID)
			}

			locked = append(locked, member)
		}

		chainMembers = append(chainMembers, chain.IntegrateMember{
			NftAddress: nft.NftAddress,
			MintID:     member.MintID,
		})
	}

	return chainMembers, locked, nil
}

func (d *nftDomain) unlockMemberList(ctx context.Context, userID string, members []model.IntegratedMember) {
	for _, member := range members {
		if _, err := d.ownedRepo.Unlock(ctx, userID, member.NftID, member.MintID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot unlock member %d: %v", member.NftID, err)
		}
	}
}

// storeIntegrated writes the bundle and its member rows in one short
// transaction, after the chain call already succeeded.
func (d *nftDomain) storeIntegrated(
	ctx context.Context, integrated *entity.IntegratedNft, members []model.IntegratedMember,
) error {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.integratedRepo.Create(ctx, integrated); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create integrated nft: %v", err)
		return errorx.Unknown
	}

	for _, member := range members {
		err := d.integratedRepo.CreateMember(ctx, &entity.IntegratedNftMember{
			SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
			IntegratedID:  integrated.ID,
			NftID:         member.NftID,
			MintID:        member.MintID,
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create integrated member: %v", err)
			return errorx.Unknown
		}
	}

	xcontext.WithCommitDBTransaction(ctx)
	return nil
}

// rewriteMembers replaces the member rows of a bundle and releases the
// tokens that dropped out of it.
func (d *nftDomain) rewriteMembers(
	ctx context.Context, userID string, integratedID int64,
	members []model.IntegratedMember, oldMembers []entity.IntegratedNftMember,
) error {
	keep := make(map[memberKey]bool, len(members))
	for _, member := range members {
		keep[memberKey{member.NftID, member.MintID}] = true
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	for _, old := range oldMembers {
		if keep[memberKey{old.NftID, old.MintID}] {
			continue
		}

		if _, err := d.ownedRepo.Unlock(ctx, userID, old.NftID, old.MintID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot unlock member %d: %v", old.NftID, err)
			return errorx.Unknown
		}
	}

	if err := d.integratedRepo.DeleteMembers(ctx, integratedID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete integrated members: %v", err)
		return errorx.Unknown
	}

	for _, member := range members {
		err := d.integratedRepo.CreateMember(ctx, &entity.IntegratedNftMember{
			SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
			IntegratedID:  integratedID,
			NftID:         member.NftID,
			MintID:        member.MintID,
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create integrated member: %v", err)
			return errorx.Unknown
		}
	}

	xcontext.WithCommitDBTransaction(ctx)
	return nil
}

func (d *nftDomain) unlockMembers(ctx context.Context, userID string, integratedID int64) error {
	members, err := d.integratedRepo.GetMembers(ctx, integratedID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get integrated members: %v", err)
		return errorx.Unknown
	}

	for _, member := range members {
		if _, err := d.ownedRepo.Unlock(ctx, userID, member.NftID, member.MintID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot unlock member %d: %v", member.NftID, err)
			return errorx.Unknown
		}
	}

	return nil
}

func (d *nftDomain) integratedMembers(
	ctx context.Context, integrated *entity.IntegratedNft,
) ([]model.OwnedNft, error) {
	members, err := d.integratedRepo.GetMembers(ctx, integrated.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get integrated members: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.OwnedNft{}
	for _, member := range members {
		nft, err := d.nftRepo.GetByID(ctx, member.NftID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get nft %d: %v", member.NftID, err)
			return nil, errorx.Unknown
		}

		result = append(result, model.OwnedNft{
			Nft:      convertNft(nft),
			MintID:   member.MintID,
			IsLocked: true,
		})
	}

	return result, nil
}
