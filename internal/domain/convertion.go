package domain

import (
	"time"

	"github.com/yours-lab/backend/internal/entity"
	"github.com/yours-lab/backend/internal/model"
)

func convertUser(user *entity.User) model.User {
	return model.User{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Phone:        user.Phone,
		ProfileImage: user.ProfileImage,
		IsMarketing:  user.IsMarketing,
	}
}

func convertNft(nft *entity.NonFungibleToken) model.Nft {
	transactionDate := ""
	if nft.TransactionDate.Valid {
		transactionDate = nft.TransactionDate.Time.Format(time.RFC3339)
	}

	return model.Nft{
		ID:              nft.ID,
		OwnerID:         nft.OwnerID,
		Name:            nft.Name,
		Image:           nft.Image,
		Description:     nft.Description,
		AuthType:        string(nft.AuthType),
		Options:         nft.Options,
		ChainType:       string(nft.ChainType),
		NftAddress:      nft.NftAddress,
		IsDeployed:      nft.IsDeployed,
		IsEdited:        nft.IsEdited,
		IsLoading:       nft.IsLoading,
		IsExternal:      nft.IsExternal,
		OriginAddress:   nft.OriginAddress,
		TransactionDate: transactionDate,
	}
}

func convertOwnedNft(owned *entity.OwnedNft, nft *entity.NonFungibleToken) model.OwnedNft {
	return model.OwnedNft{
		Nft:      convertNft(nft),
		MintID:   owned.MintID,
		IsLocked: owned.IsLocked,
	}
}

func convertBenefit(benefit *entity.Benefit) model.Benefit {
	return model.Benefit{
		ID:          benefit.ID,
		NftID:       benefit.NftID,
		Name:        benefit.Name,
		Description: benefit.Description,
		Category:    benefit.Category,
		Option:      benefit.Option,
	}
}

func convertBenefitDraft(draft *entity.BenefitDraft) model.Benefit {
	return model.Benefit{
		ID:          draft.ID,
		NftID:       draft.NftID,
		Name:        draft.Name,
		Description: draft.Description,
		Category:    draft.Category,
		Option:      draft.Option,
	}
}

func convertIntegratedNft(integrated *entity.IntegratedNft, members []model.OwnedNft) model.IntegratedNft {
	return model.IntegratedNft{
		ID:        integrated.ID,
		CreatorID: integrated.CreatorID,
		ChainType: string(integrated.ChainType),
		TokenID:   integrated.TokenID,
		Members:   members,
	}
}

func convertMarketOrder(order *entity.MarketOrder, nft *entity.NonFungibleToken, liked bool) model.MarketOrder {
	resp := model.MarketOrder{
		ID:         order.ID,
		NftID:      order.NftID,
		NftAddress: order.NftAddress,
		MintID:     order.MintID,
		SellerID:   order.SellerID,
		Price:      order.Price,
		IsLoading:  order.IsLoading,
		LikeCount:  order.LikeCount,
		Liked:      liked,
		Status:     string(order.Status),
	}

	if order.BuyerID.Valid {
		resp.BuyerID = order.BuyerID.String
	}

	if nft != nil {
		converted := convertNft(nft)
		resp.Nft = &converted
	}

	return resp
}

func convertPointRecord(record *entity.PointRecord) model.PointRecord {
	return model.PointRecord{
		ID:          record.ID,
		YrpAmount:   record.YrpAmount,
		Type:        string(record.Type),
		IsCompleted: record.IsCompleted,
		TxHash:      record.TxHash,
		CreatedAt:   record.CreatedAt.Format(time.RFC3339),
	}
}

func convertVerifyRequest(request *entity.VerifyRequest, user *entity.User) model.VerifyRequest {
	resp := model.VerifyRequest{
		ID:           request.ID,
		UserID:       request.UserID,
		NftID:        request.NftID,
		Image:        request.Image,
		RejectReason: request.RejectReason,
	}

	if user != nil {
		converted := convertUser(user)
		resp.User = &converted
	}

	return resp
}
