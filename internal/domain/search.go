package domain

import (
	"context"
	"strings"

	"github.com/yours-lab/backend/internal/model"
	"github.com/yours-lab/backend/internal/repository"
	"github.com/yours-lab/backend/pkg/errorx"
	"github.com/yours-lab/backend/pkg/xcontext"
)

type SearchDomain interface {
	Search(context.Context, *model.SearchRequest) (*model.SearchResponse, error)
}

type searchDomain struct {
	nftRepo  repository.NftRepository
	userRepo repository.UserRepository
}

func NewSearchDomain(nftRepo repository.NftRepository, userRepo repository.UserRepository) *searchDomain {
	return &searchDomain{nftRepo: nftRepo, userRepo: userRepo}
}

func (d *searchDomain) Search(ctx context.Context, req *model.SearchRequest) (*model.SearchResponse, error) {
	keyword := strings.TrimSpace(req.Keyword)
	if keyword == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty keyword")
	}

	cfg := xcontext.Configs(ctx).ApiServer
	limit := req.Limit
	if limit == 0 {
		limit = cfg.DefaultLimit
	}

	if limit > cfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceeded the maximum limit of %d", cfg.MaxLimit)
	}

	nfts, err := d.nftRepo.SearchByName(ctx, keyword, req.Offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot search nfts: %v", err)
		return nil, errorx.Unknown
	}

	users, err := d.userRepo.SearchByName(ctx, keyword, req.Offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot search users: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.SearchResponse{Nfts: []model.Nft{}, Users: []model.User{}}
	for i := range nfts {
		resp.Nfts = append(resp.Nfts, convertNft(&nfts[i]))
	}

	for i := range users {
		resp.Users = append(resp.Users, convertUser(&users[i]))
	}

	return resp, nil
}
