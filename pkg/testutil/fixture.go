package testutil

import (
	"context"

	"github.com/yours-lab/backend/internal/entity"
	"github.com/yours-lab/backend/internal/repository"
	"github.com/yours-lab/backend/pkg/xcontext"
)

// Fixture rows shared by the domain tests. User1 creates collections,
// User2 holds tokens of the deployed one.
var (
	User1 = entity.User{
		Base:     entity.Base{ID: "user1"},
		Name:     "creator",
		Email:    "creator@example.com",
		Phone:    "01012345678",
		SnsID:    "sns-user1",
		Provider: entity.AuthProviderGoogle,
		Role:     entity.RoleUser,
	}

	User2 = entity.User{
		Base:     entity.Base{ID: "user2"},
		Name:     "collector",
		Email:    "collector@example.com",
		Phone:    "01087654321",
		SnsID:    "sns-user2",
		Provider: entity.AuthProviderKakao,
		Role:     entity.RoleUser,
	}

	Admin = entity.User{
		Base:     entity.Base{ID: "admin"},
		Name:     "admin",
		SnsID:    "sns-admin",
		Provider: entity.AuthProviderGoogle,
		Role:     entity.RoleAdmin,
	}

	Wallet1 = entity.UserWallet{
		Base:      entity.Base{ID: "wallet1"},
		UserID:    "user1",
		ChainType: entity.ChainEthereum,
		Address:   "0x1111111111111111111111111111111111111111",
	}

	Wallet2 = entity.UserWallet{
		Base:      entity.Base{ID: "wallet2"},
		UserID:    "user2",
		ChainType: entity.ChainEthereum,
		Address:   "0x2222222222222222222222222222222222222222",
	}

	// DeployedNft is live on chain with one published benefit.
	DeployedNft = entity.NonFungibleToken{
		SnowFlakeBase: entity.SnowFlakeBase{ID: 101},
		OwnerID:       "user1",
		Name:          "Membership Card",
		Image:         "https://cdn.example.com/images/card.png",
		Description:   "A deployed collection",
		AuthType:      entity.AuthTypeMail,
		ChainType:     entity.ChainEthereum,
		NftAddress:    "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		IsDeployed:    true,
	}

	// DraftNft has never been published.
	DraftNft = entity.NonFungibleToken{
		SnowFlakeBase: entity.SnowFlakeBase{ID: 102},
		OwnerID:       "user1",
		Name:          "Unreleased Pass",
		AuthType:      entity.AuthTypeNone,
		ChainType:     entity.ChainEthereum,
	}

	DeployedBenefit = entity.Benefit{
		SnowFlakeBase: entity.SnowFlakeBase{ID: 201},
		NftID:         101,
		Name:          "Free coffee",
		Description:   "One free coffee per visit",
	}

	DeployedDraft = entity.BenefitDraft{
		SnowFlakeBase: entity.SnowFlakeBase{ID: 301},
		NftID:         101,
		Name:          "Free coffee",
		Description:   "One free coffee per visit",
	}

	DraftNftDraft = entity.BenefitDraft{
		SnowFlakeBase: entity.SnowFlakeBase{ID: 302},
		NftID:         102,
		Name:          "Early access",
		Description:   "Early access to drops",
	}

	OwnedNft1 = entity.OwnedNft{
		SnowFlakeBase: entity.SnowFlakeBase{ID: 401},
		UserID:        "user2",
		NftID:         101,
		MintID:        1,
	}

	OwnedNft2 = entity.OwnedNft{
		SnowFlakeBase: entity.SnowFlakeBase{ID: 402},
		UserID:        "user2",
		NftID:         101,
		MintID:        2,
	}
)

func CreateFixtureDb(ctx context.Context) {
	insertUsers(ctx)
	insertNfts(ctx)
	insertBenefits(ctx)
	insertOwnedNfts(ctx)
}

func insertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository()
	walletRepo := repository.NewUserWalletRepository()
	for _, user := range []entity.User{User1, User2, Admin} {
		user := user
		if err := userRepo.Create(ctx, &user); err != nil {
			panic(err)
		}
	}

	for _, wallet := range []entity.UserWallet{Wallet1, Wallet2} {
		wallet := wallet
		if err := walletRepo.Upsert(ctx, &wallet); err != nil {
			panic(err)
		}
	}
}

func insertNfts(ctx context.Context) {
	nftRepo := repository.NewNftRepository()
	for _, nft := range []entity.NonFungibleToken{DeployedNft, DraftNft} {
		nft := nft
		if err := nftRepo.Create(ctx, &nft); err != nil {
			panic(err)
		}
	}
}

func insertBenefits(ctx context.Context) {
	benefitRepo := repository.NewBenefitRepository()
	for _, draft := range []entity.BenefitDraft{DeployedDraft, DraftNftDraft} {
		draft := draft
		if err := benefitRepo.CreateDraft(ctx, &draft); err != nil {
			panic(err)
		}
	}

	benefit := DeployedBenefit
	if err := xcontext.DB(ctx).Create(&benefit).Error; err != nil {
		panic(err)
	}
}

func insertOwnedNfts(ctx context.Context) {
	ownedRepo := repository.NewOwnedNftRepository()
	for _, owned := range []entity.OwnedNft{OwnedNft1, OwnedNft2} {
		owned := owned
		if err := ownedRepo.Create(ctx, &owned); err != nil {
			panic(err)
		}
	}
}
