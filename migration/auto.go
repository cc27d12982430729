package migration

import (
	"context"

	"github.com/yours-lab/backend/internal/entity"
	"github.com/yours-lab/backend/pkg/xcontext"
)

// When this migrator is called, no need to call other migrators.
func AutoMigrate(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.User{},
		&entity.UserWallet{},
		&entity.NonFungibleToken{},
		&entity.Benefit{},
		&entity.BenefitDraft{},
		&entity.OwnedNft{},
		&entity.IntegratedNft{},
		&entity.IntegratedNftMember{},
		&entity.MarketOrder{},
		&entity.LikedOrder{},
		&entity.PointRecord{},
		&entity.VerifyRequest{},
		&entity.SellApproval{},
		&entity.ChainTask{},
	)
}
