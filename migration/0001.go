package migration

import (
	"context"

	"github.com/yours-lab/backend/internal/entity"
	"github.com/yours-lab/backend/pkg/xcontext"
)

// migrate0001 adds the marketplace settlement tables for deployments
// created before the point ledger moved to asynchronous confirmation.
func migrate0001(ctx context.Context) error {
	migrator := xcontext.DB(ctx).Migrator()
	if err := migrator.CreateTable(&entity.SellApproval{}); err != nil {
		return err
	}

	return migrator.CreateTable(&entity.ChainTask{})
}
