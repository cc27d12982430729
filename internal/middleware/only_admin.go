package middleware

import (
	"context"

	"github.com/yours-lab/backend/internal/entity"
	"github.com/yours-lab/backend/internal/repository"
	"github.com/yours-lab/backend/pkg/errorx"
	"github.com/yours-lab/backend/pkg/xcontext"
)

func OnlyAdmin(userRepo repository.UserRepository) func(ctx context.Context) (context.Context, error) {
	return func(ctx context.Context) (context.Context, error) {
		userID := xcontext.RequestUserID(ctx)
		if userID == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		user, err := userRepo.GetByID(ctx, userID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get user %s: %v", userID, err)
			return nil, errorx.Unknown
		}

		if user.Role != entity.RoleAdmin {
			return nil, errorx.New(errorx.PermissionDenied, "Only admin can call this API")
		}

		return ctx, nil
	}
}
