package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/yours-lab/backend/internal/entity"
	"github.com/yours-lab/backend/internal/model"
	"github.com/yours-lab/backend/internal/repository"
	"github.com/yours-lab/backend/pkg/authenticator"
	"github.com/yours-lab/backend/pkg/errorx"
	"github.com/yours-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type AuthDomain interface {
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	VerifyToken(ctx context.Context, req *model.VerifyTokenRequest) (*model.VerifyTokenResponse, error)
}

type authDomain struct {
	userRepo       repository.UserRepository
	oauth2Services []authenticator.IOAuth2Service
}

func NewAuthDomain(
	userRepo repository.UserRepository,
	oauth2Services []authenticator.IOAuth2Service,
) *authDomain {
	return &authDomain{
		userRepo:       userRepo,
		oauth2Services: oauth2Services,
	}
}

func (d *authDomain) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	service, ok := d.getOAuth2Service(req.Provider)
	if !ok {
		return nil, errorx.New(errorx.BadRequest, "Unsupported provider %s", req.Provider)
	}

	oauth2User, err := service.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot verify id token: %v", err)
		return nil, errorx.New(errorx.Unauthenticated, "Invalid id token")
	}

	isNew := false
	user, err := d.userRepo.GetBySnsID(ctx, oauth2User.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get user by sns id: %v", err)
			return nil, errorx.Unknown
		}

		provider, err := toEnum[entity.AuthProvider](req.Provider)
		if err != nil {
			return nil, err
		}

		name := req.Name
		if name == "" {
			name = oauth2User.Username
		}

		user = &entity.User{
			Base:        entity.Base{ID: uuid.NewString()},
			Name:        name,
			Email:       req.Email,
			Phone:       req.Phone,
			SnsID:       oauth2User.ID,
			Provider:    provider,
			Role:        entity.RoleUser,
			IsMarketing: req.IsMarketing,
		}

		if err := d.userRepo.Create(ctx, user); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
			return nil, errorx.Unknown
		}

		isNew = true
	}

	token, err := xcontext.TokenEngine(ctx).Generate(
		xcontext.Configs(ctx).Auth.AccessToken.Expiration,
		model.AccessToken{
			ID:   user.ID,
			Name: user.Name,
			Role: string(user.Role),
		})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return nil, errorx.Unknown
	}

	return &model.LoginResponse{
		AccessToken: token,
		User:        convertUser(user),
		IsNew:       isNew,
	}, nil
}

func (d *authDomain) VerifyToken(
	ctx context.Context, req *model.VerifyTokenRequest,
) (*model.VerifyTokenResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	return &model.VerifyTokenResponse{User: convertUser(user)}, nil
}

func (d *authDomain) getOAuth2Service(service string) (authenticator.IOAuth2Service, bool) {
	for i := range d.oauth2Services {
		if d.oauth2Services[i].Service() == service {
			return d.oauth2Services[i], true
		}
	}
	return nil, false
}
