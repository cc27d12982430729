package domain

import (
	"context"
	"errors"

	"github.com/yours-lab/backend/internal/client"
	"github.com/yours-lab/backend/internal/model"
	"github.com/yours-lab/backend/pkg/code"
	"github.com/yours-lab/backend/pkg/crypto"
	"github.com/yours-lab/backend/pkg/errorx"
	"github.com/yours-lab/backend/pkg/xcontext"
)

const templateAuthCode = "AUTH_CODE"

type SmsDomain interface {
	SendCode(context.Context, *model.SendSmsCodeRequest) (*model.SendSmsCodeResponse, error)
	VerifyCode(context.Context, *model.VerifySmsCodeRequest) (*model.VerifySmsCodeResponse, error)
}

type smsDomain struct {
	codeStore code.Store
	notifier  client.Notifier
}

func NewSmsDomain(codeStore code.Store, notifier client.Notifier) *smsDomain {
	return &smsDomain{codeStore: codeStore, notifier: notifier}
}

func (d *smsDomain) SendCode(
	ctx context.Context, req *model.SendSmsCodeRequest,
) (*model.SendSmsCodeResponse, error) {
	if req.Phone == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty phone number")
	}

	authCode := crypto.GenerateRandomDigits(6)
	if err := d.codeStore.Save(ctx, "sms:"+req.Phone, authCode); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save auth code: %v", err)
		return nil, errorx.Unknown
	}

	d.notifier.Notify(ctx, templateAuthCode, req.Phone, map[string]string{"code": authCode})
	return &model.SendSmsCodeResponse{}, nil
}

func (d *smsDomain) VerifyCode(
	ctx context.Context, req *model.VerifySmsCodeRequest,
) (*model.VerifySmsCodeResponse, error) {
	err := d.codeStore.Verify(ctx, "sms:"+req.Phone, req.Code)
	if err != nil {
		if errors.Is(err, code.ErrNotMatch) {
			return nil, errorx.New(errorx.BadAuthCode, "The code does not match or is expired")
		}

		xcontext.Logger(ctx).Errorf("Cannot verify auth code: %v", err)
		return nil, errorx.Unknown
	}

	return &model.VerifySmsCodeResponse{Verified: true}, nil
}
