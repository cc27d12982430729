package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yours-lab/backend/internal/model"
	"github.com/yours-lab/backend/pkg/code"
	"github.com/yours-lab/backend/pkg/errorx"
	"github.com/yours-lab/backend/pkg/testutil"
)

func Test_smsDomain_SendAndVerify(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)

	notifier := &testutil.MockNotifier{}
	domain := NewSmsDomain(code.NewMemoryStore(time.Minute), notifier)

	_, err := domain.SendCode(ctx, &model.SendSmsCodeRequest{Phone: testutil.User1.Phone})
	require.NoError(t, err)
	require.Len(t, notifier.Notifications, 1)
	require.Equal(t, templateAuthCode, notifier.Notifications[0].TemplateCode)

	authCode := notifier.Notifications[0].Params["code"]
	require.Len(t, authCode, 6)

	_, err = domain.VerifyCode(ctx, &model.VerifySmsCodeRequest{
		Phone: testutil.User1.Phone,
		Code:  "999999",
	})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadAuthCode, errx.Code)

	resp, err := domain.VerifyCode(ctx, &model.VerifySmsCodeRequest{
		Phone: testutil.User1.Phone,
		Code:  authCode,
	})
	require.NoError(t, err)
	require.True(t, resp.Verified)
}

func Test_smsDomain_SendCode_emptyPhone(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)

	domain := NewSmsDomain(code.NewMemoryStore(time.Minute), &testutil.MockNotifier{})
	_, err := domain.SendCode(ctx, &model.SendSmsCodeRequest{})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}
