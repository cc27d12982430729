package client

import (
	"context"
	"net/http"

	"github.com/yours-lab/backend/config"
	"github.com/yours-lab/backend/pkg/api"
	"github.com/yours-lab/backend/pkg/xcontext"
)

type Recipient struct {
	RecipientNo string
	Params      map[string]string
}

// Notifier pushes alim-talk style template messages through the
// notification gateway. Delivery failures are logged and swallowed; a
// missed push never fails the operation that triggered it.
type Notifier interface {
	Notify(ctx context.Context, templateCode, recipientNo string, params map[string]string)
	NotifyAll(ctx context.Context, templateCode string, recipients []Recipient)
}

type notifier struct {
	cfg       config.NotificationConfigs
	generator api.Generator
}

func NewNotifier(cfg config.NotificationConfigs) *notifier {
	return &notifier{
		cfg:       cfg,
		generator: api.NewGenerator(cfg.Endpoint),
	}
}

func (n *notifier) Notify(ctx context.Context, templateCode, recipientNo string, params map[string]string) {
	n.NotifyAll(ctx, templateCode, []Recipient{{RecipientNo: recipientNo, Params: params}})
}

func (n *notifier) NotifyAll(ctx context.Context, templateCode string, recipients []Recipient) {
	if len(recipients) == 0 {
		return
	}

	recipientList := make([]api.JSON, 0, len(recipients))
	for _, recipient := range recipients {
		templateParameter := api.JSON{}
		for key, value := range recipient.Params {
			templateParameter[key] = value
		}

		recipientList = append(recipientList, api.JSON{
			"recipientNo":       recipient.RecipientNo,
			"templateParameter": templateParameter,
		})
	}

	resp, err := n.generator.
		New("/alimtalk/v2.2/appkeys/%s/messages", n.cfg.AppKey).
		Header("X-Secret-Key", n.cfg.SecretKey).
		Body(api.JSON{
			"senderKey":     n.cfg.SenderKey,
			"templateCode":  templateCode,
			"recipientList": recipientList,
		}).
		POST(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot send notification %s: %v", templateCode, err)
		return
	}

	if resp.Code != http.StatusOK {
		xcontext.Logger(ctx).Errorf("Notification %s rejected with code %d", templateCode, resp.Code)
	}
}

// MailSender delivers auth-code mails through the same gateway.
type MailSender interface {
	SendAuthMail(ctx context.Context, email, code string)
}

type mailSender struct {
	cfg       config.NotificationConfigs
	generator api.Generator
}

func NewMailSender(cfg config.NotificationConfigs) *mailSender {
	return &mailSender{
		cfg:       cfg,
		generator: api.NewGenerator(cfg.Endpoint),
	}
}

func (s *mailSender) SendAuthMail(ctx context.Context, email, code string) {
	resp, err := s.generator.
		New("/email/v2.0/appKeys/%s/sender/mail", s.cfg.AppKey).
		Header("X-Secret-Key", s.cfg.SecretKey).
		Body(api.JSON{
			"senderAddress": s.cfg.SenderNo,
			"title":         "Yours NFT claim verification",
			"body":          "Your verification code is " + code,
			"receiverList": []api.JSON{
				{"receiveMailAddr": email, "receiveType": "MRT0"},
			},
		}).
		POST(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot send auth mail: %v", err)
		return
	}

	if resp.Code != http.StatusOK {
		xcontext.Logger(ctx).Errorf("Auth mail rejected with code %d", resp.Code)
	}
}
