package testutil

import (
	"context"
	"fmt"

	"github.com/yours-lab/backend/internal/client"
	"github.com/yours-lab/backend/pkg/api/ipfs"
	"github.com/yours-lab/backend/pkg/errorx"
	"github.com/yours-lab/backend/pkg/storage"
)

type MockStorage struct {
	UploadFunc     func(context.Context, *storage.UploadObject) (*storage.UploadResponse, error)
	BulkUploadFunc func(context.Context, []*storage.UploadObject) ([]*storage.UploadResponse, error)
}

func (m *MockStorage) Upload(
	ctx context.Context, obj *storage.UploadObject,
) (*storage.UploadResponse, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, obj)
	}

	return nil, errorx.New(errorx.NotImplemented, "Not implemented")
}

func (m *MockStorage) BulkUpload(
	ctx context.Context, objs []*storage.UploadObject,
) ([]*storage.UploadResponse, error) {
	if m.BulkUploadFunc != nil {
		return m.BulkUploadFunc(ctx, objs)
	}

	return nil, errorx.New(errorx.NotImplemented, "Not implemented")
}

// MockMetadata hands back deterministic uris without touching ipfs.
type MockMetadata struct {
	UploadMetadataFunc func(ctx context.Context, name, description, image string, benefits []ipfs.Benefit) (string, error)
	UploadBenefitsFunc func(ctx context.Context, benefits []ipfs.Benefit) (string, error)
}

func (m *MockMetadata) UploadMetadata(
	ctx context.Context, name, description, image string, benefits []ipfs.Benefit,
) (string, error) {
	if m.UploadMetadataFunc != nil {
		return m.UploadMetadataFunc(ctx, name, description, image, benefits)
	}

	return fmt.Sprintf("ipfs://metadata/%s", name), nil
}

func (m *MockMetadata) UploadBenefits(ctx context.Context, benefits []ipfs.Benefit) (string, error) {
	if m.UploadBenefitsFunc != nil {
		return m.UploadBenefitsFunc(ctx, benefits)
	}

	return fmt.Sprintf("ipfs://benefits/%d", len(benefits)), nil
}

// MockNotifier records every message instead of calling the gateway.
type MockNotifier struct {
	Notifications []MockNotification
}

type MockNotification struct {
	TemplateCode string
	RecipientNo  string
	Params       map[string]string
}

func (m *MockNotifier) Notify(ctx context.Context, templateCode, recipientNo string, params map[string]string) {
	m.Notifications = append(m.Notifications, MockNotification{
		TemplateCode: templateCode,
		RecipientNo:  recipientNo,
		Params:       params,
	})
}

func (m *MockNotifier) NotifyAll(ctx context.Context, templateCode string, recipients []client.Recipient) {
	for _, recipient := range recipients {
		m.Notify(ctx, templateCode, recipient.RecipientNo, recipient.Params)
	}
}

// MockMailSender records auth mails instead of sending them.
type MockMailSender struct {
	Mails []MockMail
}

type MockMail struct {
	Email string
	Code  string
}

func (m *MockMailSender) SendAuthMail(ctx context.Context, email, code string) {
	m.Mails = append(m.Mails, MockMail{Email: email, Code: code})
}
