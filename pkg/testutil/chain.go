package testutil

import (
	"context"
	"errors"

	"github.com/yours-lab/backend/internal/chain"
	"github.com/yours-lab/backend/internal/entity"
)

var ErrNotMocked = errors.New("not mocked")

// MockChainAdapter answers with the configured func fields and fails
// with ErrNotMocked otherwise, so a test notices an unexpected
// on-chain call instead of silently passing it.
type MockChainAdapter struct {
	Chain entity.ChainType

	DeployFunc            func(ctx context.Context, name, metadataURI, benefitURI string) (*chain.DeployResult, error)
	MintFunc              func(ctx context.Context, nftAddress, to string) (*chain.MintResult, error)
	SetBenefitURIFunc     func(ctx context.Context, nftAddress, benefitURI string) (*chain.TxResult, error)
	TransferFunc          func(ctx context.Context, nftAddress string, mintID int64, from, to string) (*chain.TxResult, error)
	IntegrateFunc         func(ctx context.Context, to string, members []chain.IntegrateMember) (*chain.IntegrateResult, error)
	UpdateIntegrateFunc   func(ctx context.Context, tokenID int64, members []chain.IntegrateMember) (*chain.TxResult, error)
	BurnIntegrateFunc     func(ctx context.Context, tokenID int64) (*chain.TxResult, error)
	ApproveToSellFunc     func(ctx context.Context, nftAddress string) (*chain.TxResult, error)
	SellFunc              func(ctx context.Context, nftAddress string, mintID int64, price float64) (*chain.TxResult, error)
	BuyFunc               func(ctx context.Context, nftAddress string, mintID int64, to string) (*chain.TxResult, error)
	DeployWrappedFunc     func(ctx context.Context, name, originAddress string) (*chain.DeployResult, error)
	MintWrappedFunc       func(ctx context.Context, nftAddress string, originTokenID int64, to string) (*chain.MintResult, error)
	OwnsOriginalTokenFunc func(ctx context.Context, originAddress, ownerAddress string, originTokenID int64) (bool, error)
	ConfirmFunc           func(ctx context.Context, txHash string) error
}

func NewMockChainAdapter() *MockChainAdapter {
	return &MockChainAdapter{Chain: entity.ChainEthereum}
}

func (m *MockChainAdapter) ChainType() entity.ChainType {
	return m.Chain
}

func (m *MockChainAdapter) Deploy(
	ctx context.Context, name, metadataURI, benefitURI string,
) (*chain.DeployResult, error) {
	if m.DeployFunc != nil {
		return m.DeployFunc(ctx, name, metadataURI, benefitURI)
	}

	return nil, ErrNotMocked
}

func (m *MockChainAdapter) Mint(ctx context.Context, nftAddress, to string) (*chain.MintResult, error) {
	if m.MintFunc != nil {
		return m.MintFunc(ctx, nftAddress, to)
	}

	return nil, ErrNotMocked
}

func (m *MockChainAdapter) SetBenefitURI(
	ctx context.Context, nftAddress, benefitURI string,
) (*chain.TxResult, error) {
	if m.SetBenefitURIFunc != nil {
		return m.SetBenefitURIFunc(ctx, nftAddress, benefitURI)
	}

	return nil, ErrNotMocked
}

func (m *MockChainAdapter) Transfer(
	ctx context.Context, nftAddress string, mintID int64, from, to string,
) (*chain.TxResult, error) {
	if m.TransferFunc != nil {
		return m.TransferFunc(ctx, nftAddress, mintID, from, to)
	}

	return nil, ErrNotMocked
}

func (m *MockChainAdapter) Integrate(
	ctx context.Context, to string, members []chain.IntegrateMember,
) (*chain.IntegrateResult, error) {
	if m.IntegrateFunc != nil {
		return m.IntegrateFunc(ctx, to, members)
	}

	return nil, ErrNotMocked
}

func (m *MockChainAdapter) UpdateIntegrate(
	ctx context.Context, tokenID int64, members []chain.IntegrateMember,
) (*chain.TxResult, error) {
	if m.UpdateIntegrateFunc != nil {
		return m.UpdateIntegrateFunc(ctx, tokenID, members)
	}

	return nil, ErrNotMocked
}

func (m *MockChainAdapter) BurnIntegrate(ctx context.Context, tokenID int64) (*chain.TxResult, error) {
	if m.BurnIntegrateFunc != nil {
		return m.BurnIntegrateFunc(ctx, tokenID)
	}

	return nil, ErrNotMocked
}

func (m *MockChainAdapter) ApproveToSell(ctx context.Context, nftAddress string) (*chain.TxResult, error) {
	if m.ApproveToSellFunc != nil {
		return m.ApproveToSellFunc(ctx, nftAddress)
	}

	return nil, ErrNotMocked
}

func (m *MockChainAdapter) Sell(
	ctx context.Context, nftAddress string, mintID int64, price float64,
) (*chain.TxResult, error) {
	if m.SellFunc != nil {
		return m.SellFunc(ctx, nftAddress, mintID, price)
	}

	return nil, ErrNotMocked
}

func (m *MockChainAdapter) Buy(
	ctx context.Context, nftAddress string, mintID int64, to string,
) (*chain.TxResult, error) {
	if m.BuyFunc != nil {
		return m.BuyFunc(ctx, nftAddress, mintID, to)
	}

	return nil, ErrNotMocked
}

func (m *MockChainAdapter) DeployWrapped(
	ctx context.Context, name, originAddress string,
) (*chain.DeployResult, error) {
	if m.DeployWrappedFunc != nil {
		return m.DeployWrappedFunc(ctx, name, originAddress)
	}

	return nil, ErrNotMocked
}

func (m *MockChainAdapter) MintWrapped(
	ctx context.Context, nftAddress string, originTokenID int64, to string,
) (*chain.MintResult, error) {
	if m.MintWrappedFunc != nil {
		return m.MintWrappedFunc(ctx, nftAddress, originTokenID, to)
	}

	return nil, ErrNotMocked
}

func (m *MockChainAdapter) OwnsOriginalToken(
	ctx context.Context, originAddress, ownerAddress string, originTokenID int64,
) (bool, error) {
	if m.OwnsOriginalTokenFunc != nil {
		return m.OwnsOriginalTokenFunc(ctx, originAddress, ownerAddress, originTokenID)
	}

	return false, ErrNotMocked
}

func (m *MockChainAdapter) Confirm(ctx context.Context, txHash string) error {
	if m.ConfirmFunc != nil {
		return m.ConfirmFunc(ctx, txHash)
	}

	return ErrNotMocked
}
