package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/yours-lab/backend/internal/entity"
)

// ErrReverted marks a transaction that was mined but failed on chain.
// Retrying it can never succeed.
var ErrReverted = errors.New("transaction reverted")

func IsReverted(err error) bool {
	return errors.Is(err, ErrReverted)
}

type DeployResult struct {
	NftAddress string
	TxHash     string
}

type MintResult struct {
	MintID int64
	TxHash string
}

type TxResult struct {
	TxHash string
}

type IntegrateResult struct {
	TokenID int64
	TxHash  string
}

// IntegrateMember identifies one token joining an integrated bundle.
type IntegrateMember struct {
	NftAddress string
	MintID     int64
}

// Error wraps a failure of one adapter call with the chain and
// operation it came from.
type Error struct {
	Chain entity.ChainType
	Op    string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Chain, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Adapter submits transactions on one chain. Calls are not idempotent
// and are never retried here; callers guard with loading flags first.
type Adapter interface {
	ChainType() entity.ChainType

	Deploy(ctx context.Context, name, metadataURI, benefitURI string) (*DeployResult, error)
	Mint(ctx context.Context, nftAddress, to string) (*MintResult, error)
	SetBenefitURI(ctx context.Context, nftAddress, benefitURI string) (*TxResult, error)
	Transfer(ctx context.Context, nftAddress string, mintID int64, from, to string) (*TxResult, error)

	Integrate(ctx context.Context, to string, members []IntegrateMember) (*IntegrateResult, error)
	UpdateIntegrate(ctx context.Context, tokenID int64, members []IntegrateMember) (*TxResult, error)
	BurnIntegrate(ctx context.Context, tokenID int64) (*TxResult, error)

	ApproveToSell(ctx context.Context, nftAddress string) (*TxResult, error)
	Sell(ctx context.Context, nftAddress string, mintID int64, price float64) (*TxResult, error)
	Buy(ctx context.Context, nftAddress string, mintID int64, to string) (*TxResult, error)

	DeployWrapped(ctx context.Context, name, originAddress string) (*DeployResult, error)
	MintWrapped(ctx context.Context, nftAddress string, originTokenID int64, to string) (*MintResult, error)
	OwnsOriginalToken(ctx context.Context, originAddress, ownerAddress string, originTokenID int64) (bool, error)

	// Confirm blocks until the transaction is mined and returns an
	// error if it reverted or the context expires first.
	Confirm(ctx context.Context, txHash string) error
}

// Manager holds the adapter of every configured chain.
type Manager struct {
	adapters map[entity.ChainType]Adapter
}

func NewManager(adapters ...Adapter) *Manager {
	m := &Manager{adapters: make(map[entity.ChainType]Adapter)}
	for _, adapter := range adapters {
		m.adapters[adapter.ChainType()] = adapter
	}

	return m
}

func (m *Manager) Get(chainType entity.ChainType) (Adapter, error) {
	adapter, ok := m.adapters[chainType]
	if !ok {
		return nil, fmt.Errorf("unsupported chain %s", chainType)
	}

	return adapter, nil
}
