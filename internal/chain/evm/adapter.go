package evm

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/yours-lab/backend/config"
	"github.com/yours-lab/backend/internal/chain"
	"github.com/yours-lab/backend/internal/entity"
	"github.com/yours-lab/backend/pkg/enum"
)

const confirmTimeout = 2 * time.Minute

// Adapter drives one EVM-compatible chain. The same implementation
// serves every configured chain entry; only the RPC endpoint, chain id
// and contract addresses differ.
type Adapter struct {
	cfg       config.EvmChainConfig
	chainType entity.ChainType

	client        *ethclient.Client
	chainID       *big.Int
	privateKey    *ecdsa.PrivateKey
	walletAddress common.Address

	factory     *bind.BoundContract
	marketplace *bind.BoundContract
}

func NewAdapter(cfg config.EvmChainConfig) (*Adapter, error) {
	chainType, err := enum.ToEnum[entity.ChainType](cfg.Chain)
	if err != nil {
		return nil, err
	}

	client, err := ethclient.Dial(cfg.RPC)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to %s: %w", cfg.Chain, err)
	}

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.WalletPrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid wallet key of %s: %w", cfg.Chain, err)
	}

	a := &Adapter{
		cfg:           cfg,
		chainType:     chainType,
		client:        client,
		chainID:       big.NewInt(cfg.ChainID),
		privateKey:    privateKey,
		walletAddress: crypto.PubkeyToAddress(privateKey.PublicKey),
	}

	a.factory = a.bound(factoryABI, common.HexToAddress(cfg.FactoryAddress))
	a.marketplace = a.bound(marketplaceABI, common.HexToAddress(cfg.MarketplaceAddress))

	return a, nil
}

func (a *Adapter) ChainType() entity.ChainType {
	return a.chainType
}

func (a *Adapter) Deploy(ctx context.Context, name, metadataURI, benefitURI string) (*chain.DeployResult, error) {
	receipt, err := a.transact(ctx, a.factory, "deployNFT", name, metadataURI, benefitURI)
	if err != nil {
		return nil, a.wrap("deploy", err)
	}

	values, err := a.eventData(receipt, factoryABI, common.HexToAddress(a.cfg.FactoryAddress), "DeployNFT")
	if err != nil {
		return nil, a.wrap("deploy", err)
	}

	address, ok := values[0].(common.Address)
	if !ok {
		return nil, a.wrap("deploy", fmt.Errorf("unexpected DeployNFT payload %T", values[0]))
	}

	return &chain.DeployResult{
		NftAddress: address.Hex(),
		TxHash:     receipt.TxHash.Hex(),
	}, nil
}

func (a *Adapter) Mint(ctx context.Context, nftAddress, to string) (*chain.MintResult, error) {
	collection := a.bound(collectionABI, common.HexToAddress(nftAddress))
	receipt, err := a.transact(ctx, collection, "mint", common.HexToAddress(to))
	if err != nil {
		return nil, a.wrap("mint", err)
	}

	mintID, err := a.uint256Event(receipt, collectionABI, common.HexToAddress(nftAddress), "Mint")
	if err != nil {
		return nil, a.wrap("mint", err)
	}

	return &chain.MintResult{MintID: mintID, TxHash: receipt.TxHash.Hex()}, nil
}

func (a *Adapter) SetBenefitURI(ctx context.Context, nftAddress, benefitURI string) (*chain.TxResult, error) {
	collection := a.bound(collectionABI, common.HexToAddress(nftAddress))
	receipt, err := a.transact(ctx, collection, "setBenefitsURI", benefitURI)
	if err != nil {
		return nil, a.wrap("set_benefit_uri", err)
	}

	return &chain.TxResult{TxHash: receipt.TxHash.Hex()}, nil
}

func (a *Adapter) Transfer(
	ctx context.Context, nftAddress string, mintID int64, from, to string,
) (*chain.TxResult, error) {
	collection := a.bound(collectionABI, common.HexToAddress(nftAddress))
	receipt, err := a.transact(ctx, collection, "transferFrom",
		common.HexToAddress(from), common.HexToAddress(to), big.NewInt(mintID))
	if err != nil {
		return nil, a.wrap("transfer", err)
	}

	return &chain.TxResult{TxHash: receipt.TxHash.Hex()}, nil
}

func (a *Adapter) Integrate(
	ctx context.Context, to string, members []chain.IntegrateMember,
) (*chain.IntegrateResult, error) {
	collections, tokenIDs := memberArgs(members)
	receipt, err := a.transact(ctx, a.factory, "mintIntegratedNFT",
		common.HexToAddress(to), collections, tokenIDs)
	if err != nil {
		return nil, a.wrap("integrate", err)
	}

	tokenID, err := a.uint256Event(receipt, factoryABI, common.HexToAddress(a.cfg.FactoryAddress), "MintIntegratedNFT")
	if err != nil {
		return nil, a.wrap("integrate", err)
	}

	return &chain.IntegrateResult{TokenID: tokenID, TxHash: receipt.TxHash.Hex()}, nil
}

func (a *Adapter) UpdateIntegrate(
	ctx context.Context, tokenID int64, members []chain.IntegrateMember,
) (*chain.TxResult, error) {
	collections, tokenIDs := memberArgs(members)
	receipt, err := a.transact(ctx, a.factory, "updateIntegratedNFT",
		big.NewInt(tokenID), collections, tokenIDs)
	if err != nil {
		return nil, a.wrap("update_integrate", err)
	}

	return &chain.TxResult{TxHash: receipt.TxHash.Hex()}, nil
}

func (a *Adapter) BurnIntegrate(ctx context.Context, tokenID int64) (*chain.TxResult, error) {
	receipt, err := a.transact(ctx, a.factory, "burnIntegratedNFT", big.NewInt(tokenID))
	if err != nil {
		return nil, a.wrap("burn_integrate", err)
	}

	return &chain.TxResult{TxHash: receipt.TxHash.Hex()}, nil
}

func (a *Adapter) ApproveToSell(ctx context.Context, nftAddress string) (*chain.TxResult, error) {
	collection := a.bound(collectionABI, common.HexToAddress(nftAddress))
	receipt, err := a.transact(ctx, collection, "setApprovalForAll",
		common.HexToAddress(a.cfg.MarketplaceAddress), true)
	if err != nil {
		return nil, a.wrap("approve_to_sell", err)
	}

	return &chain.TxResult{TxHash: receipt.TxHash.Hex()}, nil
}

func (a *Adapter) Sell(
	ctx context.Context, nftAddress string, mintID int64, price float64,
) (*chain.TxResult, error) {
	receipt, err := a.transact(ctx, a.marketplace, "registerSale",
		common.HexToAddress(nftAddress), big.NewInt(mintID), yrpToUnits(price))
	if err != nil {
		return nil, a.wrap("sell", err)
	}

	return &chain.TxResult{TxHash: receipt.TxHash.Hex()}, nil
}

func (a *Adapter) Buy(ctx context.Context, nftAddress string, mintID int64, to string) (*chain.TxResult, error) {
	tx, err := a.submit(ctx, a.marketplace, "buyNFT",
		common.HexToAddress(nftAddress), big.NewInt(mintID), common.HexToAddress(to))
	if err != nil {
		return nil, a.wrap("buy", err)
	}

	// Settlement happens later through the outbox; only the submission
	// is synchronous here.
	return &chain.TxResult{TxHash: tx.Hash().Hex()}, nil
}

func (a *Adapter) DeployWrapped(ctx context.Context, name, originAddress string) (*chain.DeployResult, error) {
	receipt, err := a.transact(ctx, a.factory, "deployWrappedNFT", name, common.HexToAddress(originAddress))
	if err != nil {
		return nil, a.wrap("deploy_wrapped", err)
	}

	values, err := a.eventData(receipt, factoryABI, common.HexToAddress(a.cfg.FactoryAddress), "DeployNFT")
	if err != nil {
		return nil, a.wrap("deploy_wrapped", err)
	}

	address, ok := values[0].(common.Address)
	if !ok {
		return nil, a.wrap("deploy_wrapped", fmt.Errorf("unexpected DeployNFT payload %T", values[0]))
	}

	return &chain.DeployResult{
		NftAddress: address.Hex(),
		TxHash:     receipt.TxHash.Hex(),
	}, nil
}

func (a *Adapter) MintWrapped(
	ctx context.Context, nftAddress string, originTokenID int64, to string,
) (*chain.MintResult, error) {
	collection := a.bound(collectionABI, common.HexToAddress(nftAddress))
	receipt, err := a.transact(ctx, collection, "mintWrapped",
		common.HexToAddress(to), big.NewInt(originTokenID))
	if err != nil {
		return nil, a.wrap("mint_wrapped", err)
	}

	mintID, err := a.uint256Event(receipt, collectionABI, common.HexToAddress(nftAddress), "Mint")
	if err != nil {
		return nil, a.wrap("mint_wrapped", err)
	}

	return &chain.MintResult{MintID: mintID, TxHash: receipt.TxHash.Hex()}, nil
}

func (a *Adapter) OwnsOriginalToken(
	ctx context.Context, originAddress, ownerAddress string, originTokenID int64,
) (bool, error) {
	collection := a.bound(collectionABI, common.HexToAddress(originAddress))

	var out []any
	err := collection.Call(&bind.CallOpts{Context: ctx}, &out, "ownerOf", big.NewInt(originTokenID))
	if err != nil {
		// A revert here means the token does not exist on this
		// collection, which is an ownership failure, not an outage.
		if strings.Contains(err.Error(), "execution reverted") {
			return false, nil
		}
		return false, a.wrap("owns_original_token", err)
	}

	owner, ok := out[0].(common.Address)
	if !ok {
		return false, a.wrap("owns_original_token", fmt.Errorf("unexpected ownerOf payload %T", out[0]))
	}

	return owner == common.HexToAddress(ownerAddress), nil
}

func (a *Adapter) Confirm(ctx context.Context, txHash string) error {
	ctx, cancel := context.WithTimeout(ctx, confirmTimeout)
	defer cancel()

	hash := common.HexToHash(txHash)
	ticker := time.NewTicker(a.blockTime())
	defer ticker.Stop()

	for {
		receipt, err := a.client.TransactionReceipt(ctx, hash)
		if err == nil {
			if receipt.Status != ethtypes.ReceiptStatusSuccessful {
				return a.wrap("confirm", fmt.Errorf("transaction %s: %w", txHash, chain.ErrReverted))
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return a.wrap("confirm", ctx.Err())
		case <-ticker.C:
		}
	}
}

func (a *Adapter) bound(contractABI abi.ABI, address common.Address) *bind.BoundContract {
	return bind.NewBoundContract(address, contractABI, a.client, a.client, a.client)
}

func (a *Adapter) transactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(a.privateKey, a.chainID)
	if err != nil {
		return nil, err
	}

	opts.Context = ctx
	if !a.cfg.UseEip1559 {
		gasPrice, err := a.client.SuggestGasPrice(ctx)
		if err != nil {
			return nil, err
		}
		opts.GasPrice = gasPrice
	}

	return opts, nil
}

func (a *Adapter) submit(
	ctx context.Context, contract *bind.BoundContract, method string, args ...any,
) (*ethtypes.Transaction, error) {
	opts, err := a.transactOpts(ctx)
	if err != nil {
		return nil, err
	}

	return contract.Transact(opts, method, args...)
}

func (a *Adapter) transact(
	ctx context.Context, contract *bind.BoundContract, method string, args ...any,
) (*ethtypes.Receipt, error) {
	tx, err := a.submit(ctx, contract, method, args...)
	if err != nil {
		return nil, err
	}

	waitCtx, cancel := context.WithTimeout(ctx, confirmTimeout)
	defer cancel()

	receipt, err := bind.WaitMined(waitCtx, a.client, tx)
	if err != nil {
		return nil, err
	}

	if receipt.Status != ethtypes.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("transaction %s: %w", tx.Hash().Hex(), chain.ErrReverted)
	}

	return receipt, nil
}

func (a *Adapter) eventData(
	receipt *ethtypes.Receipt, contractABI abi.ABI, address common.Address, name string,
) ([]any, error) {
	event, ok := contractABI.Events[name]
	if !ok {
		return nil, fmt.Errorf("unknown event %s", name)
	}

	for _, log := range receipt.Logs {
		if log.Address != address || len(log.Topics) == 0 || log.Topics[0] != event.ID {
			continue
		}

		return event.Inputs.Unpack(log.Data)
	}

	// A confirmed transaction without its event is corrupted state,
	// never a success.
	return nil, fmt.Errorf("transaction %s emitted no %s event", receipt.TxHash.Hex(), name)
}

func (a *Adapter) uint256Event(
	receipt *ethtypes.Receipt, contractABI abi.ABI, address common.Address, name string,
) (int64, error) {
	values, err := a.eventData(receipt, contractABI, address, name)
	if err != nil {
		return 0, err
	}

	value, ok := values[0].(*big.Int)
	if !ok {
		return 0, fmt.Errorf("unexpected %s payload %T", name, values[0])
	}

	return value.Int64(), nil
}

func (a *Adapter) wrap(op string, err error) error {
	return &chain.Error{Chain: a.chainType, Op: op, Err: err}
}

func (a *Adapter) blockTime() time.Duration {
	if a.cfg.BlockTime > 0 {
		return a.cfg.BlockTime
	}

	return 3 * time.Second
}

func memberArgs(members []chain.IntegrateMember) ([]common.Address, []*big.Int) {
	collections := make([]common.Address, 0, len(members))
	tokenIDs := make([]*big.Int, 0, len(members))
	for _, member := range members {
		collections = append(collections, common.HexToAddress(member.NftAddress))
		tokenIDs = append(tokenIDs, big.NewInt(member.MintID))
	}

	return collections, tokenIDs
}

func yrpToUnits(price float64) *big.Int {
	units := new(big.Int)
	new(big.Float).Mul(big.NewFloat(price), big.NewFloat(1e18)).Int(units)
	return units
}
