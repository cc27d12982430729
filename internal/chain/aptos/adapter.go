package aptos

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yours-lab/backend/config"
	"github.com/yours-lab/backend/internal/chain"
	"github.com/yours-lab/backend/internal/entity"
	"github.com/yours-lab/backend/pkg/api"
)

const (
	confirmTimeout = 2 * time.Minute
	pollInterval   = time.Second

	moduleName = "yours_token"
)

// Adapter drives the Aptos chain through the fullnode REST API. Every
// mutation is an entry function of the platform move module, signed
// with the platform ed25519 key via the encode_submission endpoint.
type Adapter struct {
	cfg        config.AptosChainConfig
	generator  api.Generator
	privateKey ed25519.PrivateKey
	publicKey  string
}

func NewAdapter(cfg config.AptosChainConfig) (*Adapter, error) {
	seed, err := hex.DecodeString(strings.TrimPrefix(cfg.WalletPrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid aptos wallet key: %w", err)
	}

	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("invalid aptos wallet key length %d", len(seed))
	}

	privateKey := ed25519.NewKeyFromSeed(seed)
	publicKey := privateKey.Public().(ed25519.PublicKey)

	return &Adapter{
		cfg:        cfg,
		generator:  api.NewGenerator(cfg.NodeURL),
		privateKey: privateKey,
		publicKey:  "0x" + hex.EncodeToString(publicKey),
	}, nil
}

func (a *Adapter) ChainType() entity.ChainType {
	return entity.ChainAptos
}

func (a *Adapter) Deploy(ctx context.Context, name, metadataURI, benefitURI string) (*chain.DeployResult, error) {
	txHash, err := a.call(ctx, "create_token",
		a.cfg.CollectionName, name, metadataURI, benefitURI)
	if err != nil {
		return nil, a.wrap("deploy", err)
	}

	if err := a.Confirm(ctx, txHash); err != nil {
		return nil, err
	}

	// Aptos tokens are addressed by creator, collection and name
	// rather than a contract address.
	address := fmt.Sprintf("%s::%s::%s", a.cfg.WalletAddress, a.cfg.CollectionName, name)
	return &chain.DeployResult{NftAddress: address, TxHash: txHash}, nil
}

func (a *Adapter) Mint(ctx context.Context, nftAddress, to string) (*chain.MintResult, error) {
	tokenName, err := tokenNameOf(nftAddress)
	if err != nil {
		return nil, a.wrap("mint", err)
	}

	txHash, err := a.call(ctx, "mint_token", a.cfg.CollectionName, tokenName, to)
	if err != nil {
		return nil, a.wrap("mint", err)
	}

	mintID, err := a.eventInt(ctx, txHash, "MintEvent", "mint_id")
	if err != nil {
		return nil, a.wrap("mint", err)
	}

	return &chain.MintResult{MintID: mintID, TxHash: txHash}, nil
}

func (a *Adapter) SetBenefitURI(ctx context.Context, nftAddress, benefitURI string) (*chain.TxResult, error) {
	tokenName, err := tokenNameOf(nftAddress)
	if err != nil {
		return nil, a.wrap("set_benefit_uri", err)
	}

	txHash, err := a.call(ctx, "mutate_benefit_uri", a.cfg.CollectionName, tokenName, benefitURI)
	if err != nil {
		return nil, a.wrap("set_benefit_uri", err)
	}

	if err := a.Confirm(ctx, txHash); err != nil {
		return nil, err
	}

	return &chain.TxResult{TxHash: txHash}, nil
}

func (a *Adapter) Transfer(
	ctx context.Context, nftAddress string, mintID int64, from, to string,
) (*chain.TxResult, error) {
	tokenName, err := tokenNameOf(nftAddress)
	if err != nil {
		return nil, a.wrap("transfer", err)
	}

	txHash, err := a.call(ctx, "transfer_token",
		a.cfg.CollectionName, tokenName, strconv.FormatInt(mintID, 10), from, to)
	if err != nil {
		return nil, a.wrap("transfer", err)
	}

	if err := a.Confirm(ctx, txHash); err != nil {
		return nil, err
	}

	return &chain.TxResult{TxHash: txHash}, nil
}

func (a *Adapter) Integrate(
	ctx context.Context, to string, members []chain.IntegrateMember,
) (*chain.IntegrateResult, error) {
	names, mintIDs, err := memberArgs(members)
	if err != nil {
		return nil, a.wrap("integrate", err)
	}

	txHash, err := a.call(ctx, "mint_integrated_token", a.cfg.CollectionName, to, names, mintIDs)
	if err != nil {
		return nil, a.wrap("integrate", err)
	}

	tokenID, err := a.eventInt(ctx, txHash, "IntegrateEvent", "token_id")
	if err != nil {
		return nil, a.wrap("integrate", err)
	}

	return &chain.IntegrateResult{TokenID: tokenID, TxHash: txHash}, nil
}

func (a *Adapter) UpdateIntegrate(
	ctx context.Context, tokenID int64, members []chain.IntegrateMember,
) (*chain.TxResult, error) {
	names, mintIDs, err := memberArgs(members)
	if err != nil {
		return nil, a.wrap("update_integrate", err)
	}

	txHash, err := a.call(ctx, "update_integrated_token",
		a.cfg.CollectionName, strconv.FormatInt(tokenID, 10), names, mintIDs)
	if err != nil {
		return nil, a.wrap("update_integrate", err)
	}

	if err := a.Confirm(ctx, txHash); err != nil {
		return nil, err
	}

	return &chain.TxResult{TxHash: txHash}, nil
}

func (a *Adapter) BurnIntegrate(ctx context.Context, tokenID int64) (*chain.TxResult, error) {
	txHash, err := a.call(ctx, "burn_integrated_token",
		a.cfg.CollectionName, strconv.FormatInt(tokenID, 10))
	if err != nil {
		return nil, a.wrap("burn_integrate", err)
	}

	if err := a.Confirm(ctx, txHash); err != nil {
		return nil, err
	}

	return &chain.TxResult{TxHash: txHash}, nil
}

// ApproveToSell is a no-op on Aptos; listings move the token into the
// marketplace resource directly, there is no operator approval step.
func (a *Adapter) ApproveToSell(ctx context.Context, nftAddress string) (*chain.TxResult, error) {
	return &chain.TxResult{}, nil
}

func (a *Adapter) Sell(
	ctx context.Context, nftAddress string, mintID int64, price float64,
) (*chain.TxResult, error) {
	tokenName, err := tokenNameOf(nftAddress)
	if err != nil {
		return nil, a.wrap("sell", err)
	}

	txHash, err := a.call(ctx, "list_token",
		a.cfg.CollectionName, tokenName, strconv.FormatInt(mintID, 10),
		strconv.FormatInt(int64(price*100), 10))
	if err != nil {
		return nil, a.wrap("sell", err)
	}

	if err := a.Confirm(ctx, txHash); err != nil {
		return nil, err
	}

	return &chain.TxResult{TxHash: txHash}, nil
}

func (a *Adapter) Buy(ctx context.Context, nftAddress string, mintID int64, to string) (*chain.TxResult, error) {
	tokenName, err := tokenNameOf(nftAddress)
	if err != nil {
		return nil, a.wrap("buy", err)
	}

	txHash, err := a.call(ctx, "claim_token",
		a.cfg.CollectionName, tokenName, strconv.FormatInt(mintID, 10), to)
	if err != nil {
		return nil, a.wrap("buy", err)
	}

	return &chain.TxResult{TxHash: txHash}, nil
}

func (a *Adapter) DeployWrapped(ctx context.Context, name, originAddress string) (*chain.DeployResult, error) {
	return nil, a.wrap("deploy_wrapped", errNotSupported)
}

func (a *Adapter) MintWrapped(
	ctx context.Context, nftAddress string, originTokenID int64, to string,
) (*chain.MintResult, error) {
	return nil, a.wrap("mint_wrapped", errNotSupported)
}

func (a *Adapter) OwnsOriginalToken(
	ctx context.Context, originAddress, ownerAddress string, originTokenID int64,
) (bool, error) {
	return false, a.wrap("owns_original_token", errNotSupported)
}

func (a *Adapter) Confirm(ctx context.Context, txHash string) error {
	ctx, cancel := context.WithTimeout(ctx, confirmTimeout)
	defer cancel()

	for {
		tx, err := a.transactionByHash(ctx, txHash)
		if err == nil && tx != nil {
			success, err := tx.GetBool("success")
			if err != nil {
				return a.wrap("confirm", err)
			}

			if !success {
				vmStatus, _ := tx.GetString("vm_status")
				return a.wrap("confirm",
					fmt.Errorf("transaction %s aborted with %s: %w", txHash, vmStatus, chain.ErrReverted))
			}

			return nil
		}

		select {
		case <-ctx.Done():
			return a.wrap("confirm", ctx.Err())
		case <-time.After(pollInterval):
		}
	}
}

var errNotSupported = fmt.Errorf("not supported on aptos")

func (a *Adapter) wrap(op string, err error) error {
	return &chain.Error{Chain: entity.ChainAptos, Op: op, Err: err}
}

func tokenNameOf(nftAddress string) (string, error) {
	parts := strings.Split(nftAddress, "::")
	if len(parts) != 3 {
		return "", fmt.Errorf("invalid aptos token address %s", nftAddress)
	}

	return parts[2], nil
}

func memberArgs(members []chain.IntegrateMember) ([]string, []string, error) {
	names := make([]string, 0, len(members))
	mintIDs := make([]string, 0, len(members))
	for _, member := range members {
		name, err := tokenNameOf(member.NftAddress)
		if err != nil {
			return nil, nil, err
		}

		names = append(names, name)
		mintIDs = append(mintIDs, strconv.FormatInt(member.MintID, 10))
	}

	return names, mintIDs, nil
}
