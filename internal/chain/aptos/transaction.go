package aptos

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yours-lab/backend/pkg/api"
)

const (
	maxGasAmount = "20000"
	gasUnitPrice = "100"
	txExpiration = 2 * time.Minute
)

// call submits one entry function of the platform module and returns
// the transaction hash. Signing goes through the encode_submission
// endpoint of the fullnode, so no BCS serialization happens locally.
func (a *Adapter) call(ctx context.Context, function string, args ...any) (string, error) {
	sequenceNumber, err := a.sequenceNumber(ctx)
	if err != nil {
		return "", err
	}

	payload := api.JSON{
		"type":           "entry_function_payload",
		"function":       fmt.Sprintf("%s::%s::%s", a.cfg.WalletAddress, moduleName, function),
		"type_arguments": []string{},
		"arguments":      args,
	}

	tx := api.JSON{
		"sender":                    a.cfg.WalletAddress,
		"sequence_number":           strconv.FormatUint(sequenceNumber, 10),
		"max_gas_amount":            maxGasAmount,
		"gas_unit_price":            gasUnitPrice,
		"expiration_timestamp_secs": strconv.FormatInt(time.Now().Add(txExpiration).Unix(), 10),
		"payload":                   payload,
	}

	signingMessage, err := a.encodeSubmission(ctx, tx)
	if err != nil {
		return "", err
	}

	message, err := hex.DecodeString(strings.TrimPrefix(signingMessage, "0x"))
	if err != nil {
		return "", fmt.Errorf("invalid signing message: %w", err)
	}

	signature := ed25519.Sign(a.privateKey, message)
	tx["signature"] = api.JSON{
		"type":       "ed25519_signature",
		"public_key": a.publicKey,
		"signature":  "0x" + hex.EncodeToString(signature),
	}

	resp, err := a.generator.New("/v1/transactions").Body(tx).POST(ctx)
	if err != nil {
		return "", err
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return "", fmt.Errorf("unexpected submit response")
	}

	if resp.Code != http.StatusAccepted {
		message, _ := body.GetString("message")
		return "", fmt.Errorf("submit rejected (%d): %s", resp.Code, message)
	}

	return body.GetString("hash")
}

func (a *Adapter) sequenceNumber(ctx context.Context) (uint64, error) {
	resp, err := a.generator.New("/v1/accounts/%s", a.cfg.WalletAddress).GET(ctx)
	if err != nil {
		return 0, err
	}

	body, ok := resp.Body.(api.JSON)
	if !ok || resp.Code != http.StatusOK {
		return 0, fmt.Errorf("cannot read account %s", a.cfg.WalletAddress)
	}

	raw, err := body.GetString("sequence_number")
	if err != nil {
		return 0, err
	}

	return strconv.ParseUint(raw, 10, 64)
}

func (a *Adapter) encodeSubmission(ctx context.Context, tx api.JSON) (string, error) {
	resp, err := a.generator.New("/v1/transactions/encode_submission").Body(tx).POST(ctx)
	if err != nil {
		return "", err
	}

	if resp.Code != http.StatusOK {
		return "", fmt.Errorf("encode_submission rejected (%d): %s", resp.Code, resp.RawBody)
	}

	// The endpoint returns a bare JSON string.
	message := strings.Trim(string(resp.RawBody), "\"\n ")
	if message == "" {
		return "", fmt.Errorf("empty signing message")
	}

	return message, nil
}

func (a *Adapter) transactionByHash(ctx context.Context, txHash string) (api.JSON, error) {
	resp, err := a.generator.New("/v1/transactions/by_hash/%s", txHash).GET(ctx)
	if err != nil {
		return nil, err
	}

	if resp.Code == http.StatusNotFound {
		return nil, nil
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return nil, fmt.Errorf("unexpected transaction response")
	}

	// Pending transactions have no success field yet.
	txType, err := body.GetString("type")
	if err != nil || txType == "pending_transaction" {
		return nil, nil
	}

	return body, nil
}

// eventInt waits for the transaction and extracts one integer field of
// an event emitted by the platform module.
func (a *Adapter) eventInt(ctx context.Context, txHash, eventName, field string) (int64, error) {
	if err := a.Confirm(ctx, txHash); err != nil {
		return 0, err
	}

	tx, err := a.transactionByHash(ctx, txHash)
	if err != nil {
		return 0, err
	}

	if tx == nil {
		return 0, fmt.Errorf("transaction %s disappeared after confirmation", txHash)
	}

	events, err := tx.GetArray("events")
	if err != nil {
		return 0, err
	}

	suffix := fmt.Sprintf("::%s::%s", moduleName, eventName)
	for _, event := range events {
		eventType, err := event.GetString("type")
		if err != nil || !strings.HasSuffix(eventType, suffix) {
			continue
		}

		raw, err := event.GetString("data." + field)
		if err != nil {
			return 0, err
		}

		return strconv.ParseInt(raw, 10, 64)
	}

	return 0, fmt.Errorf("transaction %s emitted no %s event", txHash, eventName)
}
