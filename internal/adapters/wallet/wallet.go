// Package wallet implements ports.Wallet on top of a Polygon JSON-RPC
// endpoint.
package wallet

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

const (
	polygonChainID = int64(137)

	// Native transfers always cost exactly this.
	transferGasLimit = uint64(21_000)

	// Gas price is refreshed at most this often.
	gasPriceUpdateInterval = 5 * time.Minute
)

// Wallet holds the agent's signing account.
type Wallet struct {
	client  *ethclient.Client
	privKey *ecdsa.PrivateKey
	address common.Address
	chainID *big.Int

	gasMu          sync.Mutex
	cachedGasPrice *big.Int
	lastGasUpdate  time.Time
}

// New derives the account from the hex private key and dials the RPC
// endpoint.
func New(rpcURL, privateKeyHex string) (*Wallet, error) {
	pkBytes, err := hex.DecodeString(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("wallet.New: decode private key: %w", err)
	}

	privKey, err := crypto.ToECDSA(pkBytes)
	if err != nil {
		return nil, fmt.Errorf("wallet.New: invalid private key: %w", err)
	}

	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("wallet.New: dial rpc %s: %w", rpcURL, err)
	}

	return &Wallet{
		client:  client,
		privKey: privKey,
		address: crypto.PubkeyToAddress(privKey.PublicKey),
		chainID: big.NewInt(polygonChainID),
	}, nil
}

// Address returns the account address as a hex string.
func (w *Wallet) Address() string {
	return w.address.Hex()
}

// Balance returns the native token balance in whole-token units.
func (w *Wallet) Balance(ctx context.Context) (float64, error) {
	wei, err := w.client.BalanceAt(ctx, w.address, nil)
	if err != nil {
		return 0, fmt.Errorf("wallet.Balance: %w", err)
	}
	return weiToFloat(wei), nil
}

// SendTip transfers amountEth of the native token to the recipient and
// returns the transaction hash.
func (w *Wallet) SendTip(ctx context.Context, recipient string, amountEth float64) (string, error) {
	if !common.IsHexAddress(recipient) {
		return "", fmt.Errorf("wallet.SendTip: invalid recipient %q", recipient)
	}
	to := common.HexToAddress(recipient)

	nonce, err := w.client.PendingNonceAt(ctx, w.address)
	if err != nil {
		return "", fmt.Errorf("wallet.SendTip: nonce: %w", err)
	}

	gasPrice, err := w.gasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("wallet.SendTip: gas price: %w", err)
	}

	tx := types.NewTransaction(nonce, to, floatToWei(amountEth), transferGasLimit, gasPrice, nil)
	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(w.chainID), w.privKey)
	if err != nil {
		return "", fmt.Errorf("wallet.SendTip: sign tx: %w", err)
	}

	if err := w.client.SendTransaction(ctx, signedTx); err != nil {
		return "", fmt.Errorf("wallet.SendTip: send tx: %w", err)
	}

	txHash := signedTx.Hash().Hex()
	slog.Info("tip transaction sent", "to", recipient, "amount", amountEth, "tx", txHash)
	return txHash, nil
}

// gasPrice returns the suggested gas price, cached for a few minutes.
func (w *Wallet) gasPrice(ctx context.Context) (*big.Int, error) {
	w.gasMu.Lock()
	defer w.gasMu.Unlock()

	if w.cachedGasPrice != nil && time.Since(w.lastGasUpdate) < gasPriceUpdateInterval {
		return w.cachedGasPrice, nil
	}

	price, err := w.client.SuggestGasPrice(ctx)
	if err != nil {
		if w.cachedGasPrice != nil {
			return w.cachedGasPrice, nil
		}
		return nil, err
	}
	w.cachedGasPrice = price
	w.lastGasUpdate = time.Now()
	return price, nil
}

func weiToFloat(wei *big.Int) float64 {
	f := new(big.Float).SetInt(wei)
	f.Quo(f, new(big.Float).SetFloat64(1e18))
	out, _ := f.Float64()
	return out
}

func floatToWei(amount float64) *big.Int {
	f := new(big.Float).SetFloat64(amount)
	f.Mul(f, new(big.Float).SetFloat64(1e18))
	wei, _ := f.Int(nil)
	return wei
}
