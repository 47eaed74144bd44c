// Package chain submits token deployments to the factory contract.
package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/edgard/gubot/internal/command"
	"github.com/edgard/gubot/internal/config"
	boterrors "github.com/edgard/gubot/internal/errors"
	"github.com/edgard/gubot/internal/logger"
)

// FactoryABI describes the single factory method the bot calls.
const FactoryABI = `[{
	"constant": false,
	"inputs": [
		{"name": "name", "type": "string"},
		{"name": "symbol", "type": "string"},
		{"name": "description", "type": "string"}
	],
	"name": "deploy",
	"outputs": [{"name": "", "type": "address"}],
	"payable": true,
	"stateMutability": "payable",
	"type": "function"
}]`

const deployMethod = "deploy"

// Backend is the subset of an Ethereum RPC client the deployer needs.
// *ethclient.Client satisfies it.
type Backend interface {
	NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

// Params are the fixed network parameters stamped on every transaction.
type Params struct {
	ChainID  *big.Int
	GasLimit uint64
	GasPrice *big.Int
}

// Deployer builds, signs and broadcasts factory deploy calls. It returns as soon as the
// node accepts the transaction; inclusion and execution are never checked.
type Deployer struct {
	backend Backend
	closeFn func()
	key     *ecdsa.PrivateKey
	from    common.Address
	factory common.Address
	abi     abi.ABI
	signer  types.Signer
	params  Params
	log     *slog.Logger
}

// Dial connects to the configured RPC endpoint and returns a Deployer using it.
func Dial(ctx context.Context, cfg config.ChainConfig, log *slog.Logger) (*Deployer, error) {
	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}

	key, err := ParsePrivateKey(cfg.PrivateKey)
	if err != nil {
		client.Close()
		return nil, err
	}

	d, err := NewDeployer(client, key, common.HexToAddress(cfg.FactoryAddress), ParamsFromConfig(cfg), log)
	if err != nil {
		client.Close()
		return nil, err
	}
	d.closeFn = client.Close
	return d, nil
}

// NewDeployer creates a Deployer over any Backend.
func NewDeployer(backend Backend, key *ecdsa.PrivateKey, factory common.Address, params Params, log *slog.Logger) (*Deployer, error) {
	if backend == nil {
		return nil, fmt.Errorf("chain backend is required")
	}
	if key == nil {
		return nil, fmt.Errorf("signing key is required")
	}
	if params.ChainID == nil || params.GasPrice == nil {
		return nil, fmt.Errorf("chain id and gas price are required")
	}
	if log == nil {
		log = logger.Discard()
	}

	parsed, err := abi.JSON(strings.NewReader(FactoryABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse factory ABI: %w", err)
	}

	from := crypto.PubkeyToAddress(key.PublicKey)
	log = log.With("component", "deployer")
	log.Info("Deployer initialized",
		"account", from.Hex(),
		"factory", factory.Hex(),
		"chain_id", params.ChainID.String(),
		"gas_limit", params.GasLimit,
		"gas_price_wei", params.GasPrice.String())

	return &Deployer{
		backend: backend,
		key:     key,
		from:    from,
		factory: factory,
		abi:     parsed,
		signer:  types.NewEIP155Signer(params.ChainID),
		params:  params,
		log:     log,
	}, nil
}

// ParsePrivateKey decodes a hex private key, with or without 0x prefix.
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, boterrors.NewConfigError("invalid private key", err)
	}
	return key, nil
}

// ParamsFromConfig converts the configured chain id, gas limit and gwei gas price.
func ParamsFromConfig(cfg config.ChainConfig) Params {
	return Params{
		ChainID:  big.NewInt(cfg.ChainID),
		GasLimit: cfg.GasLimit,
		GasPrice: GweiToWei(cfg.GasPriceGwei),
	}
}

// GweiToWei converts a (possibly fractional) gwei amount to wei.
func GweiToWei(gwei float64) *big.Int {
	wei := new(big.Float).Mul(big.NewFloat(gwei), big.NewFloat(1e9))
	out, _ := wei.Int(nil)
	return out
}

// Address returns the signing account.
func (d *Deployer) Address() common.Address {
	return d.from
}

// Nonce returns the signing account's transaction count at the latest block.
func (d *Deployer) Nonce(ctx context.Context) (uint64, error) {
	return d.backend.NonceAt(ctx, d.from, nil)
}

// Deploy calls factory.deploy(name, symbol, description) and returns the transaction
// hash as 0x-prefixed hex. Every failure is a ChainSubmissionError.
func (d *Deployer) Deploy(ctx context.Context, cmd command.DeployCommand) (string, error) {
	data, err := d.abi.Pack(deployMethod, cmd.Name, cmd.Symbol, cmd.Description)
	if err != nil {
		return "", boterrors.NewChainSubmissionError("failed to encode deploy call", err)
	}

	nonce, err := d.Nonce(ctx)
	if err != nil {
		return "", boterrors.NewChainSubmissionError("failed to get nonce", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &d.factory,
		Value:    big.NewInt(0),
		Gas:      d.params.GasLimit,
		GasPrice: d.params.GasPrice,
		Data:     data,
	})

	signedTx, err := types.SignTx(tx, d.signer, d.key)
	if err != nil {
		return "", boterrors.NewChainSubmissionError("failed to sign transaction", err)
	}

	if err := d.backend.SendTransaction(ctx, signedTx); err != nil {
		return "", boterrors.NewChainSubmissionError("failed to send transaction", err)
	}

	txHash := signedTx.Hash().Hex()
	d.log.InfoContext(ctx, "Deploy transaction sent",
		"name", cmd.Name,
		"symbol", cmd.Symbol,
		"nonce", nonce,
		"tx_hash", txHash)

	return txHash, nil
}

// Close releases the RPC connection when the Deployer owns one.
func (d *Deployer) Close() {
	if d.closeFn != nil {
		d.closeFn()
	}
}
