package client

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/questx-lab/boxmaster/config"
	"github.com/questx-lab/boxmaster/pkg/errorx"
	"github.com/questx-lab/boxmaster/pkg/xcontext"
	"github.com/shopspring/decimal"
)

const erc20ABI = `[
{"inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"},
{"inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"name":"transferFrom","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"}
]`

const erc721ABI = `[
{"inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"tokenId","type":"uint256"}],"name":"safeTransferFrom","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

// ethTransactor signs transactions with the key of the master account and
// waits for them to be mined.
type ethTransactor struct {
	client  *ethclient.Client
	key     *ecdsa.PrivateKey
	chainID *big.Int
}

func NewEthTransactor(ctx context.Context, cfg config.EthConfigs) (*ethTransactor, error) {
	client, err := ethclient.DialContext(ctx, cfg.RPC)
	if err != nil {
		return nil, err
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, err
	}

	return &ethTransactor{
		client:  client,
		key:     key,
		chainID: big.NewInt(cfg.ChainID),
	}, nil
}

// Address is the account which signs the transactions, it must be the
// configured master address.
func (t *ethTransactor) Address() string {
	return crypto.PubkeyToAddress(t.key.PublicKey).Hex()
}

func (t *ethTransactor) Close() {
	t.client.Close()
}

func (t *ethTransactor) transact(
	ctx context.Context, contractABI, address, method string, params ...any,
) error {
	parsed, err := abi.JSON(strings.NewReader(contractABI))
	if err != nil {
		return err
	}

	contract := bind.NewBoundContract(common.HexToAddress(address), parsed, t.client, t.client, t.client)
	opts, err := bind.NewKeyedTransactorWithChainID(t.key, t.chainID)
	if err != nil {
		return err
	}
	opts.Context = ctx

	tx, err := contract.Transact(opts, method, params...)
	if err != nil {
		return err
	}

	receipt, err := bind.WaitMined(ctx, t.client, tx)
	if err != nil {
		return err
	}

	if receipt.Status != ethtypes.ReceiptStatusSuccessful {
		return fmt.Errorf("transaction %s reverted", tx.Hash().Hex())
	}

	return nil
}

type ethTokenLedger struct {
	transactor *ethTransactor
}

func NewEthTokenLedger(transactor *ethTransactor) *ethTokenLedger {
	return &ethTokenLedger{transactor: transactor}
}

func (l *ethTokenLedger) Transfer(ctx context.Context, token, from, to string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errorx.New(errorx.BadRequest, "Negative amount")
	}

	if amount.IsZero() {
		return nil
	}

	var err error
	if from == xcontext.Configs(ctx).Master.Address {
		err = l.transactor.transact(ctx, erc20ABI, token, "transfer",
			common.HexToAddress(to), amount.BigInt())
	} else {
		err = l.transactor.transact(ctx, erc20ABI, token, "transferFrom",
			common.HexToAddress(from), common.HexToAddress(to), amount.BigInt())
	}

	if err != nil {
		return toLedgerError(ctx, err)
	}

	return nil
}

// toLedgerError maps the revert reasons of the OpenZeppelin ERC-20 contract.
func toLedgerError(ctx context.Context, err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "insufficient allowance"):
		return errorx.New(errorx.InsufficientAllowance, "Insufficient allowance")
	case strings.Contains(msg, "exceeds balance"):
		return errorx.New(errorx.InsufficientBalance, "Insufficient balance")
	}

	xcontext.Logger(ctx).Errorf("Cannot transfer token: %v", err)
	return errorx.Unknown
}

type ethAssetRegistry struct {
	transactor *ethTransactor
}

func NewEthAssetRegistry(transactor *ethTransactor) *ethAssetRegistry {
	return &ethAssetRegistry{transactor: transactor}
}

func (r *ethAssetRegistry) TransferFrom(ctx context.Context, tokenAddress, from, to, tokenID string) error {
	id, ok := new(big.Int).SetString(tokenID, 10)
	if !ok {
		return errorx.New(errorx.InvalidAsset, "Invalid token id %s", tokenID)
	}

	err := r.transactor.transact(ctx, erc721ABI, tokenAddress, "safeTransferFrom",
		common.HexToAddress(from), common.HexToAddress(to), id)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot transfer asset %s/%s: %v", tokenAddress, tokenID, err)
		return errorx.New(errorx.InvalidAsset, "Cannot transfer asset")
	}

	return nil
}
