// Package estimator computes the gas cost of a plain native transfer from
// live node fee data. All arithmetic on authoritative amounts is integer.
package estimator

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"

	"github.com/avdeevm/base-gas-estimator/internal/apperrors"
	"github.com/avdeevm/base-gas-estimator/internal/convert"
	"github.com/avdeevm/base-gas-estimator/internal/validate"
)

// FallbackTransferGas is the protocol-fixed cost of a plain ETH transfer,
// used when the node cannot simulate the call.
const FallbackTransferGas = uint64(21_000)

// NodeBackend is the subset of *ethclient.Client the estimator needs.
type NodeBackend interface {
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

// Result is the outcome of one estimation. TotalWei is always the exact
// integer product GasUnits * GasPriceWei; the display strings are derived
// and non-authoritative.
type Result struct {
	GasUnits     uint64
	GasPriceWei  *big.Int
	TotalWei     *big.Int
	GasPriceGwei string
	TotalEth     string
}

// Estimator answers transfer cost estimates against a single node backend.
type Estimator struct {
	node        NodeBackend
	closeFn     func()
	callTimeout time.Duration
}

// New creates an Estimator over an existing backend.
func New(node NodeBackend, callTimeout time.Duration) *Estimator {
	return &Estimator{node: node, callTimeout: callTimeout}
}

// Dial connects to an RPC endpoint and wraps it in an Estimator.
func Dial(ctx context.Context, rpcURL string, callTimeout time.Duration) (*Estimator, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, errors.Wrapf(apperrors.ErrRemoteUnavailable, "ethclient.DialContext %s: %v", rpcURL, err)
	}

	e := New(client, callTimeout)
	e.closeFn = client.Close
	return e, nil
}

// Close releases the underlying RPC connection, if the Estimator owns one.
func (e *Estimator) Close() {
	if e.closeFn != nil {
		e.closeFn()
	}
}

// EstimateTransfer estimates the gas cost of sending `value` ETH to `to`.
// The recipient is validated before any network call; the transfer amount is
// converted to wei exactly.
func (e *Estimator) EstimateTransfer(ctx context.Context, to, value string) (*Result, error) {
	if !validate.IsValidAddress(to) {
		return nil, errors.Wrapf(apperrors.ErrInvalidArgument, "invalid recipient address %q", to)
	}

	valueWei, err := convert.ParseEth(value)
	if err != nil {
		return nil, err
	}

	gasPrice, err := e.feeData(ctx)
	if err != nil {
		return nil, err
	}

	recipient := common.HexToAddress(to)
	gasUnits := e.estimateGas(ctx, recipient, valueWei)

	total := new(big.Int).Mul(new(big.Int).SetUint64(gasUnits), gasPrice)

	gwei, err := convert.ToGwei(gasPrice.String())
	if err != nil {
		return nil, err
	}
	eth, err := convert.ToEth(total.String())
	if err != nil {
		return nil, err
	}

	return &Result{
		GasUnits:     gasUnits,
		GasPriceWei:  gasPrice,
		TotalWei:     total,
		GasPriceGwei: gwei,
		TotalEth:     eth,
	}, nil
}

// feeData returns the fee rate to quote, preferring the EIP-1559 max fee
// (2*baseFee + tip, the convention ethers-style clients use) over the legacy
// eth_gasPrice value. Failing both is fatal for the estimate.
func (e *Estimator) feeData(ctx context.Context) (*big.Int, error) {
	ctxHeader, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	header, headerErr := e.node.HeaderByNumber(ctxHeader, nil)
	if headerErr == nil && header.BaseFee != nil {
		tip := big.NewInt(0)

		ctxTip, cancelTip := context.WithTimeout(ctx, e.callTimeout)
		defer cancelTip()
		if t, err := e.node.SuggestGasTipCap(ctxTip); err == nil && t != nil {
			tip = t
		}

		maxFee := new(big.Int).Lsh(header.BaseFee, 1)
		return maxFee.Add(maxFee, tip), nil
	}

	ctxPrice, cancelPrice := context.WithTimeout(ctx, e.callTimeout)
	defer cancelPrice()

	gasPrice, err := e.node.SuggestGasPrice(ctxPrice)
	if err != nil {
		return nil, errors.Wrapf(apperrors.ErrNoFeeData, "eth_gasPrice: %v", err)
	}
	return gasPrice, nil
}

// estimateGas asks the node to simulate the transfer. A plain transfer costs
// a fixed 21,000 gas, so any estimation failure falls back to that constant
// instead of failing the whole command.
func (e *Estimator) estimateGas(ctx context.Context, to common.Address, value *big.Int) uint64 {
	ctxCall, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	gas, err := e.node.EstimateGas(ctxCall, ethereum.CallMsg{To: &to, Value: value})
	if err != nil {
		return FallbackTransferGas
	}
	return gas
}
