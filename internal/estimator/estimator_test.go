package estimator

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/avdeevm/base-gas-estimator/internal/apperrors"
	"github.com/avdeevm/base-gas-estimator/internal/estimator/mock"
)

const recipient = "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"

func newTestEstimator(t *testing.T) (*Estimator, *mock.MockNodeBackend) {
	t.Helper()

	ctrl := gomock.NewController(t)
	node := mock.NewMockNodeBackend(ctrl)
	return New(node, time.Second), node
}

func gwei(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000))
}

func TestEstimateTransfer(t *testing.T) {
	t.Parallel()

	t.Run("prefers EIP-1559 max fee over legacy price", func(t *testing.T) {
		t.Parallel()

		e, node := newTestEstimator(t)
		node.EXPECT().
			HeaderByNumber(gomock.Any(), gomock.Nil()).
			Return(&types.Header{Number: big.NewInt(1), BaseFee: gwei(1)}, nil)
		node.EXPECT().
			SuggestGasTipCap(gomock.Any()).
			Return(gwei(2), nil)
		node.EXPECT().
			EstimateGas(gomock.Any(), gomock.Any()).
			Return(uint64(21_000), nil)

		res, err := e.EstimateTransfer(context.Background(), recipient, "0.1")
		require.NoError(t, err)

		// maxFee = 2*baseFee + tip = 4 gwei
		require.Zero(t, gwei(4).Cmp(res.GasPriceWei))
		require.Equal(t, uint64(21_000), res.GasUnits)
		require.Equal(t, "4", res.GasPriceGwei)
		require.Equal(t, "0.000084", res.TotalEth)
	})

	t.Run("tip cap failure still yields a max fee", func(t *testing.T) {
		t.Parallel()

		e, node := newTestEstimator(t)
		node.EXPECT().
			HeaderByNumber(gomock.Any(), gomock.Nil()).
			Return(&types.Header{Number: big.NewInt(1), BaseFee: gwei(3)}, nil)
		node.EXPECT().
			SuggestGasTipCap(gomock.Any()).
			Return(nil, errors.New("method not supported"))
		node.EXPECT().
			EstimateGas(gomock.Any(), gomock.Any()).
			Return(uint64(21_000), nil)

		res, err := e.EstimateTransfer(context.Background(), recipient, "1")
		require.NoError(t, err)
		require.Zero(t, gwei(6).Cmp(res.GasPriceWei))
	})

	t.Run("falls back to legacy gas price without a base fee", func(t *testing.T) {
		t.Parallel()

		e, node := newTestEstimator(t)
		node.EXPECT().
			HeaderByNumber(gomock.Any(), gomock.Nil()).
			Return(&types.Header{Number: big.NewInt(1)}, nil)
		node.EXPECT().
			SuggestGasPrice(gomock.Any()).
			Return(gwei(5), nil)
		node.EXPECT().
			EstimateGas(gomock.Any(), gomock.Any()).
			Return(uint64(21_000), nil)

		res, err := e.EstimateTransfer(context.Background(), recipient, "1")
		require.NoError(t, err)
		require.Zero(t, gwei(5).Cmp(res.GasPriceWei))
	})

	t.Run("falls back to legacy gas price on header error", func(t *testing.T) {
		t.Parallel()

		e, node := newTestEstimator(t)
		node.EXPECT().
			HeaderByNumber(gomock.Any(), gomock.Nil()).
			Return(nil, errors.New("header unavailable"))
		node.EXPECT().
			SuggestGasPrice(gomock.Any()).
			Return(gwei(7), nil)
		node.EXPECT().
			EstimateGas(gomock.Any(), gomock.Any()).
			Return(uint64(21_000), nil)

		res, err := e.EstimateTransfer(context.Background(), recipient, "1")
		require.NoError(t, err)
		require.Zero(t, gwei(7).Cmp(res.GasPriceWei))
	})

	t.Run("gas estimate failure falls back to 21000", func(t *testing.T) {
		t.Parallel()

		e, node := newTestEstimator(t)
		node.EXPECT().
			HeaderByNumber(gomock.Any(), gomock.Nil()).
			Return(&types.Header{Number: big.NewInt(1), BaseFee: gwei(1)}, nil)
		node.EXPECT().
			SuggestGasTipCap(gomock.Any()).
			Return(gwei(1), nil)
		node.EXPECT().
			EstimateGas(gomock.Any(), gomock.Any()).
			Return(uint64(0), errors.New("execution reverted"))

		res, err := e.EstimateTransfer(context.Background(), recipient, "0.5")
		require.NoError(t, err)
		require.Equal(t, FallbackTransferGas, res.GasUnits)
	})

	t.Run("no fee data at all is fatal", func(t *testing.T) {
		t.Parallel()

		e, node := newTestEstimator(t)
		node.EXPECT().
			HeaderByNumber(gomock.Any(), gomock.Nil()).
			Return(nil, errors.New("header unavailable"))
		node.EXPECT().
			SuggestGasPrice(gomock.Any()).
			Return(nil, errors.New("gas price unavailable"))

		res, err := e.EstimateTransfer(context.Background(), recipient, "1")
		require.ErrorIs(t, err, apperrors.ErrNoFeeData)
		require.Nil(t, res)
	})

	t.Run("rejects bad recipient before any call", func(t *testing.T) {
		t.Parallel()

		e, _ := newTestEstimator(t)
		res, err := e.EstimateTransfer(context.Background(), "0x1234", "1")
		require.ErrorIs(t, err, apperrors.ErrInvalidArgument)
		require.Nil(t, res)
	})

	t.Run("rejects unparseable value before any call", func(t *testing.T) {
		t.Parallel()

		e, _ := newTestEstimator(t)
		res, err := e.EstimateTransfer(context.Background(), recipient, "lots")
		require.ErrorIs(t, err, apperrors.ErrInvalidAmount)
		require.Nil(t, res)
	})
}

// TotalWei must be the exact integer product of units and price, with no
// rounding anywhere on the path.
func TestTotalInvariant(t *testing.T) {
	t.Parallel()

	prices := []*big.Int{
		big.NewInt(1),
		gwei(1),
		new(big.Int).Add(gwei(1234), big.NewInt(567)),
	}
	for _, p := range prices {
		e, node := newTestEstimator(t)
		node.EXPECT().
			HeaderByNumber(gomock.Any(), gomock.Nil()).
			Return(&types.Header{Number: big.NewInt(1)}, nil)
		node.EXPECT().
			SuggestGasPrice(gomock.Any()).
			Return(new(big.Int).Set(p), nil)
		node.EXPECT().
			EstimateGas(gomock.Any(), gomock.Any()).
			Return(uint64(21_000), nil)

		res, err := e.EstimateTransfer(context.Background(), recipient, "1")
		require.NoError(t, err)

		want := new(big.Int).Mul(new(big.Int).SetUint64(res.GasUnits), res.GasPriceWei)
		require.Zero(t, want.Cmp(res.TotalWei), "price %s", p)
	}
}
