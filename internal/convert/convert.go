// Package convert holds the unit conversion core: wei amounts are carried as
// arbitrary-precision integers end to end, and only display strings are
// derived from them. Rendering precision depends on magnitude so that both
// mainnet-scale and testnet-scale fees stay readable.
package convert

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
	"github.com/pkg/errors"

	"github.com/avdeevm/base-gas-estimator/internal/apperrors"
)

var (
	weiPerGwei = new(big.Int).SetUint64(params.GWei)
	weiPerEth  = new(big.Int).SetUint64(params.Ether)

	ratOne      = big.NewRat(1, 1)
	ratThousand = big.NewRat(1000, 1)
	ratMilli    = big.NewRat(1, 1000)
)

func parseWei(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.Wrapf(apperrors.ErrInvalidAmount, "not a base-10 integer: %q", s)
	}
	if n.Sign() < 0 {
		return nil, errors.Wrapf(apperrors.ErrInvalidAmount, "negative amount: %q", s)
	}
	return n, nil
}

// ToGwei renders a wei amount in gwei. Large values (>= 1000 gwei) drop the
// fraction entirely, mid-range values keep up to 3 decimals, sub-gwei values
// up to 6; trailing zeros are trimmed in every tier.
func ToGwei(wei string) (string, error) {
	n, err := parseWei(wei)
	if err != nil {
		return "", err
	}

	gwei := new(big.Rat).SetFrac(n, weiPerGwei)
	var prec int
	switch {
	case gwei.Cmp(ratThousand) >= 0:
		prec = 0
	case gwei.Cmp(ratOne) >= 0:
		prec = 3
	default:
		prec = 6
	}
	return TrimTrailingZeros(gwei.FloatString(prec)), nil
}

// ToEth renders a wei amount in ETH with up to 6 decimals, or up to 9 for
// dust below 0.001 ETH so that testnet gas costs don't collapse to "0".
func ToEth(wei string) (string, error) {
	n, err := parseWei(wei)
	if err != nil {
		return "", err
	}

	eth := new(big.Rat).SetFrac(n, weiPerEth)
	prec := 9
	if eth.Cmp(ratMilli) >= 0 {
		prec = 6
	}
	return TrimTrailingZeros(eth.FloatString(prec)), nil
}

// FormatThousands renders n with a comma every three digits.
func FormatThousands(n uint64) string {
	s := new(big.Int).SetUint64(n).String()
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// TrimTrailingZeros strips insignificant zeros after the decimal point and
// drops the point itself when the fraction empties. Idempotent.
func TrimTrailingZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// ParseEth converts a decimal ETH amount into wei exactly, by decimal shift.
// Amounts with more than 18 fractional digits cannot be represented in wei
// and are rejected rather than rounded.
func ParseEth(value string) (*big.Int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, errors.Wrap(apperrors.ErrInvalidAmount, "empty amount")
	}

	intPart, fracPart := value, ""
	if i := strings.IndexByte(value, '.'); i >= 0 {
		intPart, fracPart = value[:i], value[i+1:]
	}
	if intPart == "" && fracPart == "" {
		return nil, errors.Wrapf(apperrors.ErrInvalidAmount, "not a decimal number: %q", value)
	}
	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) > 18 {
		return nil, errors.Wrapf(apperrors.ErrInvalidAmount, "too many decimal places in %q (max 18)", value)
	}

	digits := intPart + fracPart + strings.Repeat("0", 18-len(fracPart))
	for _, c := range digits {
		if c < '0' || c > '9' {
			return nil, errors.Wrapf(apperrors.ErrInvalidAmount, "not a decimal number: %q", value)
		}
	}

	wei, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, errors.Wrapf(apperrors.ErrInvalidAmount, "not a decimal number: %q", value)
	}
	return wei, nil
}
