// Package validate holds the input predicates checked before any network I/O.
package validate

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/avdeevm/base-gas-estimator/internal/convert"
)

// IsValidAddress reports whether s is a well-formed 20-byte hex address.
// All-lowercase and all-uppercase hex is accepted as-is; mixed case must
// match the EIP-55 checksum exactly.
func IsValidAddress(s string) bool {
	if len(s) != 42 || !strings.HasPrefix(s, "0x") {
		return false
	}
	if !common.IsHexAddress(s) {
		return false
	}

	hex := s[2:]
	if hex == strings.ToLower(hex) || hex == strings.ToUpper(hex) {
		return true
	}
	return common.HexToAddress(s).Hex() == s
}

// IsPositiveNumber reports whether s is a plain decimal amount strictly
// greater than zero. It accepts exactly the grammar the wei conversion
// accepts, so a value that passes here never fails to parse later.
func IsPositiveNumber(s string) bool {
	n, err := convert.ParseEth(s)
	return err == nil && n.Sign() > 0
}
