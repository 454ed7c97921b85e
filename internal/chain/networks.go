// Package chain defines the closed set of supported networks.
package chain

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/avdeevm/base-gas-estimator/internal/apperrors"
)

// Network describes one supported chain preset.
type Network struct {
	ID      string
	Name    string
	RPCURL  string
	ChainID uint64
}

// The table is built once and never mutated at runtime.
var networks = map[string]Network{
	"base": {
		ID:      "base",
		Name:    "Base Mainnet",
		RPCURL:  "https://mainnet.base.org",
		ChainID: 8453,
	},
	"base-sepolia": {
		ID:      "base-sepolia",
		Name:    "Base Sepolia",
		RPCURL:  "https://sepolia.base.org",
		ChainID: 84532,
	},
}

// Supported returns the known network identifiers in sorted order.
func Supported() []string {
	ids := make([]string, 0, len(networks))
	for id := range networks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Resolve looks up a network by exact identifier. Unknown identifiers fail
// with a message enumerating the supported ones.
func Resolve(id string) (Network, error) {
	n, ok := networks[id]
	if !ok {
		return Network{}, errors.Wrapf(apperrors.ErrUnsupportedNetwork,
			"unknown network %q (supported: %s)", id, strings.Join(Supported(), ", "))
	}
	return n, nil
}
