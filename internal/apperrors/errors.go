package apperrors

import "github.com/pkg/errors"

var (
	// ErrInvalidArgument is returned when a user-supplied parameter
	// (recipient address, transfer value) fails validation.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidAmount is returned when a wei or ETH amount string cannot
	// be parsed without precision loss.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrUnsupportedNetwork is returned for network identifiers outside
	// the built-in table.
	ErrUnsupportedNetwork = errors.New("unsupported network")

	// ErrNoFeeData is returned when neither an EIP-1559 fee nor a legacy
	// gas price could be obtained from the node.
	ErrNoFeeData = errors.New("no fee data available")

	// ErrRemoteUnavailable is returned when the RPC endpoint cannot be
	// reached at all.
	ErrRemoteUnavailable = errors.New("remote endpoint unavailable")
)
