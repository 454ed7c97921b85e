package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/avdeevm/base-gas-estimator/internal/apperrors"
	"github.com/avdeevm/base-gas-estimator/internal/chain"
	"github.com/avdeevm/base-gas-estimator/internal/config"
	"github.com/avdeevm/base-gas-estimator/internal/convert"
	"github.com/avdeevm/base-gas-estimator/internal/estimator"
	"github.com/avdeevm/base-gas-estimator/internal/price"
	"github.com/avdeevm/base-gas-estimator/internal/validate"
)

type transferOptions struct {
	to      string
	value   string
	network string
	rpcURL  string
}

func newTransferCmd(app *appState) *cobra.Command {
	opts := &transferOptions{}

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Estimate the gas cost of a native ETH transfer",
		Long: `Estimate how much gas a plain ETH transfer costs on Base or Base Sepolia,
and what that is worth in USDC at the current spot price.

Examples:
  gas-estimator transfer --to 0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045 --value 0.1
  gas-estimator transfer --to 0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045 --value 1.5 --network base-sepolia`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransfer(cmd.Context(), cmd.OutOrStdout(), app.cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.to, "to", "", "Recipient address (0x-prefixed)")
	cmd.Flags().StringVar(&opts.value, "value", "", "Transfer amount in ETH")
	cmd.Flags().StringVar(&opts.network, "network", "base", "Target network: base|base-sepolia")
	cmd.Flags().StringVar(&opts.rpcURL, "rpc-url", "", "Override the network RPC endpoint")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}

// runTransfer validates the inputs, then issues the fee estimate and the
// price fetch concurrently. A failed price fetch degrades the USDC figure to
// "N/A" instead of failing the command.
func runTransfer(ctx context.Context, w io.Writer, cfg config.Config, opts *transferOptions) error {
	if !validate.IsValidAddress(opts.to) {
		return errors.Wrapf(apperrors.ErrInvalidArgument,
			"invalid recipient address %q: expected a 0x-prefixed 40-hex-digit address", opts.to)
	}
	if !validate.IsPositiveNumber(opts.value) {
		return errors.Wrapf(apperrors.ErrInvalidArgument,
			"invalid value %q: expected a positive decimal ETH amount", opts.value)
	}

	network, err := chain.Resolve(opts.network)
	if err != nil {
		return err
	}

	rpcURL := network.RPCURL
	if ov, ok := cfg.Networks[network.ID]; ok && ov.RPCURL != "" {
		rpcURL = ov.RPCURL
	}
	if opts.rpcURL != "" {
		rpcURL = opts.rpcURL
	}

	est, err := estimator.Dial(ctx, rpcURL, cfg.RequestTimeout)
	if err != nil {
		return err
	}
	defer est.Close()

	fetcher := price.NewFetcher(cfg.PriceURL, cfg.PriceTimeout)

	var (
		result   *estimator.Result
		usdRate  float64
		priceErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := est.EstimateTransfer(gctx, opts.to, opts.value)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	g.Go(func() error {
		rate, err := fetcher.Spot(gctx)
		if err != nil {
			priceErr = err // non-fatal, rendered as N/A
			return nil
		}
		usdRate = rate
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if priceErr != nil {
		fmt.Fprintln(os.Stderr, color.YellowString("Warning:"), priceErr)
	}

	renderEstimate(w, result, usdRate, priceErr)
	return nil
}

func renderEstimate(w io.Writer, res *estimator.Result, usdRate float64, priceErr error) {
	label := color.New(color.FgCyan, color.Bold).SprintFunc()

	usd := "N/A"
	if priceErr == nil {
		// The USDC figure is derived from the already-rounded ETH display
		// value, never from wei.
		totalEth, err := strconv.ParseFloat(res.TotalEth, 64)
		if err == nil {
			usd = strconv.FormatFloat(totalEth*usdRate, 'f', 6, 64)
		}
	}

	fmt.Fprintf(w, "%s %s\n", label("Gas Units:"), convert.FormatThousands(res.GasUnits))
	fmt.Fprintf(w, "%s %s Gwei (%s wei)\n", label("Gas Price:"), res.GasPriceGwei, res.GasPriceWei.String())
	fmt.Fprintf(w, "%s %s ETH (~%s USDC)\n", label("Total Cost:"), res.TotalEth, usd)
}
