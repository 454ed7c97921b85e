// Package cli wires the cobra command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/avdeevm/base-gas-estimator/internal/config"
)

// version is set at build time via -ldflags.
var version = "dev"

type appState struct {
	cfg config.Config
}

// NewRootCmd builds the root command. The config file is optional and is
// resolved from --config or the GAS_ESTIMATOR_CONFIG environment variable.
func NewRootCmd() *cobra.Command {
	var cfgPath string
	app := &appState{cfg: config.Default()}

	root := &cobra.Command{
		Use:           "gas-estimator",
		Short:         "Estimate gas costs for native transfers on Base",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := cfgPath
			if path == "" {
				path = os.Getenv("GAS_ESTIMATOR_CONFIG")
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			app.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to YAML config file")

	root.AddCommand(newTransferCmd(app))
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tool version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gas-estimator %s\n", version)
		},
	}
}
