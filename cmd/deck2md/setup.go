package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/deck2md/internal/provision"
	"github.com/pdiddy/deck2md/pkg/types"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Provision the conversion runtime",
	Long: `Setup installs everything a conversion needs: the uv package manager
(bootstrapped from astral.sh when missing), the pptx2md converter (into a
project .venv in dev mode, or as a global uv tool in system mode), and the
ImageMagick toolchain with WMF support.`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().String("mode", string(types.ModeDev), "installation mode: dev or system")
	setupCmd.Flags().Bool("force", false, "reinstall over an existing installation")
	setupCmd.Flags().String("venv", "", `virtual environment directory for dev mode (default ".venv")`)

	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	mode, _ := cmd.Flags().GetString("mode")
	force, _ := cmd.Flags().GetBool("force")
	venv, _ := cmd.Flags().GetString("venv")

	cfg := types.ProvisionConfig{
		Mode:    types.ProvisionMode(mode),
		Force:   force,
		VenvDir: venv,
	}

	p := provision.New(os.Stdout)
	if err := p.Run(cmd.Context(), cfg); err != nil {
		return err
	}
	fmt.Println("setup complete")
	return nil
}
