package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/deck2md/internal/toolchain"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the image-conversion toolchain",
	Long: `Doctor probes the host for ImageMagick, its WMF delegate, and the
emf2svg converter, and reports what it finds. With --install it asks the
host package manager to install whatever is missing, then re-probes to
confirm the capability actually appeared.`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().Bool("install", false, "install missing toolchain components")
	doctorCmd.Flags().Bool("force", false, "with --install, reinstall components even when present")
	doctorCmd.Flags().Bool("yaml", false, "print the probe report as YAML")

	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	install, _ := cmd.Flags().GetBool("install")
	force, _ := cmd.Flags().GetBool("force")
	asYAML, _ := cmd.Flags().GetBool("yaml")

	if install {
		if err := toolchain.Ensure(force, os.Stdout); err != nil {
			return err
		}
	}

	report := toolchain.ProbeReport()

	if asYAML {
		data, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("marshaling report: %w", err)
		}
		fmt.Print(string(data))
	} else {
		printReport(report)
	}

	if !install && report.Availability == toolchain.Absent.String() {
		return fmt.Errorf("no image-conversion toolchain found; run `deck2md doctor --install`")
	}
	return nil
}

func printReport(r toolchain.Report) {
	if r.Binary == "" {
		fmt.Println("ImageMagick:    missing")
	} else {
		fmt.Printf("ImageMagick:    %s (%s)\n", r.Binary, r.BinaryPath)
	}
	fmt.Printf("WMF delegate:   %s\n", yesNo(r.WMFDelegate))
	fmt.Printf("emf2svg-conv:   %s\n", yesNo(r.EMFConverter))
	fmt.Printf("overall:        %s\n", r.Availability)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
