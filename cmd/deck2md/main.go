// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the deck2md CLI, a thin wrapper
// around the pptx2md converter. The CLI maps flags onto the converter's
// options, provisions its runtime, and post-processes legacy image
// formats the converter leaves behind.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/deck2md/internal/convert"
	"github.com/pdiddy/deck2md/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd converts a presentation. Provisioning and diagnostics live on
// the setup and doctor subcommands.
var rootCmd = &cobra.Command{
	Use:   "deck2md PPTX_PATH",
	Short: "Convert PPTX presentations to Markdown with image assets",
	Long: `deck2md converts a PPTX presentation to Markdown by forwarding options
to the pptx2md converter, then normalizes the emitted images: legacy WMF
vector images are rasterized to PNG through ImageMagick and JPEG assets
are re-encoded as PNG.

With no -o/-i flags the output lands in a directory named after the
input: deck.pptx becomes deck/index.md plus deck/img/.`,
	Args:    cobra.ExactArgs(1),
	Version: version,
	RunE:    runConvert,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./deck2md.yaml or ~/.config/deck2md/config.yaml)")

	rootCmd.Flags().StringP("title", "t", "", "custom slide-title override file")
	rootCmd.Flags().StringP("output", "o", "", "output markdown path (default <stem>/index.md)")
	rootCmd.Flags().StringP("image-dir", "i", "", "image output directory (default <stem>/img)")
	rootCmd.Flags().Int("image-width", 0, "maximum image width in pixels")
	rootCmd.Flags().Bool("disable-image", false, "skip image extraction")
	rootCmd.Flags().Bool("disable-escaping", false, "skip special-character escaping")
	rootCmd.Flags().Bool("disable-notes", false, "skip presenter notes")
	rootCmd.Flags().Bool("disable-wmf", true, "leave WMF images to the wrapper's own rasterization")
	rootCmd.Flags().Bool("disable-color", false, "skip HTML color tags")
	rootCmd.Flags().Bool("enable-slides", false, "insert slide-delimiter markers (---)")
	rootCmd.Flags().Bool("try-multi-column", false, "enable multi-column detection (slower)")
	rootCmd.Flags().Int("min-block-size", 0, "minimum text-block character count")
	rootCmd.Flags().Bool("wiki", false, "output TiddlyWiki markup")
	rootCmd.Flags().Bool("mdk", false, "output Madoko markup")
	rootCmd.Flags().Bool("qmd", false, "output Quarto markdown")
	rootCmd.Flags().Int("page", 0, "restrict conversion to one slide number")
	rootCmd.Flags().Bool("keep-similar-titles", false, `keep similar titles and append "(cont.)"`)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("deck2md")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "deck2md"))
		}
	}

	viper.SetEnvPrefix("DECK2MD")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	wiki, _ := cmd.Flags().GetBool("wiki")
	mdk, _ := cmd.Flags().GetBool("mdk")
	qmd, _ := cmd.Flags().GetBool("qmd")
	dialect, err := convert.DialectFromFlags(wiki, mdk, qmd)
	if err != nil {
		return err
	}

	imageWidth, _ := cmd.Flags().GetInt("image-width")
	if !cmd.Flags().Changed("image-width") && viper.IsSet("image_width") {
		imageWidth = viper.GetInt("image_width")
	}
	minBlockSize, _ := cmd.Flags().GetInt("min-block-size")
	if !cmd.Flags().Changed("min-block-size") && viper.IsSet("min_block_size") {
		minBlockSize = viper.GetInt("min_block_size")
	}
	page, _ := cmd.Flags().GetInt("page")

	// Zero means "unset" internally, so an explicit zero has to be
	// rejected here while the flag's Changed state is still known.
	for _, check := range []struct {
		flag  string
		value int
	}{
		{"image-width", imageWidth},
		{"min-block-size", minBlockSize},
		{"page", page},
	} {
		if err := convert.ValidatePositive("--"+check.flag, check.value, cmd.Flags().Changed(check.flag)); err != nil {
			return err
		}
	}

	title, _ := cmd.Flags().GetString("title")
	output, _ := cmd.Flags().GetString("output")
	imageDir, _ := cmd.Flags().GetString("image-dir")
	disableImage, _ := cmd.Flags().GetBool("disable-image")
	disableEscaping, _ := cmd.Flags().GetBool("disable-escaping")
	disableNotes, _ := cmd.Flags().GetBool("disable-notes")
	disableWMF, _ := cmd.Flags().GetBool("disable-wmf")
	disableColor, _ := cmd.Flags().GetBool("disable-color")
	enableSlides, _ := cmd.Flags().GetBool("enable-slides")
	tryMultiColumn, _ := cmd.Flags().GetBool("try-multi-column")
	keepSimilarTitles, _ := cmd.Flags().GetBool("keep-similar-titles")

	cfg := types.ConversionConfig{
		InputPath:         args[0],
		TitlePath:         title,
		OutputPath:        output,
		ImageDir:          imageDir,
		ImageWidth:        imageWidth,
		DisableImage:      disableImage,
		DisableEscaping:   disableEscaping,
		DisableNotes:      disableNotes,
		DisableWMF:        disableWMF,
		DisableColor:      disableColor,
		EnableSlides:      enableSlides,
		TryMultiColumn:    tryMultiColumn,
		MinBlockSize:      minBlockSize,
		Dialect:           dialect,
		Page:              page,
		KeepSimilarTitles: keepSimilarTitles,
	}

	// Validate before looking for the converter, so bad flags are always
	// reported as usage errors rather than a missing-binary complaint.
	// Run performs the real resolution on the raw config; resolution
	// joins relative paths onto the input's directory, so it must happen
	// exactly once.
	if _, err := convert.Resolve(cfg); err != nil {
		return err
	}

	converter, err := convert.NewPptx2MD(".venv")
	if err != nil {
		return err
	}

	return convert.Run(cfg, converter, convert.NewPostProcessor(), os.Stdout)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
