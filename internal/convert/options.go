// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/deck2md/pkg/types"
)

// UsageError reports bad or conflicting command-line input. It is raised
// before any conversion work, so a failing invocation performs no
// filesystem writes.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

// DialectFromFlags maps the three mutually exclusive dialect selectors to
// a Dialect value. More than one selector is a UsageError.
func DialectFromFlags(wiki, mdk, qmd bool) (types.Dialect, error) {
	var selected []types.Dialect
	if wiki {
		selected = append(selected, types.DialectWiki)
	}
	if mdk {
		selected = append(selected, types.DialectMadoko)
	}
	if qmd {
		selected = append(selected, types.DialectQuarto)
	}

	switch len(selected) {
	case 0:
		return types.DialectMarkdown, nil
	case 1:
		return selected[0], nil
	}
	return "", &UsageError{Msg: "--wiki, --mdk and --qmd are mutually exclusive"}
}

// ValidatePositive rejects an explicitly supplied non-positive value for
// a numeric flag. Unset flags carry zero as "no limit" and pass through;
// only the caller knows whether the flag was set, so it must say so.
func ValidatePositive(flag string, value int, set bool) error {
	if set && value <= 0 {
		return &UsageError{Msg: fmt.Sprintf("%s must be a positive integer", flag)}
	}
	return nil
}

// Resolve validates cfg and fills in the derived output paths. The input
// must reference an existing regular file. Unset output paths default to
// <stem>/index.md and <stem>/img next to the input; set but relative
// paths are taken relative to the input's directory.
func Resolve(cfg types.ConversionConfig) (types.ConversionConfig, error) {
	info, err := os.Stat(cfg.InputPath)
	if err != nil {
		return cfg, &UsageError{Msg: fmt.Sprintf("input file %s does not exist", cfg.InputPath)}
	}
	if info.IsDir() {
		return cfg, &UsageError{Msg: fmt.Sprintf("input path %s is a directory, not a file", cfg.InputPath)}
	}

	if cfg.ImageWidth < 0 {
		return cfg, &UsageError{Msg: "--image-width must be a positive integer"}
	}
	if cfg.MinBlockSize < 0 {
		return cfg, &UsageError{Msg: "--min-block-size must be a positive integer"}
	}
	if cfg.Page < 0 {
		return cfg, &UsageError{Msg: "--page must be a positive integer"}
	}

	switch cfg.Dialect {
	case "", types.DialectMarkdown, types.DialectWiki, types.DialectMadoko, types.DialectQuarto:
	default:
		return cfg, &UsageError{Msg: fmt.Sprintf("unknown dialect %q", cfg.Dialect)}
	}
	if cfg.Dialect == "" {
		cfg.Dialect = types.DialectMarkdown
	}

	cfg.OutputPath, cfg.ImageDir = resolveOutputPaths(cfg.InputPath, cfg.OutputPath, cfg.ImageDir)
	return cfg, nil
}

// resolveOutputPaths derives the Markdown path and image directory from
// whichever of the two the user supplied.
func resolveOutputPaths(inputPath, outputPath, imageDir string) (string, string) {
	baseDir := filepath.Dir(inputPath)
	if outputPath != "" && !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(baseDir, outputPath)
	}
	if imageDir != "" && !filepath.IsAbs(imageDir) {
		imageDir = filepath.Join(baseDir, imageDir)
	}

	switch {
	case outputPath == "" && imageDir == "":
		outDir := filepath.Join(baseDir, stem(inputPath))
		return filepath.Join(outDir, "index.md"), filepath.Join(outDir, "img")
	case outputPath == "":
		return filepath.Join(filepath.Dir(imageDir), "index.md"), imageDir
	case imageDir == "":
		return outputPath, filepath.Join(filepath.Dir(outputPath), "img")
	}
	return outputPath, imageDir
}

// stem returns the file name without its extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
