// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/pdiddy/deck2md/pkg/types"
)

// upstreamBin is the converter's command name.
const upstreamBin = "pptx2md"

// Converter transforms a presentation into Markdown plus image assets.
// The upstream tool is an opaque black box: one call, no retry, no
// partial results.
type Converter interface {
	// Convert runs the conversion described by cfg. cfg must already be
	// resolved.
	Convert(cfg types.ConversionConfig) error
}

// ConversionError wraps an upstream converter failure. The upstream error
// is not parsed or classified further.
type ConversionError struct {
	Err error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion failed: %v", e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Pptx2MD invokes the upstream pptx2md command as a blocking subprocess.
type Pptx2MD struct {
	// VenvDir is checked for a project-local install when the command is
	// not on PATH.
	VenvDir string

	run func(name string, args ...string) ([]byte, error)
}

// NewPptx2MD builds the production converter. It returns an error when no
// pptx2md installation can be found, pointing at `deck2md setup`.
func NewPptx2MD(venvDir string) (*Pptx2MD, error) {
	p := &Pptx2MD{
		VenvDir: venvDir,
		run: func(name string, args ...string) ([]byte, error) {
			return exec.Command(name, args...).CombinedOutput()
		},
	}
	if p.binary() == "" {
		return nil, fmt.Errorf("%s not found on PATH or in %s; run `deck2md setup` first", upstreamBin, venvDir)
	}
	return p, nil
}

// binary locates the upstream command: PATH first, then the project venv.
func (p *Pptx2MD) binary() string {
	if path, err := exec.LookPath(upstreamBin); err == nil {
		return path
	}
	venvBin := filepath.Join(p.VenvDir, "bin", upstreamBin)
	if _, err := exec.LookPath(venvBin); err == nil {
		return venvBin
	}
	return ""
}

// Convert maps cfg onto the upstream CLI and runs it. Combined output is
// attached to the error on failure so the upstream diagnostic survives.
func (p *Pptx2MD) Convert(cfg types.ConversionConfig) error {
	bin := p.binary()
	if bin == "" {
		return &ConversionError{Err: fmt.Errorf("%s disappeared from PATH", upstreamBin)}
	}

	out, err := p.run(bin, upstreamArgs(cfg)...)
	if err != nil {
		return &ConversionError{Err: fmt.Errorf("%w: %s", err, firstLines(out, 5))}
	}
	return nil
}

// upstreamArgs translates the option record into pptx2md flags.
func upstreamArgs(cfg types.ConversionConfig) []string {
	args := []string{cfg.InputPath, "-o", cfg.OutputPath, "-i", cfg.ImageDir}

	if cfg.TitlePath != "" {
		args = append(args, "-t", cfg.TitlePath)
	}
	if cfg.ImageWidth > 0 {
		args = append(args, "--image-width", strconv.Itoa(cfg.ImageWidth))
	}
	if cfg.DisableImage {
		args = append(args, "--disable-image")
	}
	if cfg.DisableEscaping {
		args = append(args, "--disable-escaping")
	}
	if cfg.DisableNotes {
		args = append(args, "--disable-notes")
	}
	if cfg.DisableWMF {
		args = append(args, "--disable-wmf")
	}
	if cfg.DisableColor {
		args = append(args, "--disable-color")
	}
	if cfg.EnableSlides {
		args = append(args, "--enable-slides")
	}
	if cfg.TryMultiColumn {
		args = append(args, "--try-multi-column")
	}
	if cfg.MinBlockSize > 0 {
		args = append(args, "--min-block-size", strconv.Itoa(cfg.MinBlockSize))
	}
	switch cfg.Dialect {
	case types.DialectWiki:
		args = append(args, "--wiki")
	case types.DialectMadoko:
		args = append(args, "--mdk")
	case types.DialectQuarto:
		args = append(args, "--qmd")
	}
	if cfg.Page > 0 {
		args = append(args, "--page", strconv.Itoa(cfg.Page))
	}
	if cfg.KeepSimilarTitles {
		args = append(args, "--keep-similar-titles")
	}
	return args
}

// firstLines trims subprocess output to at most n lines for error text.
func firstLines(out []byte, n int) string {
	s := string(out)
	count := 0
	for i, r := range s {
		if r == '\n' {
			count++
			if count == n {
				return s[:i] + " [...]"
			}
		}
	}
	return s
}
