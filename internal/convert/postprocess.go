// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"image/jpeg"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/deck2md/pkg/types"
)

// PostProcessError reports a failure while fixing up one emitted asset.
// Processing stops at the first offending file; a partially converted
// output directory is a reportable failure, not a degraded success.
type PostProcessError struct {
	Path string
	Err  error
}

func (e *PostProcessError) Error() string {
	return fmt.Sprintf("post-processing %s: %v", e.Path, e.Err)
}

func (e *PostProcessError) Unwrap() error { return e.Err }

// PostProcessor normalizes the image assets the upstream converter
// emitted: WMF files gain PNG siblings, JPEGs become PNGs, and the
// Markdown output is rewritten to reference the normalized names.
type PostProcessor struct {
	lookPath func(string) (string, error)
	run      func(name string, args ...string) error
}

// NewPostProcessor builds the production post-processor.
func NewPostProcessor() *PostProcessor {
	return &PostProcessor{
		lookPath: exec.LookPath,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

// Process runs all asset and Markdown fixups for one conversion. cfg must
// be resolved. A missing image directory means nothing was extracted and
// is not an error.
func (p *PostProcessor) Process(cfg types.ConversionConfig) error {
	entries, err := os.ReadDir(cfg.ImageDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &PostProcessError{Path: cfg.ImageDir, Err: err}
	}

	// old basename -> new basename, for link rewriting.
	renames := make(map[string]string)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		path := filepath.Join(cfg.ImageDir, name)

		switch strings.ToLower(filepath.Ext(name)) {
		case ".jpg", ".jpeg":
			target := replaceExt(path, ".png")
			if err := convertJPEG(path, target); err != nil {
				return &PostProcessError{Path: path, Err: err}
			}
			if err := os.Remove(path); err != nil {
				return &PostProcessError{Path: path, Err: err}
			}
			renames[name] = filepath.Base(target)
		case ".wmf":
			// Only handled here when upstream conversion was bypassed.
			if !cfg.DisableWMF {
				continue
			}
			target := replaceExt(path, ".png")
			if err := p.rasterizeWMF(path, target, cfg.ImageWidth); err != nil {
				return err
			}
			// The original WMF stays in place; only links move to the PNG.
			renames[name] = filepath.Base(target)
		}
	}

	return p.rewriteMarkdown(cfg, renames)
}

// rasterizeWMF shells out to ImageMagick to produce a PNG sibling,
// constrained to widthLimit pixels when one is configured.
func (p *PostProcessor) rasterizeWMF(source, target string, widthLimit int) error {
	bin := ""
	for _, candidate := range []string{"magick", "convert"} {
		if _, err := p.lookPath(candidate); err == nil {
			bin = candidate
			break
		}
	}
	if bin == "" {
		return &PostProcessError{
			Path: source,
			Err:  fmt.Errorf("ImageMagick is not installed; run `deck2md doctor --install`"),
		}
	}

	args := []string{source}
	if widthLimit > 0 {
		args = append(args, "-resize", fmt.Sprintf("%dx", widthLimit))
	}
	args = append(args, target)

	if err := p.run(bin, args...); err != nil {
		return &PostProcessError{
			Path: source,
			Err:  fmt.Errorf("%s could not rasterize WMF (is the libwmf delegate installed?): %w", bin, err),
		}
	}
	return nil
}

// rewriteMarkdown applies the link fixups to the output file: renamed
// assets, percent-encoded link paths, and a trailing image section when
// the document references no images at all.
func (p *PostProcessor) rewriteMarkdown(cfg types.ConversionConfig, renames map[string]string) error {
	data, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		return &PostProcessError{Path: cfg.OutputPath, Err: err}
	}
	content := string(data)

	for oldName, newName := range renames {
		content = strings.ReplaceAll(content, oldName, newName)
	}

	relDir, err := filepath.Rel(filepath.Dir(cfg.OutputPath), cfg.ImageDir)
	if err != nil {
		relDir = cfg.ImageDir
	}
	relDir = filepath.ToSlash(relDir)

	content = encodeImageLinks(content, cfg.ImageDir, relDir)
	content = appendImagesIfMissing(content, cfg.ImageDir, relDir)

	if err := os.WriteFile(cfg.OutputPath, []byte(content), 0o644); err != nil {
		return &PostProcessError{Path: cfg.OutputPath, Err: err}
	}
	return nil
}

// encodeImageLinks percent-encodes image link paths so names with spaces
// or unicode survive strict Markdown renderers.
func encodeImageLinks(content, imageDir, relDir string) string {
	entries, err := os.ReadDir(imageDir)
	if err != nil {
		return content
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		raw := relDir + "/" + entry.Name()
		if encoded := quotePath(raw); encoded != raw {
			content = strings.ReplaceAll(content, raw, encoded)
		}
	}
	return content
}

// appendImagesIfMissing adds an image section listing every PNG when the
// document contains no image references of its own.
func appendImagesIfMissing(content, imageDir, relDir string) string {
	if strings.Contains(content, relDir+"/") || strings.Contains(content, "<img") {
		return content
	}

	entries, err := os.ReadDir(imageDir)
	if err != nil {
		return content
	}
	var pngs []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".png") {
			pngs = append(pngs, entry.Name())
		}
	}
	if len(pngs) == 0 {
		return content
	}
	sort.Strings(pngs)

	var b strings.Builder
	b.WriteString(content)
	b.WriteString("\n\n# Images\n")
	for _, name := range pngs {
		fmt.Fprintf(&b, "\n![](%s)\n", quotePath(relDir+"/"+name))
	}
	return b.String()
}

// convertJPEG re-encodes a JPEG as PNG using the standard image codecs.
func convertJPEG(source, target string) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	img, err := jpeg.Decode(in)
	if err != nil {
		return fmt.Errorf("decoding JPEG: %w", err)
	}

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return out.Close()
}

// replaceExt swaps a path's extension.
func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// quotePath percent-encodes a link path, leaving URL-safe characters and
// common filename punctuation alone.
func quotePath(path string) string {
	const safe = "/()[]-._~"
	var b strings.Builder
	for i := 0; i < len(path); i++ {
		c := path[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case strings.IndexByte(safe, c) >= 0:
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}
