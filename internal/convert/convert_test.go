// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/deck2md/pkg/types"
)

// fakeConverter implements Converter for testing. It writes canned output
// the way the upstream tool would, or returns an error.
type fakeConverter struct {
	markdown string
	images   map[string][]byte
	err      error

	gotCfg types.ConversionConfig
}

func (f *fakeConverter) Convert(cfg types.ConversionConfig) error {
	f.gotCfg = cfg
	if f.err != nil {
		return &ConversionError{Err: f.err}
	}
	if err := os.WriteFile(cfg.OutputPath, []byte(f.markdown), 0o644); err != nil {
		return err
	}
	for name, data := range f.images {
		if err := os.WriteFile(filepath.Join(cfg.ImageDir, name), data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func TestRunEndToEndDefaults(t *testing.T) {
	dir := t.TempDir()
	input := writeDeck(t, dir, "deck.pptx")

	conv := &fakeConverter{
		markdown: "# Slide 1\n\n![](img/chart.png)\n",
		images:   map[string][]byte{"chart.png": []byte("png")},
	}
	post := &PostProcessor{lookPath: (&fakeMagick{}).lookPath, run: (&fakeMagick{}).run}

	var out bytes.Buffer
	err := Run(types.ConversionConfig{InputPath: input, DisableWMF: true}, conv, post, &out)
	require.NoError(t, err)

	// Output tree: deck/index.md plus deck/img/*.
	assert.FileExists(t, filepath.Join(dir, "deck", "index.md"))
	assert.FileExists(t, filepath.Join(dir, "deck", "img", "chart.png"))
	assert.Contains(t, out.String(), "converted:")

	// The converter saw resolved paths, not the raw flag values.
	assert.Equal(t, filepath.Join(dir, "deck", "index.md"), conv.gotCfg.OutputPath)
	assert.Equal(t, filepath.Join(dir, "deck", "img"), conv.gotCfg.ImageDir)
}

func TestRunResolvesSubdirectoryInputOnce(t *testing.T) {
	// The CLI validates flags with an early Resolve and then hands the
	// raw config to Run. For an input below the working directory the
	// derived paths are relative too, so resolving them a second time
	// would nest the subdirectory into itself.
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "slides"), 0o755))
	writeDeck(t, filepath.Join(dir, "slides"), "deck.pptx")
	oldWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWD) })

	cfg := types.ConversionConfig{
		InputPath:  filepath.Join("slides", "deck.pptx"),
		DisableWMF: true,
	}
	_, err = Resolve(cfg)
	require.NoError(t, err)

	conv := &fakeConverter{markdown: "# Slide 1\n"}
	post := &PostProcessor{lookPath: (&fakeMagick{}).lookPath, run: (&fakeMagick{}).run}

	var out bytes.Buffer
	require.NoError(t, Run(cfg, conv, post, &out))

	assert.Equal(t, filepath.Join("slides", "deck", "index.md"), conv.gotCfg.OutputPath)
	assert.Equal(t, filepath.Join("slides", "deck", "img"), conv.gotCfg.ImageDir)
	assert.FileExists(t, filepath.Join(dir, "slides", "deck", "index.md"))
	assert.NoDirExists(t, filepath.Join(dir, "slides", "slides"))
}

func TestRunUsageErrorBeforeAnyWrite(t *testing.T) {
	dir := t.TempDir()

	conv := &fakeConverter{markdown: "never used"}
	post := NewPostProcessor()

	var out bytes.Buffer
	err := Run(types.ConversionConfig{
		InputPath: filepath.Join(dir, "missing.pptx"),
	}, conv, post, &out)

	var usage *UsageError
	require.ErrorAs(t, err, &usage)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "usage errors must not create output directories")
}

func TestRunPropagatesConversionError(t *testing.T) {
	dir := t.TempDir()
	input := writeDeck(t, dir, "deck.pptx")

	conv := &fakeConverter{err: errors.New("corrupt slide master")}
	post := NewPostProcessor()

	var out bytes.Buffer
	err := Run(types.ConversionConfig{InputPath: input}, conv, post, &out)

	var convErr *ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Contains(t, convErr.Error(), "corrupt slide master")
}

func TestRunPostProcessesWMFAssets(t *testing.T) {
	dir := t.TempDir()
	input := writeDeck(t, dir, "deck.pptx")

	conv := &fakeConverter{
		markdown: "![](img/figure.wmf)\n",
		images:   map[string][]byte{"figure.wmf": []byte("wmf")},
	}
	magick := &fakeMagick{}
	post := &PostProcessor{lookPath: magick.lookPath, run: magick.run}

	var out bytes.Buffer
	err := Run(types.ConversionConfig{InputPath: input, DisableWMF: true}, conv, post, &out)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "deck", "img", "figure.png"))
	assert.FileExists(t, filepath.Join(dir, "deck", "img", "figure.wmf"))

	md, readErr := os.ReadFile(filepath.Join(dir, "deck", "index.md"))
	require.NoError(t, readErr)
	assert.Contains(t, string(md), "img/figure.png")
}
