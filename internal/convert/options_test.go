// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/deck2md/pkg/types"
)

// writeDeck creates a fake input deck and returns its path.
func writeDeck(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("PK fake pptx"), 0o644))
	return path
}

func TestResolveDefaultPaths(t *testing.T) {
	dir := t.TempDir()
	input := writeDeck(t, dir, "deck.pptx")

	resolved, err := Resolve(types.ConversionConfig{InputPath: input})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "deck", "index.md"), resolved.OutputPath)
	assert.Equal(t, filepath.Join(dir, "deck", "img"), resolved.ImageDir)
	assert.Equal(t, types.DialectMarkdown, resolved.Dialect)
}

func TestResolvePathMatrix(t *testing.T) {
	dir := t.TempDir()
	input := writeDeck(t, dir, "deck.pptx")

	tests := []struct {
		name       string
		output     string
		imageDir   string
		wantOutput string
		wantImages string
	}{
		{
			name:       "both unset",
			wantOutput: filepath.Join(dir, "deck", "index.md"),
			wantImages: filepath.Join(dir, "deck", "img"),
		},
		{
			name:       "only image dir set",
			imageDir:   filepath.Join(dir, "assets"),
			wantOutput: filepath.Join(dir, "index.md"),
			wantImages: filepath.Join(dir, "assets"),
		},
		{
			name:       "only output set",
			output:     filepath.Join(dir, "out", "deck.md"),
			wantOutput: filepath.Join(dir, "out", "deck.md"),
			wantImages: filepath.Join(dir, "out", "img"),
		},
		{
			name:       "both set",
			output:     filepath.Join(dir, "a.md"),
			imageDir:   filepath.Join(dir, "b"),
			wantOutput: filepath.Join(dir, "a.md"),
			wantImages: filepath.Join(dir, "b"),
		},
		{
			name:       "relative paths resolve against the input directory",
			output:     "notes.md",
			imageDir:   "pics",
			wantOutput: filepath.Join(dir, "notes.md"),
			wantImages: filepath.Join(dir, "pics"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, err := Resolve(types.ConversionConfig{
				InputPath:  input,
				OutputPath: tt.output,
				ImageDir:   tt.imageDir,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantOutput, resolved.OutputPath)
			assert.Equal(t, tt.wantImages, resolved.ImageDir)
		})
	}
}

func TestResolveMissingInput(t *testing.T) {
	dir := t.TempDir()

	_, err := Resolve(types.ConversionConfig{
		InputPath: filepath.Join(dir, "nope.pptx"),
	})

	var usage *UsageError
	require.ErrorAs(t, err, &usage)
	assert.Contains(t, usage.Error(), "does not exist")

	// No filesystem writes on a usage error.
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestResolveInputIsDirectory(t *testing.T) {
	dir := t.TempDir()

	_, err := Resolve(types.ConversionConfig{InputPath: dir})

	var usage *UsageError
	require.ErrorAs(t, err, &usage)
	assert.Contains(t, usage.Error(), "directory")
}

func TestResolveRejectsNegativeNumbers(t *testing.T) {
	dir := t.TempDir()
	input := writeDeck(t, dir, "deck.pptx")

	tests := []struct {
		name string
		cfg  types.ConversionConfig
	}{
		{"negative image width", types.ConversionConfig{InputPath: input, ImageWidth: -1}},
		{"negative min block size", types.ConversionConfig{InputPath: input, MinBlockSize: -10}},
		{"negative page", types.ConversionConfig{InputPath: input, Page: -2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.cfg)
			var usage *UsageError
			require.ErrorAs(t, err, &usage)
		})
	}
}

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		set     bool
		wantErr bool
	}{
		{"unset zero passes", 0, false, false},
		{"explicit zero rejected", 0, true, true},
		{"explicit negative rejected", -5, true, true},
		{"explicit positive passes", 640, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePositive("--image-width", tt.value, tt.set)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			var usage *UsageError
			require.ErrorAs(t, err, &usage)
			assert.Contains(t, usage.Error(), "--image-width")
		})
	}
}

func TestResolveUnknownDialect(t *testing.T) {
	dir := t.TempDir()
	input := writeDeck(t, dir, "deck.pptx")

	_, err := Resolve(types.ConversionConfig{InputPath: input, Dialect: "asciidoc"})
	var usage *UsageError
	require.ErrorAs(t, err, &usage)
	assert.Contains(t, usage.Error(), "asciidoc")
}

func TestDialectFromFlags(t *testing.T) {
	tests := []struct {
		name           string
		wiki, mdk, qmd bool
		want           types.Dialect
		wantErr        bool
	}{
		{name: "none selected", want: types.DialectMarkdown},
		{name: "wiki", wiki: true, want: types.DialectWiki},
		{name: "mdk", mdk: true, want: types.DialectMadoko},
		{name: "qmd", qmd: true, want: types.DialectQuarto},
		{name: "wiki and mdk conflict", wiki: true, mdk: true, wantErr: true},
		{name: "all three conflict", wiki: true, mdk: true, qmd: true, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DialectFromFlags(tt.wiki, tt.mdk, tt.qmd)
			if tt.wantErr {
				var usage *UsageError
				require.ErrorAs(t, err, &usage)
				assert.Contains(t, usage.Error(), "mutually exclusive")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
