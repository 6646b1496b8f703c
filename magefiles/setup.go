//go:build mage

package main

import (
	"context"
	"os"

	"github.com/pdiddy/deck2md/internal/provision"
	"github.com/pdiddy/deck2md/pkg/types"
)

// Setup provisions the development runtime: uv, a project .venv with the
// pptx2md converter, and the image-conversion toolchain.
func Setup() error {
	p := provision.New(os.Stdout)
	return p.Run(context.Background(), types.ProvisionConfig{Mode: types.ModeDev})
}

// Install provisions the converter as a global uv tool.
func Install() error {
	p := provision.New(os.Stdout)
	return p.Run(context.Background(), types.ProvisionConfig{Mode: types.ModeSystem})
}
