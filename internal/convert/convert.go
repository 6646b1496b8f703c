// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert maps CLI options onto the upstream pptx2md converter
// and normalizes what it emits. The converter itself is an external
// collaborator reached through the Converter interface; nothing in this
// package parses presentations or generates Markdown.
package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/deck2md/pkg/types"
)

// Run performs one conversion: validate and resolve cfg, create the
// output tree, invoke the upstream converter, and post-process its
// assets. Progress lines go to w.
func Run(cfg types.ConversionConfig, c Converter, post *PostProcessor, w io.Writer) error {
	resolved, err := Resolve(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(resolved.OutputPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.MkdirAll(resolved.ImageDir, 0o755); err != nil {
		return fmt.Errorf("creating image directory: %w", err)
	}

	if err := c.Convert(resolved); err != nil {
		return err
	}

	if err := post.Process(resolved); err != nil {
		return err
	}

	fmt.Fprintf(w, "converted: %s -> %s\n", resolved.InputPath, resolved.OutputPath)
	return nil
}
