// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provision sets up the runtime the converter needs: the uv
// package manager, the upstream pptx2md package (in a project venv or as
// a global tool), and the image-conversion toolchain.
package provision

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/pdiddy/deck2md/internal/httputil"
	"github.com/pdiddy/deck2md/internal/toolchain"
	"github.com/pdiddy/deck2md/pkg/types"
)

const (
	// uvBootstrapURL is the pinned HTTPS endpoint for the uv installer.
	uvBootstrapURL = "https://astral.sh/uv/install.sh"

	// upstreamPackage is the Python package providing the converter.
	upstreamPackage = "pptx2md"

	// defaultVenvDir is the dev-mode virtual environment directory.
	defaultVenvDir = ".venv"

	bootstrapTimeout = 5 * time.Minute
)

// Error reports a provisioning failure with the step that failed.
type Error struct {
	Step string
	Hint string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provisioning %s: %v (%s)", e.Step, e.Err, e.Hint)
	}
	return fmt.Sprintf("provisioning %s: %s", e.Step, e.Hint)
}

func (e *Error) Unwrap() error { return e.Err }

// runner abstracts command execution for testing.
type runner interface {
	LookPath(file string) (string, error)
	Run(name string, args ...string) error
	RunStdin(stdin []byte, name string, args ...string) error
}

// osRunner is the production runner backed by os/exec. Installer output is
// passed through so the user can watch long installs progress.
type osRunner struct {
	out io.Writer
}

func (r *osRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (r *osRunner) Run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = r.out
	cmd.Stderr = r.out
	return cmd.Run()
}

func (r *osRunner) RunStdin(stdin []byte, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = bytes.NewReader(stdin)
	cmd.Stdout = r.out
	cmd.Stderr = r.out
	return cmd.Run()
}

// Provisioner installs the wrapper's runtime dependencies. The function
// fields exist so tests can substitute filesystem and network access.
type Provisioner struct {
	run             runner
	out             io.Writer
	stat            func(string) (os.FileInfo, error)
	fetch           func(ctx context.Context, url string) ([]byte, error)
	ensureToolchain func(force bool, w io.Writer) error
}

// New builds a production provisioner writing progress to w.
func New(w io.Writer) *Provisioner {
	client := &http.Client{Timeout: bootstrapTimeout}
	return &Provisioner{
		run:  &osRunner{out: w},
		out:  w,
		stat: os.Stat,
		fetch: func(ctx context.Context, url string) ([]byte, error) {
			return httputil.FetchScript(ctx, client, url)
		},
		ensureToolchain: toolchain.Ensure,
	}
}

// Run provisions the runtime per cfg: uv first, then the upstream
// converter package, then the image-conversion toolchain. Each phase is
// a blocking subprocess; a non-zero exit is a hard failure for that step.
func (p *Provisioner) Run(ctx context.Context, cfg types.ProvisionConfig) error {
	if err := p.ensureUV(ctx); err != nil {
		return err
	}

	switch cfg.Mode {
	case types.ModeDev:
		if err := p.provisionDev(cfg); err != nil {
			return err
		}
	case types.ModeSystem:
		if err := p.provisionSystem(cfg); err != nil {
			return err
		}
	default:
		return &Error{
			Step: "mode",
			Hint: fmt.Sprintf("unknown mode %q, expected %q or %q", cfg.Mode, types.ModeDev, types.ModeSystem),
		}
	}

	return p.ensureToolchain(false, p.out)
}

// ensureUV installs the uv package manager when missing, by piping the
// pinned bootstrap script through sh.
func (p *Provisioner) ensureUV(ctx context.Context) error {
	if _, err := p.run.LookPath("uv"); err == nil {
		fmt.Fprintln(p.out, "uv already installed")
		return nil
	}

	fmt.Fprintf(p.out, "installing uv from %s\n", uvBootstrapURL)
	script, err := p.fetch(ctx, uvBootstrapURL)
	if err != nil {
		return &Error{Step: "uv-bootstrap", Hint: "download the installer manually from astral.sh", Err: err}
	}
	if err := p.run.RunStdin(script, "sh"); err != nil {
		return &Error{Step: "uv-bootstrap", Hint: "bootstrap script failed, run it manually", Err: err}
	}
	if _, err := p.run.LookPath("uv"); err != nil {
		return &Error{Step: "uv-bootstrap", Hint: "uv still missing after bootstrap; check your PATH", Err: err}
	}
	return nil
}

// provisionDev creates the project venv (no-op when it exists) and
// installs the converter into it.
func (p *Provisioner) provisionDev(cfg types.ProvisionConfig) error {
	venv := cfg.VenvDir
	if venv == "" {
		venv = defaultVenvDir
	}

	if _, err := p.stat(venv); err != nil {
		fmt.Fprintf(p.out, "creating virtual environment %s\n", venv)
		if err := p.run.Run("uv", "venv", venv); err != nil {
			return &Error{Step: "venv", Hint: "could not create virtual environment", Err: err}
		}
	} else {
		fmt.Fprintf(p.out, "virtual environment %s already exists\n", venv)
	}

	python := filepath.Join(venv, "bin", "python")
	if err := p.run.Run("uv", "pip", "install", "--python", python, upstreamPackage); err != nil {
		return &Error{Step: "converter", Hint: "uv pip install " + upstreamPackage + " failed", Err: err}
	}
	fmt.Fprintf(p.out, "%s installed into %s\n", upstreamPackage, venv)
	return nil
}

// provisionSystem installs the converter as a global uv tool. An existing
// installation is never clobbered silently: the caller must pass force.
func (p *Provisioner) provisionSystem(cfg types.ProvisionConfig) error {
	if _, err := p.run.LookPath(upstreamPackage); err == nil && !cfg.Force {
		return &Error{
			Step: "converter",
			Hint: upstreamPackage + " is already installed; re-run with --force to reinstall",
		}
	}

	args := []string{"tool", "install", upstreamPackage}
	if cfg.Force {
		args = append(args, "--force")
	}
	if err := p.run.Run("uv", args...); err != nil {
		return &Error{Step: "converter", Hint: "uv tool install " + upstreamPackage + " failed", Err: err}
	}
	fmt.Fprintf(p.out, "%s installed as a uv tool\n", upstreamPackage)
	return nil
}
