// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package toolchain

import (
	"fmt"
	"io"
)

// DependencyError reports a missing toolchain component together with an
// actionable remediation step.
type DependencyError struct {
	// Component is the missing piece ("imagemagick", "wmf-delegate",
	// "emf2svg", "package-manager").
	Component string
	// Hint tells the user how to fix it manually.
	Hint string
	// Err is the underlying failure, when one exists.
	Err error
}

func (e *DependencyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("missing dependency %s: %v (%s)", e.Component, e.Err, e.Hint)
	}
	return fmt.Sprintf("missing dependency %s: %s", e.Component, e.Hint)
}

func (e *DependencyError) Unwrap() error { return e.Err }

// manager describes one host package manager and the commands that install
// each toolchain component through it.
type manager struct {
	bin      string
	commands map[string][][]string // component -> command list, run in order
}

const (
	componentMagick = "imagemagick"
	componentWMF    = "wmf-delegate"
	componentEMF    = "emf2svg"
)

// managers lists recognized package managers in probe order. Package names
// for the WMF delegate and emf2svg vary by distribution; a failed install
// surfaces the manager's own error plus a manual hint.
var managers = []manager{
	{
		bin: "apt-get",
		commands: map[string][][]string{
			componentMagick: {{"apt-get", "update"}, {"apt-get", "install", "-y", "imagemagick"}},
			componentWMF:    {{"apt-get", "install", "-y", "libwmf-bin"}},
			componentEMF:    {{"apt-get", "install", "-y", "libemf2svg-dev"}},
		},
	},
	{
		bin: "dnf",
		commands: map[string][][]string{
			componentMagick: {{"dnf", "install", "-y", "ImageMagick"}},
			componentWMF:    {{"dnf", "install", "-y", "libwmf"}},
			componentEMF:    {{"dnf", "install", "-y", "libemf2svg"}},
		},
	},
	{
		bin: "pacman",
		commands: map[string][][]string{
			componentMagick: {{"pacman", "-Sy", "--noconfirm", "imagemagick"}},
			componentWMF:    {{"pacman", "-Sy", "--noconfirm", "libwmf"}},
			componentEMF:    {{"pacman", "-Sy", "--noconfirm", "libemf2svg"}},
		},
	},
	{
		bin: "zypper",
		commands: map[string][][]string{
			componentMagick: {{"zypper", "install", "-y", "ImageMagick"}},
			componentWMF:    {{"zypper", "install", "-y", "libwmf"}},
			componentEMF:    {{"zypper", "install", "-y", "libemf2svg"}},
		},
	},
	{
		bin: "brew",
		commands: map[string][][]string{
			componentMagick: {{"brew", "install", "imagemagick"}},
			componentWMF:    {{"brew", "install", "libwmf"}},
			componentEMF:    {{"brew", "install", "libemf2svg"}},
		},
	},
}

// detectManager returns the first recognized package manager on PATH.
func detectManager(exec executor) (*manager, error) {
	for i := range managers {
		if _, err := exec.LookPath(managers[i].bin); err == nil {
			return &managers[i], nil
		}
	}
	names := make([]string, len(managers))
	for i, m := range managers {
		names[i] = m.bin
	}
	return nil, &DependencyError{
		Component: "package-manager",
		Hint:      fmt.Sprintf("no recognized package manager found (looked for %v); install ImageMagick with WMF support manually", names),
	}
}

// Ensure installs missing toolchain components through the host package
// manager. Each step is idempotent: already-satisfied components are
// skipped unless force is set. The probe runs before and after each
// install, so a package-manager success that improves nothing is caught
// rather than trusted.
func Ensure(force bool, w io.Writer) error {
	return ensure(defaultExec, force, w)
}

func ensure(exec executor, force bool, w io.Writer) error {
	report := probeReport(exec)
	if !force && report.availability() == FullDelegates {
		fmt.Fprintf(w, "toolchain already satisfied: %s\n", report.Availability)
		return nil
	}

	mgr, err := detectManager(exec)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "using package manager: %s\n", mgr.bin)

	if force || report.Binary == "" {
		if err := installComponent(exec, mgr, componentMagick, w); err != nil {
			return err
		}
		report = probeReport(exec)
		if report.Binary == "" {
			return &DependencyError{
				Component: componentMagick,
				Hint:      "package manager reported success but no magick/convert binary appeared on PATH; install ImageMagick manually",
			}
		}
	} else {
		fmt.Fprintf(w, "skipped: %s (already installed at %s)\n", componentMagick, report.BinaryPath)
	}

	if force || !report.WMFDelegate {
		// Delegate install failure is only fatal when it leaves the host
		// with no WMF rasterization path at all, checked below.
		if err := installComponent(exec, mgr, componentWMF, w); err != nil {
			fmt.Fprintf(w, "warning: %v\n", err)
		}
		report = probeReport(exec)
	} else {
		fmt.Fprintf(w, "skipped: %s (already supported)\n", componentWMF)
	}

	if force || !report.EMFConverter {
		if err := installComponent(exec, mgr, componentEMF, w); err != nil {
			fmt.Fprintf(w, "warning: %v\n", err)
		}
		report = probeReport(exec)
	} else {
		fmt.Fprintf(w, "skipped: %s (already installed)\n", componentEMF)
	}

	if !report.availability().CanRasterizeWMF() {
		return &DependencyError{
			Component: componentWMF,
			Hint:      "installation left the host without WMF support; install the libwmf delegate for ImageMagick or build emf2svg-conv from source",
		}
	}

	fmt.Fprintf(w, "toolchain ready: %s\n", report.Availability)
	return nil
}

// installComponent runs the manager's command list for one component.
func installComponent(exec executor, mgr *manager, component string, w io.Writer) error {
	fmt.Fprintf(w, "installing %s via %s\n", component, mgr.bin)
	for _, cmd := range mgr.commands[component] {
		if err := exec.RunSilent(cmd[0], cmd[1:]...); err != nil {
			return &DependencyError{
				Component: component,
				Hint:      fmt.Sprintf("%s failed; install the package manually", mgr.bin),
				Err:       err,
			}
		}
	}
	return nil
}
