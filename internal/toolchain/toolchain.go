// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package toolchain probes the host for the image-conversion toolchain
// (ImageMagick plus its WMF delegate and the emf2svg converter) and
// installs missing pieces through the host package manager.
package toolchain

import (
	"fmt"
	"os/exec"
	"strings"
)

const (
	// binMagick is the modern ImageMagick entry point.
	binMagick = "magick"
	// binConvert is the historical ImageMagick command name.
	binConvert = "convert"
	// binEmf2svg converts EMF/WMF vector images to SVG.
	binEmf2svg = "emf2svg-conv"
)

// Availability describes how much of the image-conversion toolchain the
// host has. Probed fresh on every call; never cached, since system state
// can change between installer steps.
type Availability int

const (
	// Absent means no ImageMagick binary exists at all.
	Absent Availability = iota
	// CoreOnly means ImageMagick exists but cannot rasterize WMF.
	CoreOnly
	// WMFDelegate means WMF rasterization is possible, through either the
	// libwmf delegate or the emf2svg converter.
	WMFDelegate
	// FullDelegates means both the libwmf delegate and emf2svg are present.
	FullDelegates
)

// String returns the probe state name.
func (a Availability) String() string {
	switch a {
	case Absent:
		return "absent"
	case CoreOnly:
		return "present-core-only"
	case WMFDelegate:
		return "present-with-wmf-delegate"
	case FullDelegates:
		return "present-with-both-delegates"
	}
	return fmt.Sprintf("Availability(%d)", int(a))
}

// CanRasterizeWMF reports whether the host can turn WMF files into PNGs.
func (a Availability) CanRasterizeWMF() bool {
	return a >= WMFDelegate
}

// Report is the machine-readable result of one probe, emitted by
// `deck2md doctor --yaml`.
type Report struct {
	Binary       string `yaml:"binary,omitempty"`
	BinaryPath   string `yaml:"binary_path,omitempty"`
	WMFDelegate  bool   `yaml:"wmf_delegate"`
	EMFConverter bool   `yaml:"emf_converter"`
	Availability string `yaml:"availability"`
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	RunOutput(name string, args ...string) (string, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (o *osExecutor) RunOutput(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).Output()
	return string(out), err
}

var defaultExec executor = &osExecutor{}

// Probe inspects the host for the image-conversion toolchain. Read-only:
// it runs shell queries but never mutates the system.
func Probe() Availability {
	return probe(defaultExec)
}

// ProbeReport returns the full probe result for diagnostic output.
func ProbeReport() Report {
	return probeReport(defaultExec)
}

func probe(exec executor) Availability {
	return probeReport(exec).availability()
}

func probeReport(exec executor) Report {
	var r Report
	for _, bin := range []string{binMagick, binConvert} {
		if path, err := exec.LookPath(bin); err == nil {
			r.Binary = bin
			r.BinaryPath = path
			break
		}
	}

	if r.Binary != "" {
		r.WMFDelegate = supportsWMF(exec, r.Binary)
	}
	if _, err := exec.LookPath(binEmf2svg); err == nil {
		r.EMFConverter = true
	}

	r.Availability = r.availability().String()
	return r
}

// availability collapses the report into the richest satisfied state.
func (r Report) availability() Availability {
	switch {
	case r.Binary == "":
		return Absent
	case r.WMFDelegate && r.EMFConverter:
		return FullDelegates
	case r.WMFDelegate || r.EMFConverter:
		return WMFDelegate
	}
	return CoreOnly
}

// supportsWMF checks whether the ImageMagick format list advertises WMF.
func supportsWMF(exec executor, bin string) bool {
	out, err := exec.RunOutput(bin, "-list", "format")
	if err != nil {
		return false
	}
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		name := strings.TrimSuffix(fields[0], "*")
		if name == "WMF" || name == "WMZ" {
			return true
		}
	}
	return false
}
