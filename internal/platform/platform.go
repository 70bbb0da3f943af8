// SPDX-License-Identifier: MPL-2.0

// Package platform maps the host architecture and operating system to the
// canonical release triple used in cargo-upkeep artifact names
// (e.g., x86_64-unknown-linux-gnu).
package platform

import (
	"fmt"
	"runtime"
)

type (
	// Arch is a canonical CPU architecture identifier. Only the values
	// declared in this package are representable in a Triple.
	Arch string

	// OS is a canonical operating system identifier, expressed as the
	// vendor-os suffix of the release triple.
	OS string

	// Triple is the canonical platform identifier selecting a release
	// artifact. It is derived once per run and immutable afterwards.
	Triple struct {
		Arch Arch
		OS   OS
	}

	// UnsupportedError reports an architecture or operating system outside
	// the release matrix. Field holds "architecture" or "operating system";
	// Value holds the rejected host-reported string.
	UnsupportedError struct {
		Field string
		Value string
	}
)

const (
	ArchX8664   Arch = "x86_64"
	ArchAarch64 Arch = "aarch64"

	OSLinuxGNU OS = "unknown-linux-gnu"
	OSDarwin   OS = "apple-darwin"
)

// Error implements the error interface.
func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported %s: %s (cargo-upkeep releases cover x86_64/aarch64 on linux/darwin)", e.Field, e.Value)
}

// String renders the hyphenated triple, e.g. "aarch64-apple-darwin".
func (t Triple) String() string {
	return string(t.Arch) + "-" + string(t.OS)
}

// Host resolves the triple for the running process.
func Host() (Triple, error) {
	return Resolve(runtime.GOARCH, runtime.GOOS)
}

// Resolve maps host-reported architecture and OS strings to a Triple.
// Both Go-style (amd64/arm64) and uname-style (x86_64/aarch64) architecture
// names are accepted. The architecture is validated first; the first invalid
// value fails the resolution and no partial triple is ever returned.
func Resolve(arch, osName string) (Triple, error) {
	a, err := resolveArch(arch)
	if err != nil {
		return Triple{}, err
	}

	o, err := resolveOS(osName)
	if err != nil {
		return Triple{}, err
	}

	return Triple{Arch: a, OS: o}, nil
}

func resolveArch(arch string) (Arch, error) {
	switch arch {
	case "x86_64", "amd64":
		return ArchX8664, nil
	case "aarch64", "arm64":
		return ArchAarch64, nil
	default:
		return "", &UnsupportedError{Field: "architecture", Value: arch}
	}
}

func resolveOS(osName string) (OS, error) {
	switch osName {
	case "linux":
		return OSLinuxGNU, nil
	case "darwin":
		return OSDarwin, nil
	default:
		return "", &UnsupportedError{Field: "operating system", Value: osName}
	}
}
