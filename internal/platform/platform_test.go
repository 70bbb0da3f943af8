// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"testing"
)

func TestResolve_ReleaseMatrix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		arch string
		os   string
		want string
	}{
		{"x86_64", "linux", "x86_64-unknown-linux-gnu"},
		{"amd64", "linux", "x86_64-unknown-linux-gnu"},
		{"aarch64", "linux", "aarch64-unknown-linux-gnu"},
		{"arm64", "linux", "aarch64-unknown-linux-gnu"},
		{"x86_64", "darwin", "x86_64-apple-darwin"},
		{"amd64", "darwin", "x86_64-apple-darwin"},
		{"aarch64", "darwin", "aarch64-apple-darwin"},
		{"arm64", "darwin", "aarch64-apple-darwin"},
	}

	for _, tt := range tests {
		t.Run(tt.arch+"/"+tt.os, func(t *testing.T) {
			t.Parallel()

			triple, err := Resolve(tt.arch, tt.os)
			if err != nil {
				t.Fatalf("Resolve(%q, %q) returned error: %v", tt.arch, tt.os, err)
			}
			if got := triple.String(); got != tt.want {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tt.arch, tt.os, got, tt.want)
			}
		})
	}
}

func TestResolve_UnsupportedArch(t *testing.T) {
	t.Parallel()

	for _, arch := range []string{"riscv64", "386", "mips64", "", "X86_64"} {
		_, err := Resolve(arch, "linux")
		if err == nil {
			t.Fatalf("Resolve(%q, linux) succeeded, want UnsupportedError", arch)
		}

		var unsupported *UnsupportedError
		if !errors.As(err, &unsupported) {
			t.Fatalf("Resolve(%q, linux) error = %T, want *UnsupportedError", arch, err)
		}
		if unsupported.Field != "architecture" {
			t.Errorf("UnsupportedError.Field = %q, want %q", unsupported.Field, "architecture")
		}
		if unsupported.Value != arch {
			t.Errorf("UnsupportedError.Value = %q, want %q", unsupported.Value, arch)
		}
	}
}

func TestResolve_UnsupportedOS(t *testing.T) {
	t.Parallel()

	for _, osName := range []string{"windows", "freebsd", "plan9", ""} {
		_, err := Resolve("x86_64", osName)
		if err == nil {
			t.Fatalf("Resolve(x86_64, %q) succeeded, want UnsupportedError", osName)
		}

		var unsupported *UnsupportedError
		if !errors.As(err, &unsupported) {
			t.Fatalf("Resolve(x86_64, %q) error = %T, want *UnsupportedError", osName, err)
		}
		if unsupported.Field != "operating system" {
			t.Errorf("UnsupportedError.Field = %q, want %q", unsupported.Field, "operating system")
		}
	}
}

// The architecture is validated before the OS, so a doubly-invalid host
// reports the architecture.
func TestResolve_ArchCheckedFirst(t *testing.T) {
	t.Parallel()

	_, err := Resolve("sparc", "windows")
	var unsupported *UnsupportedError
	if !errors.As(err, &unsupported) {
		t.Fatalf("error = %T, want *UnsupportedError", err)
	}
	if unsupported.Field != "architecture" {
		t.Errorf("UnsupportedError.Field = %q, want %q", unsupported.Field, "architecture")
	}
}
