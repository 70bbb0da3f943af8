// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	cause := errors.New("permission denied")

	err := NewErrorContext().
		WithOperation("resolve install directory").
		WithResource("/usr/local/bin").
		Wrap(cause).
		Build()

	want := "failed to resolve install directory: /usr/local/bin: permission denied"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestActionableError_ErrorWithoutResourceOrCause(t *testing.T) {
	t.Parallel()

	err := NewErrorContext().WithOperation("detect platform").Build()

	if got := err.Error(); got != "failed to detect platform" {
		t.Errorf("Error() = %q, want %q", got, "failed to detect platform")
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("checksum mismatch")
	err := NewErrorContext().
		WithOperation("verify archive checksum").
		Wrap(sentinel).
		BuildError()

	if !errors.Is(err, sentinel) {
		t.Error("errors.Is does not reach the wrapped cause")
	}
}

func TestActionableError_FormatSuggestions(t *testing.T) {
	t.Parallel()

	err := NewErrorContext().
		WithOperation("download release archive").
		WithSuggestion("Check your network connection").
		WithSuggestion("Re-run the installer").
		Build()

	got := err.Format(false)
	if !strings.Contains(got, "• Check your network connection") {
		t.Errorf("Format lacks first suggestion:\n%s", got)
	}
	if !strings.Contains(got, "• Re-run the installer") {
		t.Errorf("Format lacks second suggestion:\n%s", got)
	}
}

func TestActionableError_FormatVerboseChain(t *testing.T) {
	t.Parallel()

	inner := errors.New("connection refused")
	middle := NewErrorContext().
		WithOperation("download release archive").
		Wrap(inner).
		Build()

	got := middle.Format(true)
	if !strings.Contains(got, "Error chain:") {
		t.Errorf("verbose Format lacks error chain:\n%s", got)
	}
	if !strings.Contains(got, "connection refused") {
		t.Errorf("verbose Format lacks the root cause:\n%s", got)
	}
}

func TestBuild_RequiresOperation(t *testing.T) {
	t.Parallel()

	if err := NewErrorContext().WithResource("/tmp").BuildError(); err != nil {
		t.Errorf("BuildError without operation = %v, want nil", err)
	}
}
