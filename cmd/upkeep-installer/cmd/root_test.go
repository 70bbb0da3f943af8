// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/charmbracelet/fang"

	"upkeep-installer/internal/issue"
)

func TestHandleExecuteError_ExitErrorIsNotRenderedAgain(t *testing.T) {
	t.Parallel()

	// The install pipeline prints its own formatted message before
	// returning an ExitError, so the handler must stay silent for it.
	cause := issue.NewErrorContext().
		WithOperation("verify archive checksum").
		WithSuggestion("Re-run the installer").
		Wrap(errors.New("checksum mismatch")).
		BuildError()

	var out bytes.Buffer
	handleExecuteError(&out, fang.Styles{}, &ExitError{Code: 1, Err: cause})

	if out.Len() != 0 {
		t.Errorf("handler rendered an already-reported error:\n%s", out.String())
	}
}

func TestHandleExecuteError_OtherErrorsStillRender(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	handleExecuteError(&out, fang.Styles{}, fmt.Errorf("unknown flag: --frobnicate"))

	if out.Len() == 0 {
		t.Error("handler swallowed an error it did not own")
	}
}

func TestFormatFatalError_RendersSuggestions(t *testing.T) {
	t.Parallel()

	err := issue.NewErrorContext().
		WithOperation("resolve install directory").
		WithResource("/usr/local/bin").
		WithSuggestion("Set UPKEEP_INSTALL_DIR to a writable directory").
		Wrap(errors.New("permission denied")).
		BuildError()

	got := formatFatalError(err)

	for _, want := range []string{
		"resolve install directory",
		"/usr/local/bin",
		"Set UPKEEP_INSTALL_DIR to a writable directory",
	} {
		if !bytes.Contains([]byte(got), []byte(want)) {
			t.Errorf("formatFatalError output missing %q:\n%s", want, got)
		}
	}
}
