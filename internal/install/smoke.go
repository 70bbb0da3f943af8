// SPDX-License-Identifier: MPL-2.0

package install

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// SmokeTest invokes the installed binary with its version-query flag. It
// confirms the binary is runnable on this host, nothing more. A failure here
// after a clean checksum verification points at a corrupt or
// wrongly-packaged artifact and is fatal for the run.
//
// The trimmed version output is returned on success for display.
func SmokeTest(ctx context.Context, binaryPath string) (string, error) {
	cmd := exec.CommandContext(ctx, binaryPath, "--version")

	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%w: running %s --version: %v (output: %s)",
			ErrSmokeTest, binaryPath, err, strings.TrimSpace(string(out)))
	}

	return strings.TrimSpace(string(out)), nil
}
