// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the upkeep-installer CLI surface. The root command
// performs the whole install; there are no subcommands and no flags beyond
// the built-in help and version.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"upkeep-installer/internal/config"
	"upkeep-installer/internal/release"
	"upkeep-installer/internal/skills"
)

var (
	// Version is the installer's semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// rootCmd performs the install when invoked without arguments.
	rootCmd = &cobra.Command{
		Use:   "upkeep-installer",
		Short: "Install the cargo-upkeep CLI and its companion skills",
		Long: TitleStyle.Render("upkeep-installer") + SubtitleStyle.Render(" - installer for the cargo-upkeep CLI") + `

Downloads the cargo-upkeep release archive for this platform, verifies its
SHA256 checksum, and atomically installs the binary into the first writable
directory of: $CARGO_HOME/bin, /usr/local/bin, ~/.local/bin. Companion
skills are then installed best-effort; a missing skill never fails the run.

` + SubtitleStyle.Render("Configuration (environment):") + `
  UPKEEP_VERSION      release to install ("latest" or a version tag)
  UPKEEP_INSTALL_DIR  explicit install directory (disables the fallback chain)
  UPKEEP_SKILLS_DIR   skill root (default ~/.config/cargo-upkeep/skills)
  UPKEEP_NO_SKILLS    set to "true" to skip skill installation`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			cfg, err := config.Load()
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("Error: ")+err.Error())
				return &ExitError{Code: 1, Err: err}
			}

			p := installParams{
				stdout: cmd.OutOrStdout(),
				stderr: cmd.ErrOrStderr(),
				logger: newLogger(cmd.ErrOrStderr()),
				cfg:    cfg,
				client: release.NewClient(release.WithUserAgent("upkeep-installer/" + Version)),
				skills: skills.NewInstaller(skills.WithUserAgent("upkeep-installer/" + Version)),
			}

			if err := runInstall(cmd.Context(), p); err != nil {
				fmt.Fprintln(p.stderr, formatFatalError(err))
				return &ExitError{Code: 1, Err: err}
			}

			return nil
		},
	}
)

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command. Called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
		fang.WithErrorHandler(handleExecuteError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// handleExecuteError renders errors surfaced through fang. An ExitError
// means the command already reported the failure on its error stream and
// only the exit code is left to act on, so rendering it again would print
// the same message twice. Everything else (flag and argument errors) gets
// fang's default rendering.
func handleExecuteError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// newLogger builds the run logger. Output is plain styled text on stderr;
// timestamps add nothing to a single-shot tool.
func newLogger(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
	})
}
