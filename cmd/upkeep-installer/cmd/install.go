// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"upkeep-installer/internal/checksum"
	"upkeep-installer/internal/config"
	"upkeep-installer/internal/install"
	"upkeep-installer/internal/installdir"
	"upkeep-installer/internal/issue"
	"upkeep-installer/internal/platform"
	"upkeep-installer/internal/release"
	"upkeep-installer/internal/scratch"
	"upkeep-installer/internal/skills"
)

// installParams bundles the dependencies of runInstall so the pipeline can
// be tested without a real Cobra command or live GitHub endpoints.
type installParams struct {
	stdout io.Writer
	stderr io.Writer
	logger *log.Logger
	cfg    *config.Config
	client *release.Client
	skills *skills.Installer
}

// runInstall is the whole installation pipeline, executed strictly in
// order with short-circuit failure:
//
//  1. Resolve the platform triple.
//  2. Resolve the install directory (override or fallback chain).
//  3. Download the release archive and its checksum manifest into a fresh
//     scratch area.
//  4. Verify the archive digest; nothing is unpacked before this passes.
//  5. Extract in scratch, then atomically place the binary and smoke-test it.
//  6. Best-effort: install companion skills; failures are warnings only.
//
// The scratch area is removed on every return path.
func runInstall(ctx context.Context, p installParams) error {
	triple, err := platform.Host()
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("detect platform").
			WithSuggestion("cargo-upkeep publishes releases for x86_64/aarch64 Linux and macOS only").
			Wrap(err).
			BuildError()
	}

	tag, err := release.NormalizeTag(p.cfg.Version)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("select release version").
			WithResource(p.cfg.Version).
			WithSuggestion("Set UPKEEP_VERSION to \"latest\" or a tag like 0.4.2").
			Wrap(err).
			BuildError()
	}

	targetDir, err := installdir.Resolve(p.cfg.InstallDir)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("resolve install directory").
			WithSuggestion("Set UPKEEP_INSTALL_DIR to a writable directory").
			WithSuggestion("Or re-run with write access to ~/.cargo/bin").
			Wrap(err).
			BuildError()
	}

	scratchDir, err := scratch.New()
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("create scratch directory").
			Wrap(err).
			BuildError()
	}
	defer scratchDir.Remove()

	archiveName := release.ArchiveName(triple)
	p.logger.Info("downloading release", "version", tag, "artifact", archiveName)

	artifacts, err := p.client.FetchArtifacts(ctx, tag, archiveName, scratchDir.Path())
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("download release artifacts").
			WithResource(archiveName).
			WithSuggestion("Check your network connection and re-run the installer").
			WithSuggestion("Verify the version exists on the cargo-upkeep releases page").
			Wrap(err).
			BuildError()
	}

	expected, err := checksum.ParseDigestFile(artifacts.ChecksumPath)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("parse checksum manifest").
			WithResource(artifacts.ArchiveName + ".sha256").
			Wrap(err).
			BuildError()
	}

	if err := checksum.VerifyFile(artifacts.ArchivePath, expected); err != nil {
		return issue.NewErrorContext().
			WithOperation("verify archive checksum").
			WithResource(archiveName).
			WithSuggestion("The download may be corrupted; re-run the installer").
			Wrap(err).
			BuildError()
	}
	p.logger.Info("checksum verified", "sha256", expected)

	installed, err := install.Install(artifacts.ArchivePath, scratchDir.Join("extracted"), targetDir, release.BinaryName)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("install binary").
			WithResource(targetDir).
			Wrap(err).
			BuildError()
	}

	versionOut, err := install.SmokeTest(ctx, installed)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("run post-install verification").
			WithResource(installed).
			WithSuggestion("The artifact may be packaged for the wrong platform; re-run the installer").
			Wrap(err).
			BuildError()
	}

	fmt.Fprintln(p.stdout, SuccessStyle.Render("✓ ")+fmt.Sprintf("Installed %s to %s", versionOut, installed))

	if p.cfg.NoSkills {
		fmt.Fprintln(p.stdout, SubtitleStyle.Render("Skipping companion skills (UPKEEP_NO_SKILLS set)"))
		return nil
	}

	installSkills(ctx, p)
	return nil
}

// installSkills runs the best-effort companion phase. Nothing in here may
// fail the run; every outcome is reported and swallowed.
func installSkills(ctx context.Context, p installParams) {
	manifest, err := skills.LoadManifest()
	if err != nil {
		p.logger.Warn("skipping skills: manifest unavailable", "error", err)
		return
	}

	fmt.Fprintf(p.stdout, "\nInstalling %d companion skills to %s\n", len(manifest.Skills), p.cfg.SkillsDir)

	res := p.skills.InstallAll(ctx, manifest, p.cfg.SkillsDir)

	for _, w := range res.Warnings {
		p.logger.Warn("skill install failed", "skill", w.Name, "error", w.Err)
	}

	// Summarize every manifest entry, so the intended set is visible even
	// when parts of it did not land.
	installedSet := make(map[string]bool, len(res.Installed))
	for _, name := range res.Installed {
		installedSet[name] = true
	}
	for _, skill := range manifest.Skills {
		if installedSet[skill.Name] {
			fmt.Fprintln(p.stdout, SuccessStyle.Render("  ✓ ")+skill.Name+SubtitleStyle.Render(" - "+skill.Description))
		} else {
			fmt.Fprintln(p.stdout, WarningStyle.Render("  ✗ ")+skill.Name+SubtitleStyle.Render(" (not installed)"))
		}
	}
}

// formatFatalError renders a fatal pipeline error with its remediation
// suggestions for the error stream.
func formatFatalError(err error) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ErrorStyle.Render("Error: ") + ae.Format(false)
	}
	return ErrorStyle.Render("Error: ") + err.Error()
}
