// SPDX-License-Identifier: MPL-2.0

// upkeep-installer installs the cargo-upkeep binary and its companion
// skills from GitHub Releases.
package main

import (
	"upkeep-installer/cmd/upkeep-installer/cmd"
)

func main() {
	cmd.Execute()
}
