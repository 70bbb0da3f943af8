// SPDX-License-Identifier: MPL-2.0

package skills

import (
	"upkeep-installer/internal/cueutil"
)

// parseManifest validates a manifest document against the skill schema and
// decodes it.
func parseManifest(schema, data []byte) (*Manifest, error) {
	return cueutil.ParseAndDecode[Manifest](schema, data, "#Manifest", "manifest.cue")
}
