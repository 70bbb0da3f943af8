// SPDX-License-Identifier: MPL-2.0

package skills

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadManifest_EmbeddedManifestIsValid(t *testing.T) {
	t.Parallel()

	m, err := LoadManifest()
	if err != nil {
		t.Fatalf("LoadManifest returned error: %v", err)
	}

	want := []string{"upkeep-deps", "upkeep-audit", "upkeep-quality"}
	if len(m.Skills) != len(want) {
		t.Fatalf("manifest holds %d skills, want %d", len(m.Skills), len(want))
	}
	for i, name := range want {
		if m.Skills[i].Name != name {
			t.Errorf("skills[%d].Name = %q, want %q", i, m.Skills[i].Name, name)
		}
		if m.Skills[i].Description == "" {
			t.Errorf("skills[%d] has an empty description", i)
		}
	}
}

func TestLoadManifest_RejectsInvalidDocument(t *testing.T) {
	t.Parallel()

	bad := []byte(`
skills: [
	{name: "Not Valid", description: "uppercase and spaces"},
]
`)

	if _, err := loadManifest(manifestSchema, bad); err == nil {
		t.Error("loadManifest accepted a skill name violating the schema")
	}
}

func TestInstallAll_AllSucceed(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("# Skill\ncontent for " + r.URL.Path + "\n"))
	}))
	defer srv.Close()

	manifest, err := LoadManifest()
	if err != nil {
		t.Fatalf("LoadManifest returned error: %v", err)
	}

	root := t.TempDir()
	res := NewInstaller(WithBaseURL(srv.URL)).InstallAll(context.Background(), manifest, root)

	if len(res.Warnings) != 0 {
		t.Fatalf("got %d warnings, want 0: %v", len(res.Warnings), res.Warnings)
	}
	if len(res.Installed) != 3 {
		t.Fatalf("got %d installed, want 3", len(res.Installed))
	}

	for _, skill := range manifest.Skills {
		path := filepath.Join(root, skill.Name, SkillFileName)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("skill file %s missing: %v", path, err)
		}
	}
}

func TestInstallAll_OneFailureContinues(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/upkeep-audit/"+SkillFileName {
			http.Error(w, "gone", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("# Skill\n"))
	}))
	defer srv.Close()

	manifest, err := LoadManifest()
	if err != nil {
		t.Fatalf("LoadManifest returned error: %v", err)
	}

	root := t.TempDir()
	res := NewInstaller(WithBaseURL(srv.URL)).InstallAll(context.Background(), manifest, root)

	if len(res.Installed) != 2 {
		t.Errorf("got installed %v, want 2 entries", res.Installed)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(res.Warnings))
	}
	if res.Warnings[0].Name != "upkeep-audit" {
		t.Errorf("warning names %q, want %q", res.Warnings[0].Name, "upkeep-audit")
	}
	if res.Warnings[0].Err == nil {
		t.Error("warning carries no error")
	}

	// The two surviving skills landed on disk; the failed one did not.
	for _, name := range []string{"upkeep-deps", "upkeep-quality"} {
		if _, err := os.Stat(filepath.Join(root, name, SkillFileName)); err != nil {
			t.Errorf("skill %s missing after partial failure: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(root, "upkeep-audit", SkillFileName)); err == nil {
		t.Error("failed skill unexpectedly present on disk")
	}
}

func TestInstallAll_ManifestOrderPreserved(t *testing.T) {
	t.Parallel()

	var order []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, r.URL.Path)
		_, _ = w.Write([]byte("# Skill\n"))
	}))
	defer srv.Close()

	manifest, err := LoadManifest()
	if err != nil {
		t.Fatalf("LoadManifest returned error: %v", err)
	}

	NewInstaller(WithBaseURL(srv.URL)).InstallAll(context.Background(), manifest, t.TempDir())

	want := []string{
		"/upkeep-deps/" + SkillFileName,
		"/upkeep-audit/" + SkillFileName,
		"/upkeep-quality/" + SkillFileName,
	}
	if len(order) != len(want) {
		t.Fatalf("got %d requests, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("request[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}
