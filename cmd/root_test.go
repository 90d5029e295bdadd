package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"photo-gallery/pkg/config"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"update", "optimize", "list", "preview", "publish"} {
		if c, _, err := root.Find([]string{name}); err != nil || c.Name() != name {
			t.Errorf("subcommand %q not registered: %v", name, err)
		}
	}
}

func TestRunUpdateReportsPhotos(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default()
	cfg.SourceDir = filepath.Join(root, "photos")
	cfg.ManifestPath = filepath.Join(root, "photos.json")
	if err := os.MkdirAll(cfg.SourceDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfg.SourceDir, "berlin-sunset_2023.jpg"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	RunUpdate(cfg, &out)

	report := out.String()
	for _, s := range []string{"Found 1 photos", "Caption: Berlin Sunset 2023", "Updated " + cfg.ManifestPath} {
		if !strings.Contains(report, s) {
			t.Errorf("report missing %q:\n%s", s, report)
		}
	}
	if _, err := os.Stat(cfg.ManifestPath); err != nil {
		t.Errorf("manifest not written: %v", err)
	}
}

func TestRunUpdateWithEmptyFolder(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default()
	cfg.SourceDir = filepath.Join(root, "photos")
	cfg.ManifestPath = filepath.Join(root, "photos.json")

	var out bytes.Buffer
	RunUpdate(cfg, &out)

	if !strings.Contains(out.String(), "No images found") {
		t.Errorf("report = %q", out.String())
	}
	if _, err := os.Stat(cfg.SourceDir); err != nil {
		t.Errorf("source folder not created: %v", err)
	}
}
