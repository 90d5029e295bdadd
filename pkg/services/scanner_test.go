package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCaption(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"berlin-sunset_2023.jpg", "Berlin Sunset 2023"},
		{"IMG_0001.JPG", "Img 0001"},
		{"already Titled.png", "Already Titled"},
		{"double--dash.webp", "Double  Dash"},
		{"ünïcode-straße.gif", "Ünïcode Straße"},
		{"no_extension", "No Extension"},
		{"o'neil-beach.jpeg", "O'neil Beach"},
		{"2023-trip.jpg", "2023 Trip"},
	}
	for _, tt := range tests {
		if got := Caption(tt.filename); got != tt.want {
			t.Errorf("Caption(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestScanFolderCreatesMissingFolder(t *testing.T) {
	svc, _ := newTestService(t)

	files, err := svc.ScanFolder()
	if err != nil {
		t.Fatalf("ScanFolder: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected no files, got %v", files)
	}
	info, err := os.Stat(svc.Config().SourceDir)
	if err != nil || !info.IsDir() {
		t.Fatalf("source folder was not created: %v", err)
	}
}

func TestScanFolderFiltersAndSortsNewestFirst(t *testing.T) {
	svc, _ := newTestService(t)
	dir := svc.Config().SourceDir
	if err := os.MkdirAll(filepath.Join(dir, "nested.jpg"), 0755); err != nil {
		t.Fatal(err)
	}

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	writeFile(t, filepath.Join(dir, "old.jpg"), "x", base)
	writeFile(t, filepath.Join(dir, "newest.PNG"), "x", base.Add(2*time.Hour))
	writeFile(t, filepath.Join(dir, "middle.webp"), "x", base.Add(time.Hour))
	writeFile(t, filepath.Join(dir, "notes.txt"), "x", base.Add(3*time.Hour))
	writeFile(t, filepath.Join(dir, "img10.gif"), "x", base.Add(-time.Hour))
	writeFile(t, filepath.Join(dir, "img2.gif"), "x", base.Add(-time.Hour))

	files, err := svc.ScanFolder()
	if err != nil {
		t.Fatalf("ScanFolder: %v", err)
	}

	want := []string{"newest.PNG", "middle.webp", "old.jpg", "img2.gif", "img10.gif"}
	if len(files) != len(want) {
		t.Fatalf("got %d files, want %d: %+v", len(files), len(want), files)
	}
	for i, name := range want {
		if files[i].Name != name {
			t.Errorf("files[%d] = %q, want %q", i, files[i].Name, name)
		}
	}
}

func TestScanPhotos(t *testing.T) {
	svc, _ := newTestService(t)
	svc.Config().SourceDir = "photos"

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	if err := os.Mkdir("photos", 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join("photos", "berlin-sunset_2023.jpg"), "x", time.Time{})

	photos, err := svc.ScanPhotos()
	if err != nil {
		t.Fatalf("ScanPhotos: %v", err)
	}
	if len(photos) != 1 {
		t.Fatalf("got %d photos, want 1", len(photos))
	}
	if photos[0].Src != "photos/berlin-sunset_2023.jpg" {
		t.Errorf("Src = %q", photos[0].Src)
	}
	if photos[0].Alt != "Berlin Sunset 2023" {
		t.Errorf("Alt = %q", photos[0].Alt)
	}
}

func TestScanFolderFollowsSymlinks(t *testing.T) {
	svc, root := newTestService(t)
	dir := svc.Config().SourceDir
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}

	mtime := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	target := filepath.Join(root, "library", "holiday.jpg")
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, target, "image bytes", mtime)

	if err := os.Symlink(target, filepath.Join(dir, "linked.jpg")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	if err := os.Symlink(filepath.Join(root, "missing.jpg"), filepath.Join(dir, "dangling.jpg")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Dir(target), filepath.Join(dir, "folder.jpg")); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, ".jpg"), "x", mtime)

	files, err := svc.ScanFolder()
	if err != nil {
		t.Fatalf("ScanFolder: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("got %+v, want only linked.jpg", files)
	}
	if files[0].Name != "linked.jpg" || files[0].Size != int64(len("image bytes")) || !files[0].ModTime.Equal(mtime) {
		t.Errorf("got %+v", files[0])
	}
}
