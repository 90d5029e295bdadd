package services

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"photo-gallery/pkg/logger"
	"photo-gallery/pkg/models"
)

// SourceFile is an image found directly inside the source folder
type SourceFile struct {
	Name    string
	ModTime time.Time
	Size    int64
}

var captionReplacer = strings.NewReplacer("-", " ", "_", " ")

// Caption converts a filename to a readable caption.
// 'berlin-sunset_2023.jpg' -> 'Berlin Sunset 2023'
func Caption(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	name = captionReplacer.Replace(name)

	var b strings.Builder
	b.Grow(len(name))
	wordStart := true
	for _, r := range name {
		switch {
		case unicode.IsSpace(r):
			wordStart = true
			b.WriteRune(r)
		case wordStart:
			b.WriteRune(unicode.ToUpper(r))
			wordStart = false
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// listSources returns the supported images directly inside dir, in no
// particular order. Subdirectories are not descended into.
func (s *Service) listSources(dir string) ([]SourceFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []SourceFile
	for _, entry := range entries {
		if entry.IsDir() || !s.config.IsSupported(entry.Name()) {
			continue
		}
		// Stat follows symlinks so linked images count like regular ones
		info, err := os.Stat(filepath.Join(dir, entry.Name()))
		if err != nil {
			// Removed between listing and stat, or a dangling link
			logger.Debug("Skipping unreadable file", "file", entry.Name(), "error", err)
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		files = append(files, SourceFile{
			Name:    entry.Name(),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}
	return files, nil
}

// ScanFolder lists the source images newest first. A missing source folder
// is created and yields an empty result.
func (s *Service) ScanFolder() ([]SourceFile, error) {
	dir := s.config.SourceDir
	files, err := s.listSources(dir)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("Creating source folder", "dir", dir)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create source folder: %w", err)
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	sort.SliceStable(files, func(i, j int) bool {
		if !files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].ModTime.After(files[j].ModTime)
		}
		return naturalLess(files[i].Name, files[j].Name)
	})
	return files, nil
}

// ScanPhotos builds fresh manifest entries for every source image
func (s *Service) ScanPhotos() ([]models.Photo, error) {
	files, err := s.ScanFolder()
	if err != nil {
		return nil, err
	}

	photos := make([]models.Photo, 0, len(files))
	for _, f := range files {
		photos = append(photos, models.Photo{
			Src: manifestPath(s.config.SourceDir, f.Name),
			Alt: Caption(f.Name),
		})
	}
	return photos, nil
}

// manifestPath joins a configured folder and a filename the way the
// manifest stores it, with forward slashes
func manifestPath(dir, name string) string {
	return path.Join(filepath.ToSlash(dir), name)
}
