package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"photo-gallery/pkg/logger"
	"photo-gallery/pkg/models"
)

// LoadPhotosBestEffort reads an existing scan manifest keyed by src.
// Any problem (missing file, bad JSON, wrong shape, entry without src)
// yields an empty map: a damaged manifest is replaced by fresh scan data
// rather than reported.
func LoadPhotosBestEffort(manifest string) map[string]models.Photo {
	existing := make(map[string]models.Photo)

	raw, err := os.ReadFile(manifest)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Debug("Ignoring unreadable manifest", "path", manifest, "error", err)
		}
		return existing
	}

	var photos []models.Photo
	if err := json.Unmarshal(raw, &photos); err != nil {
		logger.Debug("Ignoring malformed manifest", "path", manifest, "error", err)
		return existing
	}

	for _, p := range photos {
		if p.Src == "" {
			logger.Debug("Ignoring manifest with entry lacking src", "path", manifest)
			return make(map[string]models.Photo)
		}
		existing[p.Src] = p
	}
	return existing
}

// MergePhotos keeps the existing entry for every scanned src it already
// knows, so hand-edited captions and any extra keys survive a rescan. Order follows scanned;
// entries whose source disappeared are dropped.
func MergePhotos(scanned []models.Photo, existing map[string]models.Photo) []models.Photo {
	merged := make([]models.Photo, 0, len(scanned))
	for _, photo := range scanned {
		if prev, ok := existing[photo.Src]; ok {
			merged = append(merged, prev)
			continue
		}
		merged = append(merged, photo)
	}
	return merged
}

// EncodeManifest renders entries as a 4-space indented JSON array
func EncodeManifest(entries any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteManifest replaces the manifest file. The data goes to a temporary
// file in the same folder first and is renamed over the target.
func WriteManifest(manifest string, entries any) error {
	data, err := EncodeManifest(entries)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	dir := filepath.Dir(manifest)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create manifest folder: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(manifest)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp manifest: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set manifest permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close manifest: %w", err)
	}
	if err := os.Rename(tmpName, manifest); err != nil {
		return fmt.Errorf("failed to replace manifest: %w", err)
	}
	return nil
}

// UpdateManifest rescans the source folder and rewrites the scan manifest,
// keeping manual caption edits. Nothing is written when no images exist.
func (s *Service) UpdateManifest() ([]models.Photo, error) {
	scanned, err := s.ScanPhotos()
	if err != nil {
		return nil, err
	}
	if len(scanned) == 0 {
		return nil, nil
	}

	merged := MergePhotos(scanned, LoadPhotosBestEffort(s.config.ManifestPath))
	if err := WriteManifest(s.config.ManifestPath, merged); err != nil {
		return nil, err
	}
	s.FlushCache()
	return merged, nil
}
