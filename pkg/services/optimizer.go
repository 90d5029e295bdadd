package services

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"photo-gallery/pkg/logger"
	"photo-gallery/pkg/models"
)

// OptimizeResult summarizes one derivative generation run
type OptimizeResult struct {
	Entries    []models.Derivative
	Total      int
	Failed     []string
	Collisions map[string][]string // output name -> source names sharing it

	OriginalBytes  int64
	ThumbBytes     int64
	OptimizedBytes int64
}

// OutputName converts any image filename to its derivative name
func OutputName(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename)) + ".jpg"
}

// ensureFolders creates the derivative output folders if they don't exist
func (s *Service) ensureFolders() error {
	for _, dir := range []string{s.config.ThumbDir, s.config.OptimizedDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output folder %s: %w", dir, err)
		}
	}
	return nil
}

// findCollisions groups sources whose derivatives would share a filename
func findCollisions(files []SourceFile) map[string][]string {
	byOutput := make(map[string][]string)
	for _, f := range files {
		name := OutputName(f.Name)
		byOutput[name] = append(byOutput[name], f.Name)
	}
	collisions := make(map[string][]string)
	for name, sources := range byOutput {
		if len(sources) > 1 {
			collisions[name] = sources
		}
	}
	return collisions
}

// OptimizePhotos writes a thumbnail and an optimized JPEG for every source
// image and replaces the manifest with entries for those that succeeded.
// A failing image is reported and left out; it never stops the batch.
func (s *Service) OptimizePhotos() (*OptimizeResult, error) {
	if err := s.ensureFolders(); err != nil {
		return nil, err
	}

	files, err := s.listSources(s.config.SourceDir)
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(s.out, "No '%s/' folder found\n", s.config.SourceDir)
		return &OptimizeResult{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.config.SourceDir, err)
	}
	if len(files) == 0 {
		fmt.Fprintf(s.out, "No images found in '%s/'\n", s.config.SourceDir)
		return &OptimizeResult{}, nil
	}

	sort.Slice(files, func(i, j int) bool {
		return naturalLess(files[i].Name, files[j].Name)
	})

	result := &OptimizeResult{
		Total:      len(files),
		Collisions: findCollisions(files),
	}
	for name, sources := range result.Collisions {
		logger.Warn("Sources share a derivative name, the last one processed wins",
			"output", name, "sources", strings.Join(sources, ", "))
	}

	fmt.Fprintf(s.out, "Processing %d photos...\n\n", len(files))

	// output name -> index in result.Entries
	entryIndex := make(map[string]int)

	for i, file := range files {
		inputPath := filepath.Join(s.config.SourceDir, file.Name)
		outputName := OutputName(file.Name)
		thumbPath := filepath.Join(s.config.ThumbDir, outputName)
		optPath := filepath.Join(s.config.OptimizedDir, outputName)

		fmt.Fprintf(s.out, "[%d/%d] %s\n", i+1, len(files), file.Name)

		thumbErr := s.OptimizeImage(inputPath, thumbPath, s.config.ThumbSize)
		if thumbErr != nil {
			logger.Warn("Error processing image", "file", inputPath, "size", "thumbnail", "error", thumbErr)
		}
		optErr := s.OptimizeImage(inputPath, optPath, s.config.OptimizedSize)
		if optErr != nil {
			logger.Warn("Error processing image", "file", inputPath, "size", "optimized", "error", optErr)
		}
		if thumbErr != nil || optErr != nil {
			result.Failed = append(result.Failed, file.Name)
			continue
		}

		thumbSize := fileSize(thumbPath)
		optSize := fileSize(optPath)
		fmt.Fprintf(s.out, "    Original: %s -> Thumb: %s, Optimized: %s\n",
			humanize.Bytes(uint64(file.Size)), humanize.Bytes(uint64(thumbSize)), humanize.Bytes(uint64(optSize)))

		entry := models.Derivative{
			Src:   manifestPath(s.config.OptimizedDir, outputName),
			Thumb: manifestPath(s.config.ThumbDir, outputName),
		}
		if idx, ok := entryIndex[outputName]; ok {
			result.Entries[idx] = entry
			continue
		}
		entryIndex[outputName] = len(result.Entries)
		result.Entries = append(result.Entries, entry)
	}

	if result.Entries == nil {
		result.Entries = []models.Derivative{}
	}
	if err := WriteManifest(s.config.ManifestPath, result.Entries); err != nil {
		return result, err
	}
	s.FlushCache()

	fmt.Fprintf(s.out, "\nDone! Processed %d photos\n", len(result.Entries))
	fmt.Fprintf(s.out, "Updated %s\n", s.config.ManifestPath)

	s.measureTotals(files, result)
	s.printSavings(result)

	return result, nil
}

// measureTotals sums sizes from disk after the run so the report reflects
// what was actually written
func (s *Service) measureTotals(files []SourceFile, result *OptimizeResult) {
	seen := make(map[string]bool)
	for _, f := range files {
		result.OriginalBytes += fileSize(filepath.Join(s.config.SourceDir, f.Name))

		name := OutputName(f.Name)
		if seen[name] {
			continue
		}
		seen[name] = true
		result.ThumbBytes += fileSize(filepath.Join(s.config.ThumbDir, name))
		result.OptimizedBytes += fileSize(filepath.Join(s.config.OptimizedDir, name))
	}
}

func (s *Service) printSavings(result *OptimizeResult) {
	fmt.Fprintf(s.out, "\nGrid will now load %s instead of %s\n",
		humanize.Bytes(uint64(result.ThumbBytes)), humanize.Bytes(uint64(result.OriginalBytes)))
	if result.OriginalBytes > 0 {
		saved := float64(result.OriginalBytes-result.ThumbBytes) / float64(result.OriginalBytes) * 100
		fmt.Fprintf(s.out, "   That's %.0f%% smaller!\n", saved)
	}
}

// fileSize returns the size of path, or 0 if it cannot be read
func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
