package services

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"
	"unicode"

	"github.com/patrickmn/go-cache"

	"photo-gallery/pkg/config"
	"photo-gallery/pkg/logger"
	"photo-gallery/pkg/models"
)

const itemsCacheKey = "items"

// Service runs the gallery operations against one configuration
type Service struct {
	config    *config.Config
	out       io.Writer
	itemCache *cache.Cache
	mu        sync.RWMutex
}

// NewService creates a service that reports progress on stdout
func NewService(cfg *config.Config) *Service {
	return &Service{
		config:    cfg,
		out:       os.Stdout,
		itemCache: cache.New(1*time.Minute, 5*time.Minute),
	}
}

// SetOutput redirects the human-readable progress report
func (s *Service) SetOutput(w io.Writer) {
	s.out = w
}

// Config returns the configuration the service was built with
func (s *Service) Config() *config.Config {
	return s.config
}

// naturalLess compares strings in a way that treats numbers as numbers rather than characters
// For example: "file2" < "file10" when using naturalLess
func naturalLess(s1, s2 string) bool {
	i, j := 0, 0
	for i < len(s1) && j < len(s2) {
		// Skip leading spaces
		for i < len(s1) && unicode.IsSpace(rune(s1[i])) {
			i++
		}
		for j < len(s2) && unicode.IsSpace(rune(s2[j])) {
			j++
		}

		if i >= len(s1) || j >= len(s2) {
			break
		}

		if unicode.IsDigit(rune(s1[i])) && unicode.IsDigit(rune(s2[j])) {
			start1, start2 := i, j
			for i < len(s1) && unicode.IsDigit(rune(s1[i])) {
				i++
			}
			for j < len(s2) && unicode.IsDigit(rune(s2[j])) {
				j++
			}

			n1, _ := strconv.Atoi(s1[start1:i])
			n2, _ := strconv.Atoi(s2[start2:j])
			if n1 != n2 {
				return n1 < n2
			}
		} else {
			if s1[i] != s2[j] {
				return s1[i] < s2[j]
			}
			i++
			j++
		}
	}

	if len(s1) != len(s2) {
		return len(s1) < len(s2)
	}
	// Fall back to plain ordering so distinct names never compare equal
	return s1 < s2
}

// GalleryItems returns the entries of the current manifest, whichever tool
// wrote it. Results are cached briefly.
func (s *Service) GalleryItems() ([]models.GalleryItem, error) {
	s.mu.RLock()
	if cached, found := s.itemCache.Get(itemsCacheKey); found {
		s.mu.RUnlock()
		logger.Debug("Using cached manifest", "path", s.config.ManifestPath)
		return cached.([]models.GalleryItem), nil
	}
	s.mu.RUnlock()

	logger.Debug("Reading manifest", "path", s.config.ManifestPath)

	raw, err := os.ReadFile(s.config.ManifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var items []models.GalleryItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", s.config.ManifestPath, err)
	}
	if items == nil {
		items = []models.GalleryItem{}
	}

	s.mu.Lock()
	s.itemCache.Set(itemsCacheKey, items, cache.DefaultExpiration)
	s.mu.Unlock()

	return items, nil
}

// FlushCache drops the cached manifest so the next read hits the disk
func (s *Service) FlushCache() {
	s.itemCache.Flush()
}
