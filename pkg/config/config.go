package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sigs.k8s.io/yaml"
)

// Default locations and encoder settings used when no config file is given
const (
	DefaultSourceDir     = "photos"
	DefaultThumbDir      = "photos/thumbnails"
	DefaultOptimizedDir  = "photos/optimized"
	DefaultManifestPath  = "photos.json"
	DefaultThumbSize     = 600
	DefaultOptimizedSize = 2000
	DefaultQuality       = 92
	DefaultPort          = "8080"
)

// DefaultExtensions is the set of source image extensions the tools pick up
var DefaultExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}

// Config holds all configuration for the application
type Config struct {
	SourceDir     string   `json:"sourceDir"`
	ThumbDir      string   `json:"thumbDir"`
	OptimizedDir  string   `json:"optimizedDir"`
	ManifestPath  string   `json:"manifest"`
	ThumbSize     int      `json:"thumbSize"`
	OptimizedSize int      `json:"optimizedSize"`
	Quality       int      `json:"quality"`
	Extensions    []string `json:"extensions"`

	BucketName   string `json:"bucket"`
	BucketPrefix string `json:"bucketPrefix"`
	Port         string `json:"port"`
}

// ErrBucketNameNotSet is returned when publishing without a bucket name
var ErrBucketNameNotSet = errors.New("BUCKET_NAME environment variable not set")

// ErrInvalidSize is returned when a target pixel size is not positive
var ErrInvalidSize = errors.New("target sizes must be positive")

// ErrInvalidQuality is returned when the JPEG quality is outside 1..100
var ErrInvalidQuality = errors.New("quality must be between 1 and 100")

// ErrNoExtensions is returned when the supported extension set is empty
var ErrNoExtensions = errors.New("at least one image extension is required")

// Default returns the built-in configuration
func Default() *Config {
	exts := make([]string, len(DefaultExtensions))
	copy(exts, DefaultExtensions)
	return &Config{
		SourceDir:     DefaultSourceDir,
		ThumbDir:      DefaultThumbDir,
		OptimizedDir:  DefaultOptimizedDir,
		ManifestPath:  DefaultManifestPath,
		ThumbSize:     DefaultThumbSize,
		OptimizedSize: DefaultOptimizedSize,
		Quality:       DefaultQuality,
		Extensions:    exts,
		Port:          DefaultPort,
	}
}

// Load builds the configuration from the defaults, an optional YAML file and
// the BUCKET_NAME and PORT environment variables, in that order.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.UnmarshalStrict(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if bucketName := os.Getenv("BUCKET_NAME"); bucketName != "" {
		cfg.BucketName = bucketName
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}

	cfg.Extensions = normalizeExtensions(cfg.Extensions)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the numeric settings and the extension set
func (c *Config) Validate() error {
	if c.ThumbSize <= 0 || c.OptimizedSize <= 0 {
		return ErrInvalidSize
	}
	if c.Quality < 1 || c.Quality > 100 {
		return ErrInvalidQuality
	}
	if len(c.Extensions) == 0 {
		return ErrNoExtensions
	}
	return nil
}

// IsSupported reports whether filename carries one of the configured
// extensions, ignoring case. A bare extension such as ".jpg" has no stem
// and is not an image.
func (c *Config) IsSupported(filename string) bool {
	base := filepath.Base(filename)
	ext := strings.ToLower(filepath.Ext(base))
	if len(ext) == len(base) {
		return false
	}
	for _, supported := range c.Extensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// ServerAddress returns the server address with port
func (c *Config) ServerAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// PrintServerStartMessage prints a message when the preview server starts
func (c *Config) PrintServerStartMessage() {
	fmt.Printf("Starting preview server at port %s\n", c.Port)
	fmt.Printf("Gallery URL: http://localhost:%s/\n", c.Port)
	fmt.Printf("Feed URL: http://localhost:%s/photos.json\n", c.Port)
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	seen := make(map[string]bool)
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if seen[ext] {
			continue
		}
		seen[ext] = true
		out = append(out, ext)
	}
	return out
}
