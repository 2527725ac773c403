package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Config holds all configurable paths and batch settings.
type Config struct {
	// Paths
	DataDir string `json:"data_dir"`
	// Archives are the packed archive files to process, relative to
	// DataDir unless absolute. Empty means every .ipf under DataDir.
	Archives []string `json:"archives"`
	// TextureArchives are searched for texture entries in order; later
	// archives shadow earlier ones like the game's patch layering.
	TextureArchives []string `json:"texture_archives"`
	OutputDir       string   `json:"output_dir"`

	// Render settings
	RenderSize  int `json:"render_size"`
	Supersample int `json:"supersample"`
	WebPQuality int `json:"webp_quality"`
	// TextureCacheSize bounds the number of decoded textures held in
	// memory during a batch run.
	TextureCacheSize int `json:"texture_cache_size"`
	Workers          int `json:"workers"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.DataDir != "" {
		c.DataDir = flags.DataDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Quality > 0 {
		c.WebPQuality = flags.Quality
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.DataDir == "" {
		c.DataDir = detectDataDir()
	}

	// Resolve relative paths against the data dir
	if c.DataDir != "" {
		for i, a := range c.Archives {
			if !filepath.IsAbs(a) {
				c.Archives[i] = filepath.Join(c.DataDir, a)
			}
		}
		for i, a := range c.TextureArchives {
			if !filepath.IsAbs(a) {
				c.TextureArchives[i] = filepath.Join(c.DataDir, a)
			}
		}
		if c.OutputDir == "" {
			c.OutputDir = filepath.Join(c.DataDir, "extracted")
		} else if !filepath.IsAbs(c.OutputDir) {
			c.OutputDir = filepath.Join(c.DataDir, c.OutputDir)
		}
	}

	// Defaults for render settings
	if c.RenderSize <= 0 {
		c.RenderSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.WebPQuality <= 0 {
		c.WebPQuality = 90
	}
	if c.TextureCacheSize <= 0 {
		c.TextureCacheSize = 256
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	DataDir   string
	OutputDir string
	Quality   int
	Workers   int
}

func detectDataDir() string {
	// Try relative to executable
	exe, _ := os.Executable()
	if exe != "" {
		dir := filepath.Dir(exe)
		for _, base := range []string{dir, filepath.Dir(dir)} {
			if hasArchives(filepath.Join(base, "data")) {
				return filepath.Join(base, "data")
			}
		}
	}

	// Try current working directory
	cwd, _ := os.Getwd()
	for _, cand := range []string{filepath.Join(cwd, "data"), cwd} {
		if hasArchives(cand) {
			return cand
		}
	}

	return ""
}

func hasArchives(dir string) bool {
	matches, _ := filepath.Glob(filepath.Join(dir, "*.ipf"))
	return len(matches) > 0
}
