package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tos-asset-extract/internal/batch"
	"tos-asset-extract/internal/config"
	"tos-asset-extract/internal/ipf"
	"tos-asset-extract/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	testN := flag.Int("test", 0, "Process only first N entries for testing")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	dataDir := flag.String("data", "", "Path to archive directory (default: auto-detect)")
	outputDir := flag.String("output", "", "Output directory (default: <data>/extracted)")
	quality := flag.Int("quality", 0, "WebP quality 1-100 (default: 90)")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		DataDir:   *dataDir,
		OutputDir: *outputDir,
		Quality:   *quality,
		Workers:   *workers,
	})

	if cfg.DataDir == "" {
		fmt.Fprintln(os.Stderr, "Error: cannot find archive directory. Use -data flag or config.json.")
		os.Exit(1)
	}

	archivePaths := cfg.Archives
	if len(archivePaths) == 0 {
		archivePaths, _ = filepath.Glob(filepath.Join(cfg.DataDir, "*.ipf"))
	}
	if len(archivePaths) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no archives to process.")
		os.Exit(1)
	}

	var archives []*ipf.Archive
	for _, p := range archivePaths {
		arc, err := ipf.Open(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", p, err)
			continue
		}
		archives = append(archives, arc)
	}
	if len(archives) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no readable archives.")
		os.Exit(1)
	}

	// Texture archives default to the model archives themselves
	texArchives := archives
	if len(cfg.TextureArchives) > 0 {
		texArchives = nil
		for _, p := range cfg.TextureArchives {
			arc, err := ipf.Open(p)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: texture archive %s: %v\n", p, err)
				continue
			}
			texArchives = append(texArchives, arc)
		}
	}

	texIndex := texture.BuildIndex(texArchives...)
	texCache, err := texture.NewCache(texIndex, cfg.TextureCacheSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: texture cache: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Textures: %d indexed\n", texIndex.Len())

	jobs := batch.CollectJobs(archives)

	// Limit for testing
	if *testN > 0 && *testN < len(jobs) {
		jobs = jobs[:*testN]
	}
	if len(jobs) == 0 {
		fmt.Println("No model entries to process.")
		os.Exit(0)
	}

	mode := ""
	if *testN > 0 {
		mode = fmt.Sprintf(" (TEST: first %d)", *testN)
	}

	fmt.Printf("IPF/XAC extractor -> GLB + WebP%s\n", mode)
	fmt.Printf("Archives: %d, Models: %d, Workers: %d\n", len(archives), len(jobs), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	batchCfg := batch.Config{
		OutputDir:   cfg.OutputDir,
		TexResolver: texCache,
		RenderSize:  cfg.RenderSize,
		WebPQuality: cfg.WebPQuality,
		Supersample: cfg.Supersample,
		Workers:     cfg.Workers,
	}

	results := batch.Run(batchCfg, jobs)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Processed: %d/%d\n", success, len(jobs))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(errors) < limit {
			limit = len(errors)
		}
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.Entry, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
