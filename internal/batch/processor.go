package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/cespare/xxhash/v2"

	"tos-asset-extract/internal/gltfexport"
	"tos-asset-extract/internal/ipf"
	"tos-asset-extract/internal/preview"
	"tos-asset-extract/internal/texture"
	"tos-asset-extract/internal/xac"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir   string
	TexResolver texture.Resolver
	RenderSize  int
	WebPQuality int
	Supersample int
	Workers     int
}

// Job is one model entry to process.
type Job struct {
	Archive *ipf.Archive
	Entry   *ipf.Entry
}

// Result holds the outcome of processing one entry.
type Result struct {
	Archive    string
	Entry      string
	Meshes     int
	Submeshes  int
	Hash       uint64
	ModelFile  string
	Image      string
	Success    bool
	Error      string
}

// CollectJobs gathers every model entry from the given archives.
func CollectJobs(archives []*ipf.Archive) []Job {
	var jobs []Job
	for _, arc := range archives {
		entries := arc.Entries()
		for i := range entries {
			if strings.EqualFold(filepath.Ext(entries[i].Path), ".xac") {
				jobs = append(jobs, Job{Archive: arc, Entry: &entries[i]})
			}
		}
	}
	return jobs
}

// Run processes all jobs using a worker pool.
func Run(cfg Config, jobs []Job) []Result {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f models/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	jobChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx] = processJob(cfg, jobs[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	return results
}

func processJob(cfg Config, job Job) Result {
	res := Result{
		Archive: filepath.Base(job.Archive.Path()),
		Entry:   job.Entry.Path,
	}

	data, err := job.Archive.ExtractEntry(job.Entry)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Hash = xxhash.Sum64(data)

	meshes, err := xac.Decode(data)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	if len(meshes) == 0 {
		res.Error = "no meshes in model"
		return res
	}
	res.Meshes = len(meshes)
	for i := range meshes {
		res.Submeshes += meshes[i].SubmeshCount()
	}

	stem := strings.TrimSuffix(job.Entry.Path, filepath.Ext(job.Entry.Path))
	outBase := filepath.Join(cfg.OutputDir, filepath.FromSlash(stem))
	if err := os.MkdirAll(filepath.Dir(outBase), 0755); err != nil {
		res.Error = err.Error()
		return res
	}

	glbPath := outBase + ".glb"
	if err := gltfexport.Export(meshes, glbPath); err != nil {
		res.Error = err.Error()
		return res
	}
	res.ModelFile = stem + ".glb"

	img := preview.Render(meshes, cfg.TexResolver, cfg.RenderSize, cfg.Supersample)

	webpPath := outBase + ".webp"
	f, err := os.Create(webpPath)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		res.Error = fmt.Sprintf("WebP encode: %v", err)
		return res
	}
	res.Image = stem + ".webp"

	res.Success = true
	return res
}
