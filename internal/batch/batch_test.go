package batch

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"hash/crc32"
	"os"
	"path/filepath"
	"testing"

	"tos-asset-extract/internal/ipf"
)

// storedArchive assembles an archive of stored (uncompressed) entries.
func storedArchive(container string, names []string, payloads [][]byte) []byte {
	var out bytes.Buffer
	le := binary.LittleEndian

	offsets := make([]uint32, len(names))
	for i, data := range payloads {
		offsets[i] = uint32(out.Len())
		out.Write(data)
	}

	tableOffset := uint32(out.Len())
	for i, name := range names {
		data := payloads[i]
		binary.Write(&out, le, uint16(len(name)))
		binary.Write(&out, le, crc32.ChecksumIEEE(data))
		binary.Write(&out, le, uint32(len(data)))
		binary.Write(&out, le, uint32(len(data)))
		binary.Write(&out, le, offsets[i])
		binary.Write(&out, le, uint16(len(container)))
		out.WriteString(container)
		out.WriteString(name)
	}

	footerOffset := uint32(out.Len())
	binary.Write(&out, le, uint16(len(names)))
	binary.Write(&out, le, tableOffset)
	binary.Write(&out, le, uint16(0))
	binary.Write(&out, le, footerOffset)
	binary.Write(&out, le, uint32(0x06054B50))
	binary.Write(&out, le, uint32(0))
	binary.Write(&out, le, uint32(1))
	return out.Bytes()
}

// minimalActor is a parseable model with a header and no chunks. It
// decodes to zero meshes, which the processor reports as a failure.
var minimalActor = []byte{'X', 'A', 'C', ' ', 1, 0, 0, 0}

func openFixture(t *testing.T, raw []byte) *ipf.Archive {
	t.Helper()
	p := filepath.Join(t.TempDir(), "bg_hi.ipf")
	if err := os.WriteFile(p, raw, 0644); err != nil {
		t.Fatal(err)
	}
	arc, err := ipf.Open(p)
	if err != nil {
		t.Fatalf("Open fixture: %v", err)
	}
	return arc
}

func TestCollectJobs(t *testing.T) {
	arc := openFixture(t, storedArchive("bg_hi.ipf",
		[]string{
			"bg\\models\\barrack_model.xac",
			"bg\\models\\statue.XAC",
			"bg\\texture\\wall.png",
			"bg\\table\\map.ies",
		},
		[][]byte{minimalActor, minimalActor, {1}, {2}},
	))

	jobs := CollectJobs([]*ipf.Archive{arc})
	if len(jobs) != 2 {
		t.Fatalf("CollectJobs found %d jobs, want 2", len(jobs))
	}
	for _, j := range jobs {
		if j.Archive != arc {
			t.Error("job not bound to its archive")
		}
	}
	if jobs[0].Entry.Path != "bg/models/barrack_model.xac" {
		t.Errorf("jobs[0] = %q", jobs[0].Entry.Path)
	}
}

func TestRunReportsDecodeFailures(t *testing.T) {
	arc := openFixture(t, storedArchive("bg_hi.ipf",
		[]string{
			"bg\\models\\empty.xac",
			"bg\\models\\garbage.xac",
		},
		[][]byte{minimalActor, {0xDE, 0xAD, 0xBE, 0xEF}},
	))

	cfg := Config{
		OutputDir:   t.TempDir(),
		RenderSize:  16,
		WebPQuality: 90,
		Supersample: 1,
		Workers:     2,
	}
	results := Run(cfg, CollectJobs([]*ipf.Archive{arc}))
	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
	for _, r := range results {
		if r.Success {
			t.Errorf("%s: unexpected success", r.Entry)
		}
		if r.Error == "" {
			t.Errorf("%s: failure with no error text", r.Entry)
		}
		if r.Archive != "bg_hi.ipf" {
			t.Errorf("%s: archive = %q", r.Entry, r.Archive)
		}
	}
	// The header-only model extracted fine, so its content hash is set
	// even though decoding produced nothing to export.
	if results[0].Hash == 0 {
		t.Error("extracted entry has no content hash")
	}
}

func TestRunDefaultsWorkers(t *testing.T) {
	// A zero worker count must not leave the job channel without
	// consumers; Run falls back to NumCPU.
	arc := openFixture(t, storedArchive("bg_hi.ipf",
		[]string{"bg\\models\\empty.xac"},
		[][]byte{minimalActor},
	))

	cfg := Config{
		OutputDir:   t.TempDir(),
		RenderSize:  16,
		WebPQuality: 90,
		Supersample: 1,
	}
	results := Run(cfg, CollectJobs([]*ipf.Archive{arc}))
	if len(results) != 1 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].Error == "" {
		t.Error("header-only model reported no error")
	}
}

func TestWriteManifestFiltersFailures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	results := []Result{
		{
			Archive: "bg_hi.ipf", Entry: "bg/models/a.xac",
			Meshes: 2, Submeshes: 5, Hash: 0xDEADBEEF,
			ModelFile: "bg/models/a.glb", Image: "bg/models/a.webp",
			Success: true,
		},
		{Archive: "bg_hi.ipf", Entry: "bg/models/b.xac", Error: "truncated"},
	}
	if err := WriteManifest(path, results); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entries []ManifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("manifest is not valid JSON: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("manifest has %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.Entry != "bg/models/a.xac" || e.Meshes != 2 || e.Submeshes != 5 {
		t.Errorf("entry = %+v", e)
	}
	if e.Hash != "00000000deadbeef" {
		t.Errorf("hash = %q", e.Hash)
	}
}
