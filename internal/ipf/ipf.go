// Package ipf reads the IPF archive container used by the game client.
// An archive ends in a 24-byte footer that points back at the directory
// table; each table entry names one file, its location, and its
// compressed/uncompressed sizes. Payloads whose two sizes differ are
// keystream-obfuscated raw-deflate streams; payloads with equal sizes
// are stored as-is (the client packs already-compressed media that way).
package ipf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/compress/flate"

	"tos-asset-extract/internal/binreader"
)

const (
	footerSize = 24
	magic      = 0x06054B50
)

var (
	// ErrNotFound means the archive path does not exist.
	ErrNotFound = errors.New("ipf: archive not found")
	// ErrInvalidDirectory means the footer or directory table failed
	// structural validation.
	ErrInvalidDirectory = errors.New("ipf: invalid directory table")
	// ErrEntryNotFound means no entry matched the requested name.
	ErrEntryNotFound = errors.New("ipf: entry not found")
	// ErrDecompressionFailed means a compressed payload did not inflate
	// to its recorded uncompressed size.
	ErrDecompressionFailed = errors.New("ipf: decompression failed")
)

// Footer is the fixed trailer at the end of every archive.
type Footer struct {
	EntryCount   uint16
	TableOffset  uint32
	FooterOffset uint32
	BaseRevision uint32
	Revision     uint32
}

// Entry is one row of the directory table.
type Entry struct {
	// Path is the entry's directory path inside the archive, with
	// backslashes normalized to forward slashes.
	Path             string
	Container        string // originating container name, e.g. "bg_hi.ipf"
	CRC32            uint32
	CompressedSize   uint32
	UncompressedSize uint32
	Offset           uint32
}

// Compressed reports whether the payload is a deflate stream. Stored
// entries record identical sizes.
func (e *Entry) Compressed() bool {
	return e.CompressedSize != e.UncompressedSize
}

// Archive is an opened container. The directory table is read-only
// after Open, so one Archive may serve concurrent Extract calls.
type Archive struct {
	path    string
	data    []byte
	footer  Footer
	entries []Entry
}

// Open reads and validates an archive's directory table.
func Open(p string) (*Archive, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		return nil, fmt.Errorf("ipf: read %s: %w", p, err)
	}

	a := &Archive{path: p, data: data}
	if err := a.readFooter(); err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	if err := a.readDirectory(); err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return a, nil
}

// Path returns the filesystem path the archive was opened from.
func (a *Archive) Path() string { return a.path }

// Footer returns the parsed trailer.
func (a *Archive) Footer() Footer { return a.footer }

// Entries returns the directory table in on-disk order. The returned
// slice is shared; callers must not modify it.
func (a *Archive) Entries() []Entry { return a.entries }

func (a *Archive) readFooter() error {
	if len(a.data) < footerSize {
		return fmt.Errorf("%w: file shorter than footer (%d bytes)", ErrInvalidDirectory, len(a.data))
	}
	// The slice is exactly footerSize bytes and the reads below consume
	// exactly that, so none of them can fail.
	r := binreader.New(a.data[len(a.data)-footerSize:])

	var f Footer
	f.EntryCount, _ = r.U16()
	f.TableOffset, _ = r.U32()
	_, _ = r.U16() // padding
	f.FooterOffset, _ = r.U32()
	m, _ := r.U32()
	f.BaseRevision, _ = r.U32()
	f.Revision, _ = r.U32()

	if m != magic {
		return fmt.Errorf("%w: bad magic %08x", ErrInvalidDirectory, m)
	}
	a.footer = f
	return nil
}

func (a *Archive) readDirectory() error {
	r := binreader.New(a.data)
	if err := r.Seek(int(a.footer.TableOffset)); err != nil {
		return fmt.Errorf("%w: table offset %d: %v", ErrInvalidDirectory, a.footer.TableOffset, err)
	}

	seen := make(map[string]struct{}, a.footer.EntryCount)
	entries := make([]Entry, 0, a.footer.EntryCount)
	for i := 0; i < int(a.footer.EntryCount); i++ {
		e, err := readEntry(r)
		if err != nil {
			return fmt.Errorf("%w: entry %d: %v", ErrInvalidDirectory, i, err)
		}
		if int64(e.Offset)+int64(e.CompressedSize) > int64(len(a.data)) {
			return fmt.Errorf("%w: entry %q exceeds archive length", ErrInvalidDirectory, e.Path)
		}
		if _, dup := seen[e.Path]; dup {
			return fmt.Errorf("%w: duplicate entry name %q", ErrInvalidDirectory, e.Path)
		}
		seen[e.Path] = struct{}{}
		entries = append(entries, e)
	}
	a.entries = entries
	return nil
}

func readEntry(r *binreader.Reader) (Entry, error) {
	var e Entry
	dirLen, err := r.U16()
	if err != nil {
		return e, err
	}
	if e.CRC32, err = r.U32(); err != nil {
		return e, err
	}
	if e.CompressedSize, err = r.U32(); err != nil {
		return e, err
	}
	if e.UncompressedSize, err = r.U32(); err != nil {
		return e, err
	}
	if e.Offset, err = r.U32(); err != nil {
		return e, err
	}
	containerLen, err := r.U16()
	if err != nil {
		return e, err
	}
	container, err := r.Bytes(int(containerLen))
	if err != nil {
		return e, err
	}
	dir, err := r.Bytes(int(dirLen))
	if err != nil {
		return e, err
	}
	if !utf8.Valid(container) || !utf8.Valid(dir) {
		return e, errors.New("entry name is not valid UTF-8")
	}
	e.Container = string(container)
	e.Path = strings.ReplaceAll(string(dir), "\\", "/")
	return e, nil
}

// Find locates an entry by name. The match is case-sensitive against
// either the full directory path or its basename.
func (a *Archive) Find(name string) (*Entry, bool) {
	name = strings.ReplaceAll(name, "\\", "/")
	for i := range a.entries {
		if a.entries[i].Path == name || path.Base(a.entries[i].Path) == name {
			return &a.entries[i], true
		}
	}
	return nil, false
}

// Extract returns the decoded bytes of one named entry. The returned
// buffer is owned by the caller and holds no reference to the archive.
func (a *Archive) Extract(name string) ([]byte, error) {
	e, ok := a.Find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrEntryNotFound, name, a.path)
	}
	return a.ExtractEntry(e)
}

// ExtractEntry decodes one directory entry's payload.
func (a *Archive) ExtractEntry(e *Entry) ([]byte, error) {
	raw := a.data[e.Offset : int(e.Offset)+int(e.CompressedSize)]

	if !e.Compressed() {
		out := make([]byte, len(raw))
		copy(out, raw)
		return out, nil
	}

	buf := make([]byte, len(raw))
	copy(buf, raw)
	decrypt(buf)

	fr := flate.NewReader(bytes.NewReader(buf))
	defer fr.Close()
	out, err := io.ReadAll(io.LimitReader(fr, int64(e.UncompressedSize)+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrDecompressionFailed, e.Path, err)
	}
	if len(out) != int(e.UncompressedSize) {
		return nil, fmt.Errorf("%w: %q: got %d bytes, directory records %d",
			ErrDecompressionFailed, e.Path, len(out), e.UncompressedSize)
	}
	return out, nil
}
