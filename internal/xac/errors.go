package xac

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHeader means the buffer does not start with an actor
	// file header.
	ErrInvalidHeader = errors.New("xac: invalid actor header")
	// ErrUnsupportedVersion means the file declares a binary layout that
	// cannot be skipped safely (currently only big-endian data).
	ErrUnsupportedVersion = errors.New("xac: unsupported version")
	// ErrMalformedIndices means a triangle index list length is not
	// divisible by three.
	ErrMalformedIndices = errors.New("xac: triangle index count not divisible by 3")
	// ErrInvalidText means a length-prefixed string is not valid UTF-8.
	ErrInvalidText = errors.New("xac: invalid text encoding")
)

// MalformedChunkError reports a chunk whose declared length or internal
// counts disagree with the bytes actually present.
type MalformedChunkError struct {
	ChunkID uint32
	Offset  int
	Err     error
}

func (e *MalformedChunkError) Error() string {
	return fmt.Sprintf("xac: malformed chunk %d at offset %d: %v", e.ChunkID, e.Offset, e.Err)
}

func (e *MalformedChunkError) Unwrap() error { return e.Err }

// InconsistentSubmeshError reports a submesh that failed the
// cross-reference validation pass.
type InconsistentSubmeshError struct {
	Mesh    int
	Submesh int
	Reason  string
}

func (e *InconsistentSubmeshError) Error() string {
	return fmt.Sprintf("xac: inconsistent submesh %d of mesh %d: %s", e.Submesh, e.Mesh, e.Reason)
}
