// Package pmx decodes and encodes PMX 2.0/2.1 model files and holds the
// in-memory model they describe.
package pmx

import (
	"pmx-toolkit/internal/binio"
)

// Format versions.
const (
	Version20 float32 = 2.0
	Version21 float32 = 2.1
)

// Magic is the standard four-byte file signature.
var Magic = [4]byte{'P', 'M', 'X', ' '}

// Ref is an index into one of the model's collections. NoRef marks an
// intentionally absent reference and is never a position.
type Ref int32

const NoRef Ref = -1

// Valid reports whether r refers to a position (it may still be out of range).
func (r Ref) Valid() bool {
	return r >= 0
}

// In reports whether r is a valid position in a collection of length n.
func (r Ref) In(n int) bool {
	return r >= 0 && int(r) < n
}

// Header carries the file-level settings and descriptive text.
type Header struct {
	Magic         [4]byte // as read; zero value encodes as "PMX "
	Version       float32
	Encoding      binio.Encoding
	AdditionalUVs int    // extra 4-float attachments per vertex, 0..4
	ExtraGlobals  []byte // global-flag bytes beyond the eight known ones

	Name      string
	NameEn    string
	Comment   string
	CommentEn string
}

// IsV21 reports whether the header selects the 2.1 revision.
func (h Header) IsV21() bool {
	return h.Version == Version21
}

// Face is a triangle of vertex positions.
type Face [3]int

// Model is one decoded PMX file.
type Model struct {
	Header      Header
	Vertices    []Vertex
	Faces       []Face
	Textures    []string
	Materials   []Material
	Bones       []Bone
	Morphs      []Morph
	Frames      []Frame
	RigidBodies []RigidBody
	Joints      []Joint
	SoftBodies  []SoftBody // only when Header.Version is 2.1
}

// New returns an empty 2.0 model with UTF-16LE text.
func New() *Model {
	return &Model{Header: Header{Magic: Magic, Version: Version20, Encoding: binio.UTF16LE}}
}
