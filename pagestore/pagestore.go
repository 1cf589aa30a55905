package pagestore

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	_ "image/jpeg"
	_ "image/png"
)

var (
	ErrOutOfRange = errors.New("pagestore: page index out of range")
	ErrEmpty      = errors.New("pagestore: empty page sequence")
)

// Page is one rasterized page of the document. The decoded image is
// immutable; callers must not draw into it.
type Page struct {
	Index int
	Image image.Image
}

// Store holds the ordered page sequence of a single document. Encoded
// payloads are fixed at construction; decoding happens on first access
// and is memoized per index. Single-threaded by design (the viewer's
// cooperative model), so no locking.
type Store struct {
	encoded [][]byte
	decoded map[int]image.Image
}

func New(encoded [][]byte) (*Store, error) {
	if len(encoded) == 0 {
		return nil, ErrEmpty
	}
	pages := make([][]byte, len(encoded))
	copy(pages, encoded)
	return &Store{encoded: pages, decoded: make(map[int]image.Image)}, nil
}

func (s *Store) Count() int { return len(s.encoded) }

// Get returns the page at index, decoding it on first use. Repeated calls
// for the same index return the same decoded resource.
func (s *Store) Get(index int) (Page, error) {
	if index < 0 || index >= len(s.encoded) {
		return Page{}, fmt.Errorf("%w: %d of %d", ErrOutOfRange, index, len(s.encoded))
	}
	img, ok := s.decoded[index]
	if !ok {
		var err error
		img, _, err = image.Decode(bytes.NewReader(s.encoded[index]))
		if err != nil {
			return Page{}, fmt.Errorf("pagestore: decode page %d: %w", index, err)
		}
		s.decoded[index] = img
	}
	return Page{Index: index, Image: img}, nil
}

// Encoded returns the raw payload at index, as embedded in the artifact.
func (s *Store) Encoded(index int) ([]byte, error) {
	if index < 0 || index >= len(s.encoded) {
		return nil, fmt.Errorf("%w: %d of %d", ErrOutOfRange, index, len(s.encoded))
	}
	return s.encoded[index], nil
}
