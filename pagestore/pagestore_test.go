package pagestore

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func newStore(t *testing.T, n int) *Store {
	t.Helper()
	pages := make([][]byte, n)
	for i := range pages {
		pages[i] = encodePNG(t, color.RGBA{R: uint8(40 * i), A: 255})
	}
	s, err := New(pages)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestEmptySequenceRejected(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrEmpty) {
		t.Fatalf("want ErrEmpty, got %v", err)
	}
}

func TestGetIdempotent(t *testing.T) {
	s := newStore(t, 3)
	p1, err := s.Get(1)
	if err != nil {
		t.Fatalf("Get(1): %v", err)
	}
	p2, err := s.Get(1)
	if err != nil {
		t.Fatalf("Get(1) again: %v", err)
	}
	if p1.Image != p2.Image {
		t.Fatalf("repeated Get decoded a new image")
	}
	if p1.Index != 1 {
		t.Fatalf("index: got %d", p1.Index)
	}
}

func TestGetOutOfRange(t *testing.T) {
	s := newStore(t, 2)
	for _, idx := range []int{-1, 2, 100} {
		if _, err := s.Get(idx); !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("Get(%d): want ErrOutOfRange, got %v", idx, err)
		}
	}
}

func TestCountAndEncoded(t *testing.T) {
	s := newStore(t, 3)
	if s.Count() != 3 {
		t.Fatalf("Count: got %d", s.Count())
	}
	raw, err := s.Encoded(2)
	if err != nil || len(raw) == 0 {
		t.Fatalf("Encoded(2): %v (%d bytes)", err, len(raw))
	}
	if _, err := s.Encoded(3); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Encoded(3): want ErrOutOfRange, got %v", err)
	}
}

func TestDecodeErrorSurfaces(t *testing.T) {
	s, err := New([][]byte{[]byte("not an image")})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := s.Get(0); err == nil {
		t.Fatalf("expected decode error")
	}
}
