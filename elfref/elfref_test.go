package elfref

import (
	"bytes"
	"errors"
	"testing"

	"solsec.dev/securitytxt/elfref/elftest"
)

func TestLocateResolvesReference(t *testing.T) {
	img := elftest.Image{Blob: []byte("====PAYLOAD====")}
	img.RefAddr = elftest.BlobVaddr(img, 4)
	img.RefLen = 7
	data := elftest.Build(img)

	start, end, err := Locate(data, ".security.txt")
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if start != elftest.BlobFileOffset(4) {
		t.Fatalf("start = %d, want %d", start, elftest.BlobFileOffset(4))
	}
	if got := data[start:end]; !bytes.Equal(got, []byte("PAYLOAD")) {
		t.Fatalf("resolved bytes = %q", got)
	}
}

func TestLocateSectionAbsent(t *testing.T) {
	data := elftest.Build(elftest.Image{Blob: []byte("nothing here"), NoSection: true})
	_, _, err := Locate(data, ".security.txt")
	if !errors.Is(err, ErrNoSection) {
		t.Fatalf("err = %v, want ErrNoSection", err)
	}
}

func TestLocateOtherSectionName(t *testing.T) {
	img := elftest.Image{Blob: []byte("abc"), SectionName: ".other"}
	img.RefAddr = elftest.BlobVaddr(img, 0)
	img.RefLen = 3
	data := elftest.Build(img)

	if _, _, err := Locate(data, ".security.txt"); !errors.Is(err, ErrNoSection) {
		t.Fatalf("err = %v, want ErrNoSection", err)
	}
	if _, _, err := Locate(data, ".other"); err != nil {
		t.Fatalf("Locate .other: %v", err)
	}
}

func TestLocateNotELF(t *testing.T) {
	_, _, err := Locate([]byte("definitely not an ELF image"), ".security.txt")
	if !errors.Is(err, ErrNoSection) {
		t.Fatalf("err = %v, want ErrNoSection", err)
	}
}

func TestLocateWrongReferenceSize(t *testing.T) {
	data := elftest.Build(elftest.Image{
		Blob:   []byte("payload"),
		RawRef: make([]byte, 12), // not pointer+length sized
	})
	_, _, err := Locate(data, ".security.txt")
	if !errors.Is(err, ErrMalformedRef) {
		t.Fatalf("err = %v, want ErrMalformedRef", err)
	}
}

func TestLocateAddressOutsideSegments(t *testing.T) {
	img := elftest.Image{Blob: []byte("payload")}
	img.RefAddr = 0xdead0000
	img.RefLen = 4
	data := elftest.Build(img)

	_, _, err := Locate(data, ".security.txt")
	if !errors.Is(err, ErrMalformedRef) {
		t.Fatalf("err = %v, want ErrMalformedRef", err)
	}
}

func TestLocateLengthPastSegment(t *testing.T) {
	img := elftest.Image{Blob: []byte("payload")}
	img.RefAddr = elftest.BlobVaddr(img, 0)
	img.RefLen = uint64(len(img.Blob)) + 1
	data := elftest.Build(img)

	_, _, err := Locate(data, ".security.txt")
	if !errors.Is(err, ErrMalformedRef) {
		t.Fatalf("err = %v, want ErrMalformedRef", err)
	}
}
