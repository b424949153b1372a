package securitytxt

import (
	"reflect"
	"testing"

	"solsec.dev/securitytxt/elfref/elftest"
)

// buildProgramImage embeds an encoded block in a synthetic ELF image with a
// .security.txt section referencing the payload, the way the embedding macro
// lays it out in a real program binary.
func buildProgramImage(t *testing.T, rec *SecurityTxt) []byte {
	t.Helper()
	blob, err := Encode(rec)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	img := elftest.Image{Blob: blob}
	img.RefAddr = elftest.BlobVaddr(img, len(StartMarker))
	img.RefLen = uint64(len(blob) - len(StartMarker) - len(EndMarker))
	return elftest.Build(img)
}

func TestDecodeELFSectionPath(t *testing.T) {
	want := validRecord(t)
	data := buildProgramImage(t, want)

	res, err := Decode(data, DecodeOptions{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if res.Section.Source != SourceELFSection {
		t.Fatalf("source = %s, want %s", res.Section.Source, SourceELFSection)
	}
	if !reflect.DeepEqual(res.Txt, want) {
		t.Fatalf("record mismatch:\n got %+v\nwant %+v", res.Txt, want)
	}
	if res.Section.Start >= res.Section.End {
		t.Fatalf("bad range [%d, %d)", res.Section.Start, res.Section.End)
	}
}

func TestDecodeNoELFOptionForcesScan(t *testing.T) {
	want := validRecord(t)
	data := buildProgramImage(t, want)

	res, err := Decode(data, DecodeOptions{NoELF: true})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if res.Section.Source != SourceScannedMarkers {
		t.Fatalf("source = %s, want %s", res.Section.Source, SourceScannedMarkers)
	}
	if !reflect.DeepEqual(res.Txt, want) {
		t.Fatalf("record mismatch")
	}
}

func TestDecodeMalformedSectionFallsBackToScan(t *testing.T) {
	want := validRecord(t)
	blob, err := Encode(want)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// Section present but not pointer+length sized; the markers inside the
	// load segment still let the scan path recover the block.
	data := elftest.Build(elftest.Image{Blob: blob, RawRef: make([]byte, 12)})

	res, err := Decode(data, DecodeOptions{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if res.Section.Source != SourceScannedMarkers {
		t.Fatalf("source = %s, want %s", res.Section.Source, SourceScannedMarkers)
	}
	if !reflect.DeepEqual(res.Txt, want) {
		t.Fatalf("record mismatch")
	}
}

func TestDecodeNothingEmbedded(t *testing.T) {
	data := elftest.Build(elftest.Image{Blob: []byte("no block in here"), NoSection: true})
	_, err := Decode(data, DecodeOptions{})
	if !IsKind(err, KindNotFound) {
		t.Fatalf("err = %v, want KindNotFound", err)
	}
}

func TestDecodeELFPathExtractFailureIsTerminal(t *testing.T) {
	// The section resolves cleanly but the referenced payload is corrupt:
	// the decoder must report the extract failure, not silently rescan.
	payload := []byte("name\x00X\x00dangling")
	img := elftest.Image{Blob: payload}
	img.RefAddr = elftest.BlobVaddr(img, 0)
	img.RefLen = uint64(len(payload))
	data := elftest.Build(img)

	_, err := Decode(data, DecodeOptions{})
	if !IsKind(err, KindOddTokenCount) {
		t.Fatalf("err = %v, want KindOddTokenCount", err)
	}
}

func TestFindAndParse(t *testing.T) {
	want := validRecord(t)
	txt, err := FindAndParse(buildProgramImage(t, want))
	if err != nil {
		t.Fatalf("FindAndParse: %v", err)
	}
	if !reflect.DeepEqual(txt, want) {
		t.Fatalf("record mismatch")
	}
}
