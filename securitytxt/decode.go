package securitytxt

import (
	"errors"

	"solsec.dev/securitytxt/elfref"
)

// Source records which lookup path produced a decoded result.
type Source string

const (
	SourceELFSection     Source = "elf-section"
	SourceScannedMarkers Source = "scanned-markers"
)

// RawSection is the resolved payload byte range [Start, End) within the input
// buffer, tagged with its provenance. Diagnostic only; it is not part of the
// record.
type RawSection struct {
	Start  int
	End    int
	Source Source
}

// Result is a decoded record plus where in the buffer it came from.
type Result struct {
	Txt     *SecurityTxt
	Section RawSection
}

// DecodeOptions tunes the lookup strategy.
type DecodeOptions struct {
	// NoELF skips the ELF section fast path and goes straight to marker
	// scanning. Useful when the buffer is known to be a raw dump rather
	// than an ELF image.
	NoELF bool
}

// Decode locates and decodes a security.txt block in an arbitrary binary
// buffer. It first attempts the ELF section reference; on any locator failure
// (missing section, non-ELF input, malformed reference) it falls back to
// scanning the whole buffer for the markers. The fallback is the only
// built-in recovery: once a byte range is resolved, tokenizer and assembler
// failures are terminal.
//
// Decode is a pure function of data; it is safe to call concurrently.
func Decode(data []byte, opts DecodeOptions) (*Result, error) {
	var elfErr error
	if !opts.NoELF {
		start, end, err := elfref.Locate(data, SectionName)
		if err == nil {
			txt, perr := ParsePayload(data[start:end])
			if perr != nil {
				return nil, perr
			}
			return &Result{
				Txt:     txt,
				Section: RawSection{Start: start, End: end, Source: SourceELFSection},
			}, nil
		}
		elfErr = err
	}

	start, end, scanErr := ScanRange(data)
	if scanErr != nil {
		return nil, wrapError(KindNotFound, "SECTXT-DEC-001",
			"no security.txt block found", errors.Join(elfErr, scanErr))
	}
	txt, err := ParsePayload(data[start:end])
	if err != nil {
		return nil, err
	}
	return &Result{
		Txt:     txt,
		Section: RawSection{Start: start, End: end, Source: SourceScannedMarkers},
	}, nil
}

// FindAndParse is the convenience entry point matching the original tool:
// ELF-aware lookup with scan fallback, returning just the record.
func FindAndParse(data []byte) (*SecurityTxt, error) {
	res, err := Decode(data, DecodeOptions{})
	if err != nil {
		return nil, err
	}
	return res.Txt, nil
}
