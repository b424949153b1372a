package securitytxt

import "bytes"

// ScanRange locates the payload inside an unstructured buffer by naive marker
// search: the first occurrence of StartMarker, then the first occurrence of
// EndMarker after it. The returned [start, end) range excludes both markers.
//
// Marker-like byte sequences inside payload values are not escaped or
// disambiguated; a stray marker in a value can truncate the scanned range.
// That false-positive risk is part of the format, not a defect here.
func ScanRange(data []byte) (start, end int, err error) {
	i := bytes.Index(data, []byte(StartMarker))
	if i < 0 {
		return 0, 0, newError(KindMarkerNotFound, "SECTXT-SCAN-001", "start marker not found")
	}
	start = i + len(StartMarker)
	j := bytes.Index(data[start:], []byte(EndMarker))
	if j < 0 {
		return 0, 0, newError(KindMarkerNotFound, "SECTXT-SCAN-002", "no end marker after start marker")
	}
	return start, start + j, nil
}
