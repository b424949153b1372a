package securitytxt

import (
	"sort"
	"strings"
)

// Encode serializes a record into the embedded wire format:
//
//	StartMarker key NUL value NUL ... EndMarker
//
// Known fields are emitted in canonical order, then unknown keys in
// lexicographic order. This is the explicit replacement for the original
// compile-time string-concatenation embedding; Encode output round-trips
// through the scan-path decoder.
//
// Encode rejects records that fail Validate and any key or value containing
// a NUL byte (NUL is the token delimiter and cannot be escaped).
func Encode(txt *SecurityTxt) ([]byte, error) {
	if txt == nil {
		return nil, newError(KindEncode, "SECTXT-ENC-001", "nil record")
	}
	if err := txt.Validate(); err != nil {
		return nil, wrapError(KindEncode, "SECTXT-ENC-002", "record is not valid", err)
	}

	pairs := [][2]string{
		{keyName, txt.Name},
		{keyProjectURL, txt.ProjectURL},
		{keySourceCode, txt.SourceCode},
		{keyExpiry, txt.Expiry},
		{keyPreferredLanguages, strings.Join(txt.PreferredLanguages, ",")},
		{keyContacts, joinContacts(txt.Contacts)},
		{keyAuditors, strings.Join(txt.Auditors, ",")},
		{keyEncryption, txt.Encryption},
		{keyAcknowledgments, txt.Acknowledgments},
		{keyPolicy, txt.Policy},
	}

	extra := make([]string, 0, len(txt.Unknown))
	for k := range txt.Unknown {
		extra = append(extra, k)
	}
	sort.Strings(extra)
	for _, k := range extra {
		pairs = append(pairs, [2]string{k, txt.Unknown[k]})
	}

	var sb strings.Builder
	sb.WriteString(StartMarker)
	for _, kv := range pairs {
		key, value := kv[0], kv[1]
		if value == "" && !isMandatoryKey(key) {
			continue
		}
		if key == "" {
			return nil, newError(KindEncode, "SECTXT-ENC-003", "empty key")
		}
		if strings.ContainsRune(key, 0) || strings.ContainsRune(value, 0) {
			return nil, newError(KindEncode, "SECTXT-ENC-004", "NUL byte in key or value: "+key)
		}
		sb.WriteString(key)
		sb.WriteByte(0)
		sb.WriteString(value)
		sb.WriteByte(0)
	}
	sb.WriteString(EndMarker)
	return []byte(sb.String()), nil
}

func joinContacts(contacts []Contact) string {
	items := make([]string, len(contacts))
	for i, c := range contacts {
		items[i] = c.String()
	}
	return strings.Join(items, ",")
}

func isMandatoryKey(key string) bool {
	switch key {
	case keyName, keyProjectURL, keyPreferredLanguages, keyContacts, keyPolicy:
		return true
	}
	return false
}
