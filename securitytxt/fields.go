package securitytxt

import "strings"

// ParsePayload tokenizes and assembles the byte range between the markers
// into a SecurityTxt. It performs no semantic validation beyond structure;
// see Validate for the validity rules.
func ParsePayload(payload []byte) (*SecurityTxt, error) {
	tokens, err := tokenize(payload)
	if err != nil {
		return nil, err
	}
	return assemble(tokens)
}

// assemble pairs tokens (key, value, key, value, ...) into a record.
//
// A well-formed payload is `(key NUL value NUL)*`, so splitting on NUL yields
// an even token count plus one empty token from the terminating NUL. Exactly
// one trailing empty token is therefore stripped before the parity check.
//
// Duplicate keys: last occurrence wins (tested, not incidental).
func assemble(tokens []string) (*SecurityTxt, error) {
	if n := len(tokens); n > 0 && tokens[n-1] == "" {
		tokens = tokens[:n-1]
	}
	if len(tokens)%2 != 0 {
		return nil, newError(KindOddTokenCount, "SECTXT-ASM-001", "odd key/value token count")
	}

	txt := &SecurityTxt{}
	for i := 0; i+1 < len(tokens); i += 2 {
		key, value := tokens[i], tokens[i+1]
		switch key {
		case keyName:
			txt.Name = value
		case keyProjectURL:
			txt.ProjectURL = value
		case keySourceCode:
			txt.SourceCode = value
		case keyExpiry:
			txt.Expiry = value
		case keyPreferredLanguages:
			txt.PreferredLanguages = splitList(value)
		case keyContacts:
			txt.Contacts = parseContacts(value)
		case keyAuditors:
			txt.Auditors = splitList(value)
		case keyEncryption:
			txt.Encryption = value
		case keyAcknowledgments:
			txt.Acknowledgments = value
		case keyPolicy:
			txt.Policy = value
		default:
			if txt.Unknown == nil {
				txt.Unknown = make(map[string]string)
			}
			txt.Unknown[key] = value
		}
	}
	return txt, nil
}

// splitList splits a comma-separated value, trimming whitespace and dropping
// empty items.
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

// parseContacts splits a contacts value on "," and each entry on the first
// ":" into (kind, rest). Unrecognized kinds pass through verbatim; an entry
// with no ":" at all becomes an "other" contact.
func parseContacts(value string) []Contact {
	var out []Contact
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		kind, rest, ok := strings.Cut(item, ":")
		if !ok {
			out = append(out, Contact{Kind: ContactOther, Value: item})
			continue
		}
		out = append(out, Contact{
			Kind:  ContactKind(strings.TrimSpace(kind)),
			Value: rest,
		})
	}
	return out
}
