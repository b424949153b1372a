// Package securitytxt implements the security.txt metadata block embedded in
// compiled on-chain programs: a NUL-delimited key/value blob guarded by fixed
// begin/end markers, optionally referenced from a dedicated ELF section.
package securitytxt

import (
	"fmt"
	"sort"
	"strings"
)

// Markers delimiting the embedded block. Both include their terminating NUL,
// so the bytes strictly between them are exactly the key/value payload.
const (
	StartMarker = "=======BEGIN SECURITY.TXT V1=======\x00"
	EndMarker   = "=======END SECURITY.TXT V1=======\x00"
)

// SectionName is the ELF section that, when present, holds a
// (virtual address, length) reference to the payload bytes.
const SectionName = ".security.txt"

// ContactKind categorizes a contact entry. The enumeration is advisory:
// unrecognized kinds are preserved verbatim, never rejected.
type ContactKind string

const (
	ContactEmail    ContactKind = "email"
	ContactDiscord  ContactKind = "discord"
	ContactTelegram ContactKind = "telegram"
	ContactTwitter  ContactKind = "twitter"
	ContactLink     ContactKind = "link"
	ContactOther    ContactKind = "other"
)

// Contact is one (kind, value) contact entry.
type Contact struct {
	Kind  ContactKind
	Value string
}

func (c Contact) String() string {
	return string(c.Kind) + ":" + c.Value
}

// SecurityTxt is the decoded record. It is a pure read view constructed once
// per decode; decoding the same bytes twice yields identical records.
//
// Name, ProjectURL, PreferredLanguages, Contacts and Policy are mandatory for
// the record to be valid (see Validate); every other field is optional.
// Unknown carries forward-compatible keys the decoder does not recognize.
type SecurityTxt struct {
	Name               string
	ProjectURL         string
	SourceCode         string
	Expiry             string // YYYY-MM-DD
	PreferredLanguages []string
	Contacts           []Contact
	Auditors           []string
	Encryption         string
	Acknowledgments    string
	Policy             string

	Unknown map[string]string
}

// Well-known payload keys, in canonical encode order.
const (
	keyName               = "name"
	keyProjectURL         = "project_url"
	keySourceCode         = "source_code"
	keyExpiry             = "expiry"
	keyPreferredLanguages = "preferred_languages"
	keyContacts           = "contacts"
	keyAuditors           = "auditors"
	keyEncryption         = "encryption"
	keyAcknowledgments    = "acknowledgments"
	keyPolicy             = "policy"
)

// String renders the record for humans, known fields first, unknown keys last
// in lexicographic order.
func (t *SecurityTxt) String() string {
	var sb strings.Builder
	line := func(label, v string) {
		if v == "" {
			return
		}
		fmt.Fprintf(&sb, "%s: %s\n", label, v)
	}
	line("Name", t.Name)
	line("Project URL", t.ProjectURL)
	line("Source code", t.SourceCode)
	line("Expiry", t.Expiry)
	line("Preferred languages", strings.Join(t.PreferredLanguages, ", "))
	if len(t.Contacts) > 0 {
		sb.WriteString("Contacts:\n")
		for _, c := range t.Contacts {
			fmt.Fprintf(&sb, "  %s: %s\n", c.Kind, c.Value)
		}
	}
	line("Auditors", strings.Join(t.Auditors, ", "))
	if t.Encryption != "" {
		fmt.Fprintf(&sb, "Encryption:\n%s\n", t.Encryption)
	}
	line("Acknowledgments", t.Acknowledgments)
	if t.Policy != "" {
		fmt.Fprintf(&sb, "Policy:\n%s\n", t.Policy)
	}
	if len(t.Unknown) > 0 {
		extra := make([]string, 0, len(t.Unknown))
		for k := range t.Unknown {
			extra = append(extra, k)
		}
		sort.Strings(extra)
		for _, k := range extra {
			fmt.Fprintf(&sb, "%s: %s\n", k, t.Unknown[k])
		}
	}
	return sb.String()
}
