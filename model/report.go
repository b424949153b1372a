// Package model holds the JSON boundary types shared by the CLI, the gRPC
// service and integrations.
package model

import (
	"solsec.dev/securitytxt/securitytxt"
)

// Report is the full decode result for one binary or program.
type Report struct {
	// ProgramID is set when the binary was fetched by program address.
	ProgramID string `json:"program_id,omitempty"`

	// Source is the lookup path that produced the record: "elf-section" or
	// "scanned-markers".
	Source string `json:"source"`

	// Range is the resolved payload byte range within the binary.
	Range ByteRange `json:"range"`

	// PayloadCID identifies the payload bytes; DumpCID identifies the whole
	// binary when it was stored in the dump cache.
	PayloadCID string `json:"payload_cid,omitempty"`
	DumpCID    string `json:"dump_cid,omitempty"`

	SecurityTxt Record `json:"security_txt"`

	// Valid reports whether the record satisfies the v1 validity rules;
	// Issues lists every violation when it does not.
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// ByteRange is a half-open [start, end) range.
type ByteRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Record is the JSON view of a decoded security.txt.
type Record struct {
	Name               string            `json:"name"`
	ProjectURL         string            `json:"project_url"`
	SourceCode         string            `json:"source_code,omitempty"`
	Expiry             string            `json:"expiry,omitempty"`
	PreferredLanguages []string          `json:"preferred_languages"`
	Contacts           []ContactEntry    `json:"contacts"`
	Auditors           []string          `json:"auditors,omitempty"`
	Encryption         string            `json:"encryption,omitempty"`
	Acknowledgments    string            `json:"acknowledgments,omitempty"`
	Policy             string            `json:"policy"`
	Unknown            map[string]string `json:"unknown,omitempty"`
}

type ContactEntry struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// SecurityTxt converts the JSON view back into the decoded record type,
// e.g. for human rendering on the client side.
func (r Record) SecurityTxt() *securitytxt.SecurityTxt {
	contacts := make([]securitytxt.Contact, len(r.Contacts))
	for i, c := range r.Contacts {
		contacts[i] = securitytxt.Contact{Kind: securitytxt.ContactKind(c.Kind), Value: c.Value}
	}
	return &securitytxt.SecurityTxt{
		Name:               r.Name,
		ProjectURL:         r.ProjectURL,
		SourceCode:         r.SourceCode,
		Expiry:             r.Expiry,
		PreferredLanguages: r.PreferredLanguages,
		Contacts:           contacts,
		Auditors:           r.Auditors,
		Encryption:         r.Encryption,
		Acknowledgments:    r.Acknowledgments,
		Policy:             r.Policy,
		Unknown:            r.Unknown,
	}
}

// Issue is one validity violation, identified by its stable rule ID.
type Issue struct {
	RuleID  string `json:"rule_id"`
	Message string `json:"message"`
}

// NewRecord converts a decoded record into its JSON view.
func NewRecord(txt *securitytxt.SecurityTxt) Record {
	contacts := make([]ContactEntry, len(txt.Contacts))
	for i, c := range txt.Contacts {
		contacts[i] = ContactEntry{Kind: string(c.Kind), Value: c.Value}
	}
	return Record{
		Name:               txt.Name,
		ProjectURL:         txt.ProjectURL,
		SourceCode:         txt.SourceCode,
		Expiry:             txt.Expiry,
		PreferredLanguages: txt.PreferredLanguages,
		Contacts:           contacts,
		Auditors:           txt.Auditors,
		Encryption:         txt.Encryption,
		Acknowledgments:    txt.Acknowledgments,
		Policy:             txt.Policy,
		Unknown:            txt.Unknown,
	}
}
