// Package resolver turns program addresses or raw binaries into decode
// reports, optionally keeping a content-addressed copy of every fetched
// binary so reports stay reproducible offline.
package resolver

import (
	"context"
	"fmt"

	"github.com/ipfs/go-cid"

	"solsec.dev/securitytxt/cidutil"
	"solsec.dev/securitytxt/model"
	"solsec.dev/securitytxt/securitytxt"
	"solsec.dev/securitytxt/storage"
)

// Fetcher obtains the deployed ELF bytes for a program address.
// *solana.Client satisfies this.
type Fetcher interface {
	ProgramELF(ctx context.Context, programID string) ([]byte, error)
}

// Resolver wires fetching, caching and decoding together.
//
// Cache is optional. When set, every fetched binary is stored before
// decoding, and a cache write failure fails the resolve: a report that
// claims a DumpCID must actually be re-derivable from the cache.
type Resolver struct {
	Fetcher Fetcher
	Cache   storage.CAS
}

// Resolve fetches a program's binary and decodes its security.txt.
func (r *Resolver) Resolve(ctx context.Context, programID string) (*model.Report, error) {
	if r == nil || r.Fetcher == nil {
		return nil, fmt.Errorf("resolver: no fetcher configured")
	}
	data, err := r.Fetcher.ProgramELF(ctx, programID)
	if err != nil {
		return nil, err
	}

	var dumpCID string
	if r.Cache != nil {
		id, err := r.Cache.Put(data)
		if err != nil {
			return nil, fmt.Errorf("resolver: caching program dump: %w", err)
		}
		dumpCID = id.String()
	}

	report, err := Report(programID, data, securitytxt.DecodeOptions{})
	if err != nil {
		return nil, err
	}
	report.DumpCID = dumpCID
	return report, nil
}

// ResolveCached decodes a previously cached program dump by its CID.
func (r *Resolver) ResolveCached(id cid.Cid) (*model.Report, error) {
	if r == nil || r.Cache == nil {
		return nil, fmt.Errorf("resolver: no cache configured")
	}
	data, err := r.Cache.Get(id)
	if err != nil {
		return nil, err
	}
	report, err := Report("", data, securitytxt.DecodeOptions{})
	if err != nil {
		return nil, err
	}
	report.DumpCID = id.String()
	return report, nil
}

// Report decodes a binary buffer into a full report. It is a pure function
// of its inputs; programID is carried through for attribution only.
func Report(programID string, data []byte, opts securitytxt.DecodeOptions) (*model.Report, error) {
	res, err := securitytxt.Decode(data, opts)
	if err != nil {
		return nil, err
	}

	report := &model.Report{
		ProgramID: programID,
		Source:    string(res.Section.Source),
		Range: model.ByteRange{
			Start: res.Section.Start,
			End:   res.Section.End,
		},
		PayloadCID:  cidutil.SumString(data[res.Section.Start:res.Section.End]),
		SecurityTxt: model.NewRecord(res.Txt),
		Valid:       true,
	}
	for _, verr := range res.Txt.ValidateAll() {
		report.Valid = false
		report.Issues = append(report.Issues, model.Issue{
			RuleID:  securitytxt.RuleID(verr),
			Message: verr.Error(),
		})
	}
	return report, nil
}
