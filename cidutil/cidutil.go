// Package cidutil derives content identifiers for payloads and program dumps.
// Identifiers are IPFS-compatible CIDv1 (raw codec + sha2-256), so the same
// bytes always map to the same ID regardless of where they were fetched from.
package cidutil

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// Sum returns the CIDv1 (raw + sha2-256) of data.
func Sum(data []byte) (cid.Cid, error) {
	mh, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, mh), nil
}

// SumString returns Sum(data) as a string, or "" when hashing fails.
// With SHA2_256 and default length the failure path is unreachable.
func SumString(data []byte) string {
	id, err := Sum(data)
	if err != nil {
		return ""
	}
	return id.String()
}
