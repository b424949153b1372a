// Package solana fetches deployed program binaries over JSON-RPC so the
// decoder can be pointed at an on-chain program address instead of a file.
// Only the two calls this tool needs are implemented: account lookup and the
// BPF loader indirections that lead from a program address to its ELF bytes.
package solana

import (
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// Well-known cluster aliases, matching the original tool's shorthand.
const (
	MainnetBetaURL = "https://api.mainnet-beta.solana.com"
	TestnetURL     = "https://api.testnet.solana.com"
	DevnetURL      = "https://api.devnet.solana.com"
	LocalhostURL   = "http://localhost:8899"
)

// ClusterURL expands an alias (mainnet-beta/m, testnet/t, devnet/d,
// localhost/l) to its RPC endpoint; anything else passes through as a URL.
func ClusterURL(s string) string {
	switch s {
	case "mainnet-beta", "m":
		return MainnetBetaURL
	case "testnet", "t":
		return TestnetURL
	case "devnet", "d":
		return DevnetURL
	case "localhost", "l":
		return LocalhostURL
	default:
		return s
	}
}

// Loader program addresses that can own an executable account.
const (
	UpgradeableLoaderID = "BPFLoaderUpgradeab1e11111111111111111111111"
	LoaderV2ID          = "BPFLoader2111111111111111111111111111111111"
	LoaderV1ID          = "BPFLoader1111111111111111111111111111111111"
)

const pubkeyLen = 32

var ErrAccountNotFound = errors.New("solana: account not found")

// DecodePubkey parses a base58 public key, enforcing the 32-byte length.
func DecodePubkey(s string) ([]byte, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("solana: invalid pubkey %q: %w", s, err)
	}
	if len(raw) != pubkeyLen {
		return nil, fmt.Errorf("solana: pubkey %q is %d bytes, want %d", s, len(raw), pubkeyLen)
	}
	return raw, nil
}

// EncodePubkey renders raw pubkey bytes as base58.
func EncodePubkey(raw []byte) (string, error) {
	if len(raw) != pubkeyLen {
		return "", fmt.Errorf("solana: pubkey is %d bytes, want %d", len(raw), pubkeyLen)
	}
	return base58.Encode(raw), nil
}
