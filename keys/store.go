// Package keys holds the local signing keys and the detached attestations an
// auditor or maintainer can produce over an encoded security.txt block.
//
// The store is deliberately plain: hex seed files under a directory, 0600,
// ed25519 only on disk. Dilithium3 signing accepts caller-provided keys.
package keys

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// KeyStore is a filesystem-backed key directory.
type KeyStore struct {
	Directory string
}

// DefaultDirectory is ~/.solsec/keys.
func DefaultDirectory() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".solsec", "keys"), nil
}

// NewKeyStore opens a store at dir; empty means DefaultDirectory.
func NewKeyStore(dir string) (*KeyStore, error) {
	if dir == "" {
		var err error
		dir, err = DefaultDirectory()
		if err != nil {
			return nil, err
		}
	}
	return &KeyStore{Directory: dir}, nil
}

// CheckKeyName restricts key names to filename-safe characters.
func CheckKeyName(name string) error {
	if name == "" {
		return errors.New("key name cannot be empty")
	}
	for _, char := range name {
		if (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') || char == '-' || char == '_' {
			continue
		}
		return fmt.Errorf("invalid character %q in key name", char)
	}
	return nil
}

// ParseSeedHex decodes a 32-byte ed25519 seed from hex, tolerating an 0x
// prefix and surrounding whitespace.
func ParseSeedHex(seedHex string) ([]byte, error) {
	seedHex = strings.TrimSpace(seedHex)
	seedHex = strings.TrimPrefix(seedHex, "0x")
	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, err
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("expected %d-byte seed, got %d", ed25519.SeedSize, len(seed))
	}
	return seed, nil
}

func (ks *KeyStore) keyPath(name string) string {
	return filepath.Join(ks.Directory, name+".key")
}

// Init writes a seed under name and returns the signer key string.
func (ks *KeyStore) Init(name string, seed []byte, overwrite bool) (signerKey, path string, err error) {
	if err := CheckKeyName(name); err != nil {
		return "", "", err
	}
	if len(seed) != ed25519.SeedSize {
		return "", "", fmt.Errorf("expected %d-byte seed", ed25519.SeedSize)
	}
	path = ks.keyPath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", "", err
	}
	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o600)
	if err != nil {
		return "", "", err
	}
	if _, err := f.WriteString(hex.EncodeToString(seed) + "\n"); err != nil {
		_ = f.Close()
		return "", "", err
	}
	if err := f.Close(); err != nil {
		return "", "", err
	}
	return SignerKeyFromSeed(seed), path, nil
}

// LoadSeed resolves a seed from the first configured source: an explicit hex
// seed, a key file path, or a named key in the store.
func (ks *KeyStore) LoadSeed(seedHex, name, keyFile string) ([]byte, error) {
	if seedHex != "" {
		return ParseSeedHex(seedHex)
	}
	if keyFile != "" {
		return ks.loadSeedFile(keyFile)
	}
	if name != "" {
		if err := CheckKeyName(name); err != nil {
			return nil, err
		}
		return ks.loadSeedFile(ks.keyPath(name))
	}
	return nil, errors.New("no signer provided")
}

// Export returns the signer key string for a stored key.
func (ks *KeyStore) Export(name string) (string, error) {
	if err := CheckKeyName(name); err != nil {
		return "", err
	}
	seed, err := ks.loadSeedFile(ks.keyPath(name))
	if err != nil {
		return "", err
	}
	return SignerKeyFromSeed(seed), nil
}

// List returns the stored key names, sorted.
func (ks *KeyStore) List() ([]string, error) {
	entries, err := os.ReadDir(ks.Directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".key") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".key"))
	}
	sort.Strings(names)
	return names, nil
}

func (ks *KeyStore) loadSeedFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSeedHex(string(data))
}
