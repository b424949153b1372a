package keys

import (
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cloudflare/circl/sign/dilithium/mode3"

	"solsec.dev/securitytxt/cidutil"
)

// Attestation is a detached signature over an encoded security.txt block
// (markers included). It lives beside the block, never inside it, so the
// wire format is untouched.
type Attestation struct {
	ProgramID  string `json:"program_id,omitempty"`
	PayloadCID string `json:"payload_cid"`
	HashAlg    string `json:"hash_alg"`
	SigAlg     string `json:"sig_alg"`
	SignerKey  string `json:"signer_key"`
	Signature  string `json:"signature"`
	CreatedAt  string `json:"created_at"`
}

// AttestEd25519 signs the block with an ed25519 seed-derived key.
func AttestEd25519(block []byte, hashAlg string, seed []byte, programID string) (*Attestation, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("expected %d-byte seed", ed25519.SeedSize)
	}
	priv := ed25519.NewKeyFromSeed(seed)
	sig, err := SignEd25519(block, hashAlg, priv)
	if err != nil {
		return nil, err
	}
	return &Attestation{
		ProgramID:  programID,
		PayloadCID: cidutil.SumString(block),
		HashAlg:    hashAlg,
		SigAlg:     AlgEd25519,
		SignerKey:  SignerKeyFromSeed(seed),
		Signature:  sig,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// AttestDilithium3 signs the block with a dilithium3 keypair.
func AttestDilithium3(block []byte, hashAlg string, pub *mode3.PublicKey, priv *mode3.PrivateKey, programID string) (*Attestation, error) {
	sig, err := SignDilithium3(block, hashAlg, priv)
	if err != nil {
		return nil, err
	}
	signerKey, err := SignerKeyDilithium3(pub)
	if err != nil {
		return nil, err
	}
	return &Attestation{
		ProgramID:  programID,
		PayloadCID: cidutil.SumString(block),
		HashAlg:    hashAlg,
		SigAlg:     AlgDilithium3,
		SignerKey:  signerKey,
		Signature:  sig,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// Verify checks the attestation against the block it claims to cover: the
// content identifier must match the block bytes and the signature must
// verify under the embedded signer key.
func (a *Attestation) Verify(block []byte) error {
	if a == nil {
		return fmt.Errorf("nil attestation")
	}
	if got := cidutil.SumString(block); got != a.PayloadCID {
		return fmt.Errorf("block does not match attestation: cid %s, want %s", got, a.PayloadCID)
	}
	return Verify(a.SignerKey, a.HashAlg, block, a.Signature)
}

// Marshal renders the attestation as indented JSON.
func (a *Attestation) Marshal() ([]byte, error) {
	return json.MarshalIndent(a, "", "  ")
}

// ParseAttestation parses an attestation JSON document.
func ParseAttestation(data []byte) (*Attestation, error) {
	var a Attestation
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("invalid attestation: %w", err)
	}
	if a.SignerKey == "" || a.Signature == "" {
		return nil, fmt.Errorf("invalid attestation: missing signer key or signature")
	}
	return &a, nil
}
