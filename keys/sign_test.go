package keys

import (
	"crypto/ed25519"
	"strings"
	"testing"
)

func testSeed() []byte {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i + 1)
	}
	return seed
}

// deterministicReader feeds a repeating byte pattern, so dilithium key
// generation is reproducible across test runs.
type deterministicReader struct{ n byte }

func (r *deterministicReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.n
		r.n++
	}
	return len(p), nil
}

func TestSignAndVerifyEd25519(t *testing.T) {
	seed := testSeed()
	priv := ed25519.NewKeyFromSeed(seed)
	signerKey := SignerKeyFromSeed(seed)
	if !strings.HasPrefix(signerKey, "ed25519:") {
		t.Fatalf("signer key %q lacks algorithm prefix", signerKey)
	}

	message := []byte("=======BEGIN SECURITY.TXT V1=======\x00name\x00x\x00")
	for _, hashAlg := range []string{HashSHA256, HashSHA512, HashSHA3256} {
		sig, err := SignEd25519(message, hashAlg, priv)
		if err != nil {
			t.Fatalf("SignEd25519(%s): %v", hashAlg, err)
		}
		if err := Verify(signerKey, hashAlg, message, sig); err != nil {
			t.Fatalf("Verify(%s): %v", hashAlg, err)
		}
		if err := Verify(signerKey, hashAlg, append(message, 'x'), sig); err == nil {
			t.Fatalf("Verify(%s) accepted a tampered message", hashAlg)
		}
	}
}

func TestSignAndVerifyDilithium3(t *testing.T) {
	pub, priv, err := GenerateDilithium3Keypair(&deterministicReader{})
	if err != nil {
		t.Fatalf("GenerateDilithium3Keypair: %v", err)
	}
	signerKey, err := SignerKeyDilithium3(pub)
	if err != nil {
		t.Fatalf("SignerKeyDilithium3: %v", err)
	}
	if !strings.HasPrefix(signerKey, "dilithium3:") {
		t.Fatalf("signer key %q lacks algorithm prefix", signerKey)
	}

	message := []byte("attest me")
	sig, err := SignDilithium3(message, HashSHA3256, priv)
	if err != nil {
		t.Fatalf("SignDilithium3: %v", err)
	}
	if err := Verify(signerKey, HashSHA3256, message, sig); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if err := Verify(signerKey, HashSHA3256, []byte("something else"), sig); err == nil {
		t.Fatal("Verify accepted a tampered message")
	}
}

func TestVerifyRejectsUnknownAlgorithms(t *testing.T) {
	seed := testSeed()
	priv := ed25519.NewKeyFromSeed(seed)
	if _, err := SignEd25519([]byte("m"), "md5", priv); err == nil {
		t.Fatal("expected an error for an unsupported hash algorithm")
	}
	if err := Verify("rsa:AAAA", HashSHA256, []byte("m"), "AAAA"); err == nil {
		t.Fatal("expected an error for an unsupported signature algorithm")
	}
	if err := Verify("no-colon-here", HashSHA256, []byte("m"), "AAAA"); err == nil {
		t.Fatal("expected an error for a malformed signer key")
	}
}
