package keys

import (
	"encoding/hex"
	"path/filepath"
	"testing"
)

func TestKeyStoreInitAndExport(t *testing.T) {
	ks, err := NewKeyStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewKeyStore: %v", err)
	}
	seed := testSeed()

	signerKey, path, err := ks.Init("auditor", seed, false)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if filepath.Base(path) != "auditor.key" {
		t.Fatalf("unexpected key path %q", path)
	}
	if signerKey != SignerKeyFromSeed(seed) {
		t.Fatalf("Init returned signer key %q", signerKey)
	}

	exported, err := ks.Export("auditor")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if exported != signerKey {
		t.Fatalf("Export = %q, want %q", exported, signerKey)
	}
}

func TestKeyStoreInitRefusesOverwrite(t *testing.T) {
	ks, _ := NewKeyStore(t.TempDir())
	seed := testSeed()
	if _, _, err := ks.Init("k", seed, false); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, _, err := ks.Init("k", seed, false); err == nil {
		t.Fatal("second Init without overwrite should fail")
	}
	if _, _, err := ks.Init("k", seed, true); err != nil {
		t.Fatalf("Init with overwrite: %v", err)
	}
}

func TestKeyStoreLoadSeedPrecedence(t *testing.T) {
	ks, _ := NewKeyStore(t.TempDir())
	seed := testSeed()
	if _, _, err := ks.Init("named", seed, false); err != nil {
		t.Fatalf("Init: %v", err)
	}

	// Explicit hex wins over everything else.
	other := make([]byte, len(seed))
	other[0] = 0xff
	got, err := ks.LoadSeed(hex.EncodeToString(other), "named", "")
	if err != nil {
		t.Fatalf("LoadSeed(hex): %v", err)
	}
	if got[0] != 0xff {
		t.Fatal("LoadSeed ignored the explicit hex seed")
	}

	got, err = ks.LoadSeed("", "named", "")
	if err != nil {
		t.Fatalf("LoadSeed(name): %v", err)
	}
	if SignerKeyFromSeed(got) != SignerKeyFromSeed(seed) {
		t.Fatal("LoadSeed by name returned the wrong seed")
	}

	if _, err := ks.LoadSeed("", "", ""); err == nil {
		t.Fatal("LoadSeed with no source should fail")
	}
}

func TestKeyStoreList(t *testing.T) {
	ks, _ := NewKeyStore(t.TempDir())
	seed := testSeed()
	for _, name := range []string{"zeta", "alpha"} {
		if _, _, err := ks.Init(name, seed, false); err != nil {
			t.Fatalf("Init(%s): %v", name, err)
		}
	}
	names, err := ks.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Fatalf("List = %v", names)
	}
}

func TestCheckKeyName(t *testing.T) {
	for _, name := range []string{"auditor", "a-b_c9", "X"} {
		if err := CheckKeyName(name); err != nil {
			t.Errorf("CheckKeyName(%q): %v", name, err)
		}
	}
	for _, name := range []string{"", "a/b", "../k", "a b"} {
		if err := CheckKeyName(name); err == nil {
			t.Errorf("CheckKeyName(%q) should fail", name)
		}
	}
}
