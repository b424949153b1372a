package localfs

import (
	"testing"

	"solsec.dev/securitytxt/storage"
	"solsec.dev/securitytxt/storage/testkit"
)

func TestConformance(t *testing.T) {
	testkit.RunConformance(t, func(t *testing.T) storage.CAS {
		cas, err := New(t.TempDir())
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		return cas
	})
}

func TestNewRequiresRoot(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatalf("expected error for empty root")
	}
}
