// Package testkit runs the CAS conformance suite against any backend.
package testkit

import (
	"bytes"
	"testing"

	"github.com/ipfs/go-cid"

	"solsec.dev/securitytxt/cidutil"
	"solsec.dev/securitytxt/storage"
)

// NewCAS constructs a fresh, empty CAS for a test. Each returned instance
// must be isolated from the others.
type NewCAS func(t *testing.T) storage.CAS

// RunConformance exercises the storage.CAS contract against newCAS.
func RunConformance(t *testing.T, newCAS NewCAS) {
	t.Helper()

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		cas := newCAS(t)
		want := []byte("program dump bytes")

		id, err := cas.Put(want)
		if err != nil {
			t.Fatalf("Put: %v", err)
		}
		wantID, err := cidutil.Sum(want)
		if err != nil {
			t.Fatalf("cidutil.Sum: %v", err)
		}
		if !id.Equals(wantID) {
			t.Fatalf("Put CID = %s, want %s", id, wantID)
		}

		got, err := cas.Get(id)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("Get returned different bytes")
		}
	})

	t.Run("PutIdempotent", func(t *testing.T) {
		cas := newCAS(t)
		b := []byte("same bytes")
		id1, err := cas.Put(b)
		if err != nil {
			t.Fatalf("Put(1): %v", err)
		}
		id2, err := cas.Put(b)
		if err != nil {
			t.Fatalf("Put(2): %v", err)
		}
		if !id1.Equals(id2) {
			t.Fatalf("Put not idempotent: %s vs %s", id1, id2)
		}
	})

	t.Run("HasAndNotFound", func(t *testing.T) {
		cas := newCAS(t)
		b := []byte("missing object")
		id, err := cidutil.Sum(b)
		if err != nil {
			t.Fatalf("cidutil.Sum: %v", err)
		}
		if cas.Has(id) {
			t.Fatalf("Has = true for missing CID")
		}
		if _, err := cas.Get(id); !storage.IsNotFound(err) {
			t.Fatalf("Get missing: err = %v, want ErrNotFound", err)
		}
		if _, err := cas.Put(b); err != nil {
			t.Fatalf("Put: %v", err)
		}
		if !cas.Has(id) {
			t.Fatalf("Has = false after Put")
		}
	})

	t.Run("RejectUndefCID", func(t *testing.T) {
		cas := newCAS(t)
		var undef cid.Cid
		if cas.Has(undef) {
			t.Fatalf("Has should be false for undefined CID")
		}
		if _, err := cas.Get(undef); err == nil {
			t.Fatalf("Get should fail for undefined CID")
		}
	})
}
