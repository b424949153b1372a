package solana

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeRPC serves getAccountInfo from a fixed pubkey -> account map.
func fakeRPC(t *testing.T, accounts map[string]map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			Params []any  `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		if req.Method != "getAccountInfo" {
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"method not found"}}`)
			return
		}
		pubkey, _ := req.Params[0].(string)
		value, ok := accounts[pubkey]
		resp := map[string]any{"jsonrpc": "2.0", "id": 1}
		if ok {
			resp["result"] = map[string]any{"value": value}
		} else {
			resp["result"] = map[string]any{"value": nil}
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
}

func accountJSON(owner string, data []byte) map[string]any {
	return map[string]any{
		"data":       []string{base64.StdEncoding.EncodeToString(data), "base64"},
		"executable": true,
		"lamports":   1,
		"owner":      owner,
	}
}

func testPubkey(fill byte) string {
	s, err := EncodePubkey(bytes.Repeat([]byte{fill}, pubkeyLen))
	if err != nil {
		panic(err)
	}
	return s
}

func TestGetAccountInfo(t *testing.T) {
	pk := testPubkey(0xAB)
	srv := fakeRPC(t, map[string]map[string]any{
		pk: accountJSON(LoaderV2ID, []byte("account bytes")),
	})
	defer srv.Close()

	acct, err := NewClient(srv.URL).GetAccountInfo(context.Background(), pk)
	if err != nil {
		t.Fatalf("GetAccountInfo: %v", err)
	}
	if acct.Owner != LoaderV2ID || string(acct.Data) != "account bytes" {
		t.Fatalf("account = %+v", acct)
	}
}

func TestGetAccountInfoMissing(t *testing.T) {
	srv := fakeRPC(t, nil)
	defer srv.Close()

	_, err := NewClient(srv.URL).GetAccountInfo(context.Background(), testPubkey(0x01))
	if !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("err = %v, want ErrAccountNotFound", err)
	}
}

func TestGetAccountInfoRejectsBadPubkey(t *testing.T) {
	srv := fakeRPC(t, nil)
	defer srv.Close()

	if _, err := NewClient(srv.URL).GetAccountInfo(context.Background(), "not-base58-0OIl"); err == nil {
		t.Fatalf("expected error for invalid pubkey")
	}
}

func TestProgramELFUpgradeableIndirection(t *testing.T) {
	programID := testPubkey(0x10)
	dataAddrRaw := bytes.Repeat([]byte{0x20}, pubkeyLen)
	dataAddr, err := EncodePubkey(dataAddrRaw)
	if err != nil {
		t.Fatalf("EncodePubkey: %v", err)
	}
	elf := []byte{0x7f, 'E', 'L', 'F', 9, 9}

	srv := fakeRPC(t, map[string]map[string]any{
		programID: accountJSON(UpgradeableLoaderID, programAccountBytes(t, dataAddrRaw)),
		dataAddr:  accountJSON(UpgradeableLoaderID, programDataBytes(t, elf)),
	})
	defer srv.Close()

	got, err := NewClient(srv.URL).ProgramELF(context.Background(), programID)
	if err != nil {
		t.Fatalf("ProgramELF: %v", err)
	}
	if !bytes.Equal(got, elf) {
		t.Fatalf("elf = %v, want %v", got, elf)
	}
}

func TestProgramELFDirectLoader(t *testing.T) {
	programID := testPubkey(0x30)
	elf := []byte{0x7f, 'E', 'L', 'F'}
	srv := fakeRPC(t, map[string]map[string]any{
		programID: accountJSON(LoaderV2ID, elf),
	})
	defer srv.Close()

	got, err := NewClient(srv.URL).ProgramELF(context.Background(), programID)
	if err != nil {
		t.Fatalf("ProgramELF: %v", err)
	}
	if !bytes.Equal(got, elf) {
		t.Fatalf("elf = %v, want %v", got, elf)
	}
}

func TestProgramELFUnsupportedOwner(t *testing.T) {
	programID := testPubkey(0x40)
	srv := fakeRPC(t, map[string]map[string]any{
		programID: accountJSON(testPubkey(0x50), []byte("whatever")),
	})
	defer srv.Close()

	if _, err := NewClient(srv.URL).ProgramELF(context.Background(), programID); err == nil {
		t.Fatalf("expected error for unsupported owner")
	}
}

func TestClusterURL(t *testing.T) {
	cases := map[string]string{
		"mainnet-beta":        MainnetBetaURL,
		"m":                   MainnetBetaURL,
		"testnet":             TestnetURL,
		"t":                   TestnetURL,
		"devnet":              DevnetURL,
		"d":                   DevnetURL,
		"localhost":           LocalhostURL,
		"l":                   LocalhostURL,
		"https://rpc.example": "https://rpc.example",
	}
	for in, want := range cases {
		if got := ClusterURL(in); got != want {
			t.Fatalf("ClusterURL(%q) = %q, want %q", in, got, want)
		}
	}
}
