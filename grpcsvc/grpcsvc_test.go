package grpcsvc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"solsec.dev/securitytxt/elfref/elftest"
	"solsec.dev/securitytxt/model"
	"solsec.dev/securitytxt/resolver"
	"solsec.dev/securitytxt/securitytxt"
	"solsec.dev/securitytxt/storage/memory"
)

type fakeFetcher struct {
	data map[string][]byte
}

func (f *fakeFetcher) ProgramELF(_ context.Context, programID string) ([]byte, error) {
	data, ok := f.data[programID]
	if !ok {
		return nil, status.Error(codes.NotFound, "no such program")
	}
	return data, nil
}

func testImage(t *testing.T) []byte {
	t.Helper()
	blob, err := securitytxt.Encode(&securitytxt.SecurityTxt{
		Name:               "Svc Test",
		ProjectURL:         "https://svc.example",
		PreferredLanguages: []string{"en"},
		Contacts:           []securitytxt.Contact{{Kind: securitytxt.ContactEmail, Value: "s@svc.example"}},
		Policy:             "https://svc.example/policy",
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	img := elftest.Image{Blob: blob}
	img.RefAddr = elftest.BlobVaddr(img, len(securitytxt.StartMarker))
	img.RefLen = uint64(len(blob) - len(securitytxt.StartMarker) - len(securitytxt.EndMarker))
	return elftest.Build(img)
}

func testClient(t *testing.T, srv SecurityTxtServer) *Client {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)
	gs := grpc.NewServer()
	RegisterSecurityTxtServer(gs, srv)
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	dialer := func(ctx context.Context, s string) (net.Conn, error) { return lis.Dial() }
	cc, err := grpc.DialContext(
		context.Background(),
		"bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("DialContext: %v", err)
	}
	t.Cleanup(func() { _ = cc.Close() })
	return &Client{cc: cc, client: NewSecurityTxtClient(cc), Timeout: 2 * time.Second}
}

func TestDecodeOverGRPC(t *testing.T) {
	client := testClient(t, &Server{})

	report, err := client.Decode(testImage(t))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if report.SecurityTxt.Name != "Svc Test" {
		t.Fatalf("record = %+v", report.SecurityTxt)
	}
	if report.Source != string(securitytxt.SourceELFSection) {
		t.Fatalf("source = %s", report.Source)
	}
	if !report.Valid {
		t.Fatalf("issues = %v", report.Issues)
	}
}

func TestDecodeNothingEmbedded(t *testing.T) {
	client := testClient(t, &Server{})

	_, err := client.Decode([]byte("just some file"))
	assertCoded(t, err, model.ErrNotFound)
}

func TestDecodeEmptyInput(t *testing.T) {
	client := testClient(t, &Server{})

	_, err := client.Decode(nil)
	assertCoded(t, err, model.ErrInvalidRequest)
}

func assertCoded(t *testing.T, err error, want model.ErrorCode) {
	t.Helper()
	var coded *model.CodedError
	if !errors.As(err, &coded) {
		t.Fatalf("error %v (%T) is not a coded error", err, err)
	}
	if coded.Code != want {
		t.Fatalf("code = %s, want %s", coded.Code, want)
	}
}

func TestQueryOverGRPC(t *testing.T) {
	image := testImage(t)
	client := testClient(t, &Server{Resolver: &resolver.Resolver{
		Fetcher: &fakeFetcher{data: map[string][]byte{"Prog11111": image}},
		Cache:   memory.New(),
	}})

	report, err := client.Query("Prog11111")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if report.ProgramID != "Prog11111" || report.DumpCID == "" {
		t.Fatalf("report = %+v", report)
	}
}

func TestQueryWithoutFetcher(t *testing.T) {
	client := testClient(t, &Server{})

	_, err := client.Query("Prog11111")
	assertCoded(t, err, model.ErrUpstream)
}
