package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ipfs/go-cid"

	"solsec.dev/securitytxt/cidutil"
	"solsec.dev/securitytxt/keys"
	"solsec.dev/securitytxt/model"
	"solsec.dev/securitytxt/resolver"
	"solsec.dev/securitytxt/securitytxt"
	"solsec.dev/securitytxt/solana"
	"solsec.dev/securitytxt/storage/localfs"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "decode":
		return cmdDecode(args[1:], out, errOut)
	case "encode":
		return cmdEncode(args[1:], out, errOut)
	case "query":
		return cmdQuery(args[1:], out, errOut)
	case "payload-cid":
		return cmdPayloadCID(args[1:], out, errOut)
	case "attest":
		return cmdAttest(args[1:], out, errOut)
	case "verify":
		return cmdVerify(args[1:], out, errOut)
	case "key":
		return cmdKey(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "sectxt: embed and extract security.txt metadata from Solana program binaries")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  sectxt decode [--no-elf] [--json] (<file> | --from-cache <CID> --cache-dir <dir>)")
	fmt.Fprintln(w, "  sectxt encode --name <n> --project-url <url> --contact <kind:value> ... --preferred-languages <l1,l2> --policy <url> [more field flags]")
	fmt.Fprintln(w, "  sectxt query [--url <cluster|RPC URL>] [--cache-dir <dir>] [--json] <program-id>")
	fmt.Fprintln(w, "  sectxt payload-cid <file>")
	fmt.Fprintln(w, "  sectxt attest (--seed-hex <64hex> | --signer <name> | --key-file <path>) [--hash-alg sha256|sha512|sha3-256] [--program-id <id>] <file>")
	fmt.Fprintln(w, "  sectxt verify --att <attestation.json> <file>")
	fmt.Fprintln(w, "  sectxt key init --name <name> [--seed-hex <64hex>] [--force]")
	fmt.Fprintln(w, "  sectxt key list")
	fmt.Fprintln(w, "  sectxt key export --name <name>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - decode takes an ELF program dump; --no-elf forces a raw marker scan")
	fmt.Fprintln(w, "  - query accepts cluster aliases: m(ainnet), t(estnet), d(evnet), l(ocalhost)")
	fmt.Fprintln(w, "  - --cache-dir keeps fetched binaries content-addressed for offline re-decoding")
	fmt.Fprintln(w, "  - encode writes the raw block to stdout; redirect it into your build")
	fmt.Fprintln(w, "  - attest/verify sign the payload bytes between the markers, not the whole file")
	fmt.Fprintln(w, "  - keys live under ~/.solsec/keys (0600 seed files)")
}

func cmdDecode(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var noELF bool
	var asJSON bool
	var fromCache string
	var cacheDir string
	fs.BoolVar(&noELF, "no-elf", false, "Skip the ELF section lookup and scan for markers")
	fs.BoolVar(&asJSON, "json", false, "Print the full report as JSON")
	fs.StringVar(&fromCache, "from-cache", "", "Decode a cached dump by CID instead of a file")
	fs.StringVar(&cacheDir, "cache-dir", "", "Cache directory (required with --from-cache)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	var data []byte
	switch {
	case fromCache != "":
		if fs.NArg() != 0 {
			fmt.Fprintln(errOut, "--from-cache cannot be combined with a file argument")
			return 2
		}
		if cacheDir == "" {
			fmt.Fprintln(errOut, "missing --cache-dir")
			return 2
		}
		id, err := cid.Decode(fromCache)
		if err != nil {
			fmt.Fprintf(errOut, "invalid --from-cache: %v\n", err)
			return 2
		}
		cache, err := localfs.New(cacheDir)
		if err != nil {
			fmt.Fprintf(errOut, "cache: %v\n", err)
			return 1
		}
		data, err = cache.Get(id)
		if err != nil {
			fmt.Fprintf(errOut, "cache get: %v\n", err)
			return 1
		}
	case fs.NArg() == 1:
		var err error
		data, err = os.ReadFile(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(fs.Arg(0)), err)
			return 1
		}
	default:
		fmt.Fprintln(errOut, "usage: sectxt decode [--no-elf] [--json] (<file> | --from-cache <CID> --cache-dir <dir>)")
		return 2
	}

	report, err := resolver.Report("", data, securitytxt.DecodeOptions{NoELF: noELF})
	if err != nil {
		fmt.Fprintf(errOut, "decode: %v\n", err)
		return 1
	}
	return printReport(report, asJSON, out, errOut)
}

func cmdEncode(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var txt securitytxt.SecurityTxt
	var languages string
	var auditors string
	var contacts stringList
	fs.StringVar(&txt.Name, "name", "", "Project name")
	fs.StringVar(&txt.ProjectURL, "project-url", "", "Project homepage URL")
	fs.StringVar(&txt.SourceCode, "source-code", "", "Source repository URL")
	fs.StringVar(&txt.Expiry, "expiry", "", "Expiry date (YYYY-MM-DD)")
	fs.StringVar(&languages, "preferred-languages", "", "Comma-separated language codes")
	fs.Var(&contacts, "contact", "Contact as kind:value (repeatable)")
	fs.StringVar(&auditors, "auditors", "", "Comma-separated auditor names")
	fs.StringVar(&txt.Encryption, "encryption", "", "PGP key, URL or dnssec reference")
	fs.StringVar(&txt.Acknowledgments, "acknowledgments", "", "Acknowledgments page URL")
	fs.StringVar(&txt.Policy, "policy", "", "Security policy URL")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(errOut, "encode takes no positional arguments")
		return 2
	}

	txt.PreferredLanguages = splitCommaList(languages)
	txt.Auditors = splitCommaList(auditors)
	for _, c := range contacts {
		kind, value, ok := strings.Cut(c, ":")
		if !ok {
			fmt.Fprintf(errOut, "invalid --contact %q: expected kind:value\n", c)
			return 2
		}
		txt.Contacts = append(txt.Contacts, securitytxt.Contact{
			Kind:  securitytxt.ContactKind(strings.TrimSpace(kind)),
			Value: value,
		})
	}

	block, err := securitytxt.Encode(&txt)
	if err != nil {
		fmt.Fprintf(errOut, "encode: %v\n", err)
		return 1
	}
	_, _ = out.Write(block)
	return 0
}

func cmdQuery(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var url string
	var cacheDir string
	var asJSON bool
	var timeout time.Duration
	fs.StringVar(&url, "url", "m", "RPC URL or cluster alias (m, t, d, l)")
	fs.StringVar(&cacheDir, "cache-dir", "", "Keep the fetched binary in this content-addressed cache")
	fs.BoolVar(&asJSON, "json", false, "Print the full report as JSON")
	fs.DurationVar(&timeout, "timeout", 60*time.Second, "Overall fetch and decode deadline")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: sectxt query [--url <cluster|RPC URL>] [--cache-dir <dir>] [--json] <program-id>")
		return 2
	}
	programID := fs.Arg(0)
	if _, err := solana.DecodePubkey(programID); err != nil {
		fmt.Fprintf(errOut, "invalid program id: %v\n", err)
		return 2
	}

	res := &resolver.Resolver{Fetcher: solana.NewClient(solana.ClusterURL(url))}
	if cacheDir != "" {
		cache, err := localfs.New(cacheDir)
		if err != nil {
			fmt.Fprintf(errOut, "cache: %v\n", err)
			return 1
		}
		res.Cache = cache
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	report, err := res.Resolve(ctx, programID)
	if err != nil {
		fmt.Fprintf(errOut, "query: %v\n", err)
		return 1
	}
	return printReport(report, asJSON, out, errOut)
}

func cmdPayloadCID(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("payload-cid", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: sectxt payload-cid <file>")
		return 2
	}
	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(fs.Arg(0)), err)
		return 1
	}
	res, err := securitytxt.Decode(data, securitytxt.DecodeOptions{})
	if err != nil {
		fmt.Fprintf(errOut, "decode: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, cidutil.SumString(data[res.Section.Start:res.Section.End]))
	return 0
}

func cmdAttest(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("attest", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var seedHex string
	var signerName string
	var keyFile string
	var hashAlg string
	var programID string
	fs.StringVar(&seedHex, "seed-hex", "", "ed25519 seed as 64 hex chars")
	fs.StringVar(&signerName, "signer", "", "Use a stored key by name (from 'sectxt key init')")
	fs.StringVar(&keyFile, "key-file", "", "Path to a seed file created by 'sectxt key init'")
	fs.StringVar(&hashAlg, "hash-alg", keys.HashSHA256, "Digest algorithm: sha256, sha512 or sha3-256")
	fs.StringVar(&programID, "program-id", "", "Program address the attestation refers to")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: sectxt attest (--seed-hex ... | --signer ... | --key-file ...) <file>")
		return 2
	}
	if seedHex == "" && signerName == "" && keyFile == "" {
		fmt.Fprintln(errOut, "missing signer: use --seed-hex, --signer, or --key-file")
		return 2
	}
	if seedHex != "" && (signerName != "" || keyFile != "") {
		fmt.Fprintln(errOut, "conflicting signer flags: --seed-hex cannot be combined with --signer or --key-file")
		return 2
	}
	if signerName != "" && keyFile != "" {
		fmt.Fprintln(errOut, "conflicting signer flags: --signer cannot be combined with --key-file")
		return 2
	}

	payload, ret := payloadFromFile(fs.Arg(0), errOut)
	if ret != 0 {
		return ret
	}

	ks, err := keys.NewKeyStore("")
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	seed, err := ks.LoadSeed(seedHex, signerName, keyFile)
	if err != nil {
		fmt.Fprintf(errOut, "invalid signer: %v\n", err)
		return 2
	}

	att, err := keys.AttestEd25519(payload, hashAlg, seed, programID)
	if err != nil {
		fmt.Fprintf(errOut, "attest: %v\n", err)
		return 1
	}
	doc, err := att.Marshal()
	if err != nil {
		fmt.Fprintf(errOut, "marshal: %v\n", err)
		return 1
	}
	fmt.Fprintf(errOut, "Signer-Key: %s\n", att.SignerKey)
	_, _ = out.Write(append(doc, '\n'))
	return 0
}

func cmdVerify(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var attPath string
	fs.StringVar(&attPath, "att", "", "Attestation JSON file")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if attPath == "" {
		fmt.Fprintln(errOut, "missing --att")
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: sectxt verify --att <attestation.json> <file>")
		return 2
	}

	attBytes, err := os.ReadFile(attPath)
	if err != nil {
		fmt.Fprintf(errOut, "read --att: %v\n", err)
		return 1
	}
	att, err := keys.ParseAttestation(attBytes)
	if err != nil {
		fmt.Fprintf(errOut, "invalid attestation: %v\n", err)
		return 1
	}

	payload, ret := payloadFromFile(fs.Arg(0), errOut)
	if ret != 0 {
		return ret
	}
	if err := att.Verify(payload); err != nil {
		fmt.Fprintf(errOut, "invalid: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, "OK")
	return 0
}

// payloadFromFile reads the file and resolves the security.txt payload
// range. Attestations cover those bytes so the same signature stays valid
// whether the block travels inside the ELF or as a raw dump.
func payloadFromFile(path string, errOut io.Writer) ([]byte, int) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(path), err)
		return nil, 1
	}
	res, err := securitytxt.Decode(data, securitytxt.DecodeOptions{})
	if err != nil {
		fmt.Fprintf(errOut, "decode: %v\n", err)
		return nil, 1
	}
	return data[res.Section.Start:res.Section.End], 0
}

func cmdKey(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printKeyUsage(errOut)
		return 2
	}
	switch args[0] {
	case "init":
		return cmdKeyInit(args[1:], out, errOut)
	case "list":
		return cmdKeyList(args[1:], out, errOut)
	case "export":
		return cmdKeyExport(args[1:], out, errOut)
	case "help", "-h", "--help":
		printKeyUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown key subcommand: %s\n\n", args[0])
		printKeyUsage(errOut)
		return 2
	}
}

func printKeyUsage(w io.Writer) {
	fmt.Fprintln(w, "sectxt key: minimal local key management")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  sectxt key init --name <name> [--seed-hex <64hex>] [--force]")
	fmt.Fprintln(w, "  sectxt key list")
	fmt.Fprintln(w, "  sectxt key export --name <name>")
}

func cmdKeyInit(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key init", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var name string
	var seedHex string
	var force bool
	fs.StringVar(&name, "name", "", "Key name (file under ~/.solsec/keys)")
	fs.StringVar(&seedHex, "seed-hex", "", "Optional ed25519 seed as 64 hex chars (for reproducible demos)")
	fs.BoolVar(&force, "force", false, "Overwrite an existing key file")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if name == "" {
		fmt.Fprintln(errOut, "missing --name")
		return 2
	}
	if err := keys.CheckKeyName(name); err != nil {
		fmt.Fprintf(errOut, "invalid --name: %v\n", err)
		return 2
	}
	ks, err := keys.NewKeyStore("")
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}

	var seed []byte
	if seedHex != "" {
		var derr error
		seed, derr = keys.ParseSeedHex(seedHex)
		if derr != nil {
			fmt.Fprintf(errOut, "invalid --seed-hex: %v\n", derr)
			return 2
		}
	} else {
		seed = make([]byte, ed25519.SeedSize)
		if _, err := rand.Read(seed); err != nil {
			fmt.Fprintf(errOut, "rand: %v\n", err)
			return 1
		}
	}

	signerKey, path, err := ks.Init(name, seed, force)
	if err != nil {
		fmt.Fprintf(errOut, "write key: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Created key: %s\n", signerKey)
	fmt.Fprintf(out, "Stored at: %s\n", path)
	return 0
}

func cmdKeyList(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key list", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	ks, err := keys.NewKeyStore("")
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	names, err := ks.List()
	if err != nil {
		fmt.Fprintf(errOut, "list keys: %v\n", err)
		return 1
	}
	for _, n := range names {
		fmt.Fprintln(out, n)
	}
	return 0
}

func cmdKeyExport(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key export", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var name string
	fs.StringVar(&name, "name", "", "Key name")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if name == "" {
		fmt.Fprintln(errOut, "missing --name")
		return 2
	}
	ks, err := keys.NewKeyStore("")
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	signerKey, err := ks.Export(name)
	if err != nil {
		fmt.Fprintf(errOut, "export key: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, signerKey)
	return 0
}

type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func splitCommaList(s string) []string {
	if s == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func printReport(report *model.Report, asJSON bool, out, errOut io.Writer) int {
	if asJSON {
		doc, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			fmt.Fprintf(errOut, "marshal: %v\n", err)
			return 1
		}
		_, _ = out.Write(append(doc, '\n'))
		return 0
	}
	_, _ = io.WriteString(out, report.SecurityTxt.SecurityTxt().String())
	if report.Source != "" {
		fmt.Fprintf(errOut, "Source: %s (bytes %d..%d)\n", report.Source, report.Range.Start, report.Range.End)
	}
	if report.DumpCID != "" {
		fmt.Fprintf(errOut, "Dump-CID: %s\n", report.DumpCID)
	}
	if !report.Valid {
		fmt.Fprintln(errOut, "warning: record fails validity rules:")
		for _, issue := range report.Issues {
			fmt.Fprintf(errOut, "  %s: %s\n", issue.RuleID, issue.Message)
		}
	}
	return 0
}
